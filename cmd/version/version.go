package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/blockscope-dev/blockscope/internal/scanclient"
	"github.com/blockscope-dev/blockscope/pkg/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds build information and, when requested, the scanning service status.
type Versions struct {
	Version       string         `json:"version"`
	GolangVersion string         `json:"golang_version"`
	BuildTime     string         `json:"build_time"`
	Scanner       *ScannerStatus `json:"scanner,omitempty"`
}

// ScannerStatus describes the configured scanning service.
type ScannerStatus struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	var (
		asJSON       bool
		checkScanner bool
	)
	cmd := &cobra.Command{
		Use:                   "version [--json] [--check-scanner]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			versions := Versions{
				Version:       CoreVersion,
				GolangVersion: GolangVersion,
				BuildTime:     BuildTime,
			}
			if checkScanner && AppConfig != nil {
				versions.Scanner = probeScanner(cmd.Context(), AppConfig)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(versions)
			}
			printVersionInfo(cmd.OutOrStdout(), &versions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the version information as JSON.")
	cmd.Flags().BoolVar(&checkScanner, "check-scanner", false, "Probe the health endpoint of the configured scanning service.")
	return cmd
}

func probeScanner(ctx context.Context, cfg *config.Config) *ScannerStatus {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &ScannerStatus{URL: cfg.Scanner.BaseURL}
	client := scanclient.New(cfg, hclog.NewNullLogger())
	if err := client.Health(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Reachable = true
	return status
}

// printVersionInfo prints the version information for the application.
func printVersionInfo(w io.Writer, versions *Versions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Version)
	fmt.Fprintf(w, "Go Version: %s\n", versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.BuildTime)
	if s := versions.Scanner; s != nil {
		state := "reachable"
		if !s.Reachable {
			state = "unreachable: " + s.Error
		}
		fmt.Fprintf(w, "Scanner: %s (%s)\n", s.URL, state)
	}
}
