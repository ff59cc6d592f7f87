package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
	"github.com/blockscope-dev/blockscope/internal/web"
	"github.com/blockscope-dev/blockscope/pkg/config"
	"github.com/blockscope-dev/blockscope/pkg/logger"
)

// RunOptionsServe holds the arguments for the serve command.
type RunOptionsServe struct {
	ListenAddr      string
	ScannerURL      string
	RefreshInterval time.Duration
}

// Global variables for configuration and command arguments
var (
	AppConfig         *config.Config
	serveOptions      RunOptionsServe
	exampleServeUsage = `  # Serve the scanner UI on the configured address
  blockscope serve

  # Serve on a custom address against a remote scanning service
  blockscope serve --listen 0.0.0.0:9090 --scanner-url https://scanner.example.com`
)

// ServeCmd represents the serve command.
var ServeCmd = &cobra.Command{
	Use:                   "serve [--listen/-l ADDR] [--scanner-url/-u URL] [--refresh DURATION]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleServeUsage,
	Short:                 "Serves the scan workflow as a web page",
	Args:                  cobra.NoArgs,
	RunE:                  runServeCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runServeCommand executes the serve command.
func runServeCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-serve")

	if err := validateServeArgs(&serveOptions, AppConfig); err != nil {
		log.Error("invalid serve arguments", "error", err)
		return err
	}
	cfg := applyServeOptions(AppConfig, &serveOptions)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := scanclient.New(cfg, log.Named("scanclient"))
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Health(healthCtx); err != nil {
		log.Warn("scanning service is not reachable yet", "url", cfg.Scanner.BaseURL, "error", err)
	}
	cancel()

	ctrl := controller.New(client, log.Named("controller"))
	go ctrl.Run(ctx)

	srv, err := web.NewServer(ctrl, log.Named("web"), cfg.Server.RefreshInterval)
	if err != nil {
		log.Error("failed to create web front-end", "error", err)
		return err
	}

	log.Info("open the scanner in your browser", "url", "http://"+cfg.Server.ListenAddr, "scanner", cfg.Scanner.BaseURL)
	if err := srv.ListenAndServe(ctx, cfg.Server.ListenAddr); err != nil {
		log.Error("serve command failed", "error", err)
		return err
	}

	log.Info("serve command completed successfully")
	return nil
}

// Initialize flags for the serve command.
func init() {
	ServeCmd.Flags().StringVarP(&serveOptions.ListenAddr, "listen", "l", "", "Address to serve the web page on. Overrides server.listen_addr.")
	ServeCmd.Flags().StringVarP(&serveOptions.ScannerURL, "scanner-url", "u", "", "Base URL of the scanning service. Overrides scanner.base_url.")
	ServeCmd.Flags().DurationVar(&serveOptions.RefreshInterval, "refresh", 0, "How often the page reloads while a scan is running. Overrides server.refresh_interval.")
	ServeCmd.Flags().BoolP("help", "h", false, "Show help for the serve command.")
}
