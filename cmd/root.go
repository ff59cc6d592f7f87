package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockscope-dev/blockscope/cmd/scan"
	"github.com/blockscope-dev/blockscope/cmd/serve"
	"github.com/blockscope-dev/blockscope/cmd/version"
	"github.com/blockscope-dev/blockscope/pkg/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "blockscope [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "BlockScope is a client for the smart contract security scanning service.",
		Long: `BlockScope submits smart contract source code to the scanning service and shows
	the categorized findings, either in the browser (serve) or in the terminal (scan).
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.AddCommand(serve.ServeCmd)
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var gateErr *scan.GateError
		if errors.As(err, &gateErr) {
			fmt.Fprintf(os.Stderr, "%v\n", gateErr)
			return scan.ExitCodeGate
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	required := cfgFile != ""
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath
	}
	AppConfig, err = config.LoadConfig(cfgFile, required)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	serve.Init(AppConfig)
	scan.Init(AppConfig)
	version.Init(AppConfig)
}
