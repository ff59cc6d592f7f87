package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/form"
	"github.com/blockscope-dev/blockscope/internal/gate"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
	"github.com/blockscope-dev/blockscope/pkg/config"
	"github.com/blockscope-dev/blockscope/pkg/logger"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Format     string
	OutputPath string
	ScannerURL string
	FailIf     string
	Expand     bool
	NoColor    bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scan a contract and print the findings
  blockscope scan ./contracts/Vault.sol

  # Read the contract from stdin and show code snippets
  cat Vault.sol | blockscope scan --expand -

  # Write the findings as SARIF
  blockscope scan --format sarif --output vault.sarif ./contracts/Vault.sol

  # Fail the build when a critical or high finding is reported
  blockscope scan --fail-if 'counts["critical"] + counts["high"] > 0' ./contracts/Vault.sol`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--format/-f text|json|sarif] [--output/-o PATH] [--expand] [--fail-if EXPR] {PATH | -}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans a single contract and prints the findings",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !hasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		log.Error("invalid scan arguments", "error", err)
		return err
	}

	var g *gate.Gate
	if scanOptions.FailIf != "" {
		var err error
		if g, err = gate.Compile(scanOptions.FailIf); err != nil {
			log.Error("invalid gate expression", "error", err)
			return err
		}
	}

	code, err := readContract(args[0], cmd.InOrStdin())
	if err != nil {
		log.Error("failed to read contract", "error", err)
		return err
	}

	f := form.Form{Code: code}
	sub, ok := f.Submit()
	if !ok {
		return fmt.Errorf("%s", f.ValidationError)
	}

	cfg := *AppConfig
	cfg.Scanner.BaseURL = config.SetThen(scanOptions.ScannerURL, cfg.Scanner.BaseURL)
	client := scanclient.New(&cfg, log.Named("scanclient"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl := controller.New(client, log.Named("controller"))
	go ctrl.Run(runCtx)

	log.Info("scanning contract", "path", args[0], "scanner", cfg.Scanner.BaseURL)
	st, err := ctrl.Submit(runCtx, sub.Code, sub.Name)
	if err != nil {
		log.Error("scan command failed", "error", err)
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), &scanOptions, st); err != nil {
		log.Error("failed to write report", "error", err)
		return err
	}
	if st.LastError != "" {
		return fmt.Errorf("scan failed: %s", st.LastError)
	}

	if g != nil {
		matched, err := g.Evaluate(st.ContractName, st.Findings)
		if err != nil {
			log.Error("failed to evaluate gate", "error", err)
			return err
		}
		if matched {
			return &GateError{Expr: g.String(), Findings: len(st.Findings)}
		}
	}

	log.Info("scan command completed successfully", "findings", len(st.Findings))
	return nil
}

// hasFlags reports whether any flag was set on the command line.
func hasFlags(flags *pflag.FlagSet) bool {
	set := false
	flags.Visit(func(*pflag.Flag) { set = true })
	return set
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVarP(&scanOptions.Format, "format", "f", FormatText, "Output format: text, json or sarif.")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path to the file the report is written to. Defaults to stdout.")
	ScanCmd.Flags().StringVarP(&scanOptions.ScannerURL, "scanner-url", "u", "", "Base URL of the scanning service. Overrides scanner.base_url.")
	ScanCmd.Flags().StringVar(&scanOptions.FailIf, "fail-if", "", "CEL expression over findings, counts and contract; exit with code 2 when it is true.")
	ScanCmd.Flags().BoolVar(&scanOptions.Expand, "expand", false, "Show the code snippet of every finding in text output.")
	ScanCmd.Flags().BoolVar(&scanOptions.NoColor, "no-color", false, "Disable coloured text output.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
