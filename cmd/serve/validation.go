package serve

import (
	"fmt"

	"github.com/blockscope-dev/blockscope/pkg/config"
)

// validateServeArgs validates the arguments provided to the serve command.
func validateServeArgs(options *RunOptionsServe, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}
	merged := applyServeOptions(cfg, options)
	if err := config.ValidateScannerConfig(&merged.Scanner); err != nil {
		return fmt.Errorf("the 'scanner-url' flag is invalid: %w", err)
	}
	if err := config.ValidateServerConfig(&merged.Server); err != nil {
		return fmt.Errorf("the 'listen' or 'refresh' flag is invalid: %w", err)
	}
	return nil
}

// applyServeOptions returns a copy of cfg with the command line overrides applied.
func applyServeOptions(cfg *config.Config, options *RunOptionsServe) *config.Config {
	merged := *cfg
	merged.Server.ListenAddr = config.SetThen(options.ListenAddr, cfg.Server.ListenAddr)
	merged.Server.RefreshInterval = config.SetThen(options.RefreshInterval, cfg.Server.RefreshInterval)
	merged.Scanner.BaseURL = config.SetThen(options.ScannerURL, cfg.Scanner.BaseURL)
	return &merged
}
