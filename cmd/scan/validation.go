package scan

import (
	"fmt"
	"os"
	"strings"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one contract path (or '-' for stdin) must be specified")
	}

	options.Format = strings.ToLower(strings.TrimSpace(options.Format))
	switch options.Format {
	case FormatText, FormatJSON, FormatSARIF:
	default:
		return fmt.Errorf("unsupported format %q: use text, json or sarif", options.Format)
	}

	if args[0] == stdinPath {
		return nil
	}
	s, err := os.Stat(args[0])
	if os.IsNotExist(err) {
		return fmt.Errorf("the contract path does not exist: %v", args[0])
	}
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, only single contract files can be scanned", args[0])
	}
	return nil
}
