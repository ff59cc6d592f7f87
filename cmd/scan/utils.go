package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/internal/sarif"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
	"github.com/blockscope-dev/blockscope/internal/terminal"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"

	// ExitCodeGate is returned when the --fail-if expression holds.
	ExitCodeGate = 2

	stdinPath = "-"
)

// GateError reports that the --fail-if condition matched.
type GateError struct {
	Expr     string
	Findings int
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate %q matched (%d findings)", e.Expr, e.Findings)
}

// JSONReport is the document written by --format json.
type JSONReport struct {
	ContractName string             `json:"contract_name"`
	Findings     []findings.Finding `json:"findings"`
	Error        string             `json:"error,omitempty"`
	scanclient.Metadata
}

// readContract reads the contract source from path, or from stdin when path is "-".
func readContract(path string, stdin io.Reader) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(data), nil
}

// writeReport renders the final scan state in the requested format to the output file or to out.
func writeReport(out io.Writer, options *RunOptionsScan, st controller.State) error {
	w := out
	if options.OutputPath != "" {
		file, err := os.Create(options.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch options.Format {
	case FormatJSON:
		report := JSONReport{
			ContractName: st.ContractName,
			Findings:     st.Findings,
			Error:        st.LastError,
			Metadata:     st.Metadata,
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatSARIF:
		if st.LastError != "" {
			return terminal.Render(out, st, terminal.Options{NoColor: options.NoColor})
		}
		return sarif.Write(w, st.ContractName, st.Findings)
	default:
		return terminal.Render(w, st, terminal.Options{Expand: options.Expand, NoColor: options.NoColor || options.OutputPath != ""})
	}
}
