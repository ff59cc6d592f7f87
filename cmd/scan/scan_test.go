package scan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/findings"
)

func writeContract(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Vault.sol")
	require.NoError(t, os.WriteFile(path, []byte("contract Vault {}"), 0o600))
	return path
}

func TestValidateScanArgs(t *testing.T) {
	contract := writeContract(t)

	testCases := []struct {
		name    string
		format  string
		args    []string
		wantErr string
	}{
		{name: "File", format: "text", args: []string{contract}},
		{name: "Stdin", format: "JSON", args: []string{"-"}},
		{name: "No path", format: "text", wantErr: "exactly one contract path"},
		{name: "Two paths", format: "text", args: []string{contract, contract}, wantErr: "exactly one contract path"},
		{name: "Unknown format", format: "xml", args: []string{contract}, wantErr: "unsupported format"},
		{name: "Missing file", format: "text", args: []string{contract + ".missing"}, wantErr: "does not exist"},
		{name: "Directory", format: "text", args: []string{filepath.Dir(contract)}, wantErr: "is a directory"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := RunOptionsScan{Format: tc.format}
			err := validateScanArgs(&opts, tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(tc.format), opts.Format)
		})
	}
}

func TestReadContract(t *testing.T) {
	contract := writeContract(t)

	code, err := readContract(contract, nil)
	require.NoError(t, err)
	assert.Equal(t, "contract Vault {}", code)

	code, err = readContract("-", strings.NewReader("contract Stdin {}"))
	require.NoError(t, err)
	assert.Equal(t, "contract Stdin {}", code)

	_, err = readContract(contract+".missing", nil)
	assert.Error(t, err)
}

func resultsState() controller.State {
	line := 7
	st := controller.NewState()
	st.Mode = controller.ModeResults
	st.ContractName = "UploadedContract.sol"
	st.Findings = []findings.Finding{
		{Severity: findings.SeverityHigh, Title: "Reentrancy", Description: "External call before state update", LineNumber: &line},
	}
	return st
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, &RunOptionsScan{Format: FormatJSON}, resultsState()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "UploadedContract.sol", got["contract_name"])
	list, ok := got["findings"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "HIGH", list[0].(map[string]interface{})["severity"])
	assert.NotContains(t, got, "error")
}

func TestWriteReportSARIFToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.sarif")
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, &RunOptionsScan{Format: FormatSARIF, OutputPath: out}, resultsState()))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.1.0"`)
	assert.Contains(t, string(data), "Reentrancy")
}

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, &RunOptionsScan{Format: FormatText, NoColor: true}, resultsState()))
	assert.Contains(t, buf.String(), "Security Findings – UploadedContract.sol")
	assert.Contains(t, buf.String(), "Reentrancy")
}

func TestGateError(t *testing.T) {
	err := &GateError{Expr: `counts["high"] > 0`, Findings: 3}
	assert.Equal(t, `gate "counts[\"high\"] > 0" matched (3 findings)`, err.Error())
}
