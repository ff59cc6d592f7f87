package scanclient

import (
	"encoding/json"
	"strings"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

// ScanRequest is the body sent to the scanning service.
type ScanRequest struct {
	SourceCode   string `json:"source_code"`
	ContractName string `json:"contract_name"`
}

// ScanResult is a decoded scan response.
type ScanResult struct {
	Findings []findings.Finding `json:"findings"`
	Metadata
}

// Metadata holds the optional report fields the service may send along with findings.
type Metadata struct {
	ScanID               ScanID         `json:"scan_id,omitempty"`
	ContractName         string         `json:"contract_name,omitempty"`
	OverallScore         *float64       `json:"overall_score,omitempty"`
	Summary              string         `json:"summary,omitempty"`
	VulnerabilitiesCount *int           `json:"vulnerabilities_count,omitempty"`
	SeverityBreakdown    map[string]int `json:"severity_breakdown,omitempty"`
}

// ScanID accepts both numeric and string identifiers.
type ScanID string

func (id *ScanID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ScanID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ScanID(n.String())
	return nil
}

// errorBody covers the error shapes the service produces: {"detail": "..."},
// {"detail": [{"msg": "..."}]} for validation errors and {"message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (b errorBody) text() string {
	if len(b.Detail) > 0 {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(b.Detail, &items); err == nil {
			var msgs []string
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
