package findings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Finding is a single security issue returned by the scanning service.
// Values are treated as immutable once decoded.
type Finding struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LineNumber  *int     `json:"line_number,omitempty"`
	Code        *string  `json:"code,omitempty"`

	// RawSeverity keeps the severity text exactly as it was received.
	RawSeverity string `json:"-"`
}

// UnmarshalJSON decodes a finding and remembers the raw severity value.
func (f *Finding) UnmarshalJSON(data []byte) error {
	type plain Finding
	aux := struct {
		*plain
		RawSeverity json.RawMessage `json:"severity"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	f.Severity = SeverityUnknown
	if len(aux.RawSeverity) > 0 {
		var raw string
		if err := json.Unmarshal(aux.RawSeverity, &raw); err == nil {
			f.RawSeverity = raw
		} else {
			f.RawSeverity = string(aux.RawSeverity)
		}
		f.Severity, _ = ParseSeverity(f.RawSeverity)
	}
	return nil
}

// HasLine reports whether the finding is anchored to a source line.
func (f Finding) HasLine() bool {
	return f.LineNumber != nil
}

// HasCode reports whether the finding carries a source snippet.
func (f Finding) HasCode() bool {
	return f.Code != nil
}

// Line returns the line number or 0 when the finding is not anchored.
func (f Finding) Line() int {
	if f.LineNumber == nil {
		return 0
	}
	return *f.LineNumber
}

// Snippet returns the source snippet or an empty string.
func (f Finding) Snippet() string {
	if f.Code == nil {
		return ""
	}
	return *f.Code
}

// Validate reports data errors in a finding received from the scanning service.
// Invalid findings are still displayed; the error is only meant for logging.
func (f Finding) Validate() error {
	var problems []string
	if !f.Severity.Known() {
		problems = append(problems, fmt.Sprintf("unrecognized severity %q", f.RawSeverity))
	}
	if strings.TrimSpace(f.Title) == "" {
		problems = append(problems, "empty title")
	}
	if f.LineNumber != nil && *f.LineNumber <= 0 {
		problems = append(problems, fmt.Sprintf("line number must be positive: %d", *f.LineNumber))
	}
	if len(problems) > 0 {
		return fmt.Errorf("malformed finding: %s", strings.Join(problems, ", "))
	}
	return nil
}

// SeverityBreakdown counts findings per recognized level. Unknown levels are counted
// under "unknown" and every finding under "total".
func SeverityBreakdown(list []Finding) map[string]int {
	breakdown := map[string]int{
		"critical": 0,
		"high":     0,
		"medium":   0,
		"low":      0,
		"unknown":  0,
		"total":    0,
	}
	for _, f := range list {
		breakdown[strings.ToLower(f.Severity.String())]++
		breakdown["total"]++
	}
	return breakdown
}
