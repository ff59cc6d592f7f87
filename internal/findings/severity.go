package findings

import (
	"encoding/json"
	"strings"
)

// Severity is the risk level reported for a finding.
type Severity int

const (
	// SeverityUnknown marks a value the scanning service sent that is not one of the known levels.
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities lists the recognized levels from the highest risk to the lowest.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// String returns the wire representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// Rank orders severities by descending risk: CRITICAL ranks highest, unknown values lowest.
func (s Severity) Rank() int {
	if !s.Known() {
		return 0
	}
	return int(s)
}

// Known reports whether s is one of the four recognized levels.
func (s Severity) Known() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

// ParseSeverity converts a wire value into a Severity. The match is case-insensitive
// and ignores surrounding whitespace; anything else yields SeverityUnknown and false.
func ParseSeverity(raw string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CRITICAL":
		return SeverityCritical, true
	case "HIGH":
		return SeverityHigh, true
	case "MEDIUM":
		return SeverityMedium, true
	case "LOW":
		return SeverityLow, true
	default:
		return SeverityUnknown, false
	}
}

// MarshalJSON writes the severity as its upper-case name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON never fails on an unrecognized level, it decodes to SeverityUnknown instead.
// A single malformed finding must not fail the whole response.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = SeverityUnknown
		return nil
	}
	*s, _ = ParseSeverity(raw)
	return nil
}
