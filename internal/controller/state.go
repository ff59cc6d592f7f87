package controller

import (
	"time"

	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
)

// Mode is the coarse view state of the scan workflow.
type Mode int

const (
	ModeInput Mode = iota
	ModeResults
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeResults:
		return "results"
	default:
		return "unknown"
	}
}

// State is the scan workflow state. The controller owns the only live instance;
// everything else works on copies.
type State struct {
	Mode         Mode
	Loading      bool
	ContractName string
	Findings     []findings.Finding
	LastError    string

	// Expanded holds the disclosure state of each finding, keyed by index.
	Expanded  map[int]bool
	Metadata  scanclient.Metadata
	ScannedAt time.Time

	// Version increases with every event the controller applies.
	Version uint64
}

// NewState returns the initial state.
func NewState() State {
	return State{
		Mode:     ModeInput,
		Findings: []findings.Finding{},
		Expanded: map[int]bool{},
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Findings = append([]findings.Finding(nil), s.Findings...)
	if out.Findings == nil {
		out.Findings = []findings.Finding{}
	}
	out.Expanded = make(map[int]bool, len(s.Expanded))
	for k, v := range s.Expanded {
		out.Expanded[k] = v
	}
	if s.Metadata.SeverityBreakdown != nil {
		out.Metadata.SeverityBreakdown = make(map[string]int, len(s.Metadata.SeverityBreakdown))
		for k, v := range s.Metadata.SeverityBreakdown {
			out.Metadata.SeverityBreakdown[k] = v
		}
	}
	return out
}
