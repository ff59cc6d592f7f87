package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
)

// DefaultErrorMessage is shown when a failure carries no message.
const DefaultErrorMessage = "Scan failed"

// Reduce applies an event to a state and returns the next state. The input state is
// never modified. A non-nil StartScan means the scanning service must be called.
func Reduce(s State, e Event) (State, *StartScan) {
	next := s.Clone()

	switch ev := e.(type) {
	case SubmitScan:
		// Only one scan may be outstanding, and submissions come from the input page only.
		if s.Loading || s.Mode != ModeInput {
			return s, nil
		}
		next.Loading = true
		next.LastError = ""
		next.ContractName = ev.Name
		return next, &StartScan{Code: ev.Code, Name: ev.Name}

	case ScanSucceeded:
		if !s.Loading {
			return s, nil
		}
		next.Findings = []findings.Finding{}
		next.Metadata = scanclient.Metadata{}
		if ev.Result != nil {
			if ev.Result.Findings != nil {
				next.Findings = append(next.Findings, ev.Result.Findings...)
			}
			next.Metadata = ev.Result.Metadata
		}
		next.Expanded = map[int]bool{}
		next.ScannedAt = ev.At
		next.Mode = ModeResults
		next.Loading = false
		return next, nil

	case ScanFailed:
		if !s.Loading {
			return s, nil
		}
		next.LastError = ErrorMessage(ev.Err)
		next.Loading = false
		return next, nil

	case StartNewScan:
		if s.Loading || s.Mode != ModeResults {
			return s, nil
		}
		next.Mode = ModeInput
		next.Findings = []findings.Finding{}
		next.Expanded = map[int]bool{}
		next.Metadata = scanclient.Metadata{}
		next.ScannedAt = time.Time{}
		next.LastError = ""
		return next, nil

	case ToggleFinding:
		if ev.Index < 0 || ev.Index >= len(s.Findings) {
			return s, nil
		}
		next.Expanded[ev.Index] = !next.Expanded[ev.Index]
		return next, nil

	case DismissError:
		next.LastError = ""
		return next, nil
	}

	return s, nil
}

// ErrorMessage converts a scanning failure into the text shown to the user.
// Messages reported by the scanning service are used verbatim.
func ErrorMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}
	var apiErr *scanclient.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return DefaultErrorMessage
}
