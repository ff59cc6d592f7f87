package controller

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
)

func intPtr(v int) *int { return &v }

func loadingState() State {
	s, effect := Reduce(NewState(), SubmitScan{Code: "contract C {}", Name: "UploadedContract.sol"})
	if effect == nil {
		panic("submission was not accepted")
	}
	return s
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, ModeInput, s.Mode)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Findings)
	assert.Empty(t, s.LastError)
}

func TestReduceSubmitScan(t *testing.T) {
	initial := NewState()
	initial.LastError = "previous failure"

	next, effect := Reduce(initial, SubmitScan{Code: "contract C {}", Name: "UploadedContract.sol"})

	require.NotNil(t, effect)
	assert.Equal(t, StartScan{Code: "contract C {}", Name: "UploadedContract.sol"}, *effect)
	assert.True(t, next.Loading)
	assert.Empty(t, next.LastError)
	assert.Equal(t, "UploadedContract.sol", next.ContractName)
	assert.Equal(t, ModeInput, next.Mode)
	assert.Equal(t, "previous failure", initial.LastError, "input state must not be modified")
}

func TestReduceSubmitWhileLoadingIsIgnored(t *testing.T) {
	s := loadingState()

	next, effect := Reduce(s, SubmitScan{Code: "contract D {}", Name: "Other.sol"})

	assert.Nil(t, effect)
	assert.Equal(t, s, next)
}

func TestReduceSubmitFromResultsIsIgnored(t *testing.T) {
	s, _ := Reduce(loadingState(), ScanSucceeded{Result: &scanclient.ScanResult{}})
	require.Equal(t, ModeResults, s.Mode)

	_, effect := Reduce(s, SubmitScan{Code: "contract D {}", Name: "Other.sol"})
	assert.Nil(t, effect)
}

func TestReduceScanSucceeded(t *testing.T) {
	list := []findings.Finding{
		{Severity: findings.SeverityHigh, Title: "Reentrancy", LineNumber: intPtr(12)},
		{Severity: findings.SeverityLow, Title: "Floating pragma"},
		{Severity: findings.SeverityCritical, Title: "Unprotected selfdestruct"},
	}
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	next, effect := Reduce(loadingState(), ScanSucceeded{
		Result: &scanclient.ScanResult{Findings: list, Metadata: scanclient.Metadata{Summary: "3 issues"}},
		At:     at,
	})

	assert.Nil(t, effect)
	assert.Equal(t, ModeResults, next.Mode)
	assert.False(t, next.Loading)
	assert.Equal(t, list, next.Findings, "findings keep response order")
	assert.Equal(t, "3 issues", next.Metadata.Summary)
	assert.Equal(t, at, next.ScannedAt)
	assert.Empty(t, next.Expanded)
}

func TestReduceScanSucceededWithoutFindings(t *testing.T) {
	for name, res := range map[string]*scanclient.ScanResult{
		"nil result":   nil,
		"nil findings": {},
	} {
		t.Run(name, func(t *testing.T) {
			next, _ := Reduce(loadingState(), ScanSucceeded{Result: res})
			assert.Equal(t, ModeResults, next.Mode)
			assert.NotNil(t, next.Findings)
			assert.Empty(t, next.Findings)
		})
	}
}

func TestReduceScanFailed(t *testing.T) {
	s := loadingState()
	s.Findings = []findings.Finding{{Severity: findings.SeverityLow, Title: "kept"}}

	next, effect := Reduce(s, ScanFailed{Err: errors.New("Service unavailable")})

	assert.Nil(t, effect)
	assert.Equal(t, ModeInput, next.Mode)
	assert.False(t, next.Loading)
	assert.Equal(t, "Service unavailable", next.LastError)
	assert.Equal(t, s.Findings, next.Findings)
}

func TestReduceLateResolutionIsIgnored(t *testing.T) {
	s := NewState()

	next, _ := Reduce(s, ScanSucceeded{Result: &scanclient.ScanResult{}})
	assert.Equal(t, s, next)

	next, _ = Reduce(s, ScanFailed{Err: errors.New("late")})
	assert.Equal(t, s, next)
}

func TestReduceStartNewScan(t *testing.T) {
	s, _ := Reduce(loadingState(), ScanSucceeded{Result: &scanclient.ScanResult{
		Findings: []findings.Finding{{Severity: findings.SeverityHigh, Title: "t"}},
	}})
	s, _ = Reduce(s, ToggleFinding{Index: 0})

	next, effect := Reduce(s, StartNewScan{})

	assert.Nil(t, effect)
	assert.Equal(t, ModeInput, next.Mode)
	assert.Empty(t, next.Findings, "stale findings are never kept in input mode")
	assert.Empty(t, next.Expanded)

	again, _ := Reduce(next, StartNewScan{})
	assert.Equal(t, next, again)
}

func TestReduceToggleFinding(t *testing.T) {
	s, _ := Reduce(loadingState(), ScanSucceeded{Result: &scanclient.ScanResult{
		Findings: []findings.Finding{{Severity: findings.SeverityHigh, Title: "a"}, {Severity: findings.SeverityLow, Title: "b"}},
	}})

	expanded, _ := Reduce(s, ToggleFinding{Index: 1})
	assert.True(t, expanded.Expanded[1])
	assert.False(t, expanded.Expanded[0])
	assert.False(t, s.Expanded[1], "input state must not be modified")

	collapsed, _ := Reduce(expanded, ToggleFinding{Index: 1})
	assert.False(t, collapsed.Expanded[1])

	for _, idx := range []int{-1, 2, 100} {
		t.Run(fmt.Sprintf("index %d", idx), func(t *testing.T) {
			next, _ := Reduce(s, ToggleFinding{Index: idx})
			assert.Equal(t, s, next)
		})
	}
}

func TestReduceDismissError(t *testing.T) {
	s, _ := Reduce(loadingState(), ScanFailed{Err: errors.New("boom")})
	next, _ := Reduce(s, DismissError{})
	assert.Empty(t, next.LastError)
}

type emptyMessageError struct{}

func (emptyMessageError) Error() string { return " " }

func TestErrorMessage(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{name: "Plain error", err: errors.New("Service unavailable"), want: "Service unavailable"},
		{name: "API error", err: scanclient.NewAPIError(400, "file is required"), want: "file is required"},
		{name: "Wrapped API error", err: fmt.Errorf("scan: %w", scanclient.NewAPIError(400, "file is required")), want: "file is required"},
		{name: "API error without message", err: scanclient.NewAPIError(502, ""), want: "scanning service returned 502 Bad Gateway"},
		{name: "Blank message", err: emptyMessageError{}, want: DefaultErrorMessage},
		{name: "Nil", err: nil, want: DefaultErrorMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorMessage(tc.err))
		})
	}
}
