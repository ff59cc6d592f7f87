package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

func sampleFindings() []findings.Finding {
	return []findings.Finding{
		{Severity: findings.SeverityLow, Title: "Floating pragma"},
		{Severity: findings.SeverityCritical, Title: "Unprotected selfdestruct", Code: strPtr("selfdestruct(owner);")},
		{Severity: findings.SeverityHigh, Title: "Reentrancy", LineNumber: intPtr(12)},
	}
}

func TestSelectResultsLoadingTakesPriority(t *testing.T) {
	for _, list := range [][]findings.Finding{nil, {}, sampleFindings()} {
		r := SelectResults(list, true, "UploadedContract.sol")
		assert.Equal(t, ResultsLoading, r.Kind)
		assert.Empty(t, r.Items)
		assert.Empty(t, r.Header)
		assert.Equal(t, LoadingText, r.Message())
	}
}

func TestSelectResultsEmpty(t *testing.T) {
	for _, list := range [][]findings.Finding{nil, {}} {
		r := SelectResults(list, false, "UploadedContract.sol")
		assert.Equal(t, ResultsEmpty, r.Kind)
		assert.True(t, r.IsEmpty())
		assert.Equal(t, EmptyText, r.Message())
	}
}

func TestSelectResultsListKeepsOrder(t *testing.T) {
	list := sampleFindings()
	r := SelectResults(list, false, "UploadedContract.sol")

	require.Equal(t, ResultsList, r.Kind)
	assert.Equal(t, "Security Findings – UploadedContract.sol", r.Header)
	require.Len(t, r.Items, len(list))
	for i, item := range r.Items {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, list[i].Title, item.Title())
		assert.False(t, item.Expanded)
	}
}

func TestResultsWithExpanded(t *testing.T) {
	r := SelectResults(sampleFindings(), false, "C.sol").WithExpanded(map[int]bool{1: true, 2: true})

	assert.False(t, r.Items[0].ShowCode())
	assert.True(t, r.Items[1].ShowCode())
	assert.Equal(t, "selfdestruct(owner);", r.Items[1].Code())
	assert.True(t, r.Items[2].Expanded)
	assert.False(t, r.Items[2].ShowCode(), "no snippet without code")

	empty := SelectResults(nil, false, "C.sol").WithExpanded(map[int]bool{0: true})
	assert.Equal(t, ResultsEmpty, empty.Kind)
}
