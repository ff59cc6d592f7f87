package findings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		want   Severity
		wantOK bool
	}{
		{name: "Critical", input: "CRITICAL", want: SeverityCritical, wantOK: true},
		{name: "High lower case", input: "high", want: SeverityHigh, wantOK: true},
		{name: "Medium padded", input: " Medium ", want: SeverityMedium, wantOK: true},
		{name: "Low", input: "LOW", want: SeverityLow, wantOK: true},
		{name: "Info is not recognized", input: "INFO", want: SeverityUnknown},
		{name: "Empty", input: "", want: SeverityUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseSeverity(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestSeverityRankOrder(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Greater(t, SeverityLow.Rank(), SeverityUnknown.Rank())
	assert.Equal(t, 0, Severity(42).Rank())
}

func TestSeverityUnmarshalUnknownValue(t *testing.T) {
	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"SEVERE"`), &s))
	assert.Equal(t, SeverityUnknown, s)

	require.NoError(t, json.Unmarshal([]byte(`7`), &s))
	assert.Equal(t, SeverityUnknown, s)

	require.NoError(t, json.Unmarshal([]byte(`"critical"`), &s))
	assert.Equal(t, SeverityCritical, s)
}

func TestSeverityMarshal(t *testing.T) {
	data, err := json.Marshal(SeverityMedium)
	require.NoError(t, err)
	assert.JSONEq(t, `"MEDIUM"`, string(data))
}
