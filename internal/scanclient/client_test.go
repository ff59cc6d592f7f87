package scanclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		HTTPClient: config.HTTPClient{Timeout: 2 * time.Second},
		Scanner: config.Scanner{
			BaseURL:    srv.URL,
			ScanPath:   config.DefaultScanPath,
			HealthPath: config.DefaultHealthPath,
		},
	}
	return New(cfg, hclog.NewNullLogger())
}

func TestScanContractSuccess(t *testing.T) {
	var got ScanRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, config.DefaultScanPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"contract_name": "UploadedContract.sol",
			"scan_id": 17,
			"overall_score": 72.5,
			"summary": "1 issue found",
			"findings": [
				{"severity": "HIGH", "title": "Reentrancy", "description": "...", "line_number": 12},
				{"severity": "BOGUS", "title": "Odd"}
			]
		}`))
	})

	result, err := client.ScanContract(context.Background(), "contract C {}", "UploadedContract.sol")
	require.NoError(t, err)

	assert.Equal(t, ScanRequest{SourceCode: "contract C {}", ContractName: "UploadedContract.sol"}, got)
	require.Len(t, result.Findings, 2)
	assert.Equal(t, findings.SeverityHigh, result.Findings[0].Severity)
	assert.Equal(t, 12, result.Findings[0].Line())
	assert.False(t, result.Findings[0].HasCode())
	assert.Equal(t, findings.SeverityUnknown, result.Findings[1].Severity)
	assert.Equal(t, "BOGUS", result.Findings[1].RawSeverity)
	assert.Equal(t, ScanID("17"), result.ScanID)
	require.NotNil(t, result.OverallScore)
	assert.Equal(t, 72.5, *result.OverallScore)
	assert.Equal(t, "1 issue found", result.Summary)
	assert.Equal(t, 1, result.SeverityBreakdown["high"])
	assert.Equal(t, 2, result.SeverityBreakdown["total"])
}

func TestScanContractMissingFindingsField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary": "No vulnerabilities found - SAFE"}`))
	})

	result, err := client.ScanContract(context.Background(), "contract C {}", "C.sol")
	require.NoError(t, err)

	assert.NotNil(t, result.Findings)
	assert.Empty(t, result.Findings)
}

func TestScanContractAPIErrors(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "Detail string", status: http.StatusBadRequest, body: `{"detail": "file is required"}`, wantStatus: 400, wantMsg: "file is required"},
		{name: "Detail list", status: http.StatusUnprocessableEntity, body: `{"detail": [{"msg": "field required"}, {"msg": "too long"}]}`, wantStatus: 422, wantMsg: "field required; too long"},
		{name: "Message", status: http.StatusServiceUnavailable, body: `{"message": "Service unavailable"}`, wantStatus: 503, wantMsg: "Service unavailable"},
		{name: "No body", status: http.StatusInternalServerError, body: ``, wantStatus: 500, wantMsg: "scanning service returned 500 Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.ScanContract(context.Background(), "contract C {}", "C.sol")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
		})
	}
}

func TestScanContractInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.ScanContract(context.Background(), "contract C {}", "C.sol")
	assert.ErrorContains(t, err, "invalid response from scanning service")
}

func TestScanContractUnreachable(t *testing.T) {
	cfg := &config.Config{
		HTTPClient: config.HTTPClient{Timeout: time.Second, RetryWaitTime: time.Millisecond, RetryMaxWaitTime: time.Millisecond},
		Scanner:    config.Scanner{BaseURL: "http://127.0.0.1:1", ScanPath: config.DefaultScanPath},
	}
	client := New(cfg, hclog.NewNullLogger())

	_, err := client.ScanContract(context.Background(), "contract C {}", "C.sol")
	assert.ErrorContains(t, err, "scanning service unavailable")
}

func TestHealth(t *testing.T) {
	healthy := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.DefaultHealthPath, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, healthy.Health(context.Background()))

	broken := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Error(t, broken.Health(context.Background()))
}
