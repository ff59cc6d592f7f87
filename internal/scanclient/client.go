package scanclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/pkg/config"
	"github.com/blockscope-dev/blockscope/pkg/httpclient"
)

const requestIDHeader = "X-Request-ID"

// Client talks to the scanning service over HTTP.
type Client struct {
	httpc      *resty.Client
	scanPath   string
	healthPath string
	logger     hclog.Logger
}

// New creates a scanning service client from the global configuration.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(strings.TrimRight(cfg.Scanner.BaseURL, "/"))
	httpc.SetHeader("Accept", "application/json")

	return &Client{
		httpc:      httpc,
		scanPath:   cfg.Scanner.ScanPath,
		healthPath: cfg.Scanner.HealthPath,
		logger:     logger,
	}
}

// ScanContract submits contract source for scanning and returns the decoded findings.
// Findings with malformed data are kept and logged.
func (c *Client) ScanContract(ctx context.Context, code, name string) (*ScanResult, error) {
	requestID := uuid.New().String()
	c.logger.Debug("submitting contract", "contract", name, "size", len(code), "request_id", requestID)

	resp, err := c.httpc.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID).
		SetHeader("Content-Type", "application/json").
		SetBody(ScanRequest{SourceCode: code, ContractName: name}).
		Post(c.scanPath)
	if err != nil {
		return nil, fmt.Errorf("scanning service unavailable: %w", err)
	}

	if !resp.IsSuccess() {
		var body errorBody
		_ = json.Unmarshal(resp.Body(), &body)
		apiErr := NewAPIError(resp.StatusCode(), body.text())
		c.logger.Debug("scan rejected", "status", resp.StatusCode(), "message", apiErr.Message, "request_id", requestID)
		return nil, apiErr
	}

	result, err := decodeScanResult(resp.Body())
	if err != nil {
		return nil, err
	}

	for i, f := range result.Findings {
		if err := f.Validate(); err != nil {
			c.logger.Warn("scanning service returned malformed finding", "index", i, "error", err, "request_id", requestID)
		}
	}
	c.logger.Debug("scan completed", "contract", name, "findings", len(result.Findings), "request_id", requestID)
	return result, nil
}

// Health probes the scanning service.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpc.R().
		SetContext(ctx).
		Get(c.healthPath)
	if err != nil {
		return fmt.Errorf("scanning service unavailable: %w", err)
	}
	if !resp.IsSuccess() {
		return NewAPIError(resp.StatusCode(), "")
	}
	return nil
}

func decodeScanResult(body []byte) (*ScanResult, error) {
	var result ScanResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("invalid response from scanning service: %w", err)
	}
	if result.Findings == nil {
		result.Findings = []findings.Finding{}
	}
	if result.SeverityBreakdown == nil {
		result.SeverityBreakdown = findings.SeverityBreakdown(result.Findings)
	}
	return &result, nil
}
