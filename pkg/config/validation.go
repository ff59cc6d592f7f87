package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateScannerConfig(&cfg.Scanner); err != nil {
		return fmt.Errorf("YAML global config: scanner directive is invalid: %w", err)
	}
	if err := ValidateServerConfig(&cfg.Server); err != nil {
		return fmt.Errorf("YAML global config: server directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"retry_max_wait_time": httpConfig.RetryMaxWaitTime,
		"retry_wait_time":     httpConfig.RetryWaitTime,
		"timeout":             httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 10*time.Minute); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

// ValidateScannerConfig checks the scanning service location.
func ValidateScannerConfig(scanner *Scanner) error {
	if scanner == nil {
		return fmt.Errorf("scanner configuration is nil")
	}
	u, err := url.Parse(scanner.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", scanner.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme: %q", scanner.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must contain a host: %q", scanner.BaseURL)
	}
	for name, p := range map[string]string{"scan_path": scanner.ScanPath, "health_path": scanner.HealthPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with '/': %q", name, p)
		}
	}
	return nil
}

// ValidateServerConfig checks the web front-end settings.
func ValidateServerConfig(server *Server) error {
	if server == nil {
		return fmt.Errorf("server configuration is nil")
	}
	if _, _, err := net.SplitHostPort(server.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen_addr %q: %w", server.ListenAddr, err)
	}
	if server.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval must be at least 1s: %v", server.RefreshInterval)
	}
	return validateDuration(server.RefreshInterval, "refresh_interval", time.Minute)
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks that host and port are either both set or both empty.
func validateProxy(proxy *Proxy) error {
	if (proxy.Host == "") != (proxy.Port == "") {
		return fmt.Errorf("proxy host and port must be set together")
	}
	return nil
}
