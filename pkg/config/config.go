package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigPath is used when no --config flag is given. A missing default file is not an error.
const DefaultConfigPath = "config.yml"

type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Scanner    Scanner    `yaml:"scanner"`
	Server     Server     `yaml:"server"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Scanner describes where the scanning service lives.
type Scanner struct {
	BaseURL    string `yaml:"base_url"`
	ScanPath   string `yaml:"scan_path"`
	HealthPath string `yaml:"health_path"`
}

// Server holds settings of the local web front-end.
type Server struct {
	ListenAddr      string        `yaml:"listen_addr"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// LoadConfig reads the YAML configuration, fills unset values with defaults and applies
// environment overrides. When required is false a missing file yields the default configuration.
func LoadConfig(configPath string, required bool) (*Config, error) {
	cfg := &Config{}

	if err := LoadYAML(configPath, cfg); err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
		}
	}

	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Scanner.BaseURL = SetThen(cfg.Scanner.BaseURL, DefaultScannerURL)
	cfg.Scanner.ScanPath = SetThen(cfg.Scanner.ScanPath, DefaultScanPath)
	cfg.Scanner.HealthPath = SetThen(cfg.Scanner.HealthPath, DefaultHealthPath)
	cfg.Server.ListenAddr = SetThen(cfg.Server.ListenAddr, DefaultListenAddr)
	cfg.Server.RefreshInterval = SetThen(cfg.Server.RefreshInterval, DefaultRefreshInterval)
}

// applyEnv lets environment variables win over the configuration file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BLOCKSCOPE_SCANNER_URL"); v != "" {
		cfg.Scanner.BaseURL = v
	}
	if v := os.Getenv("BLOCKSCOPE_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
}
