// Package config loads the server configuration from an optional YAML file,
// .env files and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load. They override file values when set.
const (
	EnvAPIKey   = "V0_API_KEY"
	EnvBaseURL  = "V0_BASE_URL"
	EnvLogLevel = "V0_LOG_LEVEL"
)

// DefaultBaseURL is the v0 Platform API endpoint.
const DefaultBaseURL = "https://api.v0.dev/v1"

// Config represents the application configuration.
type Config struct {
	V0      V0Config      `yaml:"v0"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Events  EventsConfig  `yaml:"events"`
	Cache   CacheConfig   `yaml:"cache"`
}

// V0Config configures the v0.dev API client.
type V0Config struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// EventsConfig enables publishing normalized errors to NATS.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// CacheConfig toggles memoization of error classification.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		V0: V0Config{BaseURL: DefaultBaseURL, Timeout: 2 * time.Minute},
		Retry: RetryConfig{
			Backoff:    string(RetryBackoffExponential),
			Initial:    time.Second,
			Max:        30 * time.Second,
			MaxRetries: 2,
		},
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
		Metrics: MetricsConfig{ListenAddr: "127.0.0.1:9464"},
		Events:  EventsConfig{Subject: "v0mcp.errors"},
	}
}

// Load reads configuration from path. A missing file yields defaults so the
// server can run from environment variables alone.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	var data []byte
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("configuration file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			data = raw
		}
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults after expanding ${VAR} references.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// loadEnvFiles loads .env then .env.local; existing variables are not overwritten.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			slog.Debug("loaded environment file", "path", name)
		}
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.V0.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.V0.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks invariants the rest of the program relies on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.V0.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("v0.base_url must be an absolute URL, got %q", c.V0.BaseURL)
	}
	if c.V0.Timeout < 0 {
		return fmt.Errorf("v0.timeout cannot be negative")
	}
	if c.Retry.Backoff != "" && NormalizeRetryBackoff(c.Retry.Backoff) == "" {
		return fmt.Errorf("retry.backoff must be one of fixed, linear, exponential, got %q", c.Retry.Backoff)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics are enabled")
	}
	if c.Events.NATSURL != "" && c.Events.Subject == "" {
		return fmt.Errorf("events.subject is required when events.nats_url is set")
	}
	return nil
}
