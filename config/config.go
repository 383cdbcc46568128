package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. File values are overridden
// by environment variables; the API key is read from the environment only.
type Config struct {
	// Shared bearer secret (MCP_API_KEY)
	APIKey string `yaml:"-"`

	// Listeners
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	// Server limits
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration without an API key.
func Default() *Config {
	return &Config{
		HTTPAddr:        ":8000",
		MetricsAddr:     ":9090",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxBodyBytes:    1 << 20,
		LogLevel:        "info",
	}
}

// Load reads .env (without overriding the real environment), then the
// optional YAML file at path, then environment overrides, and validates.
// An empty path falls back to CONFIG_FILE.
func Load(path string) (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.APIKey = strings.TrimSpace(os.Getenv("MCP_API_KEY"))

	if v, ok := lookupEnv("MCP_HTTP_ADDR"); ok {
		c.HTTPAddr = v
	}
	// METRICS_ADDR may be set to an empty string to disable the listener.
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		c.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	var errs []string
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"MCP_READ_TIMEOUT", &c.ReadTimeout},
		{"MCP_WRITE_TIMEOUT", &c.WriteTimeout},
		{"MCP_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
	}
	for _, d := range durations {
		v, ok := lookupEnv(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", d.key, err))
			continue
		}
		*d.dst = parsed
	}
	if v, ok := lookupEnv("MCP_MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("MCP_MAX_BODY_BYTES: %v", err))
		} else {
			c.MaxBodyBytes = n
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ErrMissingAPIKey is returned when MCP_API_KEY is absent or blank.
var ErrMissingAPIKey = errors.New("config: MCP_API_KEY must be set")

// Validate checks required values and ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("config: http_addr must be set"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("config: max_body_bytes must be positive, got %d", c.MaxBodyBytes))
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("config: %s must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}

func lookupEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", false
	}
	return v, true
}
