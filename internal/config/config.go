// Package config loads monitor configuration from YAML with .env and
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete monitor configuration.
type Config struct {
	Monitor  MonitorConfig  `yaml:"monitor"`
	Storage  StorageConfig  `yaml:"storage"`
	Platform PlatformConfig `yaml:"platform"`
	Server   ServerConfig   `yaml:"server"`
}

// MonitorConfig controls the monitoring loop.
type MonitorConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"` // 0 means single run
	BatchSize       int `yaml:"batch_size"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver        string `yaml:"driver"` // memory | postgres
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"` // optional equity-curve sink
}

// PlatformConfig selects and configures the account data source.
type PlatformConfig struct {
	Source    string  `yaml:"source"` // random | http | ws
	HTTPBase  string  `yaml:"http_base"`
	WSURL     string  `yaml:"ws_url"`
	RateLimit float64 `yaml:"rate_limit"` // requests/sec against the HTTP bridge
}

// ServerConfig controls the metrics/health HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads configuration from the YAML file and the .env file if one
// exists. Environment variables override matching YAML keys. An empty
// path yields a config built from env and defaults only.
func Load(path string) (*Config, error) {
	// Load .env if present (missing file is not an error)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Interval returns the monitoring interval as a time.Duration.
// Zero means run once and exit.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// applyEnvOverrides overrides values from environment variables when present.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MONITOR_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.IntervalSeconds = n
		}
	}
	if v := os.Getenv("MONITOR_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.BatchSize = n
		}
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("PLATFORM_SOURCE"); v != "" {
		cfg.Platform.Source = v
	}
	if v := os.Getenv("PLATFORM_HTTP_BASE"); v != "" {
		cfg.Platform.HTTPBase = v
	}
	if v := os.Getenv("PLATFORM_WS_URL"); v != "" {
		cfg.Platform.WSURL = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// setDefaults ensures required values have sensible defaults.
func setDefaults(cfg *Config) {
	if cfg.Monitor.BatchSize <= 0 {
		cfg.Monitor.BatchSize = 100
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Platform.Source == "" {
		cfg.Platform.Source = "random"
	}
	if cfg.Platform.RateLimit <= 0 {
		cfg.Platform.RateLimit = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":9090"
	}
}
