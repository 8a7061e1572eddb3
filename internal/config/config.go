package config

import (
	"fmt"
	"os"
	"time"

	"github.com/SkynetNext/writeresult/internal/pool"
	"gopkg.in/yaml.v3"
)

// Config represents write result pool configuration
type Config struct {
	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Recycled-use guard configuration
	Tracking TrackingConfig `yaml:"tracking"`

	// Result pool configuration
	Pool PoolConfig `yaml:"pool"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configuration
	Tracing TracingConfig `yaml:"tracing"`

	// Benchmark harness configuration
	Bench BenchConfig `yaml:"bench"`

	// Interval between configuration file checks (0 disables hot reload)
	ReloadInterval time.Duration `yaml:"reload_interval"`

	// Graceful shutdown timeout
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	// One of debug, info, warn, error
	Level string `yaml:"level"`
}

// TrackingConfig represents the recycled-use guard configuration
type TrackingConfig struct {
	// Enable the guard. When unset the build default applies
	// (enabled unless built with the release tag).
	Enabled *bool `yaml:"enabled"`
}

// PoolConfig represents result pool configuration
type PoolConfig struct {
	// Maximum number of spare results kept per owner
	Capacity int `yaml:"capacity"`

	// Use one concurrent pool for all workers instead of one cache per worker
	Shared bool `yaml:"shared"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	// Listen address for the /metrics endpoint (empty disables it)
	ListenAddr string `yaml:"listen_addr"`
}

// TracingConfig represents tracing configuration
type TracingConfig struct {
	// OTel Collector gRPC endpoint (empty disables tracing)
	Endpoint string `yaml:"endpoint"`

	// Service name reported in traces
	ServiceName string `yaml:"service_name"`
}

// BenchConfig represents the simulated write pipeline configuration
type BenchConfig struct {
	// Number of concurrent workers, each owning its own pool
	Workers int `yaml:"workers"`

	// Number of simulated writes per worker
	Writes int `yaml:"writes"`

	// Simulated message size in bytes
	MessageSize int `yaml:"message_size"`

	// Simulated flush chunk size in bytes
	ChunkSize int `yaml:"chunk_size"`

	// Take a snapshot copy of every Nth result (0 disables copies)
	CopyEvery int `yaml:"copy_every"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML data
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set default values
	setDefaults(&cfg)

	// Validate configuration
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig validates the configuration, e.g. after environment overrides
func ValidateConfig(cfg *Config) error {
	return validateConfig(cfg)
}

// TrackingEnabled returns the configured guard state, or def when unset
func (c *Config) TrackingEnabled(def bool) bool {
	if c.Tracking.Enabled == nil {
		return def
	}
	return *c.Tracking.Enabled
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}

	if cfg.Pool.Capacity <= 0 {
		return fmt.Errorf("pool.capacity must be greater than 0")
	}

	if cfg.Bench.Workers <= 0 {
		return fmt.Errorf("bench.workers must be greater than 0")
	}
	if cfg.Bench.Writes < 0 {
		return fmt.Errorf("bench.writes must not be negative")
	}
	if cfg.Bench.ChunkSize <= 0 {
		return fmt.Errorf("bench.chunk_size must be greater than 0")
	}
	if cfg.Bench.CopyEvery < 0 {
		return fmt.Errorf("bench.copy_every must not be negative")
	}

	if cfg.ReloadInterval < 0 {
		return fmt.Errorf("reload_interval must not be negative")
	}

	// Validate graceful shutdown timeout
	if cfg.GracefulShutdownTimeout <= 0 {
		return fmt.Errorf("graceful_shutdown_timeout must be greater than 0")
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Pool.Capacity == 0 {
		cfg.Pool.Capacity = pool.DefaultCapacity
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "write-result"
	}

	if cfg.Bench.Workers == 0 {
		cfg.Bench.Workers = 4
	}

	if cfg.Bench.Writes == 0 {
		cfg.Bench.Writes = 100000
	}

	if cfg.Bench.MessageSize == 0 {
		cfg.Bench.MessageSize = 1024
	}

	if cfg.Bench.ChunkSize == 0 {
		cfg.Bench.ChunkSize = 256
	}

	if cfg.GracefulShutdownTimeout == 0 {
		cfg.GracefulShutdownTimeout = 10 * time.Second
	}

	// Tracking has no default here: an unset value keeps the build default
}
