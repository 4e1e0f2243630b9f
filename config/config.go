// Package config provides YAML-loadable configuration for the harness.
// The core runner reads no configuration; settings here feed only harness
// construction.
package config

import (
	"fmt"
	"time"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"

	"github.com/phil-opp/runner-utils/harness"
	"github.com/phil-opp/runner-utils/observability"
)

// Config is the harness configuration.
type Config struct {
	// DefaultTimeout is the deadline for commands without their own.
	DefaultTimeout time.Duration

	// MaxWorkers is the maximum number of concurrently running processes.
	MaxWorkers int

	// SpawnRate limits process spawns per second. Zero disables limiting.
	SpawnRate float64

	// SpawnBurst is the spawn limiter burst size.
	SpawnBurst int

	// Audit configures the JSONL audit log.
	Audit observability.AuditConfig

	// Telemetry configures OpenTelemetry integration.
	Telemetry observability.TelemetryConfig
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DefaultTimeout: harness.DefaultTimeout,
		MaxWorkers:     4,
		Audit:          observability.DefaultAuditConfig(),
		Telemetry:      observability.DefaultTelemetryConfig(),
	}
}

// fileConfig is the on-disk YAML shape. Durations are strings parsed with
// time.ParseDuration.
type fileConfig struct {
	DefaultTimeout string  `yaml:"default_timeout"`
	MaxWorkers     *int    `yaml:"max_workers"`
	SpawnRate      float64 `yaml:"spawn_rate"`
	SpawnBurst     int     `yaml:"spawn_burst"`

	Audit struct {
		Enabled  bool   `yaml:"enabled"`
		BasePath string `yaml:"base_path"`
		FilePath string `yaml:"file_path"`
	} `yaml:"audit"`

	Telemetry struct {
		ServiceName   string `yaml:"service_name"`
		EnableTracing *bool  `yaml:"enable_tracing"`
		EnableMetrics *bool  `yaml:"enable_metrics"`
		MetricsPrefix string `yaml:"metrics_prefix"`
	} `yaml:"telemetry"`
}

// Load reads a YAML configuration file. The basePath is the directory
// containing the file; the file path is relative to it. Unset fields keep
// their defaults.
func Load(basePath, file string) (*Config, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	data, err := sp.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	cfg := Default()

	if fc.DefaultTimeout != "" {
		d, err := time.ParseDuration(fc.DefaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing default_timeout: %w", err)
		}
		cfg.DefaultTimeout = d
	}
	if fc.MaxWorkers != nil {
		cfg.MaxWorkers = *fc.MaxWorkers
	}
	cfg.SpawnRate = fc.SpawnRate
	cfg.SpawnBurst = fc.SpawnBurst

	cfg.Audit.Enabled = fc.Audit.Enabled
	if fc.Audit.BasePath != "" {
		cfg.Audit.BasePath = fc.Audit.BasePath
	}
	if fc.Audit.FilePath != "" {
		cfg.Audit.FilePath = fc.Audit.FilePath
	}

	if fc.Telemetry.ServiceName != "" {
		cfg.Telemetry.ServiceName = fc.Telemetry.ServiceName
	}
	if fc.Telemetry.EnableTracing != nil {
		cfg.Telemetry.EnableTracing = *fc.Telemetry.EnableTracing
	}
	if fc.Telemetry.EnableMetrics != nil {
		cfg.Telemetry.EnableMetrics = *fc.Telemetry.EnableMetrics
	}
	if fc.Telemetry.MetricsPrefix != "" {
		cfg.Telemetry.MetricsPrefix = fc.Telemetry.MetricsPrefix
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DefaultTimeout <= 0 {
		return fmt.Errorf("default timeout must be positive, got %v", c.DefaultTimeout)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("max workers must be positive, got %d", c.MaxWorkers)
	}
	if c.SpawnRate < 0 {
		return fmt.Errorf("spawn rate must not be negative, got %v", c.SpawnRate)
	}
	if c.Audit.Enabled && c.Audit.BasePath == "" {
		return fmt.Errorf("audit base path is required when auditing is enabled")
	}
	return nil
}

// HarnessBuilder seeds a harness builder from the configuration.
// Telemetry and observers are wired by the caller.
func (c *Config) HarnessBuilder() *harness.Builder {
	return harness.NewBuilder().
		WithMaxWorkers(c.MaxWorkers).
		WithDefaultTimeout(c.DefaultTimeout).
		WithSpawnRate(c.SpawnRate, c.SpawnBurst)
}
