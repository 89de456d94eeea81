package config

import (
	"fmt"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
)

// Config is the root configuration for an application embedding
// streamkit pipelines.
type Config struct {
	Name        string          `yaml:"name" mapstructure:"name"`
	Environment string          `yaml:"environment" mapstructure:"environment"`
	Version     string          `yaml:"version" mapstructure:"version"`
	Debug       bool            `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
	Telemetry   TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Stream      StreamConfig    `yaml:"stream" mapstructure:"stream"`
}

// TelemetryConfig configures OpenTelemetry export for pipeline drives.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// StreamConfig configures pipeline execution.
type StreamConfig struct {
	// BufferCapacity is the initial buffer capacity of blocking
	// operators. Zero keeps the built-in default.
	BufferCapacity int `yaml:"buffer_capacity" mapstructure:"buffer_capacity"`
	// Metrics enables per-drive metric recording.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults fills in default values.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Stream.BufferCapacity == 0 {
		c.Stream.BufferCapacity = stream.DefaultBufferCapacity
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("config.telemetry.sample_rate must be within [0, 1] (got: %v)", c.Telemetry.SampleRate)
	}
	if c.Stream.BufferCapacity < 0 {
		return fmt.Errorf("config.stream.buffer_capacity must not be negative (got: %d)", c.Stream.BufferCapacity)
	}
	return nil
}

// Apply validates the configuration, then installs it: the global
// logger is initialized and the blocking-operator buffer capacity is
// set. Telemetry providers are not started here; call
// observability.InitTracer / InitMeter with the Telemetry values when
// exporting is wanted.
func (c *Config) Apply() error {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	logger.Init(c.Logging)
	stream.SetBufferCapacity(c.Stream.BufferCapacity)
	return nil
}
