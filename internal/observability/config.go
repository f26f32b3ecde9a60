package observability

import (
	"fmt"
	"slices"
	"strings"
)

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" mapstructure:"enabled"`
	Provider     string  `yaml:"provider" mapstructure:"provider"`
	Endpoint     string  `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName  string  `yaml:"service_name" mapstructure:"service_name"`
	SampleRate   float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	TLSCertFile  string  `yaml:"tls_cert_file" mapstructure:"tls_cert_file"` // CA certificate used to verify the collector
	InsecureMode bool    `yaml:"insecure_mode" mapstructure:"insecure_mode"` // Plaintext gRPC (unsafe)
}

// Validate validates the TracingConfig fields.
// Returns an error if Provider is not otlp or noop, if SampleRate is outside
// [0, 1], or if an otlp provider has no endpoint.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	validProviders := []string{"otlp", "noop"}
	provider := strings.ToLower(c.Provider)
	if !slices.Contains(validProviders, provider) {
		return fmt.Errorf("invalid tracing provider: %s (must be one of: %s)", c.Provider, strings.Join(validProviders, ", "))
	}

	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("invalid sample rate: %f (must be between 0.0 and 1.0)", c.SampleRate)
	}

	if provider != "noop" && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when tracing is enabled")
	}

	return nil
}

// MetricsConfig contains metrics export configuration.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Provider string `yaml:"provider" mapstructure:"provider"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// Validate validates the MetricsConfig fields.
// Returns an error if Provider is not prometheus or otlp, or if otlp has no
// endpoint.
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	validProviders := []string{"prometheus", "otlp"}
	provider := strings.ToLower(c.Provider)
	if !slices.Contains(validProviders, provider) {
		return fmt.Errorf("invalid metrics provider: %s (must be one of: %s)", c.Provider, strings.Join(validProviders, ", "))
	}

	if provider == "otlp" && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required for the otlp metrics provider")
	}

	return nil
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	Level  string        `yaml:"level" mapstructure:"level"`
	Format string        `yaml:"format" mapstructure:"format"`
	Output string        `yaml:"output" mapstructure:"output"`
	OTLP   OTLPLogConfig `yaml:"otlp" mapstructure:"otlp"`
}

// Validate validates the LoggingConfig fields.
// Returns an error if Level is not debug, info, warn or error, if Format is
// not json or text, or if Output is not stdout, stderr or an absolute path.
func (c *LoggingConfig) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}

	validFormats := []string{"json", "text"}
	if !slices.Contains(validFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.Format, strings.Join(validFormats, ", "))
	}

	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	output := strings.ToLower(c.Output)
	if output != "stdout" && output != "stderr" && !strings.HasPrefix(c.Output, "/") {
		return fmt.Errorf("invalid log output: %s (must be 'stdout', 'stderr', or an absolute file path)", c.Output)
	}

	if err := c.OTLP.Validate(); err != nil {
		return fmt.Errorf("otlp: %w", err)
	}

	return nil
}
