package config

import (
	"time"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/observability"
)

// Config is the root configuration for tripeval.
type Config struct {
	Core    CoreConfig                  `mapstructure:"core" yaml:"core" validate:"required"`
	Eval    eval.Thresholds             `mapstructure:"eval" yaml:"eval"`
	Logging observability.LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Tracing observability.TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	Metrics observability.MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Server  ServerConfig                `mapstructure:"server" yaml:"server"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	HomeDir string `mapstructure:"home_dir" yaml:"home_dir"`

	// OutputDir is where evaluation_results.json is written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	// Parallel runs the checkers of one evaluation concurrently.
	Parallel bool `mapstructure:"parallel" yaml:"parallel"`
}

// ServerConfig contains settings for the HTTP evaluation service.
type ServerConfig struct {
	// Address is the host:port the service listens on (e.g., "localhost:8088")
	Address string `mapstructure:"address" yaml:"address" validate:"required,hostname_port"`

	// MetricsPath is the route the prometheus scrape handler is mounted on
	// when metrics.provider is "prometheus".
	MetricsPath string `mapstructure:"metrics_path" yaml:"metrics_path" validate:"required,startswith=/"`

	// ReportTTL is how long served reports stay retrievable by run ID.
	ReportTTL time.Duration `mapstructure:"report_ttl" yaml:"report_ttl" validate:"min=1s"`
}
