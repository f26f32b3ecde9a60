package config

import (
	"time"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/observability"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			HomeDir:   DefaultHomeDir(),
			OutputDir: ".",
			Parallel:  false,
		},
		Eval: eval.DefaultThresholds(),
		Logging: observability.LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
			OTLP: observability.OTLPLogConfig{
				Enabled:     false,
				Protocol:    "grpc",
				ServiceName: "tripeval",
			},
		},
		Tracing: observability.TracingConfig{
			Enabled:     false,
			Provider:    "otlp",
			ServiceName: "tripeval",
			SampleRate:  1.0,
		},
		Metrics: observability.MetricsConfig{
			Enabled:  false,
			Provider: "prometheus",
		},
		Server: ServerConfig{
			Address:     "localhost:8088",
			MetricsPath: "/metrics",
			ReportTTL:   time.Hour,
		},
	}
}
