package main

import (
	"context"
	"log/slog"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/start-again-06/Travel-Agent-Voice-Based/cmd/tripeval/internal"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/config"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/observability"
)

const (
	instrumentationName = "tripeval"
	shutdownTimeout     = 5 * time.Second
)

// telemetry holds the tracing and metrics providers for one command run.
type telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	metrics        *observability.MetricsProvider
	logger         *slog.Logger
}

// setupTelemetry initializes tracing and metrics from cfg.
func setupTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*telemetry, error) {
	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError, "failed to initialize tracing", err)
	}

	mp, err := observability.InitMetrics(ctx, cfg.Metrics)
	if err != nil {
		_ = observability.ShutdownTracing(ctx, tp)
		return nil, internal.WrapError(internal.ExitConfigError, "failed to initialize metrics", err)
	}

	return &telemetry{tracerProvider: tp, metrics: mp, logger: logger}, nil
}

// newRunner builds an evaluation runner wired to the configured thresholds,
// logger, tracer and metrics.
func (t *telemetry) newRunner(cfg *config.Config) (*eval.Runner, error) {
	recorder, err := observability.NewEvalMetrics(t.metrics.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	return eval.NewRunner(
		eval.WithThresholds(cfg.Eval),
		eval.WithLogger(t.logger),
		eval.WithTracer(t.tracerProvider.Tracer(instrumentationName)),
		eval.WithRecorder(recorder),
		eval.WithParallel(cfg.Core.Parallel),
	), nil
}

// shutdown flushes both providers. Errors are logged.
func (t *telemetry) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := observability.ShutdownTracing(ctx, t.tracerProvider); err != nil {
		t.logger.Warn("tracing shutdown failed", "error", err)
	}
	if err := t.metrics.Shutdown(ctx); err != nil {
		t.logger.Warn("metrics shutdown failed", "error", err)
	}
}
