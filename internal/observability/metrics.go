package observability

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
)

// Metric names recorded for evaluation runs.
const (
	MetricEvalChecks        = "tripeval.eval.checks"
	MetricEvalCheckDuration = "tripeval.eval.check.duration"
	MetricEvalRuns          = "tripeval.eval.runs"
	MetricEvalIssues        = "tripeval.eval.issues"
	MetricEvalPassRate      = "tripeval.eval.pass_rate"
)

// MetricsProvider is a meter provider plus the pieces needed to expose and
// stop it.
type MetricsProvider struct {
	metric.MeterProvider

	handler  http.Handler
	shutdown func(context.Context) error
}

// Handler returns the scrape handler for the prometheus provider, or nil.
func (p *MetricsProvider) Handler() http.Handler {
	return p.handler
}

// Shutdown flushes and stops the provider. It is a no-op for the disabled
// provider.
func (p *MetricsProvider) Shutdown(ctx context.Context) error {
	if p.shutdown == nil {
		return nil
	}
	if err := p.shutdown(ctx); err != nil {
		return WrapObservabilityError(ErrShutdownTimeout, "failed to shutdown meter provider", err)
	}
	return nil
}

// InitMetrics initializes a meter provider from the configuration.
//
// For "prometheus" the metrics are gathered into a private registry served
// by Handler. For "otlp" they are pushed periodically to cfg.Endpoint over
// gRPC. A disabled configuration yields a no-op provider.
func InitMetrics(ctx context.Context, cfg MetricsConfig) (*MetricsProvider, error) {
	if !cfg.Enabled {
		return &MetricsProvider{MeterProvider: noop.NewMeterProvider()}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapObservabilityError(ErrInvalidConfig, "invalid metrics configuration", err)
	}

	switch strings.ToLower(cfg.Provider) {
	case "prometheus":
		return initPrometheusProvider()
	case "otlp":
		return initOTLPProvider(ctx, cfg)
	default:
		return nil, NewObservabilityError(ErrInvalidConfig, fmt.Sprintf("unsupported metrics provider: %s", cfg.Provider))
	}
}

func initPrometheusProvider() (*MetricsProvider, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, WrapObservabilityError(ErrExporterConnection, "failed to create prometheus exporter", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return &MetricsProvider{
		MeterProvider: provider,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		shutdown:      provider.Shutdown,
	}, nil
}

func initOTLPProvider(ctx context.Context, cfg MetricsConfig) (*MetricsProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, NewExporterConnectionError(cfg.Endpoint, err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	return &MetricsProvider{
		MeterProvider: provider,
		shutdown:      provider.Shutdown,
	}, nil
}

// EvalMetrics records evaluation outcomes as OpenTelemetry instruments.
// It satisfies eval.MetricsRecorder.
type EvalMetrics struct {
	checks        metric.Int64Counter
	checkDuration metric.Float64Histogram
	runs          metric.Int64Counter
	issues        metric.Int64Histogram
	passRate      metric.Float64Histogram
}

// NewEvalMetrics creates the evaluation instruments on meter.
func NewEvalMetrics(meter metric.Meter) (*EvalMetrics, error) {
	m := &EvalMetrics{}
	var err error

	if m.checks, err = meter.Int64Counter(MetricEvalChecks,
		metric.WithDescription("Checker invocations by type and verdict")); err != nil {
		return nil, registrationError(MetricEvalChecks, err)
	}
	if m.checkDuration, err = meter.Float64Histogram(MetricEvalCheckDuration,
		metric.WithDescription("Checker wall time"), metric.WithUnit("ms")); err != nil {
		return nil, registrationError(MetricEvalCheckDuration, err)
	}
	if m.runs, err = meter.Int64Counter(MetricEvalRuns,
		metric.WithDescription("Evaluation runs by overall verdict")); err != nil {
		return nil, registrationError(MetricEvalRuns, err)
	}
	if m.issues, err = meter.Int64Histogram(MetricEvalIssues,
		metric.WithDescription("Issues reported per evaluation run")); err != nil {
		return nil, registrationError(MetricEvalIssues, err)
	}
	if m.passRate, err = meter.Float64Histogram(MetricEvalPassRate,
		metric.WithDescription("Share of passing checkers per run"), metric.WithUnit("%")); err != nil {
		return nil, registrationError(MetricEvalPassRate, err)
	}

	return m, nil
}

// RecordCheck implements eval.MetricsRecorder.
func (m *EvalMetrics) RecordCheck(ctx context.Context, evalType eval.EvalType, passed bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("eval_type", string(evalType)),
		attribute.Bool("passed", passed),
	)
	m.checks.Add(ctx, 1, attrs)
	m.checkDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordRun implements eval.MetricsRecorder.
func (m *EvalMetrics) RecordRun(ctx context.Context, overall eval.Overall) {
	attrs := metric.WithAttributes(attribute.Bool("passed", overall.AllPassed))
	m.runs.Add(ctx, 1, attrs)
	m.issues.Record(ctx, int64(overall.TotalIssues), attrs)
	m.passRate.Record(ctx, overall.PassRate)
}

func registrationError(name string, err error) error {
	return WrapObservabilityError(ErrMetricsRegistration, fmt.Sprintf("failed to create instrument %s", name), err)
}
