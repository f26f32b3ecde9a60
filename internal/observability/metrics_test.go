package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestEvalMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewEvalMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCheck(ctx, eval.EvalFeasibility, true, 3*time.Millisecond)
	m.RecordCheck(ctx, eval.EvalGrounding, false, time.Millisecond)
	m.RecordCheck(ctx, eval.EvalGrounding, false, time.Millisecond)
	m.RecordRun(ctx, eval.Overall{AllPassed: false, TotalIssues: 4, PassRate: 50})

	metrics := collect(t, reader)

	checks, ok := metrics[MetricEvalChecks].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range checks.DataPoints {
		evalType, _ := dp.Attributes.Value(attribute.Key("eval_type"))
		counts[evalType.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"feasibility": 1, "grounding": 2}, counts)

	runs, ok := metrics[MetricEvalRuns].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, runs.DataPoints, 1)
	assert.Equal(t, int64(1), runs.DataPoints[0].Value)

	issues, ok := metrics[MetricEvalIssues].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, issues.DataPoints, 1)
	assert.Equal(t, int64(4), issues.DataPoints[0].Sum)

	duration, ok := metrics[MetricEvalCheckDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, duration.DataPoints, 2)
}

func TestEvalMetrics_WithRunner(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewEvalMetrics(provider.Meter("test"))
	require.NoError(t, err)

	eval.NewRunner(eval.WithRecorder(m)).RunAll(context.Background(), "no itinerary here", eval.EvalContext{})

	metrics := collect(t, reader)
	assert.Contains(t, metrics, MetricEvalChecks)
	assert.Contains(t, metrics, MetricEvalRuns)
	assert.Contains(t, metrics, MetricEvalPassRate)
}

func TestInitMetrics_Disabled(t *testing.T) {
	provider, err := InitMetrics(context.Background(), MetricsConfig{Enabled: false})
	require.NoError(t, err)
	assert.NotNil(t, provider.Meter("test"))
	assert.Nil(t, provider.Handler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestInitMetrics_Prometheus(t *testing.T) {
	provider, err := InitMetrics(context.Background(), MetricsConfig{Enabled: true, Provider: "prometheus"})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()
	require.NotNil(t, provider.Handler())

	m, err := NewEvalMetrics(provider.Meter("tripeval"))
	require.NoError(t, err)
	m.RecordRun(context.Background(), eval.Overall{AllPassed: true, PassRate: 100})

	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "tripeval_eval_runs")
}

func TestInitMetrics_OTLP(t *testing.T) {
	provider, err := InitMetrics(context.Background(), MetricsConfig{Enabled: true, Provider: "otlp", Endpoint: "localhost:4317"})
	require.NoError(t, err)
	assert.NotNil(t, provider.Meter("tripeval"))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = provider.Shutdown(ctx)
}

func TestInitMetrics_InvalidConfig(t *testing.T) {
	_, err := InitMetrics(context.Background(), MetricsConfig{Enabled: true, Provider: "statsd"})
	assert.ErrorIs(t, err, NewObservabilityError(ErrInvalidConfig, ""))

	_, err = InitMetrics(context.Background(), MetricsConfig{Enabled: true, Provider: "otlp"})
	assert.ErrorIs(t, err, NewObservabilityError(ErrInvalidConfig, ""))
}
