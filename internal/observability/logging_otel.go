package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"

	"github.com/start-again-06/Travel-Agent-Voice-Based/pkg/version"
)

const defaultLogBatchTimeout = 5 * time.Second

// OTLPLogConfig configures export of log records over OTLP. Records are
// exported in addition to the local log output, never instead of it.
type OTLPLogConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	Protocol    string `yaml:"protocol" mapstructure:"protocol"` // grpc or http
	Insecure    bool   `yaml:"insecure" mapstructure:"insecure"`
	TLSCertFile string `yaml:"tls_cert_file" mapstructure:"tls_cert_file"` // CA certificate, grpc only
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// Validate validates the OTLPLogConfig fields.
func (c *OTLPLogConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	validProtocols := []string{"grpc", "http"}
	if !slices.Contains(validProtocols, strings.ToLower(c.Protocol)) {
		return fmt.Errorf("invalid protocol: %s (must be one of: %s)", c.Protocol, strings.Join(validProtocols, ", "))
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when otlp logging is enabled")
	}
	if c.TLSCertFile != "" && strings.ToLower(c.Protocol) != "grpc" {
		return fmt.Errorf("tls_cert_file is only supported with the grpc protocol")
	}

	return nil
}

// InitLogging creates a logger provider exporting to the configured OTLP
// endpoint. It returns nil when OTLP logging is disabled.
func InitLogging(ctx context.Context, cfg OTLPLogConfig) (*sdklog.LoggerProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapObservabilityError(ErrInvalidConfig, "invalid otlp logging configuration", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version),
		),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, WrapObservabilityError(ErrExporterConnection, "failed to create resource", err)
	}

	var exporter sdklog.Exporter
	switch strings.ToLower(cfg.Protocol) {
	case "grpc":
		exporter, err = newOTLPGRPCLogExporter(ctx, cfg)
	default:
		exporter, err = newOTLPHTTPLogExporter(ctx, cfg)
	}
	if err != nil {
		return nil, NewExporterConnectionError(cfg.Endpoint, err)
	}

	processor := sdklog.NewBatchProcessor(exporter, sdklog.WithExportTimeout(defaultLogBatchTimeout))
	return sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(processor),
	), nil
}

// ShutdownLogging flushes and stops the logger provider. A nil provider is a
// no-op.
func ShutdownLogging(ctx context.Context, lp *sdklog.LoggerProvider) error {
	if lp == nil {
		return nil
	}
	if err := lp.Shutdown(ctx); err != nil {
		return WrapObservabilityError(ErrShutdownTimeout, "failed to shutdown logger provider", err)
	}
	return nil
}

func newOTLPGRPCLogExporter(ctx context.Context, cfg OTLPLogConfig) (sdklog.Exporter, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}

	switch {
	case cfg.TLSCertFile != "":
		creds, err := credentials.NewClientTLSFromFile(cfg.TLSCertFile, "")
		if err != nil {
			return nil, WrapObservabilityError(ErrExporterConnection, "failed to load TLS credentials", err)
		}
		opts = append(opts, otlploggrpc.WithTLSCredentials(creds))
	case cfg.Insecure:
		opts = append(opts, otlploggrpc.WithInsecure())
	default:
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(nil)))
	}

	return otlploggrpc.New(ctx, opts...)
}

func newOTLPHTTPLogExporter(ctx context.Context, cfg OTLPLogConfig) (sdklog.Exporter, error) {
	opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}
	return otlploghttp.New(ctx, opts...)
}

// otelHandler is a slog.Handler that emits records through an OpenTelemetry
// logger. Group names prefix attribute keys with "group.".
type otelHandler struct {
	logger log.Logger
	level  slog.Leveler
	attrs  []log.KeyValue
	prefix string
}

// NewOTelHandler returns a slog.Handler emitting to a logger named name from
// provider. Records carry trace_id and span_id when ctx holds a valid span.
func NewOTelHandler(provider log.LoggerProvider, name string, level slog.Leveler) slog.Handler {
	return &otelHandler{
		logger: provider.Logger(name, log.WithInstrumentationVersion(version.Version)),
		level:  level,
	}
}

func (h *otelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *otelHandler) Handle(ctx context.Context, r slog.Record) error {
	var record log.Record
	record.SetTimestamp(r.Time)
	record.SetObservedTimestamp(time.Now())
	record.SetSeverity(severity(r.Level))
	record.SetSeverityText(r.Level.String())
	record.SetBody(log.StringValue(r.Message))

	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		record.AddAttributes(
			log.String("trace_id", spanCtx.TraceID().String()),
			log.String("span_id", spanCtx.SpanID().String()),
		)
	}

	record.AddAttributes(h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if kv, ok := convertAttr(h.prefix, a); ok {
			record.AddAttributes(kv)
		}
		return true
	})

	h.logger.Emit(ctx, record)
	return nil
}

func (h *otelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		if kv, ok := convertAttr(h.prefix, a); ok {
			next.attrs = append(next.attrs, kv)
		}
	}
	return &next
}

func (h *otelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func severity(level slog.Level) log.Severity {
	switch {
	case level >= slog.LevelError:
		return log.SeverityError
	case level >= slog.LevelWarn:
		return log.SeverityWarn
	case level >= slog.LevelInfo:
		return log.SeverityInfo
	default:
		return log.SeverityDebug
	}
}

func convertAttr(prefix string, a slog.Attr) (log.KeyValue, bool) {
	if a.Equal(slog.Attr{}) {
		return log.KeyValue{}, false
	}
	return log.KeyValue{Key: prefix + a.Key, Value: convertValue(a.Value)}, true
}

func convertValue(v slog.Value) log.Value {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return log.StringValue(v.String())
	case slog.KindInt64:
		return log.Int64Value(v.Int64())
	case slog.KindUint64:
		return log.Int64Value(int64(v.Uint64()))
	case slog.KindFloat64:
		return log.Float64Value(v.Float64())
	case slog.KindBool:
		return log.BoolValue(v.Bool())
	case slog.KindDuration:
		return log.StringValue(v.Duration().String())
	case slog.KindTime:
		return log.StringValue(v.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		kvs := make([]log.KeyValue, 0, len(v.Group()))
		for _, a := range v.Group() {
			if kv, ok := convertAttr("", a); ok {
				kvs = append(kvs, kv)
			}
		}
		return log.MapValue(kvs...)
	default:
		if err, ok := v.Any().(error); ok {
			return log.StringValue(err.Error())
		}
		return log.StringValue(fmt.Sprint(v.Any()))
	}
}

// fanoutHandler sends every record to each handler that accepts its level.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanoutHandler, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	next := make(fanoutHandler, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
