package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
}

// NewLogger creates a logger writing to w in the configured format and level.
// Records are also sent to each extra handler, such as one from
// NewOTelHandler. An unknown level falls back to info.
func NewLogger(cfg LoggingConfig, w io.Writer, extra ...slog.Handler) *slog.Logger {
	level, _ := ParseLevel(cfg.Level)

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = NewTextHandler(w, level)
	} else {
		handler = NewJSONHandler(w, level)
	}

	if len(extra) == 0 {
		return slog.New(handler)
	}
	return slog.New(append(fanoutHandler{handler}, extra...))
}

// OpenLogOutput resolves a LoggingConfig output to a writer. stdout and stderr
// are returned as-is with a no-op Close; anything else is opened as a file
// in append mode.
func OpenLogOutput(output string) (io.WriteCloser, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return nopCloser{os.Stderr}, nil
	case "stdout":
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, WrapObservabilityError(ErrInvalidConfig, fmt.Sprintf("failed to open log file %s", output), err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// WithTrace returns a logger carrying the trace_id and span_id of the span in
// ctx. The logger is returned unchanged when ctx has no valid span.
func WithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}

// NewJSONHandler creates a JSON log handler with the specified output and level.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// NewTextHandler creates a text log handler with the specified output and level.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}
