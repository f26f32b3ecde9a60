// Package observability wires structured logging, distributed tracing and
// metrics for tripeval.
//
// # Logging
//
// NewLogger builds a *slog.Logger from a LoggingConfig. WithTrace adds the
// trace_id and span_id of the active span so log lines can be joined with
// exported traces:
//
//	logger, closer, err := observability.NewLogger(cfg.Logging, os.Stderr)
//	...
//	observability.WithTrace(ctx, logger).Info("evaluation started")
//
// # Tracing
//
// InitTracing returns an SDK tracer provider. With tracing disabled or the
// "noop" provider the returned provider records nothing; with "otlp" spans are
// batched to an OTLP/gRPC collector.
//
// # Metrics
//
// InitMetrics returns a meter provider backed by Prometheus or OTLP, and
// NewEvalMetrics turns a meter into a recorder for evaluation runs:
//
//	provider, err := observability.InitMetrics(ctx, cfg.Metrics)
//	recorder, err := observability.NewEvalMetrics(provider.Meter("tripeval"))
//	runner := eval.NewRunner(eval.WithRecorder(recorder))
package observability
