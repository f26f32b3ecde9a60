package eval

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// TimestampFormat is the layout of Report.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// MetricsRecorder receives measurements from evaluation runs.
type MetricsRecorder interface {
	// RecordCheck is called once per checker invocation.
	RecordCheck(ctx context.Context, evalType EvalType, passed bool, duration time.Duration)
	// RecordRun is called once per RunAll.
	RecordRun(ctx context.Context, overall Overall)
}

type noopRecorder struct{}

func (noopRecorder) RecordCheck(context.Context, EvalType, bool, time.Duration) {}
func (noopRecorder) RecordRun(context.Context, Overall)                         {}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithThresholds sets the limits passed to every checker.
// Default: DefaultThresholds()
func WithThresholds(t Thresholds) RunnerOption {
	return func(r *Runner) {
		r.thresholds = t
	}
}

// WithLogger sets the logger for run progress.
// Default: a logger that discards everything
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer for run and checker spans.
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder MetricsRecorder) RunnerOption {
	return func(r *Runner) {
		if recorder != nil {
			r.recorder = recorder
		}
	}
}

// WithParallel runs the checkers concurrently. Results are still assembled
// in fixed order.
// Default: false
func WithParallel(parallel bool) RunnerOption {
	return func(r *Runner) {
		r.parallel = parallel
	}
}

// WithClock overrides the time source used for timestamps and elapsed time.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner coordinates the checkers and aggregates their verdicts.
//
// Checkers are side-effect free, so a Runner may be shared between
// goroutines. It never mutates the EvalContext it is given.
type Runner struct {
	thresholds Thresholds
	logger     *slog.Logger
	tracer     trace.Tracer
	recorder   MetricsRecorder
	parallel   bool
	now        func() time.Time
}

// NewRunner creates a Runner with the given options applied over the defaults.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		thresholds: DefaultThresholds(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:     noop.NewTracerProvider().Tracer("tripeval/eval"),
		recorder:   noopRecorder{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Thresholds returns the limits the runner's checkers use.
func (r *Runner) Thresholds() Thresholds {
	return r.thresholds
}

type checkerJob struct {
	step     int
	evalType EvalType
	label    string
	run      func() Evaluation
}

// RunAll evaluates an itinerary against the given context.
//
// Feasibility and grounding always run. Edit correctness runs only when the
// context carries an original itinerary; otherwise it is absent from the
// report. A checker that panics is recorded as failed with the panic message
// and does not affect the others. RunAll never returns an error.
func (r *Runner) RunAll(ctx context.Context, text string, ectx EvalContext) *Report {
	start := r.now()

	ctx, span := r.tracer.Start(ctx, "eval.RunAll",
		trace.WithAttributes(
			attribute.Int("itinerary.length", runeLen(text)),
			attribute.Bool("eval.edit", ectx.IsEdit()),
		))
	defer span.End()

	runID := types.NewID()
	r.logger.Info("starting itinerary evaluation", "run_id", runID.String(), "edit", ectx.IsEdit())

	jobs := []checkerJob{
		{step: 1, evalType: EvalFeasibility, label: "Feasibility", run: func() Evaluation {
			return r.RunFeasibility(text, ectx.TravelTimes)
		}},
		{step: 2, evalType: EvalGrounding, label: "Grounding & Hallucination", run: func() Evaluation {
			return r.RunGrounding(text, ectx.SearchResults)
		}},
	}
	if ectx.IsEdit() {
		jobs = append(jobs, checkerJob{step: 3, evalType: EvalEditCorrectness, label: "Edit Correctness", run: func() Evaluation {
			return NewEditChecker(r.thresholds).Evaluate(ectx.OriginalItinerary, text, ectx.EditInstruction, ectx.IntendedSections)
		}})
	}

	results := make([]Evaluation, len(jobs))
	if r.parallel {
		var g errgroup.Group
		for i, job := range jobs {
			g.Go(func() error {
				results[i] = r.runChecker(ctx, job)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, job := range jobs {
			results[i] = r.runChecker(ctx, job)
		}
	}

	var evals Evaluations
	for _, res := range results {
		switch v := res.(type) {
		case *FeasibilityResult:
			evals.Feasibility = v
		case *GroundingResult:
			evals.Grounding = v
		case *EditResult:
			evals.EditCorrectness = v
		}
	}

	end := r.now()
	overall := Aggregate(evals)
	overall.EvaluationTimeSeconds = end.Sub(start).Seconds()

	span.SetAttributes(
		attribute.Bool("eval.passed", overall.AllPassed),
		attribute.Int("eval.issues", overall.TotalIssues),
	)
	if !overall.AllPassed {
		span.SetStatus(codes.Error, "itinerary evaluation failed")
	}
	r.recorder.RecordRun(ctx, overall)

	r.logger.Info("evaluation complete",
		"run_id", runID.String(),
		"status", statusLabel(overall.AllPassed),
		"total_evals", overall.TotalEvals,
		"passed", overall.PassedEvals,
		"failed", overall.FailedEvals,
		"elapsed", fmt.Sprintf("%.2fs", overall.EvaluationTimeSeconds),
	)

	return &Report{
		RunID:       runID,
		Overall:     overall,
		Evaluations: evals,
		Timestamp:   end.Format(TimestampFormat),
	}
}

// runChecker runs one job inside its own span and converts a panic into a
// failed result for that checker.
func (r *Runner) runChecker(ctx context.Context, job checkerJob) (result Evaluation) {
	ctx, span := r.tracer.Start(ctx, "eval."+string(job.evalType))
	defer span.End()

	start := r.now()
	r.logger.Info(fmt.Sprintf("[%d/3] running %s evaluation", job.step, job.label))

	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprint(rec)
			r.logger.Error(job.label+" evaluation failed", "error", msg)
			span.RecordError(fmt.Errorf("%s", msg))
			span.SetStatus(codes.Error, msg)
			result = failedEvaluation(job.evalType, msg)
		}
		passed := result.Verdict().Passed
		span.SetAttributes(attribute.Bool("eval.passed", passed))
		r.recorder.RecordCheck(ctx, job.evalType, passed, r.now().Sub(start))
	}()

	result = job.run()
	r.logResult(job.label, result)
	return result
}

func (r *Runner) logResult(label string, result Evaluation) {
	v := result.Verdict()
	attrs := []any{"status", statusLabel(v.Passed)}

	switch res := result.(type) {
	case *FeasibilityResult:
		if res.Summary != nil {
			attrs = append(attrs, "total_days", res.Summary.TotalDays,
				"passed_checks", res.Summary.PassedChecks, "total_checks", res.Summary.TotalChecks)
		}
	case *GroundingResult:
		if res.Summary != nil {
			attrs = append(attrs, "passed_checks", res.Summary.PassedChecks, "total_checks", res.Summary.TotalChecks)
		}
	case *EditResult:
		if res.Summary != nil {
			attrs = append(attrs, "total_changes", res.Summary.TotalChanges,
				"unintended_changes", res.Summary.UnintendedChanges)
		}
	}
	if v.Error != "" {
		attrs = append(attrs, "error", v.Error)
	}
	r.logger.Info(label+" evaluation finished", attrs...)

	if !v.Passed {
		for _, issue := range result.AllIssues() {
			r.logger.Warn(label+" issue", "issue", issue)
		}
	}
}

// RunFeasibility runs only the feasibility checker.
func (r *Runner) RunFeasibility(text string, travelTimes TravelTimes) *FeasibilityResult {
	return NewFeasibilityChecker(r.thresholds).Evaluate(text, travelTimes)
}

// RunGrounding runs only the grounding checker.
func (r *Runner) RunGrounding(text string, searchResults map[string][]SearchResult) *GroundingResult {
	return NewGroundingChecker(r.thresholds).Evaluate(text, searchResults)
}

// RunEditCorrectness runs only the edit-correctness checker, inferring the
// edit scope from instruction.
func (r *Runner) RunEditCorrectness(original, edited, instruction string) *EditResult {
	return NewEditChecker(r.thresholds).Evaluate(original, edited, instruction, nil)
}

// Aggregate computes the overall verdict of a set of results. Issues are
// prefixed with the name of the checker that raised them.
// EvaluationTimeSeconds is left for the caller to fill.
func Aggregate(evals Evaluations) Overall {
	list := evals.List()
	overall := Overall{
		TotalEvals: len(list),
		AllIssues:  []string{},
	}

	for _, e := range list {
		v := e.Verdict()
		if v.Passed {
			overall.PassedEvals++
		}
		for _, issue := range e.AllIssues() {
			overall.AllIssues = append(overall.AllIssues, fmt.Sprintf("[%s] %s", v.EvalType, issue))
		}
	}

	overall.FailedEvals = overall.TotalEvals - overall.PassedEvals
	overall.AllPassed = overall.PassedEvals == overall.TotalEvals
	if overall.TotalEvals > 0 {
		overall.PassRate = float64(overall.PassedEvals) / float64(overall.TotalEvals) * 100
	}
	overall.TotalIssues = len(overall.AllIssues)
	return overall
}

func statusLabel(passed bool) string {
	if passed {
		return "✓ PASSED"
	}
	return "✗ FAILED"
}
