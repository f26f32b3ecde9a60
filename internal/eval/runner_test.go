package eval

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var fixedNow = time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type recordingRecorder struct {
	mu     sync.Mutex
	checks map[EvalType]bool
	runs   []Overall
}

func (r *recordingRecorder) RecordCheck(_ context.Context, evalType EvalType, passed bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.checks == nil {
		r.checks = make(map[EvalType]bool)
	}
	r.checks[evalType] = passed
}

func (r *recordingRecorder) RecordRun(_ context.Context, overall Overall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, overall)
}

func TestRunAll_NewItinerary(t *testing.T) {
	runner := NewRunner(WithClock(fixedClock))

	report := runner.RunAll(context.Background(), parisItinerary, parisContext())

	require.NotNil(t, report)
	assert.False(t, report.RunID.IsZero())
	assert.Equal(t, "2024-02-15T10:00:00.000000Z", report.Timestamp)

	o := report.Overall
	assert.True(t, o.AllPassed)
	assert.Equal(t, 2, o.TotalEvals)
	assert.Equal(t, 2, o.PassedEvals)
	assert.Equal(t, 0, o.FailedEvals)
	assert.Equal(t, 100.0, o.PassRate)
	assert.Equal(t, []string{
		"[grounding] POI 'Le Jules Verne' not found in search results. May be hallucinated or from general knowledge.",
	}, o.AllIssues)
	assert.Equal(t, 1, o.TotalIssues)
	assert.Zero(t, o.EvaluationTimeSeconds)

	require.NotNil(t, report.Evaluations.Feasibility)
	require.NotNil(t, report.Evaluations.Grounding)
	assert.Nil(t, report.Evaluations.EditCorrectness)
}

func TestRunAll_EditAbsentFromJSON(t *testing.T) {
	report := NewRunner().RunAll(context.Background(), parisItinerary, parisContext())

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var raw struct {
		Evaluations map[string]json.RawMessage `json:"evaluations"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw.Evaluations, "feasibility")
	assert.Contains(t, raw.Evaluations, "grounding")
	assert.NotContains(t, raw.Evaluations, "edit_correctness")
}

func TestRunAll_Edit(t *testing.T) {
	ectx := parisContext()
	ectx.SearchResults["historical"] = append(ectx.SearchResults["historical"], SearchResult{Name: "Rodin Museum"})
	ectx.OriginalItinerary = parisItinerary
	ectx.EditInstruction = "change day 2 morning to Rodin"

	report := NewRunner().RunAll(context.Background(), parisEditedWithTips, ectx)

	require.NotNil(t, report.Evaluations.EditCorrectness)
	assert.False(t, report.Evaluations.EditCorrectness.Passed)

	o := report.Overall
	assert.False(t, o.AllPassed)
	assert.Equal(t, 3, o.TotalEvals)
	assert.Equal(t, 2, o.PassedEvals)
	assert.Equal(t, 1, o.FailedEvals)
	assert.InDelta(t, 66.6667, o.PassRate, 1e-3)
	assert.Equal(t, []string{
		"[grounding] POI 'Le Jules Verne' not found in search results. May be hallucinated or from general knowledge.",
		"[edit_correctness] Unintended change in section 'travel_tips': modification (similarity: 94.43%)",
	}, o.AllIssues)
}

func TestRunAll_UnparseableItinerary(t *testing.T) {
	report := NewRunner().RunAll(context.Background(), "Sorry, I could not build a plan.", EvalContext{})

	f := report.Evaluations.Feasibility
	assert.False(t, f.Passed)
	assert.Equal(t, "Could not parse itinerary", f.Error)
	assert.False(t, report.Evaluations.Grounding.Passed)
	assert.Equal(t, 0, report.Overall.PassedEvals)
	assert.Equal(t, 0.0, report.Overall.PassRate)
}

func TestRunAll_DoesNotMutateContext(t *testing.T) {
	ectx := parisContext()
	before := parisContext()

	NewRunner().RunAll(context.Background(), parisItinerary, ectx)

	assert.Equal(t, before, ectx)
}

func TestRunAll_Idempotent(t *testing.T) {
	runner := NewRunner(WithClock(fixedClock))

	first := runner.RunAll(context.Background(), parisItinerary, parisContext())
	second := runner.RunAll(context.Background(), parisItinerary, parisContext())

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Evaluations, second.Evaluations)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunAll_ParallelMatchesSequential(t *testing.T) {
	ectx := parisContext()
	ectx.OriginalItinerary = parisItinerary
	ectx.EditInstruction = "change day 2"

	seq := NewRunner(WithClock(fixedClock)).RunAll(context.Background(), parisEditedWithTips, ectx)
	par := NewRunner(WithClock(fixedClock), WithParallel(true)).RunAll(context.Background(), parisEditedWithTips, ectx)

	assert.Equal(t, seq.Overall, par.Overall)
	assert.Equal(t, seq.Evaluations, par.Evaluations)
}

func TestRunAll_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ectx := parisContext()
	ectx.OriginalItinerary = parisItinerary
	NewRunner(WithTracer(tp.Tracer("test"))).RunAll(context.Background(), parisEdited, ectx)

	spans := sr.Ended()
	require.Len(t, spans, 4)

	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"eval.feasibility", "eval.grounding", "eval.edit_correctness", "eval.RunAll"}, names)

	root := spans[3]
	for _, child := range spans[:3] {
		assert.Equal(t, root.SpanContext().SpanID(), child.Parent().SpanID())
	}
}

func TestRunAll_RecordsMetrics(t *testing.T) {
	rec := &recordingRecorder{}

	NewRunner(WithRecorder(rec), WithParallel(true)).RunAll(context.Background(), parisItinerary, parisContext())

	assert.Equal(t, map[EvalType]bool{EvalFeasibility: true, EvalGrounding: true}, rec.checks)
	require.Len(t, rec.runs, 1)
	assert.True(t, rec.runs[0].AllPassed)
}

func TestRunChecker_RecoversPanic(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	runner := NewRunner(WithTracer(tp.Tracer("test")))

	result := runner.runChecker(context.Background(), checkerJob{
		step:     2,
		evalType: EvalGrounding,
		label:    "Grounding",
		run:      func() Evaluation { panic("search index corrupted") },
	})

	g, ok := result.(*GroundingResult)
	require.True(t, ok)
	assert.Equal(t, Outcome{EvalType: EvalGrounding, Passed: false, Error: "search index corrupted"}, g.Outcome)
	assert.Nil(t, g.POIGrounding)
	assert.Empty(t, g.AllIssues())

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "search index corrupted", spans[0].Status().Description)
}

func TestAggregate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		o := Aggregate(Evaluations{})
		assert.True(t, o.AllPassed)
		assert.Zero(t, o.TotalEvals)
		assert.Zero(t, o.PassRate)
		assert.Empty(t, o.AllIssues)
	})

	t.Run("failed checker entry", func(t *testing.T) {
		evals := Evaluations{
			Feasibility: NewFeasibilityChecker(DefaultThresholds()).Evaluate(busyDay(), nil),
			Grounding:   failedEvaluation(EvalGrounding, "boom").(*GroundingResult),
		}

		o := Aggregate(evals)
		assert.False(t, o.AllPassed)
		assert.Equal(t, 2, o.FailedEvals)
		assert.Equal(t, 5, o.TotalIssues)
		assert.Equal(t, "[feasibility] Too many activities (11). Max recommended: 10", o.AllIssues[0])
	})
}

func TestRunEditCorrectness(t *testing.T) {
	res := NewRunner().RunEditCorrectness(parisItinerary, parisEditedWithTips, "update the tips")

	// "tip" scopes travel_tips only, so the day 2 change is unintended.
	assert.False(t, res.Passed)
	require.Len(t, res.UnintendedChanges, 1)
	assert.Equal(t, "day_2", res.UnintendedChanges[0].Section)
}
