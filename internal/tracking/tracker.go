package tracking

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
)

// Tool names whose outputs feed the evaluation context.
const (
	ToolSearchPlaces       = "search_places"
	ToolEstimateTravelTime = "estimate_travel_time"
)

// ResultsFile is the file name reports are saved under inside the output
// directory.
const ResultsFile = eval.DefaultResultsFile

const (
	defaultCategory = "unknown"
	loggedIssues    = 5
)

var (
	editKeywords    = []string{"change", "update", "modify", "edit", "replace"}
	durationPattern = regexp.MustCompile(`Duration: ([\d.]+) mins`)
)

// Evaluator runs every checker over an itinerary and persists the report.
// *eval.Runner satisfies it.
type Evaluator interface {
	RunAll(ctx context.Context, text string, ectx eval.EvalContext) *eval.Report
	SaveResults(ctx context.Context, report *eval.Report, path string) bool
}

// ToolCall is one completed tool invocation observed in the conversation.
type ToolCall struct {
	Name      string         `json:"name"`
	Output    string         `json:"content"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Tracker watches one conversation and evaluates every new or edited
// itinerary the assistant produces.
//
// Tool outputs accumulate into the evaluation context. The first itinerary
// seen is evaluated on its own; when a later itinerary differs from the
// previous one it is evaluated as an edit of the first itinerary, using the
// most recent edit instruction. Evaluation failures are logged and never
// returned to the conversation.
//
// Thread Safety:
//   - All methods are safe for concurrent use
//   - One evaluation runs at a time per Tracker
type Tracker struct {
	mu sync.Mutex

	evaluator Evaluator
	outputDir string
	logger    *slog.Logger

	searchResults     map[string][]eval.SearchResult
	travelSamples     []float64
	lastItinerary     string
	originalItinerary string
	editInstruction   string
}

// NewTracker creates a tracker that evaluates through evaluator and saves
// reports under outputDir. A nil logger discards output.
func NewTracker(evaluator Evaluator, outputDir string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if outputDir == "" {
		outputDir = "."
	}
	return &Tracker{
		evaluator:     evaluator,
		outputDir:     outputDir,
		logger:        logger,
		searchResults: make(map[string][]eval.SearchResult),
	}
}

// ResultsPath returns where reports are written.
func (t *Tracker) ResultsPath() string {
	return filepath.Join(t.outputDir, ResultsFile)
}

// ObserveUserMessage records text as the edit instruction when it contains
// an edit keyword. It reports whether the instruction was recorded.
func (t *Tracker) ObserveUserMessage(text string) bool {
	lower := strings.ToLower(text)
	if !lo.SomeBy(editKeywords, func(k string) bool { return strings.Contains(lower, k) }) {
		return false
	}

	t.mu.Lock()
	t.editInstruction = text
	t.mu.Unlock()

	t.logger.Debug("recorded edit instruction", "instruction", text)
	return true
}

// TrackToolCall folds a tool output into the evaluation context.
// Unknown tools and unparseable outputs are ignored.
func (t *Tracker) TrackToolCall(call ToolCall) {
	switch call.Name {
	case ToolSearchPlaces:
		results, err := ParseSearchResults(call.Output)
		if err != nil {
			t.logger.Warn("could not parse search results", "error", err)
			return
		}
		if len(results) == 0 {
			return
		}

		category := defaultCategory
		if c, ok := call.Arguments["category"].(string); ok && c != "" {
			category = c
		}

		t.mu.Lock()
		t.searchResults[category] = append(t.searchResults[category], results...)
		t.mu.Unlock()

		t.logger.Debug("tracked search results", "count", len(results), "category", category)

	case ToolEstimateTravelTime:
		m := durationPattern.FindStringSubmatch(call.Output)
		if m == nil {
			return
		}
		minutes, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}

		t.mu.Lock()
		t.travelSamples = append(t.travelSamples, minutes)
		t.mu.Unlock()
	}
}

// ObserveAssistantMessage evaluates the itinerary carried by an assistant
// message, if any. It returns the report, or nil when the message holds no
// itinerary or repeats the previous one. The only error is ctx's.
func (t *Tracker) ObserveAssistantMessage(ctx context.Context, text string) (*eval.Report, error) {
	body, ok := itinerary.ExtractBody(text)
	if !ok {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var isEdit bool
	switch {
	case t.lastItinerary == "":
		t.logger.Info("detected new itinerary generation")
	case body != t.lastItinerary:
		if t.originalItinerary == "" {
			t.originalItinerary = t.lastItinerary
		}
		isEdit = true
		t.logger.Info("detected itinerary edit")
	default:
		return nil, nil
	}
	t.lastItinerary = body

	ectx := t.snapshotLocked()
	if isEdit {
		ectx.OriginalItinerary = t.originalItinerary
		ectx.EditInstruction = t.editInstruction
	}

	report := t.evaluate(ctx, body, ectx)
	return report, nil
}

func (t *Tracker) evaluate(ctx context.Context, body string, ectx eval.EvalContext) (report *eval.Report) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("evaluation failed", "panic", fmt.Sprint(r))
			report = nil
		}
	}()

	report = t.evaluator.RunAll(ctx, body, ectx)
	if report == nil {
		return nil
	}
	t.evaluator.SaveResults(ctx, report, t.ResultsPath())

	overall := report.Overall
	if overall.AllPassed {
		t.logger.Info("itinerary passed all evaluations", "run_id", report.RunID.String())
		return report
	}
	t.logger.Warn("itinerary has evaluation issues",
		"run_id", report.RunID.String(),
		"total_issues", overall.TotalIssues,
	)
	for _, issue := range overall.AllIssues[:min(loggedIssues, len(overall.AllIssues))] {
		t.logger.Warn("evaluation issue", "issue", issue)
	}
	return report
}

// Snapshot returns a copy of the tool context gathered so far. Search results
// are nil until a search has been tracked, and every travel sample is
// attributed to day 1.
func (t *Tracker) Snapshot() eval.EvalContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() eval.EvalContext {
	var ectx eval.EvalContext
	if len(t.searchResults) > 0 {
		ectx.SearchResults = make(map[string][]eval.SearchResult, len(t.searchResults))
		for category, results := range t.searchResults {
			ectx.SearchResults[category] = slices.Clone(results)
		}
	}
	if len(t.travelSamples) > 0 {
		ectx.TravelTimes = eval.TravelTimes{1: slices.Clone(t.travelSamples)}
	}
	return ectx
}

// Categories returns the tracked search categories in sorted order.
func (t *Tracker) Categories() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	categories := lo.Keys(t.searchResults)
	slices.Sort(categories)
	return categories
}

// Reset clears all conversation state. Call it between sessions.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.searchResults = make(map[string][]eval.SearchResult)
	t.travelSamples = nil
	t.lastItinerary = ""
	t.originalItinerary = ""
	t.editInstruction = ""

	t.logger.Info("evaluation context reset")
}

// ParseSearchResults decodes a place-search tool output. The output is a list
// of records written either as JSON or as a Python literal
// ("[{'name': 'Museum', 'rating': 4.5}]"); both are valid YAML flow syntax.
// Null records are skipped; any other non-mapping record is an error.
func ParseSearchResults(output string) ([]eval.SearchResult, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, fmt.Errorf("empty search output")
	}

	var records []map[string]any
	if err := yaml.Unmarshal([]byte(output), &records); err != nil {
		return nil, fmt.Errorf("decode search output: %w", err)
	}

	results := lo.FilterMap(records, func(record map[string]any, _ int) (eval.SearchResult, bool) {
		if record == nil {
			return eval.SearchResult{}, false
		}
		return toSearchResult(record), true
	})
	return results, nil
}

func toSearchResult(record map[string]any) eval.SearchResult {
	var r eval.SearchResult
	for key, value := range record {
		switch key {
		case "name":
			if value != nil {
				r.Name = fmt.Sprint(value)
			}
		case "source":
			if s, ok := value.(string); ok {
				r.Source = s
			}
		case "rating":
			if f, ok := toFloat(value); ok {
				r.Rating = &f
				continue
			}
			fallthrough
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]any)
			}
			r.Extra[key] = value
		}
	}
	return r
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
