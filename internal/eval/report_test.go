package eval

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReport(t *testing.T) {
	report := NewRunner(WithClock(fixedClock)).RunAll(context.Background(), parisItinerary, parisContext())

	text := GenerateReport(report)

	rule := strings.Repeat("=", 70)
	assert.True(t, strings.HasPrefix(text, rule+"\nITINERARY EVALUATION REPORT\n"+rule+"\n"))
	assert.True(t, strings.HasSuffix(text, rule+"\nEND OF REPORT\n"+rule))
	assert.Contains(t, text, "Timestamp: 2024-02-15T10:00:00.000000Z\n")
	assert.Contains(t, text, "OVERALL RESULTS\n"+strings.Repeat("-", 70)+"\nStatus: ✓ PASSED\nPass Rate: 100.0%\nTotal Issues: 1\n")
	assert.Contains(t, text, "1. FEASIBILITY EVALUATION")
	assert.Contains(t, text, "Total Days: 2\nChecks Passed: 6/6\n")
	assert.Contains(t, text, "2. GROUNDING & HALLUCINATION EVALUATION")
	assert.Contains(t, text, "\nPoi Grounding:\n  - Grounded POIs: 4\n  - Ungrounded POIs: 1\n  - Grounding Rate: 80.0%\n  - POI 'Le Jules Verne'")
	assert.Contains(t, text, "\nTip Citations:\n  - Total Tips: 2\n  - Tips with Citations: 2\n  - Citation Rate: 100.0%\n")
	assert.Contains(t, text, "\nUncertainty Markers:\n  - Uncertainty Markers Found: 1\n")
	assert.NotContains(t, text, "3. EDIT CORRECTNESS EVALUATION")
	assert.NotContains(t, text, "Day 1 Issues:")
	assert.NotContains(t, text, "\nIssues:")

	assert.Equal(t, text, GenerateReport(report), "rendering is deterministic")
}

func TestGenerateReport_FailuresAndEdit(t *testing.T) {
	ectx := EvalContext{
		OriginalItinerary: parisItinerary,
		EditInstruction:   "change day 2 morning",
		TravelTimes:       TravelTimes{1: {90}},
	}
	report := NewRunner().RunAll(context.Background(), parisEditedWithTips, ectx)

	text := GenerateReport(report)

	assert.Contains(t, text, "Status: ✗ FAILED\nPass Rate: 0.0%\n")
	assert.Contains(t, text, "\nDay 1 Issues:\n  - Travel time between activity 1 and 2 is 90.0 minutes. Max recommended: 60 minutes.\n")
	assert.Contains(t, text, "  - Grounding Rate: 0.0%\n  - No search results provided. Cannot verify POI grounding.\n")
	assert.Contains(t, text, "3. EDIT CORRECTNESS EVALUATION\n"+strings.Repeat("-", 70)+"\nStatus: ✗ FAILED\nTotal Changes: 2\nIntended Changes: 1\nUnintended Changes: 1\n\nIssues:\n  - Unintended change in section 'travel_tips'")
}

func TestGenerateReport_CheckerError(t *testing.T) {
	report := &Report{
		Evaluations: Evaluations{
			Feasibility: &FeasibilityResult{Outcome: Outcome{EvalType: EvalFeasibility, Error: "Could not parse itinerary"}},
		},
	}

	text := GenerateReport(report)

	assert.Contains(t, text, "Timestamp: N/A\n")
	assert.Contains(t, text, "1. FEASIBILITY EVALUATION\n"+strings.Repeat("-", 70)+"\nStatus: ✗ FAILED\nError: Could not parse itinerary\n")
	assert.NotContains(t, text, "Total Days")
}
