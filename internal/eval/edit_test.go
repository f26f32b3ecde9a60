package eval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("same", "same"))
	assert.Equal(t, 0.0, Similarity("", "x"))
	assert.InDelta(t, 0.75, Similarity("abcd", "bcde"), 1e-9)
	assert.InDelta(t, 0.84375, Similarity("* Morning: Tour the Orsay museum", "* Morning: Tour the Rodin museum"), 1e-9)
	// Non-ASCII text is compared per character.
	assert.InDelta(t, 0.75, Similarity("éabc", "abcé"), 1e-9)
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		original string
		edited   string
		expected ChangeType
	}{
		{"", "new", ChangeAddition},
		{"old", "", ChangeDeletion},
		{"abcd", "abcdefg", ChangeMajorAddition},
		{"abcdefgh", "abc", ChangeMajorDeletion},
		{"abcd", "abce", ChangeModification},
		{"abcd", "abcdef", ChangeModification},
	}

	for _, tt := range tests {
		t.Run(tt.original+"->"+tt.edited, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyChange(tt.original, tt.edited))
		})
	}
}

func TestInferIntendedSections(t *testing.T) {
	tests := []struct {
		instruction string
		expected    []string
	}{
		{"Change day 2 morning to Rodin", []string{"day_2", "morning"}},
		{"swap Day 1 and day 3 evenings", []string{"day_1", "day_3", "evening"}},
		{"update the tips", []string{"travel_tips"}},
		{"any advice for the afternoon?", []string{"afternoon", "travel_tips"}},
		{"make it cheaper", []string{"day_"}},
	}

	for _, tt := range tests {
		t.Run(tt.instruction, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferIntendedSections(tt.instruction))
		})
	}
}

func TestEdit_IntendedChange(t *testing.T) {
	res := NewEditChecker(DefaultThresholds()).Evaluate(parisItinerary, parisEdited, "change day 2 morning to Rodin", nil)

	assert.True(t, res.Passed)
	assert.Equal(t, EditSummary{
		TotalSectionsOriginal: 3,
		TotalSectionsEdited:   3,
		TotalChanges:          1,
		IntendedChanges:       1,
	}, *res.Summary)
	require.Len(t, res.Differences, 1)
	d := res.Differences[0]
	assert.Equal(t, "day_2", d.Section)
	assert.Equal(t, ChangeModification, d.ChangeType)
	assert.Equal(t, 146, d.OriginalLength)
	assert.Equal(t, 146, d.EditedLength)
	assert.InDelta(t, 0.9657534246575342, d.Similarity, 1e-9)
	assert.Empty(t, res.UnintendedChanges)
	assert.Empty(t, res.Issues)
	assert.Equal(t, []string{"day_2", "morning"}, res.IntendedSections)
}

func TestEdit_UnintendedChange(t *testing.T) {
	res := NewEditChecker(DefaultThresholds()).Evaluate(parisItinerary, parisEditedWithTips, "change day 2 morning to Rodin", nil)

	assert.False(t, res.Passed)
	assert.Equal(t, 2, res.Summary.TotalChanges)
	assert.Equal(t, 1, res.Summary.IntendedChanges)
	assert.Equal(t, 1, res.Summary.UnintendedChanges)

	// Original section order.
	require.Len(t, res.Differences, 2)
	assert.Equal(t, "day_2", res.Differences[0].Section)
	assert.Equal(t, "travel_tips", res.Differences[1].Section)

	require.Len(t, res.UnintendedChanges, 1)
	u := res.UnintendedChanges[0]
	assert.Equal(t, "travel_tips", u.Section)
	assert.Equal(t, "Section changed but was not in intended edit scope", u.Reason)
	assert.Equal(t, 159, u.EditedLength)
	assert.Equal(t, []string{
		"Unintended change in section 'travel_tips': modification (similarity: 94.43%)",
	}, res.Issues)
}

func TestEdit_ZeroPaddedDayInScope(t *testing.T) {
	original := "# Day 01: Mon - A\n* Morning: Louvre\n# Day 02: Tue - B\n* Morning: Orsay"
	edited := "# Day 01: Mon - A\n* Morning: Rodin\n# Day 02: Tue - B\n* Morning: Orsay"

	res := NewEditChecker(DefaultThresholds()).Evaluate(original, edited, "change day 01 please", nil)

	assert.Equal(t, []string{"day_01"}, res.IntendedSections)
	require.Len(t, res.Differences, 1)
	assert.Equal(t, "day_01", res.Differences[0].Section)
	assert.Empty(t, res.UnintendedChanges)
	assert.True(t, res.Passed)
}

func TestEdit_ExplicitScopeOverridesInstruction(t *testing.T) {
	checker := NewEditChecker(DefaultThresholds())

	res := checker.Evaluate(parisItinerary, parisEditedWithTips, "change day 2 morning", []string{"day_2", "travel_tips"})
	assert.True(t, res.Passed)
	assert.Equal(t, []string{"day_2", "travel_tips"}, res.IntendedSections)

	res = checker.Evaluate(parisItinerary, parisEdited, "", []string{"day_1"})
	assert.False(t, res.Passed)
	assert.Equal(t, "day_2", res.UnintendedChanges[0].Section)
}

func TestEdit_NoScopeMeansEverythingIntended(t *testing.T) {
	res := NewEditChecker(DefaultThresholds()).Evaluate(parisItinerary, parisEditedWithTips, "", nil)

	assert.True(t, res.Passed)
	assert.Equal(t, 2, res.Summary.IntendedChanges)
	assert.Nil(t, res.IntendedSections)
}

func TestEdit_WildcardScopeOnlyCoversDays(t *testing.T) {
	res := NewEditChecker(DefaultThresholds()).Evaluate(parisItinerary, parisEditedWithTips, "make it better", nil)

	assert.False(t, res.Passed)
	require.Len(t, res.UnintendedChanges, 1)
	assert.Equal(t, "travel_tips", res.UnintendedChanges[0].Section)
}

func TestEdit_IdenticalText(t *testing.T) {
	res := NewEditChecker(DefaultThresholds()).Evaluate(parisItinerary, parisItinerary, "change day 1", nil)

	assert.True(t, res.Passed)
	assert.Empty(t, res.Differences)
	assert.Zero(t, res.Summary.TotalChanges)
	assert.Zero(t, res.ActivityChanges.TotalChanges)
}

func TestEdit_AddedAndRemovedSections(t *testing.T) {
	original := "# Day 1: Mon - A\n* Morning: Walk\n# Day 2: Tue - B\n* Morning: Swim"
	edited := "# Day 1: Mon - A\n* Morning: Walk\n# Day 3: Wed - C\n* Morning: Ride"

	res := NewEditChecker(DefaultThresholds()).Evaluate(original, edited, "", []string{"day_1"})

	require.Len(t, res.Differences, 2)
	assert.Equal(t, "day_2", res.Differences[0].Section)
	assert.Equal(t, ChangeDeletion, res.Differences[0].ChangeType)
	assert.Equal(t, 0.0, res.Differences[0].Similarity)
	assert.Equal(t, "day_3", res.Differences[1].Section)
	assert.Equal(t, ChangeAddition, res.Differences[1].ChangeType)
	assert.Len(t, res.UnintendedChanges, 2)
}

func TestFindDifferences_SectionSegmentation(t *testing.T) {
	before := itinerary.Sections("preamble\n# Day 1: x\nline")
	after := itinerary.Sections("other preamble\n# Day 1: x\nline")

	assert.Empty(t, FindDifferences(before, after), "text before the first header belongs to no section")
}

func TestCompareActivities(t *testing.T) {
	checker := NewEditChecker(DefaultThresholds())

	t.Run("modified line", func(t *testing.T) {
		diff := checker.CompareActivities(parisItinerary, parisEdited)
		assert.Empty(t, diff.Added)
		assert.Empty(t, diff.Removed)
		require.Len(t, diff.Modified, 1)
		assert.Equal(t, "* Morning: Tour the Orsay museum", diff.Modified[0].Original)
		assert.Equal(t, "* Morning: Tour the Rodin museum", diff.Modified[0].Edited)
		assert.InDelta(t, 0.84375, diff.Modified[0].Similarity, 1e-9)
		assert.Equal(t, 1, diff.TotalChanges)
	})

	t.Run("added and removed lines", func(t *testing.T) {
		original := "* Morning: Visit the Louvre\n* Evening: Opera"
		edited := strings.Join([]string{
			"* Morning: Visit the Louvre",
			"* Evening: Dinner cruise on the Seine",
		}, "\n")

		diff := checker.CompareActivities(original, edited)
		assert.Equal(t, []string{"* Evening: Opera"}, diff.Removed)
		assert.Equal(t, []string{"* Evening: Dinner cruise on the Seine"}, diff.Added)
		assert.Empty(t, diff.Modified)
		assert.Equal(t, 2, diff.TotalChanges)
	})
}
