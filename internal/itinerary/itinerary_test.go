package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parisItinerary = `# Day 1: 2024-02-15 - Classic Paris
* Morning (9 AM - 12 PM): Visit the Eiffel Tower
* Afternoon (2 PM - 5 PM): Explore the Louvre Museum
* Evening (6 PM onwards): Dinner at restaurant

# Day 2: 2024-02-16 - Art & Culture
* Morning (9 AM - 12 PM): Tour Notre-Dame Cathedral
* Afternoon (2 PM - 5 PM): Walk through Montmartre
* Evening (6 PM onwards): Visit Sacré-Cœur Basilica

**Travel Tips:**
* The Paris Metro is efficient. [Source: Wikivoyage - Paris - Get Around]
* Book museum tickets in advance. [Source: Wikivoyage - Paris - See]
`

func TestTokenize_Kinds(t *testing.T) {
	doc := Tokenize("intro\n# Day 3: Mon - Theme\n  * evening: late dinner\n**Travel Tips:**\n- bring cash")
	require.Len(t, doc.Tokens, 5)

	assert.Equal(t, KindOther, doc.Tokens[0].Kind)

	header := doc.Tokens[1]
	assert.Equal(t, KindDayHeader, header.Kind)
	assert.Equal(t, 3, header.Day)
	assert.True(t, header.Titled)
	assert.Equal(t, "Mon", header.Date)
	assert.Equal(t, "Theme", header.Theme)

	activity := doc.Tokens[2]
	assert.Equal(t, KindActivity, activity.Kind)
	assert.True(t, activity.Indented)
	assert.True(t, activity.Structured)
	assert.Equal(t, Evening, activity.Period)
	assert.Equal(t, "late dinner", activity.Description)
	assert.Empty(t, activity.Detail, "indented lines carry no detail")

	tips := doc.Tokens[3]
	assert.Equal(t, KindTipsHeader, tips.Kind)
	assert.True(t, tips.Heading)
	assert.True(t, tips.SectionMarker)

	assert.True(t, doc.Tokens[4].Bullet)
	assert.Equal(t, 5, doc.Tokens[4].Line)
	assert.Equal(t, "tips_header", KindTipsHeader.String())
}

func TestParseDays(t *testing.T) {
	days := ParseDays(parisItinerary)
	require.Len(t, days, 2)

	day1 := days[0]
	assert.Equal(t, 1, day1.Day)
	assert.Equal(t, "2024-02-15", day1.Date)
	assert.Equal(t, "Classic Paris", day1.Theme)
	require.Len(t, day1.Activities, 3)
	assert.Equal(t, Morning, day1.Activities[0].Period)
	assert.Equal(t, "9 AM - 12 PM", day1.Activities[0].TimeRange)
	assert.Equal(t, "Visit the Eiffel Tower", day1.Activities[0].Description)
	assert.Equal(t, Evening, day1.Activities[2].Period)

	assert.Equal(t, 2, days[1].Day)
	assert.Len(t, days[1].Activities, 3)
}

func TestParseDays_HeaderTitleSplit(t *testing.T) {
	tests := []struct {
		header string
		date   string
		theme  string
	}{
		{"# Day 1: Feb 15 - Classic Paris", "Feb 15", "Classic Paris"},
		{"# Day 1: 2024-02-15 - Art - Culture", "2024-02-15", "Art - Culture"},
		{"# Day 1: Paris-Trip", "Paris", "Trip"},
		{"#Day 4:Mon -Beach", "Mon", "Beach"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			days := ParseDays(tt.header)
			require.Len(t, days, 1)
			assert.Equal(t, tt.date, days[0].Date)
			assert.Equal(t, tt.theme, days[0].Theme)
			assert.Empty(t, days[0].Activities)
		})
	}
}

func TestParseDays_EdgeCases(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		expectedDays int
		activities   []int
	}{
		{
			name:         "no headers",
			text:         "Just some prose\n* Morning: coffee",
			expectedDays: 0,
		},
		{
			name:         "header without theme does not open a day",
			text:         "# Day 1: Paris\n* Morning: coffee",
			expectedDays: 0,
		},
		{
			name:         "untitled header folds into previous day",
			text:         "# Day 1: Mon - A\n* Morning: a\n# Day 2: Tue\n* Evening: b",
			expectedDays: 1,
			activities:   []int{2},
		},
		{
			name:         "activities before first day ignored",
			text:         "* Morning: early\n# Day 1: Mon - A\n* afternoon (2-5): museum",
			expectedDays: 1,
			activities:   []int{1},
		},
		{
			name:         "duplicate periods are kept",
			text:         "# Day 1: Mon - A\n* Morning: a\n* Morning: b\n* MORNING: c",
			expectedDays: 1,
			activities:   []int{3},
		},
		{
			name:         "non-activity bullets ignored",
			text:         "# Day 1: Mon - A\n* Lunch: sandwich\n- Morning: dash bullet",
			expectedDays: 1,
			activities:   []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := ParseDays(tt.text)
			require.Len(t, days, tt.expectedDays)
			for i, n := range tt.activities {
				assert.Len(t, days[i].Activities, n)
			}
		})
	}
}

func TestDayPlan_PeriodCounts(t *testing.T) {
	days := ParseDays("# Day 1: Mon - A\n* Morning: a\n* Morning: b\n* Evening: c")
	require.Len(t, days, 1)

	counts := days[0].PeriodCounts()
	assert.Equal(t, 2, counts[Morning])
	assert.Equal(t, 0, counts[Afternoon])
	assert.Equal(t, 1, counts[Evening])
}

func TestSections(t *testing.T) {
	set := Sections("preamble\n# Day 1: Paris\n* Morning: a\n\n# Day 2: Lyon - Food\n* Evening: b\n**Travel Tips:**\n* tip")
	assert.Equal(t, []string{"day_1", "day_2", "travel_tips"}, set.Order)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, "# Day 1: Paris\n* Morning: a\n", set.Get("day_1"))
	assert.Equal(t, "**Travel Tips:**\n* tip", set.Get("travel_tips"))
	assert.True(t, set.Has("day_2"))
	assert.False(t, set.Has("day_3"))
	assert.Equal(t, "", set.Get("day_3"))
}

func TestSections_KeepsDayNumberAsWritten(t *testing.T) {
	set := Sections("# Day 01: Mon - A\n* Morning: a\n# Day 2: Tue - B\n* Evening: b")
	assert.Equal(t, []string{"day_01", "day_2"}, set.Order)

	days := ParseDays("# Day 01: Mon - A\n* Morning: a")
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Day)
}

func TestTokenize_DayNumberOutOfRange(t *testing.T) {
	doc := Tokenize("# Day 99999999999999999999: Mon - A")
	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, KindOther, doc.Tokens[0].Kind)
}

func TestSections_IndentedHeaderIsContent(t *testing.T) {
	set := Sections("# Day 1: A\n  # Day 2: B")
	assert.Equal(t, []string{"day_1"}, set.Order)
	assert.Equal(t, "# Day 1: A\n  # Day 2: B", set.Get("day_1"))
}

func TestSections_Empty(t *testing.T) {
	set := Sections("nothing to see")
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Order)
}

func TestActivityLines(t *testing.T) {
	lines := ActivityLines("# Day 1: A\n* Morning: a  \n  * Evening: indented\n* afternoon (1-2): b")
	assert.Equal(t, []string{"* Morning: a", "* afternoon (1-2): b"}, lines)
}

func TestActivityDetails(t *testing.T) {
	details := ActivityDetails(parisItinerary)
	require.Len(t, details, 6)
	assert.Equal(t, "Visit the Eiffel Tower", details[0])
	assert.Equal(t, "Explore the Louvre Museum", details[1])
}

func TestTipsBlock(t *testing.T) {
	block, found := TipsBlock(parisItinerary)
	require.True(t, found)
	assert.Len(t, block, 2)
	assert.Len(t, TipLines(block), 2)

	block, found = TipsBlock("**Travel Tips:**\nprose only\n\n# Appendix\n* not a tip")
	require.True(t, found)
	assert.Equal(t, []string{"prose only"}, block)
	assert.Empty(t, TipLines(block))

	block, found = TipsBlock("**travel tips**")
	assert.True(t, found)
	assert.Empty(t, block)

	_, found = TipsBlock("# Day 1: A - B\n* Morning: x")
	assert.False(t, found)
}

func TestExtractBody(t *testing.T) {
	body, ok := ExtractBody("Here is your plan!\n---ITINERARY---\n# Day 1: A - B\n")
	require.True(t, ok)
	assert.Equal(t, "# Day 1: A - B", body)

	body, ok = ExtractBody("summary---ITINERARY--- body ---ITINERARY--- trailer")
	require.True(t, ok)
	assert.Equal(t, "body", body)

	_, ok = ExtractBody("no marker here")
	assert.False(t, ok)

	_, ok = ExtractBody("summary\n---ITINERARY---\n   ")
	assert.False(t, ok)
}
