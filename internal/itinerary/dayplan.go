package itinerary

import "strings"

// Period is the time-of-day slot an activity is scheduled in.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

// Periods lists the recognised periods in day order.
var Periods = []Period{Morning, Afternoon, Evening}

// Activity is one time-slotted entry of a day plan.
type Activity struct {
	Period      Period `json:"time_period"`
	TimeRange   string `json:"time_range,omitempty"`
	Description string `json:"description"`
}

// Text renders every field of the activity into one string for
// substring heuristics.
func (a Activity) Text() string {
	return strings.Join([]string{string(a.Period), a.TimeRange, a.Description}, " ")
}

// DayPlan is the structured view of one "# Day <n>: <date> - <theme>" block.
// Date is a free-text label and is not validated as a calendar date.
type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// PeriodCounts returns how many activities fall in each period.
func (d DayPlan) PeriodCounts() map[Period]int {
	counts := make(map[Period]int, len(Periods))
	for _, a := range d.Activities {
		counts[a.Period]++
	}
	return counts
}

// ParseDays builds the ordered day plans of an itinerary.
//
// Only titled headers ("# Day <n>: <date> - <theme>") open a day; a header
// missing the theme suffix is skipped and its activities fold into the
// previous day. Activities before the first day are ignored. Returns nil
// when no day header is found.
func ParseDays(text string) []DayPlan {
	return Tokenize(text).Days()
}

// Days is the DayPlan projection of the document.
func (d Document) Days() []DayPlan {
	var days []DayPlan
	var current *DayPlan

	for _, tok := range d.Tokens {
		switch {
		case tok.Kind == KindDayHeader && tok.Titled:
			if current != nil {
				days = append(days, *current)
			}
			current = &DayPlan{
				Day:        tok.Day,
				Date:       tok.Date,
				Theme:      tok.Theme,
				Activities: []Activity{},
			}
		case tok.Kind == KindActivity && tok.Structured && current != nil:
			current.Activities = append(current.Activities, Activity{
				Period:      tok.Period,
				TimeRange:   tok.TimeRange,
				Description: tok.Description,
			})
		}
	}

	if current != nil {
		days = append(days, *current)
	}
	return days
}
