package eval

import (
	"fmt"
	"strings"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
)

// FeasibilityChecker verifies that each day of an itinerary is physically
// and temporally plausible.
type FeasibilityChecker struct {
	thresholds Thresholds
}

// NewFeasibilityChecker creates a checker using the given limits.
func NewFeasibilityChecker(thresholds Thresholds) *FeasibilityChecker {
	return &FeasibilityChecker{thresholds: thresholds}
}

// Evaluate runs the daily-duration, travel-time and pace checks for every
// parsed day. travelTimes maps day numbers to travel samples in minutes and
// may be nil.
func (c *FeasibilityChecker) Evaluate(text string, travelTimes TravelTimes) *FeasibilityResult {
	days := itinerary.ParseDays(text)
	if len(days) == 0 {
		return &FeasibilityResult{
			Outcome: Outcome{
				EvalType: EvalFeasibility,
				Passed:   false,
				Error:    "Could not parse itinerary",
			},
			Results: []DayResult{},
		}
	}

	summary := &CheckSummary{TotalDays: len(days)}
	results := make([]DayResult, 0, len(days))
	allPassed := true

	for _, day := range days {
		res := DayResult{
			Day:           day.Day,
			Date:          day.Date,
			Theme:         day.Theme,
			DailyDuration: c.checkDailyDuration(day),
			TravelTimes:   c.checkTravelTimes(day, travelTimes[day.Day]),
			Pace:          c.checkPace(day),
		}

		summary.add(res.DailyDuration.CheckOutcome)
		summary.add(res.TravelTimes.CheckOutcome)
		summary.add(res.Pace.CheckOutcome)

		res.Passed = res.DailyDuration.Passed && res.TravelTimes.Passed && res.Pace.Passed
		if !res.Passed {
			allPassed = false
		}
		results = append(results, res)
	}

	return &FeasibilityResult{
		Outcome: Outcome{EvalType: EvalFeasibility, Passed: allPassed},
		Summary: summary,
		Results: results,
	}
}

func (c *FeasibilityChecker) checkDailyDuration(day itinerary.DayPlan) DurationCheck {
	var issues []string
	count := len(day.Activities)

	if count > c.thresholds.MaxActivitiesPerDay {
		issues = append(issues, fmt.Sprintf("Too many activities (%d). Max recommended: %d",
			count, c.thresholds.MaxActivitiesPerDay))
	}

	// Period order follows first occurrence in the day.
	counts := day.PeriodCounts()
	var seen []itinerary.Period
	for _, a := range day.Activities {
		if !containsPeriod(seen, a.Period) {
			seen = append(seen, a.Period)
		}
	}

	var hours float64
	for _, p := range seen {
		hours += c.thresholds.PeriodHours.For(p)
		if counts[p] > 1 {
			issues = append(issues, fmt.Sprintf(
				"Multiple activities (%d) scheduled for %s. This may be too rushed.", counts[p], p))
		}
	}

	return DurationCheck{
		CheckOutcome:        newCheck(CheckDailyDuration, issues),
		TotalActivities:     count,
		TotalAvailableHours: hours,
	}
}

func (c *FeasibilityChecker) checkTravelTimes(day itinerary.DayPlan, samples []float64) TravelCheck {
	var issues []string

	if len(samples) > 0 {
		for i, minutes := range samples {
			if minutes > c.thresholds.MaxTravelMinutes {
				issues = append(issues, fmt.Sprintf(
					"Travel time between activity %d and %d is %.1f minutes. Max recommended: %g minutes.",
					i+1, i+2, minutes, c.thresholds.MaxTravelMinutes))
			}
		}
	} else if !hasLocationText(day.Activities) && len(day.Activities) > c.thresholds.UnlocatedActivityLimit {
		issues = append(issues, "No location data found for activities. Unable to verify travel times.")
	}

	estimates := samples
	if estimates == nil {
		estimates = []float64{}
	}
	return TravelCheck{
		CheckOutcome:    newCheck(CheckTravelTimes, issues),
		TravelEstimates: estimates,
	}
}

func (c *FeasibilityChecker) checkPace(day itinerary.DayPlan) PaceCheck {
	var issues []string
	count := len(day.Activities)

	if count < c.thresholds.MinActivitiesPerDay {
		issues = append(issues, fmt.Sprintf(
			"Only %d activity planned. Consider adding more activities for a full day.", count))
	} else if count > c.thresholds.IdealActivitiesPerDay {
		issues = append(issues, fmt.Sprintf(
			"%d activities may be too rushed. Ideal: %d or fewer per day.",
			count, c.thresholds.IdealActivitiesPerDay))
	}

	counts := day.PeriodCounts()
	used := 0
	for _, p := range itinerary.Periods {
		if counts[p] > 0 {
			used++
		}
	}
	if used == 1 && count > 1 {
		issues = append(issues,
			"All activities are in the same time period. Consider spreading across morning, afternoon, and evening.")
	}

	return PaceCheck{
		CheckOutcome:        newCheck(CheckPaceConsistency, issues),
		NumActivities:       count,
		MorningActivities:   counts[itinerary.Morning],
		AfternoonActivities: counts[itinerary.Afternoon],
		EveningActivities:   counts[itinerary.Evening],
	}
}

// hasLocationText reports whether any activity mentions "lat" or "location".
func hasLocationText(activities []itinerary.Activity) bool {
	for _, a := range activities {
		text := a.Text()
		if strings.Contains(text, "lat") || strings.Contains(strings.ToLower(text), "location") {
			return true
		}
	}
	return false
}

func containsPeriod(periods []itinerary.Period, p itinerary.Period) bool {
	for _, q := range periods {
		if q == p {
			return true
		}
	}
	return false
}
