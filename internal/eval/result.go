package eval

import (
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// EvalType tags the checker that produced a result.
type EvalType string

const (
	EvalFeasibility     EvalType = "feasibility"
	EvalGrounding       EvalType = "grounding"
	EvalEditCorrectness EvalType = "edit_correctness"
)

// Check names used inside checker results.
const (
	CheckDailyDuration      = "daily_duration"
	CheckTravelTimes        = "travel_times"
	CheckPaceConsistency    = "pace_consistency"
	CheckPOIGrounding       = "poi_grounding"
	CheckTipCitations       = "tip_citations"
	CheckUncertaintyMarkers = "uncertainty_markers"
)

// Outcome is the verdict header shared by every checker result.
// Error is set when the checker could not produce a regular result.
type Outcome struct {
	EvalType EvalType `json:"eval_type"`
	Passed   bool     `json:"passed"`
	Error    string   `json:"error,omitempty"`
}

// Evaluation is implemented by every checker result.
type Evaluation interface {
	// Verdict returns the result header.
	Verdict() Outcome
	// AllIssues returns every issue of the result in report order.
	AllIssues() []string
}

// CheckOutcome is the header of a single sub-check.
type CheckOutcome struct {
	Check  string   `json:"check"`
	Passed bool     `json:"passed"`
	Issues []string `json:"issues"`
}

func newCheck(name string, issues []string) CheckOutcome {
	if issues == nil {
		issues = []string{}
	}
	return CheckOutcome{Check: name, Passed: len(issues) == 0, Issues: issues}
}

// CheckSummary tallies sub-check outcomes.
type CheckSummary struct {
	TotalDays    int `json:"total_days,omitempty"`
	TotalChecks  int `json:"total_checks"`
	PassedChecks int `json:"passed_checks"`
	FailedChecks int `json:"failed_checks"`
}

func (s *CheckSummary) add(c CheckOutcome) {
	s.TotalChecks++
	if c.Passed {
		s.PassedChecks++
	} else {
		s.FailedChecks++
	}
}

// DurationCheck is the daily-duration verdict for one day.
type DurationCheck struct {
	CheckOutcome
	TotalActivities     int     `json:"total_activities"`
	TotalAvailableHours float64 `json:"total_available_hours"`
}

// TravelCheck is the travel-time verdict for one day.
type TravelCheck struct {
	CheckOutcome
	TravelEstimates []float64 `json:"travel_estimates"`
}

// PaceCheck is the pace-consistency verdict for one day.
type PaceCheck struct {
	CheckOutcome
	NumActivities       int `json:"num_activities"`
	MorningActivities   int `json:"morning_activities"`
	AfternoonActivities int `json:"afternoon_activities"`
	EveningActivities   int `json:"evening_activities"`
}

// DayResult groups the three feasibility checks of one day.
type DayResult struct {
	Day           int           `json:"day"`
	Date          string        `json:"date"`
	Theme         string        `json:"theme,omitempty"`
	Passed        bool          `json:"passed"`
	DailyDuration DurationCheck `json:"daily_duration"`
	TravelTimes   TravelCheck   `json:"travel_times"`
	Pace          PaceCheck     `json:"pace_consistency"`
}

// Issues returns the day's issues in check order.
func (d DayResult) Issues() []string {
	var issues []string
	issues = append(issues, d.DailyDuration.Issues...)
	issues = append(issues, d.TravelTimes.Issues...)
	issues = append(issues, d.Pace.Issues...)
	return issues
}

// FeasibilityResult is the feasibility checker's verdict.
type FeasibilityResult struct {
	Outcome
	Summary *CheckSummary `json:"summary,omitempty"`
	Results []DayResult   `json:"results,omitempty"`
}

// Verdict implements Evaluation.
func (r *FeasibilityResult) Verdict() Outcome { return r.Outcome }

// AllIssues implements Evaluation.
func (r *FeasibilityResult) AllIssues() []string {
	var issues []string
	for _, day := range r.Results {
		issues = append(issues, day.Issues()...)
	}
	return issues
}

// POIGroundingCheck reports which extracted place names were found in search results.
// GroundingPercentage is nil when no search results were supplied.
type POIGroundingCheck struct {
	CheckOutcome
	ItineraryPOIs       []string `json:"itinerary_pois"`
	GroundedPOIs        []string `json:"grounded_pois"`
	UngroundedPOIs      []string `json:"ungrounded_pois"`
	GroundedCount       int      `json:"grounded_count"`
	UngroundedCount     int      `json:"ungrounded_count"`
	GroundingPercentage *float64 `json:"grounding_percentage,omitempty"`
}

// TipCitationCheck reports how many travel tips cite a source.
type TipCitationCheck struct {
	CheckOutcome
	HasTipsSection     bool     `json:"has_tips_section"`
	TotalTips          int      `json:"total_tips"`
	TipsWithCitations  int      `json:"tips_with_citations"`
	CitationPercentage float64  `json:"citation_percentage"`
	CitationsFound     []string `json:"citations_found"`
}

// UncertaintyInstance is one hedging phrase and its surrounding text.
type UncertaintyInstance struct {
	Marker  string `json:"marker"`
	Context string `json:"context"`
}

// UncertaintyCheck reports hedging phrases found in the itinerary.
type UncertaintyCheck struct {
	CheckOutcome
	Instances               []UncertaintyInstance `json:"uncertainty_instances"`
	TotalUncertaintyMarkers int                   `json:"total_uncertainty_markers"`
}

// GroundingResult is the grounding checker's verdict.
type GroundingResult struct {
	Outcome
	Summary      *CheckSummary      `json:"summary,omitempty"`
	POIGrounding *POIGroundingCheck `json:"poi_grounding,omitempty"`
	TipCitations *TipCitationCheck  `json:"tip_citations,omitempty"`
	Uncertainty  *UncertaintyCheck  `json:"uncertainty_markers,omitempty"`
}

// Verdict implements Evaluation.
func (r *GroundingResult) Verdict() Outcome { return r.Outcome }

// Checks returns the sub-check headers in report order.
func (r *GroundingResult) Checks() []CheckOutcome {
	var checks []CheckOutcome
	if r.POIGrounding != nil {
		checks = append(checks, r.POIGrounding.CheckOutcome)
	}
	if r.TipCitations != nil {
		checks = append(checks, r.TipCitations.CheckOutcome)
	}
	if r.Uncertainty != nil {
		checks = append(checks, r.Uncertainty.CheckOutcome)
	}
	return checks
}

// AllIssues implements Evaluation.
func (r *GroundingResult) AllIssues() []string {
	var issues []string
	for _, c := range r.Checks() {
		issues = append(issues, c.Issues...)
	}
	return issues
}

// ChangeType classifies how a section changed between two versions.
type ChangeType string

const (
	ChangeAddition      ChangeType = "addition"
	ChangeDeletion      ChangeType = "deletion"
	ChangeMajorAddition ChangeType = "major_addition"
	ChangeMajorDeletion ChangeType = "major_deletion"
	ChangeModification  ChangeType = "modification"
)

// SectionDiff describes one changed section.
type SectionDiff struct {
	Section        string     `json:"section"`
	Similarity     float64    `json:"similarity"`
	OriginalLength int        `json:"original_length"`
	EditedLength   int        `json:"edited_length"`
	ChangeType     ChangeType `json:"change_type"`
	Reason         string     `json:"reason,omitempty"`
}

// EditSummary tallies section changes.
type EditSummary struct {
	TotalSectionsOriginal int `json:"total_sections_original"`
	TotalSectionsEdited   int `json:"total_sections_edited"`
	TotalChanges          int `json:"total_changes"`
	IntendedChanges       int `json:"intended_changes"`
	UnintendedChanges     int `json:"unintended_changes"`
}

// ActivityModification pairs an original activity with its edited counterpart.
type ActivityModification struct {
	Original   string  `json:"original"`
	Edited     string  `json:"edited"`
	Similarity float64 `json:"similarity"`
}

// ActivityDiff is the activity-level comparison of two itinerary versions.
// It is informational and does not affect the edit verdict.
type ActivityDiff struct {
	Added        []string               `json:"added_activities"`
	Removed      []string               `json:"removed_activities"`
	Modified     []ActivityModification `json:"modified_activities"`
	TotalChanges int                    `json:"total_changes"`
}

// EditResult is the edit-correctness checker's verdict.
type EditResult struct {
	Outcome
	Summary           *EditSummary  `json:"summary,omitempty"`
	IntendedSections  []string      `json:"intended_sections,omitempty"`
	Differences       []SectionDiff `json:"differences,omitempty"`
	UnintendedChanges []SectionDiff `json:"unintended_changes,omitempty"`
	ActivityChanges   *ActivityDiff `json:"activity_changes,omitempty"`
	Issues            []string      `json:"issues"`
}

// Verdict implements Evaluation.
func (r *EditResult) Verdict() Outcome { return r.Outcome }

// AllIssues implements Evaluation.
func (r *EditResult) AllIssues() []string {
	return append([]string(nil), r.Issues...)
}

// Overall aggregates the verdicts of one evaluation run.
type Overall struct {
	AllPassed             bool     `json:"all_passed"`
	TotalEvals            int      `json:"total_evals"`
	PassedEvals           int      `json:"passed_evals"`
	FailedEvals           int      `json:"failed_evals"`
	PassRate              float64  `json:"pass_rate"`
	AllIssues             []string `json:"all_issues"`
	TotalIssues           int      `json:"total_issues"`
	EvaluationTimeSeconds float64  `json:"evaluation_time_seconds"`
}

// Evaluations holds the per-checker results of a run. EditCorrectness is nil
// when the run was not an edit.
type Evaluations struct {
	Feasibility     *FeasibilityResult `json:"feasibility,omitempty"`
	Grounding       *GroundingResult   `json:"grounding,omitempty"`
	EditCorrectness *EditResult        `json:"edit_correctness,omitempty"`
}

// List returns the present results in report order.
func (e Evaluations) List() []Evaluation {
	var list []Evaluation
	if e.Feasibility != nil {
		list = append(list, e.Feasibility)
	}
	if e.Grounding != nil {
		list = append(list, e.Grounding)
	}
	if e.EditCorrectness != nil {
		list = append(list, e.EditCorrectness)
	}
	return list
}

// Report is the complete output of one evaluation run.
type Report struct {
	RunID       types.ID    `json:"run_id"`
	Overall     Overall     `json:"overall"`
	Evaluations Evaluations `json:"evaluations"`
	Timestamp   string      `json:"timestamp"`
}

// failedEvaluation builds the result recorded when a checker could not run.
func failedEvaluation(evalType EvalType, message string) Evaluation {
	outcome := Outcome{EvalType: evalType, Passed: false, Error: message}
	switch evalType {
	case EvalFeasibility:
		return &FeasibilityResult{Outcome: outcome}
	case EvalGrounding:
		return &GroundingResult{Outcome: outcome}
	default:
		return &EditResult{Outcome: outcome, Issues: []string{}}
	}
}
