package eval

import (
	"fmt"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// PeriodHours holds the assumed duration of each time-of-day slot.
type PeriodHours struct {
	Morning   float64 `mapstructure:"morning" yaml:"morning" json:"morning" validate:"gte=0"`
	Afternoon float64 `mapstructure:"afternoon" yaml:"afternoon" json:"afternoon" validate:"gte=0"`
	Evening   float64 `mapstructure:"evening" yaml:"evening" json:"evening" validate:"gte=0"`
}

// For returns the hours for a period, or 0 for an unknown one.
func (p PeriodHours) For(period itinerary.Period) float64 {
	switch period {
	case itinerary.Morning:
		return p.Morning
	case itinerary.Afternoon:
		return p.Afternoon
	case itinerary.Evening:
		return p.Evening
	default:
		return 0
	}
}

// Thresholds contains every tunable limit used by the checkers.
// It is passed to each checker at construction so tests can override
// individual limits without touching shared state.
type Thresholds struct {
	// MaxTravelMinutes is the longest acceptable travel leg between two activities.
	// Default: 60
	MaxTravelMinutes float64 `mapstructure:"max_travel_minutes" yaml:"max_travel_minutes" json:"max_travel_minutes" validate:"gt=0"`

	// MaxActivitiesPerDay is the daily-duration ceiling.
	// Default: 10
	MaxActivitiesPerDay int `mapstructure:"max_activities_per_day" yaml:"max_activities_per_day" json:"max_activities_per_day" validate:"min=1"`

	// IdealActivitiesPerDay is the pace ceiling. It is deliberately independent
	// of MaxActivitiesPerDay; both can fire for the same day.
	// Default: 6
	IdealActivitiesPerDay int `mapstructure:"ideal_activities_per_day" yaml:"ideal_activities_per_day" json:"ideal_activities_per_day" validate:"min=1"`

	// MinActivitiesPerDay is the count below which a day is underplanned.
	// Default: 2
	MinActivitiesPerDay int `mapstructure:"min_activities_per_day" yaml:"min_activities_per_day" json:"min_activities_per_day" validate:"min=0"`

	// UnlocatedActivityLimit is the activity count above which a day with no
	// travel samples and no location text is flagged.
	// Default: 3
	UnlocatedActivityLimit int `mapstructure:"unlocated_activity_limit" yaml:"unlocated_activity_limit" json:"unlocated_activity_limit" validate:"min=0"`

	// PeriodHours is the assumed length of each time-of-day slot.
	// Default: morning 3, afternoon 3, evening 4
	PeriodHours PeriodHours `mapstructure:"period_hours" yaml:"period_hours" json:"period_hours"`

	// MinGroundingPercent is the share of extracted places that must be found
	// in search results.
	// Default: 70
	MinGroundingPercent float64 `mapstructure:"min_grounding_percent" yaml:"min_grounding_percent" json:"min_grounding_percent" validate:"gte=0,lte=100"`

	// MinCitationPercent is the share of travel tips that must cite a source.
	// Default: 50
	MinCitationPercent float64 `mapstructure:"min_citation_percent" yaml:"min_citation_percent" json:"min_citation_percent" validate:"gte=0,lte=100"`

	// ModifiedSimilarity is the similarity above which a removed activity is
	// reported as modified instead.
	// Default: 0.6
	ModifiedSimilarity float64 `mapstructure:"modified_similarity" yaml:"modified_similarity" json:"modified_similarity" validate:"gte=0,lte=1"`

	// ContextWindow is the number of characters captured on each side of an
	// uncertainty marker.
	// Default: 50
	ContextWindow int `mapstructure:"context_window" yaml:"context_window" json:"context_window" validate:"min=0"`
}

// DefaultThresholds returns the documented default limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTravelMinutes:       60,
		MaxActivitiesPerDay:    10,
		IdealActivitiesPerDay:  6,
		MinActivitiesPerDay:    2,
		UnlocatedActivityLimit: 3,
		PeriodHours: PeriodHours{
			Morning:   3,
			Afternoon: 3,
			Evening:   4,
		},
		MinGroundingPercent: 70,
		MinCitationPercent:  50,
		ModifiedSimilarity:  0.6,
		ContextWindow:       50,
	}
}

// Validate checks the limits for internal consistency.
// Struct-tag ranges are enforced by the config validator; this covers the
// cross-field rules.
func (t Thresholds) Validate() error {
	if t.MaxTravelMinutes <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("max_travel_minutes must be positive, got %g", t.MaxTravelMinutes))
	}
	if t.MaxActivitiesPerDay < 1 || t.IdealActivitiesPerDay < 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"max_activities_per_day and ideal_activities_per_day must be at least 1")
	}
	if t.MinActivitiesPerDay > t.IdealActivitiesPerDay {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("min_activities_per_day (%d) must not exceed ideal_activities_per_day (%d)",
				t.MinActivitiesPerDay, t.IdealActivitiesPerDay))
	}
	if t.MinGroundingPercent < 0 || t.MinGroundingPercent > 100 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("min_grounding_percent must be between 0 and 100, got %g", t.MinGroundingPercent))
	}
	if t.MinCitationPercent < 0 || t.MinCitationPercent > 100 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("min_citation_percent must be between 0 and 100, got %g", t.MinCitationPercent))
	}
	if t.ModifiedSimilarity < 0 || t.ModifiedSimilarity > 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("modified_similarity must be between 0.0 and 1.0, got %f", t.ModifiedSimilarity))
	}
	return nil
}
