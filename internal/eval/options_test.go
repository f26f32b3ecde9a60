package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, 60.0, th.MaxTravelMinutes)
	assert.Equal(t, 10, th.MaxActivitiesPerDay)
	assert.Equal(t, 6, th.IdealActivitiesPerDay)
	assert.Equal(t, 2, th.MinActivitiesPerDay)
	assert.Equal(t, 3, th.UnlocatedActivityLimit)
	assert.Equal(t, 3.0, th.PeriodHours.For(itinerary.Morning))
	assert.Equal(t, 3.0, th.PeriodHours.For(itinerary.Afternoon))
	assert.Equal(t, 4.0, th.PeriodHours.For(itinerary.Evening))
	assert.Equal(t, 0.0, th.PeriodHours.For(itinerary.Period("night")))
	assert.Equal(t, 70.0, th.MinGroundingPercent)
	assert.Equal(t, 50.0, th.MinCitationPercent)
	assert.Equal(t, 0.6, th.ModifiedSimilarity)
	assert.Equal(t, 50, th.ContextWindow)
	assert.NoError(t, th.Validate())
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"non-positive travel ceiling", func(th *Thresholds) { th.MaxTravelMinutes = 0 }},
		{"zero activity ceiling", func(th *Thresholds) { th.MaxActivitiesPerDay = 0 }},
		{"minimum above ideal", func(th *Thresholds) { th.MinActivitiesPerDay = 7 }},
		{"grounding above 100", func(th *Thresholds) { th.MinGroundingPercent = 101 }},
		{"negative citation share", func(th *Thresholds) { th.MinCitationPercent = -1 }},
		{"similarity above 1", func(th *Thresholds) { th.ModifiedSimilarity = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)
			err := th.Validate()
			require.Error(t, err)
			assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
		})
	}
}
