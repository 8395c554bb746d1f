package intent

import (
	"testing"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIntent(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		message  string
		expected Intent
	}{
		{"energy question", "Is the fan consuming too much power?", IntentEnergy},
		{"alert question", "Are there any critical alerts or warnings?", IntentAlerts},
		{"control request", "Please toggle the heater", IntentControl},
		{"cost question", "How much does the heater add to my bill?", IntentCost},
		{"no keywords", "hello there", IntentGeneral},
		{"empty message", "", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.DetectIntent(tt.message))
		})
	}
}

func TestDetectIntentDeterministic(t *testing.T) {
	c := NewClassifier()

	const message = "Is anything wrong with the power usage today?"
	first := c.DetectIntent(message)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, c.DetectIntent(message))
	}
}

func TestDetectIntentTieBreakPrefersEarlierCategory(t *testing.T) {
	c := NewClassifier()

	// "check" scores 3 for status, "alarm" scores 3 for alerts; the
	// earlier category wins the tie.
	assert.Equal(t, IntentStatus, c.DetectIntent("check alarm"))
}

func TestExtractEntities(t *testing.T) {
	c := NewClassifier()

	entities := c.ExtractEntities("Turn on the fan at 50 watts today")

	require.Contains(t, entities, "load_name")
	assert.Equal(t, []string{"fan"}, entities["load_name"])

	require.Contains(t, entities, "action")
	assert.Equal(t, []string{"turn on"}, entities["action"])

	require.Contains(t, entities, "number")
	assert.Equal(t, []string{"50", "watts"}, entities["number"])

	require.Contains(t, entities, "time_period")
	assert.Equal(t, []string{"today"}, entities["time_period"])
}

func TestExtractEntitiesOmitsEmptyTypes(t *testing.T) {
	c := NewClassifier()

	entities := c.ExtractEntities("Is the fan consuming too much power?")
	assert.Equal(t, []string{"fan"}, entities["load_name"])
	assert.NotContains(t, entities, "number")
	assert.NotContains(t, entities, "action")
	assert.NotContains(t, entities, "time_period")
}

func TestIsFollowUp(t *testing.T) {
	c := NewClassifier()

	assert.True(t, c.IsFollowUp("tell me more about it"))
	assert.True(t, c.IsFollowUp("What about the heater?"))
	assert.True(t, c.IsFollowUp("why?"))
	assert.False(t, c.IsFollowUp("show power usage"))
}

func TestGuidanceInterpolatesAlertCount(t *testing.T) {
	sysCtx := &models.SystemContext{
		RecentAlerts: []models.Alert{
			{ID: 1, LoadID: 1, Severity: models.SeverityWarning},
			{ID: 2, LoadID: 2, Severity: models.SeverityCritical},
		},
		Timestamp: time.Now(),
	}

	g := Guidance(IntentAlerts, sysCtx)
	assert.Contains(t, g, "2 active alerts")

	// Nil context degrades to zero, not a panic
	assert.Contains(t, Guidance(IntentAlerts, nil), "0 active alerts")
}

func TestGuidanceFallsBackToGeneral(t *testing.T) {
	sysCtx := &models.SystemContext{Timestamp: time.Now()}

	assert.Equal(t, guidanceTable[IntentEnergy], Guidance(IntentEnergy, sysCtx))
	assert.Equal(t, guidanceTable[IntentGeneral], Guidance(Intent("bogus"), sysCtx))
}
