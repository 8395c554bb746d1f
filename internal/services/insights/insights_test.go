package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(now time.Time) *Aggregator {
	a := NewAggregator()
	a.now = func() time.Time { return now }
	return a
}

// 19:00 local keeps both time-of-day tips quiet
var quietHour = time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)

func TestQuickInsightsHealthStatuses(t *testing.T) {
	a := newTestAggregator(quietHour)

	tests := []struct {
		name     string
		alerts   []models.Alert
		expected string
	}{
		{"no alerts", nil, models.HealthHealthy},
		{"few warnings", []models.Alert{
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
		}, models.HealthHealthy},
		{"many warnings", []models.Alert{
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
		}, models.HealthWarning},
		{"one critical outranks count", []models.Alert{
			{Severity: models.SeverityCritical},
		}, models.HealthCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.QuickInsights(&models.SystemContext{
				RecentAlerts: tt.alerts,
				Timestamp:    quietHour,
			})
			assert.Equal(t, tt.expected, result.Health.Status)
		})
	}
}

func TestQuickInsightsMetrics(t *testing.T) {
	a := newTestAggregator(quietHour)

	result := a.QuickInsights(&models.SystemContext{
		Loads: []models.Load{
			{LoadID: 1, Name: "DC Fan", IsOn: true, CurrentPower: 45},
			{LoadID: 2, Name: "AC Bulb", IsOn: true, CurrentPower: 60},
			{LoadID: 3, Name: "AC Heater", IsOn: false, CurrentPower: 0},
		},
		RecentAlerts: []models.Alert{
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityCritical},
		},
		Timestamp: quietHour,
	})

	assert.Equal(t, 105.0, result.Metrics.TotalPowerW)
	assert.Equal(t, 2, result.Metrics.ActiveLoads)
	assert.Equal(t, 3, result.Metrics.TotalLoads)
	assert.Equal(t, 2, result.Metrics.ActiveAlerts)
	assert.Equal(t, 1, result.Metrics.CriticalAlerts)
}

func TestQuickTipsDefaultWhenNothingFires(t *testing.T) {
	a := newTestAggregator(quietHour)

	result := a.QuickInsights(&models.SystemContext{
		Loads:     []models.Load{{LoadID: 1, Name: "DC Fan", IsOn: true, CurrentPower: 45}},
		Timestamp: quietHour,
	})

	require.Len(t, result.QuickTips, 1)
	assert.Equal(t, "All systems normal - no immediate actions required", result.QuickTips[0])
}

func TestQuickTipsHighPowerLoad(t *testing.T) {
	a := newTestAggregator(quietHour)

	result := a.QuickInsights(&models.SystemContext{
		Loads: []models.Load{
			{LoadID: 1, Name: "AC Heater", IsOn: true, CurrentPower: 1500},
			// Off loads never fire the rule regardless of reading
			{LoadID: 2, Name: "AC Motor", IsOn: false, CurrentPower: 900},
		},
		Timestamp: quietHour,
	})

	require.Len(t, result.QuickTips, 1)
	assert.Contains(t, result.QuickTips[0], "AC Heater")
}

func TestQuickTipsTimeOfDay(t *testing.T) {
	sysCtx := &models.SystemContext{Timestamp: quietHour}

	peak := newTestAggregator(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	tips := peak.QuickInsights(sysCtx).QuickTips
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0], "Peak hours")

	offPeak := newTestAggregator(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))
	tips = offPeak.QuickInsights(sysCtx).QuickTips
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0], "Off-peak hours")
}

func TestQuickTipsCapped(t *testing.T) {
	a := newTestAggregator(quietHour)

	var loads []models.Load
	for i := 0; i < 10; i++ {
		loads = append(loads, models.Load{
			LoadID:       i,
			Name:         fmt.Sprintf("Load %d", i),
			IsOn:         true,
			CurrentPower: 900,
		})
	}

	result := a.QuickInsights(&models.SystemContext{
		Loads:        loads,
		RecentAlerts: []models.Alert{{Severity: models.SeverityWarning}},
		Timestamp:    quietHour,
	})

	assert.Len(t, result.QuickTips, 5)
}

func TestAnalyzeLoad(t *testing.T) {
	a := newTestAggregator(quietHour)

	healthy := a.AnalyzeLoad(&models.Load{LoadID: 1, Name: "DC Fan", IsOn: true, CurrentPower: 45})
	assert.Equal(t, 100.0, healthy.HealthScore)
	assert.Empty(t, healthy.Anomalies)
	assert.Equal(t, "on", healthy.Status)

	hungry := a.AnalyzeLoad(&models.Load{LoadID: 3, Name: "AC Heater", IsOn: true, CurrentPower: 1500})
	assert.Equal(t, 90.0, hungry.HealthScore)
	require.Len(t, hungry.Anomalies, 1)
	assert.Contains(t, hungry.Anomalies[0], "High power")

	dead := a.AnalyzeLoad(&models.Load{LoadID: 2, Name: "AC Bulb", IsOn: true, CurrentPower: 0})
	assert.Equal(t, 80.0, dead.HealthScore)
	require.Len(t, dead.Anomalies, 1)
	assert.Contains(t, dead.Recommendations[0], "sensor")
}

func TestSystemHealth(t *testing.T) {
	a := newTestAggregator(quietHour)

	status, score := a.SystemHealth(&models.SystemContext{})
	assert.Equal(t, models.HealthHealthy, status)
	assert.Equal(t, 95, score)

	status, score = a.SystemHealth(&models.SystemContext{
		RecentAlerts: []models.Alert{
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
			{Severity: models.SeverityWarning},
		},
	})
	assert.Equal(t, models.HealthWarning, status)
	assert.Equal(t, 70, score)

	status, score = a.SystemHealth(&models.SystemContext{
		RecentAlerts: []models.Alert{{Severity: models.SeverityCritical}},
	})
	assert.Equal(t, models.HealthCritical, status)
	assert.Equal(t, 40, score)
}
