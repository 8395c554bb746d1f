package insights

import (
	"fmt"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
)

const maxQuickTips = 5

// highPowerThresholdW marks an active load as worth a tip
const highPowerThresholdW = 500

// Aggregator computes dashboard summaries directly from context,
// without any LLM involvement
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates a new insights aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// QuickInsights summarizes health, metrics, and contextual tips for
// the dashboard
func (a *Aggregator) QuickInsights(sysCtx *models.SystemContext) models.QuickInsights {
	criticalAlerts := sysCtx.CriticalAlerts()
	alertCount := len(sysCtx.RecentAlerts)

	var health models.HealthSummary
	switch {
	case criticalAlerts > 0:
		health = models.HealthSummary{
			Status:  models.HealthCritical,
			Message: fmt.Sprintf("%d critical alert(s) require attention", criticalAlerts),
		}
	case alertCount > 3:
		health = models.HealthSummary{
			Status:  models.HealthWarning,
			Message: fmt.Sprintf("Multiple alerts (%d) - review recommended", alertCount),
		}
	default:
		health = models.HealthSummary{
			Status:  models.HealthHealthy,
			Message: "System operating normally",
		}
	}

	return models.QuickInsights{
		Health: health,
		Metrics: models.InsightMetrics{
			TotalPowerW:    sysCtx.TotalPower(),
			ActiveLoads:    sysCtx.ActiveLoads(),
			TotalLoads:     len(sysCtx.Loads),
			ActiveAlerts:   alertCount,
			CriticalAlerts: criticalAlerts,
		},
		QuickTips:   a.quickTips(sysCtx),
		GeneratedAt: a.now().UTC(),
	}
}

// quickTips generates contextual tips from independent rules, capped
// at maxQuickTips with a single default tip when no rule fired
func (a *Aggregator) quickTips(sysCtx *models.SystemContext) []string {
	var tips []string

	for _, load := range sysCtx.Loads {
		if load.IsOn && load.CurrentPower > highPowerThresholdW {
			name := load.Name
			if name == "" {
				name = "High-power load"
			}
			tips = append(tips, fmt.Sprintf("%s is consuming significant power", name))
		}
	}

	if len(sysCtx.RecentAlerts) > 0 {
		tips = append(tips, fmt.Sprintf("Review %d active alert(s) in the Alerts panel", len(sysCtx.RecentAlerts)))
	}

	hour := a.now().Hour()
	if hour >= 9 && hour <= 17 {
		tips = append(tips, "Peak hours - consider postponing non-essential high-power tasks")
	} else if hour >= 22 || hour < 6 {
		tips = append(tips, "Off-peak hours - good time for high-power scheduled tasks")
	}

	if len(tips) == 0 {
		tips = append(tips, "All systems normal - no immediate actions required")
	}

	if len(tips) > maxQuickTips {
		tips = tips[:maxQuickTips]
	}
	return tips
}

// AnalyzeLoad produces a deterministic per-load health report
func (a *Aggregator) AnalyzeLoad(load *models.Load) models.LoadAnalysis {
	var anomalies []string
	var recommendations []string
	healthScore := 100.0

	if load.CurrentPower > 100 {
		anomalies = append(anomalies, "High power consumption detected")
		healthScore -= 10
		recommendations = append(recommendations, "Consider reducing usage or checking for issues")
	}

	if load.IsOn && load.CurrentPower == 0 {
		anomalies = append(anomalies, "Load is on but showing zero power")
		healthScore -= 20
		recommendations = append(recommendations, "Check sensor connections")
	}

	status := "off"
	if load.IsOn {
		status = "on"
	}

	return models.LoadAnalysis{
		LoadID:          load.LoadID,
		LoadName:        load.Name,
		Status:          status,
		CurrentPowerW:   load.CurrentPower,
		VoltageV:        load.Voltage,
		CurrentA:        load.Current,
		HealthScore:     healthScore,
		Anomalies:       anomalies,
		Recommendations: recommendations,
		AnalyzedAt:      a.now().UTC(),
	}
}

// SystemHealth scores overall system health on the same thresholds as
// the quick-insights summary
func (a *Aggregator) SystemHealth(sysCtx *models.SystemContext) (string, int) {
	criticalAlerts := sysCtx.CriticalAlerts()
	switch {
	case criticalAlerts > 0:
		return models.HealthCritical, 40
	case len(sysCtx.RecentAlerts) > 3:
		return models.HealthWarning, 70
	default:
		return models.HealthHealthy, 95
	}
}
