package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
)

// FallbackResponder builds deterministic answers purely from context
// when no provider is available. Branch selection keys on substrings
// of the original message.
type FallbackResponder struct {
	now func() time.Time
}

// NewFallbackResponder creates a new fallback responder
func NewFallbackResponder() *FallbackResponder {
	return &FallbackResponder{now: time.Now}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Respond produces a templated chat answer from context alone
func (f *FallbackResponder) Respond(message string, sysCtx *models.SystemContext) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "status", "state", "how", "what"):
		return f.statusResponse(sysCtx)
	case containsAny(lower, "alert", "warning", "problem", "issue"):
		return f.alertsResponse(sysCtx)
	case containsAny(lower, "energy", "power", "consumption", "cost"):
		return f.energyResponse(sysCtx)
	default:
		return f.defaultResponse(sysCtx)
	}
}

func (f *FallbackResponder) statusResponse(sysCtx *models.SystemContext) string {
	var loadStatus []string
	for _, load := range sysCtx.Loads {
		status := "OFF"
		if load.IsOn {
			status = "ON"
		}
		loadStatus = append(loadStatus, fmt.Sprintf("• **%s**: %s (%.0fW)", load.Name, status, load.CurrentPower))
	}

	loadSection := "No load data available"
	if len(loadStatus) > 0 {
		loadSection = strings.Join(loadStatus, "\n")
	}

	alertSection := "No active alerts"
	summary := "normally"
	if len(sysCtx.RecentAlerts) > 0 {
		alertSection = fmt.Sprintf("%d active alert(s)", len(sysCtx.RecentAlerts))
		summary = "with some alerts that need attention"
	}

	return fmt.Sprintf(`## Current System Status

### Load States
%s

### Active Alerts
%s

### Summary
The system is operating %s.

---
Would you like more details about any specific load or alert?`, loadSection, alertSection, summary)
}

func (f *FallbackResponder) alertsResponse(sysCtx *models.SystemContext) string {
	if len(sysCtx.RecentAlerts) == 0 {
		return `## Alert Status

**No active alerts!**

Your system is operating normally. All loads are within expected parameters.

---
Is there anything specific you'd like me to check?`
	}

	var alertList []string
	for i, alert := range sysCtx.RecentAlerts {
		if i >= 5 {
			break
		}
		alertList = append(alertList, fmt.Sprintf("• **%s**: %s", strings.ToUpper(alert.Severity), alert.Message))
	}

	return fmt.Sprintf(`## Active Alerts

%s

### Recommendations
- Check the affected loads for any physical issues
- Review the power readings for anomalies
- Consider reducing load if power consumption is high

---
Need help with a specific alert?`, strings.Join(alertList, "\n"))
}

func (f *FallbackResponder) energyResponse(sysCtx *models.SystemContext) string {
	var breakdown []string
	for _, load := range sysCtx.Loads {
		breakdown = append(breakdown, fmt.Sprintf("• %s: %.0fW", load.Name, load.CurrentPower))
	}

	return fmt.Sprintf(`## Energy Overview

### Current Consumption
**Total Power**: %.0fW

### Load Breakdown
%s

### Energy-Saving Tips
1. Turn off unused devices during peak hours
2. Consider using timers for heaters
3. Monitor high-consumption devices closely

---
Would you like a detailed energy report?`, sysCtx.TotalPower(), strings.Join(breakdown, "\n"))
}

func (f *FallbackResponder) defaultResponse(sysCtx *models.SystemContext) string {
	return fmt.Sprintf(`## Smart Load Dashboard Assistant

I'm here to help you with your smart electrical monitoring system!

### What I Can Help With
• **System Status** - Check current load states and readings
• **Alerts & Warnings** - View and understand active alerts
• **Energy Analysis** - Get insights on power consumption
• **Control Recommendations** - Safe operation guidance
• **Troubleshooting** - Help diagnose issues

### Current Quick Stats
- Active Loads: %d / %d
- Total Power: %.0fW
- Active Alerts: %d

---
How can I assist you today?`, sysCtx.ActiveLoads(), len(sysCtx.Loads), sysCtx.TotalPower(), len(sysCtx.RecentAlerts))
}

// AnomalyReport returns the degraded anomaly report used when the
// provider path fails
func (f *FallbackResponder) AnomalyReport() models.AnomalyReport {
	return models.AnomalyReport{
		HasAnomaly: false,
		Severity:   "none",
		Issues:     []models.LoadIssue{},
		Summary:    "AI analysis temporarily unavailable. Manual inspection recommended.",
		EfficiencyTips: []string{
			"Regularly monitor power consumption",
			"Check connections periodically",
		},
		AnalyzedAt: f.now().UTC(),
	}
}

// EnergyInsight returns the degraded energy insight
func (f *FallbackResponder) EnergyInsight(timePeriod string) models.EnergyInsight {
	return models.EnergyInsight{
		Summary:       fmt.Sprintf("Energy analysis for %s period", timePeriod),
		PeakUsageTime: "Unknown",
		Recommendations: []models.EnergyRecommendation{
			{
				Title:            "Monitor Usage",
				Description:      "Keep track of your daily energy consumption",
				PotentialSavings: "5-10%",
				Priority:         "medium",
			},
		},
		ComparisonNote: "Detailed comparison requires AI service",
		GeneratedAt:    f.now().UTC(),
		TimePeriod:     timePeriod,
	}
}

// ControlRecommendation returns the permissive degraded verdict
func (f *FallbackResponder) ControlRecommendation(reason string) models.ControlRecommendation {
	return models.ControlRecommendation{
		Approved: true,
		Reason:   reason,
		Warnings: []string{},
	}
}

// DailySummary returns the degraded daily summary text
func (f *FallbackResponder) DailySummary(alerts []models.Alert) string {
	alertNote := "No significant issues today."
	if len(alerts) > 0 {
		alertNote = fmt.Sprintf("%d alert(s) were logged today.", len(alerts))
	}

	return fmt.Sprintf(`## Daily Energy Summary

Today's energy data has been recorded.
%s

**Tip**: Consider scheduling high-power devices during off-peak hours to reduce costs.

---
*Detailed AI analysis will be available when the service is fully configured.*`, alertNote)
}
