package intent

import (
	"fmt"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
)

var guidanceTable = map[Intent]string{
	IntentStatus: "Report the CURRENT STATE of the system or specific loads. " +
		"Include on/off status, power readings, and any relevant metrics.",
	IntentEnergy: "Discuss ENERGY CONSUMPTION. Provide power readings in Watts, " +
		"consumption in kWh, and contextual comparisons.",
	IntentCost: "Analyze COSTS. Calculate estimated expenses, identify high-cost devices, " +
		"and suggest cost-saving opportunities.",
	IntentControl: "Address CONTROL requests. Evaluate safety before recommending actions. " +
		"Consider current load state and any active alerts.",
	IntentAnomaly: "Analyze for ANOMALIES. Look for unusual patterns, unexpected readings, " +
		"or deviations from normal operation.",
	IntentComparison: "Provide COMPARISON analysis. Compare the requested items/periods " +
		"with specific metrics and highlight differences.",
	IntentTrend: "Discuss TRENDS over time. Identify patterns, changes in consumption, " +
		"and notable shifts in usage behavior.",
	IntentSchedule: "Address SCHEDULING. Suggest optimal times for operation, " +
		"automation possibilities, and time-based efficiency.",
	IntentMaintenance: "Provide MAINTENANCE guidance. Suggest inspection schedules, " +
		"signs of wear, and preventive measures.",
	IntentSafety: "Address SAFETY concerns immediately. Prioritize hazard identification, " +
		"protective measures, and emergency procedures.",
	IntentOptimization: "Focus on OPTIMIZATION and efficiency. Provide actionable tips " +
		"to reduce consumption and improve performance.",
	IntentHistory: "Present HISTORICAL data. Reference past readings, events, " +
		"and changes over the specified time period.",
	IntentForecast: "Provide PREDICTIONS based on current data and historical patterns. " +
		"Include confidence levels and assumptions.",
	IntentGeneral: "Provide a comprehensive response using all relevant context. " +
		"Be helpful and informative.",
}

// Guidance maps a detected intent to the instruction that steers
// generation. The alerts instruction interpolates the live alert
// count from context; everything else is a static lookup.
func Guidance(detected Intent, sysCtx *models.SystemContext) string {
	if detected == IntentAlerts {
		alertCount := 0
		if sysCtx != nil {
			alertCount = len(sysCtx.RecentAlerts)
		}
		return fmt.Sprintf(
			"Focus on ALERTS and WARNINGS. There are currently %d active alerts. "+
				"Explain severity, affected devices, and recommended actions.", alertCount)
	}

	if g, ok := guidanceTable[detected]; ok {
		return g
	}
	return guidanceTable[IntentGeneral]
}
