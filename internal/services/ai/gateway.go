package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/sirupsen/logrus"
)

const systemRole = "You are an expert AI assistant for a smart electrical load monitoring dashboard. " +
	"You help users understand their energy usage, device status, anomalies, and potential issues."

// historyWindow is the number of trailing turns included in the prompt
const historyWindow = 6

// ChatResult is a generated chat answer plus provenance
type ChatResult struct {
	Text      string
	AIEnabled bool
	Provider  string
}

// Gateway dispatches prompts to a primary provider, fails over to a
// secondary one, and degrades to deterministic templates when both
// are unavailable. Provider failures never escape the gateway.
type Gateway struct {
	primary   Provider
	secondary Provider
	timeout   time.Duration
	fallback  *FallbackResponder
	logger    *logrus.Logger
	metrics   *middleware.Metrics
}

// NewGateway creates a gateway. Either provider may be nil; with both
// nil the gateway serves fallback responses only.
func NewGateway(primary, secondary Provider, timeout time.Duration, logger *logrus.Logger, metrics *middleware.Metrics) *Gateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		fallback:  NewFallbackResponder(),
		logger:    logger,
		metrics:   metrics,
	}
}

// Enabled reports whether any real provider is configured
func (g *Gateway) Enabled() bool {
	return g.primary != nil || g.secondary != nil
}

// generate runs the prompt through the provider chain. Any failure on
// the primary, including a timeout, triggers the secondary.
func (g *Gateway) generate(ctx context.Context, prompt, systemPrompt string) (string, string, error) {
	var lastErr error

	for _, provider := range []Provider{g.primary, g.secondary} {
		if provider == nil {
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		start := time.Now()
		text, err := provider.GenerateText(attemptCtx, prompt, systemPrompt)
		cancel()

		if err != nil {
			lastErr = err
			if g.metrics != nil {
				g.metrics.RecordProviderRequest(provider.Name(), "error", time.Since(start))
			}
			g.logger.WithError(err).WithField("provider", provider.Name()).Warn("Provider request failed")
			continue
		}

		if g.metrics != nil {
			g.metrics.RecordProviderRequest(provider.Name(), "success", time.Since(start))
		}
		return strings.TrimSpace(text), provider.Name(), nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return "", "", lastErr
}

// Chat answers a user message with full system context and recent
// history. It always returns a usable answer; AIEnabled tells the
// caller whether a real model produced it.
func (g *Gateway) Chat(ctx context.Context, message, guidance string, sysCtx *models.SystemContext, history []models.ChatTurn) ChatResult {
	if !g.Enabled() {
		return g.chatFallback(message, sysCtx)
	}

	prompt := buildChatPrompt(message, guidance, sysCtx, history)

	text, provider, err := g.generate(ctx, prompt, systemRole)
	if err != nil {
		g.logger.WithError(err).Warn("All providers failed, serving fallback response")
		return g.chatFallback(message, sysCtx)
	}

	return ChatResult{Text: text, AIEnabled: true, Provider: provider}
}

func (g *Gateway) chatFallback(message string, sysCtx *models.SystemContext) ChatResult {
	if g.metrics != nil {
		g.metrics.RecordFallbackResponse()
	}
	return ChatResult{Text: g.fallback.Respond(message, sysCtx), AIEnabled: false, Provider: "fallback"}
}

func buildChatPrompt(message, guidance string, sysCtx *models.SystemContext, history []models.ChatTurn) string {
	loads := marshalSection(sysCtx.Loads)
	alerts := marshalSection(sysCtx.RecentAlerts)
	trends := marshalSection(sysCtx.HourlyTrends)

	var b strings.Builder
	b.WriteString("=== SYSTEM STATE ===\n")
	b.WriteString("**Loads Status:**\n" + loads + "\n\n")
	b.WriteString("**Recent Alerts:**\n" + alerts + "\n\n")
	b.WriteString("**Hourly Trends:**\n" + trends + "\n\n")
	b.WriteString("**Timestamp:** " + sysCtx.Timestamp.UTC().Format(time.RFC3339) + "\n\n")

	b.WriteString(`=== RESPONSE GUIDELINES ===
1. Be concise and helpful - users want quick, actionable insights
2. Focus on the electrical loads: DC Fan, AC Bulb, AC Heater, etc.
3. Provide specific data from the context when available
4. Warn about any abnormal readings or active alerts
5. Suggest energy-saving tips when relevant
6. If asked about controls, explain but remind about safety
7. Use proper formatting with headers and bullet points
8. Include actual numbers and measurements when discussing data
`)

	if guidance != "" {
		b.WriteString("\n=== RESPONSE FOCUS ===\n" + guidance + "\n")
	}

	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		b.WriteString("\n=== CONVERSATION HISTORY ===\n")
		for _, turn := range recent {
			role := "Assistant"
			if turn.Role == models.RoleUser {
				role = "User"
			}
			b.WriteString(role + ": " + turn.Content + "\n\n")
		}
	}

	b.WriteString("\n=== USER QUESTION ===\n" + message + "\n\nProvide a helpful, detailed response:")
	return b.String()
}

func marshalSection(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

// AnalyzeAnomalies asks a provider to analyze telemetry readings and
// parses the structured verdict. Any transport or parse failure
// degrades to the templated report.
func (g *Gateway) AnalyzeAnomalies(ctx context.Context, telemetry map[string]interface{}, sysCtx *models.SystemContext) models.AnomalyReport {
	if !g.Enabled() {
		return g.fallback.AnomalyReport()
	}

	prompt := fmt.Sprintf(`Analyze this electrical load telemetry data for anomalies:

CURRENT READINGS:
%s

SYSTEM CONTEXT:
%s

Identify any:
1. Unusual voltage/current patterns
2. Power consumption anomalies
3. Potential safety concerns
4. Efficiency issues
5. Maintenance recommendations

Respond in JSON format ONLY:
{
    "has_anomaly": boolean,
    "severity": "none" | "low" | "medium" | "high" | "critical",
    "issues": [
        {
            "load_id": number,
            "load_name": string,
            "issue": string,
            "severity": "low" | "medium" | "high" | "critical",
            "recommendation": string
        }
    ],
    "summary": string,
    "safety_alerts": [string],
    "efficiency_tips": [string]
}`, marshalSection(telemetry), marshalSection(sysCtx))

	text, _, err := g.generate(ctx, prompt, "")
	if err != nil {
		g.logger.WithError(err).Warn("Anomaly analysis failed, serving fallback report")
		return g.fallback.AnomalyReport()
	}

	var report models.AnomalyReport
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &report); err != nil {
		g.logger.WithError(err).Warn("Anomaly analysis returned malformed JSON, serving fallback report")
		return g.fallback.AnomalyReport()
	}

	report.AnalyzedAt = time.Now().UTC()
	if report.Severity == "" {
		report.Severity = "none"
	}
	return report
}

// ControlRecommendation asks a provider whether a control action
// should be allowed. Failures degrade to a permissive verdict.
func (g *Gateway) ControlRecommendation(ctx context.Context, load *models.Load, action string, recentAlerts []models.Alert) models.ControlRecommendation {
	if !g.Enabled() {
		return g.fallback.ControlRecommendation("AI not available, allowing action")
	}

	prompt := fmt.Sprintf(`A user wants to %s the following electrical load.

LOAD INFORMATION:
%s

RECENT ALERTS FOR THIS LOAD:
%s

SAFETY RULES:
1. Don't turn on devices if recent critical alerts exist
2. Consider power consumption implications
3. Heaters should have temperature monitoring
4. Check for overcurrent or voltage issues before turning on
5. Consider time-of-day efficiency (peak hours)

Should this action be allowed? Respond in JSON ONLY:
{
    "approved": boolean,
    "reason": string,
    "warnings": [string],
    "suggestions": [string]
}`, action, marshalSection(load), marshalSection(recentAlerts))

	text, _, err := g.generate(ctx, prompt, "")
	if err != nil {
		g.logger.WithError(err).Warn("Control recommendation failed, allowing action")
		return g.fallback.ControlRecommendation("Could not process recommendation")
	}

	var rec models.ControlRecommendation
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &rec); err != nil {
		g.logger.WithError(err).Warn("Control recommendation returned malformed JSON, allowing action")
		return g.fallback.ControlRecommendation("Could not process recommendation")
	}

	if rec.Confidence == 0 {
		if rec.Approved {
			rec.Confidence = 0.9
		} else {
			rec.Confidence = 0.7
		}
	}
	return rec
}

// EnergyInsights asks a provider for a structured energy usage
// analysis. Failures degrade to the templated insight.
func (g *Gateway) EnergyInsights(ctx context.Context, energyData *models.EnergyData, timePeriod string) models.EnergyInsight {
	if !g.Enabled() {
		return g.fallback.EnergyInsight(timePeriod)
	}

	prompt := fmt.Sprintf(`Analyze this energy usage data and provide insights:

ENERGY DATA (%s):
%s

Provide comprehensive analysis in JSON format:
{
    "summary": "Brief overview of energy usage",
    "total_consumption_kwh": number,
    "estimated_cost": number,
    "peak_usage_time": string,
    "highest_consumer": {
        "load_name": string,
        "consumption_kwh": number,
        "percentage": number
    },
    "trends": [
        {
            "observation": string,
            "trend_direction": "increasing" | "decreasing" | "stable",
            "significance": "low" | "medium" | "high"
        }
    ],
    "recommendations": [
        {
            "title": string,
            "description": string,
            "potential_savings": string,
            "priority": "low" | "medium" | "high"
        }
    ],
    "comparison_note": string
}`, timePeriod, marshalSection(energyData))

	text, _, err := g.generate(ctx, prompt, "")
	if err != nil {
		g.logger.WithError(err).Warn("Energy insight generation failed, serving fallback insight")
		return g.fallback.EnergyInsight(timePeriod)
	}

	var insight models.EnergyInsight
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &insight); err != nil {
		g.logger.WithError(err).Warn("Energy insight returned malformed JSON, serving fallback insight")
		return g.fallback.EnergyInsight(timePeriod)
	}

	insight.GeneratedAt = time.Now().UTC()
	insight.TimePeriod = timePeriod
	return insight
}

// DailySummary asks a provider for a short conversational summary of
// the day. The boolean reports whether a real model produced it.
func (g *Gateway) DailySummary(ctx context.Context, energyData *models.EnergyData, alerts []models.Alert) (string, bool) {
	if !g.Enabled() {
		return g.fallback.DailySummary(alerts), false
	}

	prompt := fmt.Sprintf(`Generate a brief, friendly daily energy summary for this smart home system:

TODAY'S ENERGY DATA:
%s

ALERTS TODAY:
%s

Provide a friendly, concise summary (2-3 paragraphs) including:
1. Total energy usage and estimated cost
2. Any notable events or alerts that occurred
3. One practical energy-saving tip for tomorrow

Use a conversational tone like you're talking to a homeowner.`, marshalSection(energyData), marshalSection(alerts))

	text, _, err := g.generate(ctx, prompt, "")
	if err != nil {
		g.logger.WithError(err).Warn("Daily summary failed, serving fallback summary")
		return g.fallback.DailySummary(alerts), false
	}

	return text, true
}

// StripCodeFence removes a wrapping triple-backtick fence and an
// optional language tag. Providers are not guaranteed to emit raw
// JSON even when asked to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if strings.HasPrefix(strings.ToLower(s), "json") {
		s = s[4:]
	}

	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
