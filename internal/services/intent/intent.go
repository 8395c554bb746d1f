package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a user message
type Intent string

const (
	IntentStatus       Intent = "status"
	IntentAlerts       Intent = "alerts"
	IntentEnergy       Intent = "energy"
	IntentCost         Intent = "cost"
	IntentControl      Intent = "control"
	IntentAnomaly      Intent = "anomaly"
	IntentComparison   Intent = "comparison"
	IntentTrend        Intent = "trend"
	IntentSchedule     Intent = "schedule"
	IntentMaintenance  Intent = "maintenance"
	IntentSafety       Intent = "safety"
	IntentOptimization Intent = "optimization"
	IntentHistory      Intent = "history"
	IntentForecast     Intent = "forecast"
	IntentGeneral      Intent = "general"
)

// keywordSet binds one intent category to its keyword list. The
// declaration order below is the tie-break: when two categories score
// equal, the earlier one wins. That matches the historical behavior
// and must not be reordered without versioning the classifier.
type keywordSet struct {
	intent   Intent
	keywords []string
}

var intentKeywords = []keywordSet{
	{IntentStatus, []string{
		"status", "state", "running", "on", "off", "active", "current",
		"what is", "show me", "display", "check",
	}},
	{IntentAlerts, []string{
		"alert", "warning", "alarm", "problem", "issue", "error",
		"notification", "critical", "urgent", "danger",
	}},
	{IntentEnergy, []string{
		"energy", "power", "watt", "kwh", "consumption", "usage",
		"electricity", "draw", "load",
	}},
	{IntentCost, []string{
		"cost", "price", "bill", "expense", "money", "dollar",
		"save", "savings", "expensive", "cheap",
	}},
	{IntentControl, []string{
		"turn on", "turn off", "switch", "control", "operate",
		"start", "stop", "enable", "disable", "toggle",
	}},
	{IntentAnomaly, []string{
		"anomaly", "unusual", "abnormal", "strange", "weird",
		"unexpected", "spike", "irregular", "detect",
	}},
	{IntentComparison, []string{
		"compare", "versus", "vs", "difference", "which",
		"better", "worse", "more", "less", "between",
	}},
	{IntentTrend, []string{
		"trend", "pattern", "over time", "increasing", "decreasing",
		"graph", "chart", "history", "change",
	}},
	{IntentSchedule, []string{
		"schedule", "timer", "automate", "automation", "when",
		"time", "program", "routine", "set time",
	}},
	{IntentMaintenance, []string{
		"maintenance", "repair", "fix", "service", "replace",
		"lifespan", "wear", "check up", "inspection",
	}},
	{IntentSafety, []string{
		"safe", "safety", "dangerous", "hazard", "risk",
		"fire", "shock", "overload", "protection",
	}},
	{IntentOptimization, []string{
		"optimize", "efficient", "efficiency", "improve",
		"reduce", "lower", "minimize", "best", "tips",
	}},
	{IntentHistory, []string{
		"yesterday", "last week", "last month", "previous",
		"historical", "past", "before", "ago",
	}},
	{IntentForecast, []string{
		"predict", "forecast", "future", "expect", "will",
		"estimate", "project", "tomorrow", "next",
	}},
}

type entityPattern struct {
	name    string
	pattern *regexp.Regexp
}

var entityPatterns = []entityPattern{
	{"load_name", regexp.MustCompile(`\b(fan|bulb|heater|ac|dc|motor|pump|light|lamp)\b`)},
	{"time_period", regexp.MustCompile(`\b(today|yesterday|this week|last week|this month|hour|day|week|month)\b`)},
	{"number", regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(w|kw|kwh|watts?|kilowatts?)?\b`)},
	{"action", regexp.MustCompile(`\b(turn on|turn off|switch on|switch off|start|stop|enable|disable)\b`)},
}

var followUpIndicators = []string{
	"what about", "how about", "and", "also", "more",
	"tell me more", "explain", "why", "can you",
	"elaborate", "details", "specifically", "that",
	"this", "it", "them", "those",
}

// Classifier scores messages against a fixed keyword table. It holds
// only precompiled patterns and is safe for concurrent use.
type Classifier struct {
	wordPatterns map[string]*regexp.Regexp
}

// NewClassifier creates a classifier with precompiled whole-word
// patterns for every keyword
func NewClassifier() *Classifier {
	wordPatterns := make(map[string]*regexp.Regexp)
	for _, set := range intentKeywords {
		for _, kw := range set.keywords {
			if _, ok := wordPatterns[kw]; !ok {
				wordPatterns[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}
	return &Classifier{wordPatterns: wordPatterns}
}

// DetectIntent classifies the message. Each category scores one point
// per keyword contained as a substring plus two more per keyword
// matching as a whole word; the strictly highest total wins and a
// zero total everywhere yields general.
func (c *Classifier) DetectIntent(message string) Intent {
	lower := strings.ToLower(message)

	best := IntentGeneral
	bestScore := 0
	for _, set := range intentKeywords {
		score := 0
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
			if c.wordPatterns[kw].MatchString(lower) {
				score += 2
			}
		}
		if score > bestScore {
			bestScore = score
			best = set.intent
		}
	}

	return best
}

// ExtractEntities scans the lower-cased message with one regex per
// entity type. Capture groups are flattened, empty captures dropped,
// and entity types without matches are omitted entirely.
func (c *Classifier) ExtractEntities(message string) map[string][]string {
	lower := strings.ToLower(message)
	entities := make(map[string][]string)

	for _, ep := range entityPatterns {
		var flattened []string
		for _, match := range ep.pattern.FindAllStringSubmatch(lower, -1) {
			for _, group := range match[1:] {
				if group != "" {
					flattened = append(flattened, group)
				}
			}
		}
		if len(flattened) > 0 {
			entities[ep.name] = flattened
		}
	}

	return entities
}

// IsFollowUp reports whether the message looks like a continuation of
// an earlier exchange. Substring matching only; no conversational
// state is consulted.
func (c *Classifier) IsFollowUp(message string) bool {
	lower := strings.ToLower(message)
	for _, indicator := range followUpIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
