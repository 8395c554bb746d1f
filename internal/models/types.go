package models

import (
	"time"
)

// ChatTurn represents a single message in a conversation
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Load represents a monitored electrical load
type Load struct {
	LoadID       int     `json:"load_id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	IsOn         bool    `json:"is_on"`
	CurrentPower float64 `json:"current_power"`
	Voltage      float64 `json:"voltage"`
	Current      float64 `json:"current"`
	AutoMode     bool    `json:"auto_mode"`
}

// Alert represents a system alert for a load
type Alert struct {
	ID        int       `json:"id"`
	LoadID    int       `json:"load_id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Alert severities
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// TrendPoint represents an hourly aggregate reading for a load
type TrendPoint struct {
	LoadID   int     `json:"load_id"`
	AvgPower float64 `json:"avg_power"`
	MaxPower float64 `json:"max_power"`
}

// SystemContext is a read-only snapshot of the monitored system,
// supplied by an external context provider
type SystemContext struct {
	Loads        []Load       `json:"loads"`
	RecentAlerts []Alert      `json:"recentAlerts"`
	HourlyTrends []TrendPoint `json:"hourlyTrends"`
	Timestamp    time.Time    `json:"timestamp"`
}

// TotalPower returns the summed instantaneous power across all loads
func (c *SystemContext) TotalPower() float64 {
	var total float64
	for _, l := range c.Loads {
		total += l.CurrentPower
	}
	return total
}

// ActiveLoads returns the number of loads currently switched on
func (c *SystemContext) ActiveLoads() int {
	n := 0
	for _, l := range c.Loads {
		if l.IsOn {
			n++
		}
	}
	return n
}

// CriticalAlerts returns the number of critical-severity alerts
func (c *SystemContext) CriticalAlerts() int {
	n := 0
	for _, a := range c.RecentAlerts {
		if a.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// FindLoad returns the load with the given id, or nil
func (c *SystemContext) FindLoad(loadID int) *Load {
	for i := range c.Loads {
		if c.Loads[i].LoadID == loadID {
			return &c.Loads[i]
		}
	}
	return nil
}

// AlertsForLoad returns the recent alerts attached to one load
func (c *SystemContext) AlertsForLoad(loadID int) []Alert {
	var out []Alert
	for _, a := range c.RecentAlerts {
		if a.LoadID == loadID {
			out = append(out, a)
		}
	}
	return out
}

// GenerationResult is the outcome of one processed query, immutable
// after creation
type GenerationResult struct {
	Response   string              `json:"response"`
	Intent     string              `json:"intent"`
	Entities   map[string][]string `json:"entities"`
	IsFollowUp bool                `json:"is_follow_up"`
	AIEnabled  bool                `json:"ai_enabled"`
}

// RateCheck is the result of a quota check
type RateCheck struct {
	Allowed      bool      `json:"allowed"`
	Remaining    int       `json:"remaining"`
	Limit        int       `json:"limit"`
	ResetAt      time.Time `json:"reset_at"`
	CurrentCount int       `json:"current_count"`
}

// ActionUsage is the usage record for one action type
type ActionUsage struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"reset_at"`
}

// HealthSummary describes overall system health
type HealthSummary struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health statuses
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// InsightMetrics are the headline numbers for the dashboard
type InsightMetrics struct {
	TotalPowerW    float64 `json:"total_power_w"`
	ActiveLoads    int     `json:"active_loads"`
	TotalLoads     int     `json:"total_loads"`
	ActiveAlerts   int     `json:"active_alerts"`
	CriticalAlerts int     `json:"critical_alerts"`
}

// QuickInsights is a non-LLM summary computed directly from context
type QuickInsights struct {
	Health      HealthSummary  `json:"health"`
	Metrics     InsightMetrics `json:"metrics"`
	QuickTips   []string       `json:"quick_tips"`
	GeneratedAt time.Time      `json:"generated_at"`
}
