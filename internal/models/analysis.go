package models

import (
	"time"
)

// LoadIssue is an individual problem surfaced by anomaly analysis
type LoadIssue struct {
	LoadID         int    `json:"load_id"`
	LoadName       string `json:"load_name"`
	Issue          string `json:"issue"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// AnomalyReport is the structured output of telemetry anomaly analysis
type AnomalyReport struct {
	HasAnomaly     bool        `json:"has_anomaly"`
	Severity       string      `json:"severity"`
	Issues         []LoadIssue `json:"issues"`
	Summary        string      `json:"summary"`
	SafetyAlerts   []string    `json:"safety_alerts"`
	EfficiencyTips []string    `json:"efficiency_tips"`
	AnalyzedAt     time.Time   `json:"analyzed_at"`
}

// TrendObservation is an individual trend remark in an energy insight
type TrendObservation struct {
	Observation    string `json:"observation"`
	TrendDirection string `json:"trend_direction"`
	Significance   string `json:"significance"`
}

// EnergyRecommendation is an actionable saving suggestion
type EnergyRecommendation struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	PotentialSavings string `json:"potential_savings"`
	Priority         string `json:"priority"`
}

// HighestConsumer identifies the top consuming load in a period
type HighestConsumer struct {
	LoadName       string  `json:"load_name"`
	ConsumptionKWh float64 `json:"consumption_kwh"`
	Percentage     float64 `json:"percentage"`
}

// EnergyInsight is the structured output of energy usage analysis
type EnergyInsight struct {
	Summary             string                 `json:"summary"`
	TotalConsumptionKWh float64                `json:"total_consumption_kwh"`
	EstimatedCost       float64                `json:"estimated_cost"`
	PeakUsageTime       string                 `json:"peak_usage_time"`
	HighestConsumer     *HighestConsumer       `json:"highest_consumer,omitempty"`
	Trends              []TrendObservation     `json:"trends"`
	Recommendations     []EnergyRecommendation `json:"recommendations"`
	ComparisonNote      string                 `json:"comparison_note"`
	GeneratedAt         time.Time              `json:"generated_at"`
	TimePeriod          string                 `json:"time_period"`
}

// ControlRecommendation is the verdict on a proposed control action
type ControlRecommendation struct {
	Approved    bool     `json:"approved"`
	Reason      string   `json:"reason"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
}

// LoadAnalysis is a per-load health report computed without the LLM
type LoadAnalysis struct {
	LoadID          int       `json:"load_id"`
	LoadName        string    `json:"load_name"`
	Status          string    `json:"status"`
	CurrentPowerW   float64   `json:"current_power_w"`
	VoltageV        float64   `json:"voltage_v"`
	CurrentA        float64   `json:"current_a"`
	HealthScore     float64   `json:"health_score"`
	Anomalies       []string  `json:"anomalies"`
	Recommendations []string  `json:"recommendations"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// LoadEnergy is per-load consumption data for one period
type LoadEnergy struct {
	Name           string  `json:"name"`
	ConsumptionKWh float64 `json:"consumption_kwh"`
	Cost           float64 `json:"cost"`
	PeakPowerW     float64 `json:"peak_power_w"`
	AvgPowerW      float64 `json:"avg_power_w"`
	RuntimeHours   float64 `json:"runtime_hours"`
}

// EnergyData is an aggregate consumption snapshot for one period
type EnergyData struct {
	Period              string       `json:"period"`
	Loads               []LoadEnergy `json:"loads"`
	TotalConsumptionKWh float64      `json:"total_consumption_kwh"`
	TotalCost           float64      `json:"total_cost"`
	PeakHour            string       `json:"peak_hour"`
	Timestamp           time.Time    `json:"timestamp"`
}
