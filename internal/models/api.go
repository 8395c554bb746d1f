package models

import (
	"time"
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message        string `json:"message"`
	SessionID      string `json:"session_id,omitempty"`
	IncludeContext *bool  `json:"include_context,omitempty"`
}

// ChatResponse is the reply to a chat request
type ChatResponse struct {
	MessageID  string              `json:"message_id"`
	Response   string              `json:"response"`
	Intent     string              `json:"intent"`
	Entities   map[string][]string `json:"entities"`
	IsFollowUp bool                `json:"is_follow_up"`
	Timestamp  time.Time           `json:"timestamp"`
	AIEnabled  bool                `json:"ai_enabled"`
}

// ChatHistoryResponse is the reply to a history request
type ChatHistoryResponse struct {
	SessionID     string     `json:"session_id"`
	Messages      []ChatTurn `json:"messages"`
	TotalMessages int        `json:"total_messages"`
}

// TelemetryAnalysisRequest asks for anomaly analysis of raw readings
type TelemetryAnalysisRequest struct {
	TelemetryData     map[string]interface{} `json:"telemetry_data"`
	IncludeHistorical bool                   `json:"include_historical,omitempty"`
}

// ControlActionRequest asks for a verdict on a control action
type ControlActionRequest struct {
	LoadID int    `json:"load_id"`
	Action string `json:"action"`
	Force  bool   `json:"force,omitempty"`
}

// QuickInsightsRequest tunes the quick-insights response
type QuickInsightsRequest struct {
	IncludeTips    *bool `json:"include_tips,omitempty"`
	IncludeMetrics *bool `json:"include_metrics,omitempty"`
}

// ErrorResponse is the generic error body returned by the API
type ErrorResponse struct {
	Error string `json:"error"`
}

// QuotaExceededResponse is the 429 body. Remaining is zero by the time
// the quota trips, so the numeric fields are always emitted.
type QuotaExceededResponse struct {
	Error     string    `json:"error"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}
