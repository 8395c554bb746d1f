package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/i18n"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/ai"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/events"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/insights"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/session"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/telemetry"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/pkg/logger"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/pkg/markdown"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ChatHandler serves the conversational endpoints
type ChatHandler struct {
	config    *config.Config
	agent     *ai.Agent
	sessions  *session.Manager
	quota     middleware.QuotaLimiter
	burst     middleware.BurstLimiter
	insights  *insights.Aggregator
	telemetry telemetry.Provider
	sink      events.Sink
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	cfg *config.Config,
	agent *ai.Agent,
	sessions *session.Manager,
	quota middleware.QuotaLimiter,
	burst middleware.BurstLimiter,
	aggregator *insights.Aggregator,
	provider telemetry.Provider,
	sink events.Sink,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *ChatHandler {
	return &ChatHandler{
		config:    cfg,
		agent:     agent,
		sessions:  sessions,
		quota:     quota,
		burst:     burst,
		insights:  aggregator,
		telemetry: provider,
		sink:      sink,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register mounts the chat routes
func (h *ChatHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/chat", h.HandleChat).Methods(http.MethodPost)
	r.HandleFunc("/api/chat/history/{session_id}", h.HandleGetHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/chat/history/{session_id}", h.HandleClearHistory).Methods(http.MethodDelete)
	r.HandleFunc("/api/chat/quick-insights", h.HandleQuickInsights).Methods(http.MethodPost)
	r.HandleFunc("/api/chat/rate-limit", h.HandleRateLimitStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/chat/rate-limit/reset", h.HandleRateLimitReset).Methods(http.MethodPost)
}

// HandleChat processes one user message end to end
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordQueryReceived("chat")

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgInvalidRequest, nil))
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgMessageRequired, nil))
		return
	}

	userID := userIDFromRequest(r)

	if !h.burst.Allow(userID) {
		h.metrics.RecordQuotaExceeded("burst")
		respondError(w, http.StatusTooManyRequests, h.localizer.Get("en", i18n.MsgBurstLimited, nil))
		return
	}

	check := h.quota.Check(userID, "chat", h.config.RateLimit.ChatDailyLimit)
	if !check.Allowed {
		h.metrics.RecordQuotaExceeded("chat")
		respondQuotaExceeded(w, h.localizer, check, "chat")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = userID
	}

	reqLog := logger.WithRequest(h.logger, userID, sessionID)

	sysCtx := h.systemContext(r, req.IncludeContext)

	history, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		reqLog.WithError(err).Warn("Failed to load session history")
		history = nil
	}

	result := h.agent.ProcessQuery(r.Context(), req.Message, sysCtx, history)
	h.metrics.RecordIntentDetected(result.Intent)

	if err := h.sessions.AppendExchange(r.Context(), sessionID, req.Message, result.Response); err != nil {
		reqLog.WithError(err).Warn("Failed to persist exchange")
	}
	h.publishSessionCount(r)

	h.quota.Increment(userID, "chat")

	h.sink.Record(r.Context(), events.Event{
		EventType: "chat",
		SubjectID: userID,
		Query:     req.Message,
		Intent:    result.Intent,
		Input:     req.Message,
		Output:    result.Response,
		AIEnabled: result.AIEnabled,
	})

	response := result.Response
	if r.URL.Query().Get("format") == "html" {
		response = markdown.ToHTML(response)
	}

	h.metrics.RecordQueryProcessed("success")
	respondJSON(w, http.StatusOK, models.ChatResponse{
		MessageID:  uuid.NewString(),
		Response:   response,
		Intent:     result.Intent,
		Entities:   result.Entities,
		IsFollowUp: result.IsFollowUp,
		Timestamp:  time.Now().UTC(),
		AIEnabled:  result.AIEnabled,
	})
}

// HandleGetHistory returns the stored conversation for a session
func (h *ChatHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	turns, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read session history")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	if turns == nil {
		turns = []models.ChatTurn{}
	}
	respondJSON(w, http.StatusOK, models.ChatHistoryResponse{
		SessionID:     sessionID,
		Messages:      turns,
		TotalMessages: len(turns),
	})
}

// HandleClearHistory drops the stored conversation for a session
func (h *ChatHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	if err := h.sessions.Clear(r.Context(), sessionID); err != nil {
		h.logger.WithError(err).Error("Failed to clear session history")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}
	h.publishSessionCount(r)

	respondJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"message":    h.localizer.Get("en", i18n.MsgHistoryCleared, nil),
	})
}

// HandleQuickInsights computes the dashboard summary without the LLM
func (h *ChatHandler) HandleQuickInsights(w http.ResponseWriter, r *http.Request) {
	var req models.QuickInsightsRequest
	if r.Body != nil {
		// Body is optional; defaults include everything
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sysCtx := h.systemContext(r, nil)
	result := h.insights.QuickInsights(sysCtx)

	if req.IncludeTips != nil && !*req.IncludeTips {
		result.QuickTips = []string{}
	}
	if req.IncludeMetrics != nil && !*req.IncludeMetrics {
		result.Metrics = models.InsightMetrics{}
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleRateLimitStatus reports the caller's remaining quota. It goes
// through Check so an expired window is reset before being reported.
func (h *ChatHandler) HandleRateLimitStatus(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	limits := map[string]int{
		"chat":     h.config.RateLimit.ChatDailyLimit,
		"analysis": h.config.RateLimit.AnalysisDailyLimit,
	}

	status := make(map[string]interface{}, len(limits))
	for action, limit := range limits {
		check := h.quota.Check(userID, action, limit)
		status[action] = map[string]interface{}{
			"limit":     check.Limit,
			"used":      check.CurrentCount,
			"remaining": check.Remaining,
			"reset_at":  check.ResetAt,
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"usage":   status,
	})
}

// HandleRateLimitReset clears usage counters for a user. Intended for
// operators; the query parameters name the target.
func (h *ChatHandler) HandleRateLimitReset(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = userIDFromRequest(r)
	}
	actionType := r.URL.Query().Get("action_type")

	h.quota.Reset(userID, actionType)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": h.localizer.Get("en", i18n.MsgUsageReset, map[string]interface{}{"UserID": userID}),
	})
}

// publishSessionCount refreshes the active-session gauge. A failed
// count leaves the gauge stale.
func (h *ChatHandler) publishSessionCount(r *http.Request) {
	count, err := h.sessions.Count(r.Context())
	if err != nil {
		h.logger.WithError(err).Debug("Failed to count sessions")
		return
	}
	h.metrics.SetActiveSessions(float64(count))
}

// systemContext fetches the live snapshot unless the request opted out
func (h *ChatHandler) systemContext(r *http.Request, include *bool) *models.SystemContext {
	if include != nil && !*include {
		return &models.SystemContext{Timestamp: time.Now().UTC()}
	}

	sysCtx, err := h.telemetry.GetSystemContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch system context")
		return &models.SystemContext{Timestamp: time.Now().UTC()}
	}
	return sysCtx
}
