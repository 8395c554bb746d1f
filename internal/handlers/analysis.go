package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/i18n"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/ai"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/events"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/insights"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/telemetry"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler serves the telemetry analysis endpoints
type AnalysisHandler struct {
	config    *config.Config
	gateway   *ai.Gateway
	insights  *insights.Aggregator
	telemetry telemetry.Provider
	quota     middleware.QuotaLimiter
	sink      events.Sink
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	cfg *config.Config,
	gateway *ai.Gateway,
	aggregator *insights.Aggregator,
	provider telemetry.Provider,
	quota middleware.QuotaLimiter,
	sink events.Sink,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		config:    cfg,
		gateway:   gateway,
		insights:  aggregator,
		telemetry: provider,
		quota:     quota,
		sink:      sink,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register mounts the analysis routes
func (h *AnalysisHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/analysis/anomaly", h.HandleAnomaly).Methods(http.MethodPost)
	r.HandleFunc("/api/analysis/control-recommendation", h.HandleControlRecommendation).Methods(http.MethodPost)
	r.HandleFunc("/api/analysis/load/{load_id}", h.HandleLoadAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/api/analysis/system-health", h.HandleSystemHealth).Methods(http.MethodGet)
}

// HandleAnomaly runs anomaly analysis over submitted telemetry
func (h *AnalysisHandler) HandleAnomaly(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordQueryReceived("anomaly")

	var req models.TelemetryAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgInvalidRequest, nil))
		return
	}

	userID := userIDFromRequest(r)
	check := h.quota.Check(userID, "analysis", h.config.RateLimit.AnalysisDailyLimit)
	if !check.Allowed {
		h.metrics.RecordQuotaExceeded("analysis")
		respondQuotaExceeded(w, h.localizer, check, "analysis")
		return
	}

	sysCtx, err := h.telemetry.GetSystemContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch system context")
		sysCtx = &models.SystemContext{Timestamp: time.Now().UTC()}
	}

	report := h.gateway.AnalyzeAnomalies(r.Context(), req.TelemetryData, sysCtx)
	h.quota.Increment(userID, "analysis")

	h.sink.Record(r.Context(), events.Event{
		EventType: "anomaly_analysis",
		SubjectID: userID,
		Output:    report.Summary,
		Decision:  report.Severity,
	})

	h.metrics.RecordQueryProcessed("success")
	respondJSON(w, http.StatusOK, report)
}

// HandleControlRecommendation evaluates a proposed control action
func (h *AnalysisHandler) HandleControlRecommendation(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordQueryReceived("control")

	var req models.ControlActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgInvalidRequest, nil))
		return
	}

	sysCtx, err := h.telemetry.GetSystemContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch system context")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	load := sysCtx.FindLoad(req.LoadID)
	if load == nil {
		respondError(w, http.StatusNotFound, h.localizer.Get("en", i18n.MsgLoadNotFound, map[string]interface{}{
			"LoadID": req.LoadID,
		}))
		return
	}

	var rec models.ControlRecommendation
	if req.Force {
		rec = models.ControlRecommendation{
			Approved:   true,
			Reason:     "Forced by operator",
			Warnings:   []string{"Safety evaluation skipped"},
			Confidence: 1,
		}
	} else {
		rec = h.gateway.ControlRecommendation(r.Context(), load, req.Action, sysCtx.AlertsForLoad(req.LoadID))
	}

	h.sink.Record(r.Context(), events.Event{
		EventType:  "control_recommendation",
		SubjectID:  userIDFromRequest(r),
		Query:      req.Action,
		Output:     rec.Reason,
		Decision:   strconv.FormatBool(rec.Approved),
		Confidence: rec.Confidence,
	})

	h.metrics.RecordQueryProcessed("success")
	respondJSON(w, http.StatusOK, rec)
}

// HandleLoadAnalysis computes the heuristic health report for one load
func (h *AnalysisHandler) HandleLoadAnalysis(w http.ResponseWriter, r *http.Request) {
	loadID, err := strconv.Atoi(mux.Vars(r)["load_id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgInvalidRequest, nil))
		return
	}

	sysCtx, err := h.telemetry.GetSystemContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch system context")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	load := sysCtx.FindLoad(loadID)
	if load == nil {
		respondError(w, http.StatusNotFound, h.localizer.Get("en", i18n.MsgLoadNotFound, map[string]interface{}{
			"LoadID": loadID,
		}))
		return
	}

	respondJSON(w, http.StatusOK, h.insights.AnalyzeLoad(load))
}

// HandleSystemHealth reports the aggregate health verdict
func (h *AnalysisHandler) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	sysCtx, err := h.telemetry.GetSystemContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch system context")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	status, score := h.insights.SystemHealth(sysCtx)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"health_score": score,
		"total_loads":  len(sysCtx.Loads),
		"active_loads": sysCtx.ActiveLoads(),
		"alerts":       len(sysCtx.RecentAlerts),
		"checked_at":   time.Now().UTC(),
	})
}
