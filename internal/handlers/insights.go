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
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/cache"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/telemetry"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// InsightsHandler serves the energy insight endpoints
type InsightsHandler struct {
	config    *config.Config
	gateway   *ai.Gateway
	telemetry telemetry.Provider
	quota     middleware.QuotaLimiter
	cache     cache.Service
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(
	cfg *config.Config,
	gateway *ai.Gateway,
	provider telemetry.Provider,
	quota middleware.QuotaLimiter,
	cacheService cache.Service,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *InsightsHandler {
	return &InsightsHandler{
		config:    cfg,
		gateway:   gateway,
		telemetry: provider,
		quota:     quota,
		cache:     cacheService,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register mounts the insights routes
func (h *InsightsHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/insights/energy", h.HandleEnergyInsights).Methods(http.MethodGet)
	r.HandleFunc("/api/insights/daily-summary", h.HandleDailySummary).Methods(http.MethodGet)
	r.HandleFunc("/api/insights/comparison", h.HandleComparison).Methods(http.MethodGet)
	r.HandleFunc("/api/insights/recommendations", h.HandleRecommendations).Methods(http.MethodGet)
	r.HandleFunc("/api/insights/stats", h.HandleUsageStats).Methods(http.MethodGet)
}

// HandleEnergyInsights returns the structured usage analysis for a
// period. Results are cached; cache hits do not consume quota.
func (h *InsightsHandler) HandleEnergyInsights(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordQueryReceived("energy_insights")

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "today"
	}

	if payload, found := h.cache.Get(r.Context(), "energy_insight", period); found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	userID := userIDFromRequest(r)
	check := h.quota.Check(userID, "analysis", h.config.RateLimit.AnalysisDailyLimit)
	if !check.Allowed {
		h.metrics.RecordQuotaExceeded("analysis")
		respondQuotaExceeded(w, h.localizer, check, "analysis")
		return
	}

	energyData, err := h.telemetry.GetEnergyData(r.Context(), period)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	insight := h.gateway.EnergyInsights(r.Context(), energyData, period)
	h.quota.Increment(userID, "analysis")

	if payload, err := json.Marshal(insight); err == nil {
		h.cache.Set(r.Context(), "energy_insight", period, payload)
	}

	h.metrics.RecordQueryProcessed("success")
	respondJSON(w, http.StatusOK, insight)
}

// HandleDailySummary returns a conversational recap of the day
func (h *InsightsHandler) HandleDailySummary(w http.ResponseWriter, r *http.Request) {
	energyData, err := h.telemetry.GetEnergyData(r.Context(), "today")
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	sysCtx, err := h.telemetry.GetSystemContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch system context")
		sysCtx = &models.SystemContext{Timestamp: time.Now().UTC()}
	}

	summary, aiEnabled := h.gateway.DailySummary(r.Context(), energyData, sysCtx.RecentAlerts)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summary":      summary,
		"date":         time.Now().UTC().Format("2006-01-02"),
		"ai_enabled":   aiEnabled,
		"generated_at": time.Now().UTC(),
	})
}

// HandleComparison compares consumption between two periods
func (h *InsightsHandler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("period")
	if current == "" {
		current = "today"
	}
	previous := r.URL.Query().Get("compare_to")
	if previous == "" {
		previous = "yesterday"
	}

	currentData, err := h.telemetry.GetEnergyData(r.Context(), current)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}
	previousData, err := h.telemetry.GetEnergyData(r.Context(), previous)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	var changePct float64
	if previousData.TotalConsumptionKWh > 0 {
		changePct = (currentData.TotalConsumptionKWh - previousData.TotalConsumptionKWh) /
			previousData.TotalConsumptionKWh * 100
	}

	trend := "stable"
	switch {
	case changePct > 5:
		trend = "increasing"
	case changePct < -5:
		trend = "decreasing"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"period":         current,
		"compared_to":    previous,
		"current_kwh":    currentData.TotalConsumptionKWh,
		"previous_kwh":   previousData.TotalConsumptionKWh,
		"change_percent": changePct,
		"trend":          trend,
		"current_cost":   currentData.TotalCost,
		"previous_cost":  previousData.TotalCost,
	})
}

// HandleRecommendations derives saving suggestions from usage data
// without touching a provider
func (h *InsightsHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	energyData, err := h.telemetry.GetEnergyData(r.Context(), "today")
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	var recs []models.EnergyRecommendation
	for _, load := range energyData.Loads {
		if load.ConsumptionKWh > 3 {
			recs = append(recs, models.EnergyRecommendation{
				Title:            "Optimize " + load.Name,
				Description:      load.Name + " is the dominant consumer today. Consider lowering its duty cycle or setpoint.",
				PotentialSavings: "Up to 20% of its consumption",
				Priority:         "high",
			})
		}
		if load.RuntimeHours > 10 {
			recs = append(recs, models.EnergyRecommendation{
				Title:            "Schedule " + load.Name,
				Description:      load.Name + " ran for a long stretch. A timer or auto mode could trim idle hours.",
				PotentialSavings: "1-2 hours of runtime per day",
				Priority:         "medium",
			})
		}
	}

	recs = append(recs, models.EnergyRecommendation{
		Title:            "Shift usage away from peak hours",
		Description:      "Peak usage was around " + energyData.PeakHour + ". Running heavy loads outside that window reduces cost.",
		PotentialSavings: "Varies by tariff",
		Priority:         "low",
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"period":          energyData.Period,
		"recommendations": recs,
		"generated_at":    time.Now().UTC(),
	})
}

// HandleUsageStats rolls today's and the weekly figures into one
// consumption overview with the per-load breakdown
func (h *InsightsHandler) HandleUsageStats(w http.ResponseWriter, r *http.Request) {
	dailyData, err := h.telemetry.GetEnergyData(r.Context(), "today")
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}
	weeklyData, err := h.telemetry.GetEnergyData(r.Context(), "week")
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch energy data")
		respondError(w, http.StatusInternalServerError, h.localizer.Get("en", i18n.MsgInternalError, nil))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"daily": map[string]interface{}{
			"consumption_kwh": dailyData.TotalConsumptionKWh,
			"cost":            dailyData.TotalCost,
			"peak_hour":       dailyData.PeakHour,
		},
		"weekly": map[string]interface{}{
			"consumption_kwh": weeklyData.TotalConsumptionKWh * 7,
			"cost":            weeklyData.TotalCost * 7,
			"avg_daily_kwh":   weeklyData.TotalConsumptionKWh,
		},
		"loads_breakdown": dailyData.Loads,
		"generated_at":    time.Now().UTC(),
	})
}
