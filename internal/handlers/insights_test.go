package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/ai"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/cache"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/telemetry"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInsightsRouter(t *testing.T, cfg *config.Config) *mux.Router {
	t.Helper()
	log := logrus.New()

	handler := NewInsightsHandler(
		cfg,
		ai.NewGateway(nil, nil, 0, log, nil),
		telemetry.NewStaticProvider(),
		middleware.NewQuotaLimiter(log),
		cache.NewCache(cfg, log, nil),
		testLocalizer(t),
		middleware.NewMetrics(),
		log,
	)

	router := mux.NewRouter()
	handler.Register(router)
	return router
}

func TestUsageStats(t *testing.T) {
	router := newInsightsRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/insights/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Daily struct {
			ConsumptionKWh float64 `json:"consumption_kwh"`
			Cost           float64 `json:"cost"`
			PeakHour       string  `json:"peak_hour"`
		} `json:"daily"`
		Weekly struct {
			ConsumptionKWh float64 `json:"consumption_kwh"`
			Cost           float64 `json:"cost"`
			AvgDailyKWh    float64 `json:"avg_daily_kwh"`
		} `json:"weekly"`
		LoadsBreakdown []struct {
			Name string `json:"name"`
		} `json:"loads_breakdown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	assert.InDelta(t, 5.76, stats.Daily.ConsumptionKWh, 0.001)
	assert.InDelta(t, 0.69, stats.Daily.Cost, 0.001)
	assert.Equal(t, "14:00-15:00", stats.Daily.PeakHour)

	assert.InDelta(t, 5.76*7, stats.Weekly.ConsumptionKWh, 0.001)
	assert.InDelta(t, 5.76, stats.Weekly.AvgDailyKWh, 0.001)

	require.Len(t, stats.LoadsBreakdown, 3)
	assert.Equal(t, "DC Fan", stats.LoadsBreakdown[0].Name)
}
