package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/i18n"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/ai"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/events"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/insights"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/intent"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/session"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/telemetry"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.RateLimit.ChatDailyLimit = 100
	cfg.RateLimit.AnalysisDailyLimit = 50
	cfg.Session.Backend = "memory"
	cfg.Session.MaxMessages = 20
	return cfg
}

func testLocalizer(t *testing.T) *i18n.Localizer {
	t.Helper()
	localizer, err := i18n.NewLocalizer(&config.I18nConfig{
		DefaultLanguage: "en",
		Languages:       []string{"en"},
		Directory:       "../../configs/i18n",
	})
	require.NoError(t, err)
	return localizer
}

func newTestRouter(t *testing.T, cfg *config.Config) *mux.Router {
	t.Helper()
	log := logrus.New()

	gateway := ai.NewGateway(nil, nil, 0, log, nil)
	agent := ai.NewAgent(intent.NewClassifier(), gateway, log)

	sessions, err := session.NewManager(cfg, log)
	require.NoError(t, err)

	handler := NewChatHandler(
		cfg,
		agent,
		sessions,
		middleware.NewQuotaLimiter(log),
		middleware.NewBurstLimiter(&cfg.RateLimit, log),
		insights.NewAggregator(),
		telemetry.NewStaticProvider(),
		events.NopSink{},
		testLocalizer(t),
		middleware.NewMetrics(),
		log,
	)

	router := mux.NewRouter()
	handler.Register(router)
	return router
}

func postChat(router *mux.Router, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := postChat(router, models.ChatRequest{
		Message:   "Is the fan consuming too much power?",
		SessionID: "s1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.MessageID)
	assert.NotEmpty(t, resp.Response)
	assert.Equal(t, "energy", resp.Intent)
	assert.Equal(t, []string{"fan"}, resp.Entities["load_name"])
	assert.False(t, resp.AIEnabled)
}

func TestChatRequiresMessage(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := postChat(router, models.ChatRequest{SessionID: "s1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatQuotaExhaustion(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.ChatDailyLimit = 2
	router := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		rec := postChat(router, models.ChatRequest{Message: "status?"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postChat(router, models.ChatRequest{Message: "status?"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var errResp models.QuotaExceededResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, 2, errResp.Limit)
	assert.Equal(t, 0, errResp.Remaining)
	assert.False(t, errResp.ResetAt.IsZero())

	// The exhausted quota still reports remaining explicitly
	body := rec.Body.String()
	assert.Contains(t, body, `"remaining":0`)
	assert.Contains(t, body, `"limit":2`)
	assert.Contains(t, body, `"reset_at"`)
}

func TestChatQuotaIsPerUser(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.ChatDailyLimit = 1
	router := newTestRouter(t, cfg)

	rec := postChat(router, models.ChatRequest{Message: "status?"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = postChat(router, models.ChatRequest{Message: "status?"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different bearer token gets its own bucket
	payload, _ := json.Marshal(models.ChatRequest{Message: "status?"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer other-user-token")
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestChatHistoryRoundTrip(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := postChat(router, models.ChatRequest{Message: "hello", SessionID: "s1"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history/s1", nil)
	histRec := httptest.NewRecorder()
	router.ServeHTTP(histRec, req)
	require.Equal(t, http.StatusOK, histRec.Code)

	var hist models.ChatHistoryResponse
	require.NoError(t, json.Unmarshal(histRec.Body.Bytes(), &hist))
	assert.Equal(t, "s1", hist.SessionID)
	require.Equal(t, 2, hist.TotalMessages)
	assert.Equal(t, models.RoleUser, hist.Messages[0].Role)
	assert.Equal(t, "hello", hist.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, hist.Messages[1].Role)

	// Clear and confirm empty
	delReq := httptest.NewRequest(http.MethodDelete, "/api/chat/history/s1", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	require.Equal(t, http.StatusOK, delRec.Code)

	emptyRec := httptest.NewRecorder()
	router.ServeHTTP(emptyRec, httptest.NewRequest(http.MethodGet, "/api/chat/history/s1", nil))
	var emptied models.ChatHistoryResponse
	require.NoError(t, json.Unmarshal(emptyRec.Body.Bytes(), &emptied))
	assert.Zero(t, emptied.TotalMessages)
}

func TestQuickInsightsEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/quick-insights", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.QuickInsights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	// Static reference data has one warning alert and two active loads
	assert.Equal(t, models.HealthHealthy, result.Health.Status)
	assert.Equal(t, 105.0, result.Metrics.TotalPowerW)
	assert.Equal(t, 2, result.Metrics.ActiveLoads)
	assert.Equal(t, 3, result.Metrics.TotalLoads)
	assert.NotEmpty(t, result.QuickTips)
}

func TestRateLimitStatusEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := postChat(router, models.ChatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/rate-limit", nil)
	statusRec := httptest.NewRecorder()
	router.ServeHTTP(statusRec, req)
	require.Equal(t, http.StatusOK, statusRec.Code)

	var status struct {
		UserID string `json:"user_id"`
		Usage  map[string]struct {
			Limit     int       `json:"limit"`
			Used      int       `json:"used"`
			Remaining int       `json:"remaining"`
			ResetAt   time.Time `json:"reset_at"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))

	assert.Equal(t, "anonymous", status.UserID)
	assert.Equal(t, 1, status.Usage["chat"].Used)
	assert.Equal(t, 99, status.Usage["chat"].Remaining)
	assert.False(t, status.Usage["chat"].ResetAt.IsZero())

	// The untouched analysis bucket gets a live window too
	assert.Equal(t, 50, status.Usage["analysis"].Limit)
	assert.Zero(t, status.Usage["analysis"].Used)
	assert.False(t, status.Usage["analysis"].ResetAt.IsZero())
}
