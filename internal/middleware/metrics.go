package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Query metrics
	queriesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "load_agent_queries_received_total",
		Help: "Total number of queries received",
	}, []string{"endpoint"})

	queriesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "load_agent_queries_processed_total",
		Help: "Total number of queries processed",
	}, []string{"status"})

	// Intent metrics
	intentsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "load_agent_intents_detected_total",
		Help: "Total number of detected intents by category",
	}, []string{"intent"})

	// Provider metrics
	providerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "load_agent_provider_request_duration_seconds",
		Help:    "Duration of LLM provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "status"})

	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "load_agent_provider_requests_total",
		Help: "Total number of LLM provider requests",
	}, []string{"provider", "status"})

	fallbackResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "load_agent_fallback_responses_total",
		Help: "Total number of responses served from deterministic templates",
	})

	// Rate limit metrics
	quotaExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "load_agent_quota_exceeded_total",
		Help: "Total number of daily quota rejections",
	}, []string{"action_type"})

	// Cache metrics
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "load_agent_cache_hits_total",
		Help: "Total number of insight cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "load_agent_cache_misses_total",
		Help: "Total number of insight cache misses",
	})

	// Session gauge
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "load_agent_active_sessions",
		Help: "Number of active chat sessions",
	})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordQueryReceived records a received query
func (m *Metrics) RecordQueryReceived(endpoint string) {
	queriesReceived.WithLabelValues(endpoint).Inc()
}

// RecordQueryProcessed records a processed query
func (m *Metrics) RecordQueryProcessed(status string) {
	queriesProcessed.WithLabelValues(status).Inc()
}

// RecordIntentDetected records a classified intent
func (m *Metrics) RecordIntentDetected(intent string) {
	intentsDetected.WithLabelValues(intent).Inc()
}

// RecordProviderRequest records an LLM provider request
func (m *Metrics) RecordProviderRequest(provider, status string, duration time.Duration) {
	providerRequestDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
	providerRequestsTotal.WithLabelValues(provider, status).Inc()
}

// RecordFallbackResponse records a templated degraded response
func (m *Metrics) RecordFallbackResponse() {
	fallbackResponsesTotal.Inc()
}

// RecordQuotaExceeded records a daily quota rejection
func (m *Metrics) RecordQuotaExceeded(actionType string) {
	quotaExceeded.WithLabelValues(actionType).Inc()
}

// RecordCacheHit records an insight cache hit
func (m *Metrics) RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records an insight cache miss
func (m *Metrics) RecordCacheMiss() {
	cacheMisses.Inc()
}

// SetActiveSessions sets the number of active sessions
func (m *Metrics) SetActiveSessions(count float64) {
	activeSessions.Set(count)
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
