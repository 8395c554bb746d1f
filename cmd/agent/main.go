package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/handlers"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/i18n"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/ai"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/cache"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/events"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/insights"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/intent"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/session"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/telemetry"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting load monitoring agent...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize providers. Each one is optional; with neither key the
	// gateway answers from deterministic templates.
	var primary, secondary ai.Provider
	if cfg.Providers.Primary.APIKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.Providers.Primary)
		if err != nil {
			log.WithError(err).Error("Failed to initialize primary provider")
		} else {
			defer gemini.Close()
			primary = gemini
			log.WithField("model", cfg.Providers.Primary.Model).Info("Primary provider ready")
		}
	}
	if cfg.Providers.Secondary.APIKey != "" {
		secondary = ai.NewOpenAIProvider(cfg.Providers.Secondary)
		log.WithField("model", cfg.Providers.Secondary.Model).Info("Secondary provider ready")
	}
	if primary == nil && secondary == nil {
		log.Warn("No AI providers configured, running in fallback-only mode")
	}

	// Initialize metrics
	metrics := middleware.NewMetrics()

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Initialize core services
	gateway := ai.NewGateway(primary, secondary, cfg.Providers.Timeout, log, metrics)
	agent := ai.NewAgent(intent.NewClassifier(), gateway, log)

	sessions, err := session.NewManager(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize session store")
	}

	quota := middleware.NewQuotaLimiter(log)
	burst := middleware.NewBurstLimiter(&cfg.RateLimit, log)
	aggregator := insights.NewAggregator()
	cacheService := cache.NewCache(cfg, log, metrics)

	var sink events.Sink = events.NopSink{}
	if cfg.Events.Enabled {
		sqliteSink, err := events.NewSQLiteSink(cfg.Events.DBPath, log)
		if err != nil {
			log.WithError(err).Error("Failed to initialize event store, events disabled")
		} else {
			defer sqliteSink.Close()
			sink = sqliteSink
		}
	}

	var provider telemetry.Provider
	if cfg.Telemetry.BackendURL != "" {
		provider = telemetry.NewHTTPProvider(cfg.Telemetry.BackendURL, cfg.Providers.Timeout, log)
	} else {
		log.Warn("No backend URL configured, serving reference telemetry")
		provider = telemetry.NewStaticProvider()
	}

	// Initialize i18n
	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(
		cfg, agent, sessions, quota, burst, aggregator, provider, sink, localizer, metrics, log)
	analysisHandler := handlers.NewAnalysisHandler(
		cfg, gateway, aggregator, provider, quota, sink, localizer, metrics, log)
	insightsHandler := handlers.NewInsightsHandler(
		cfg, gateway, provider, quota, cacheService, localizer, metrics, log)

	router := mux.NewRouter()
	chatHandler.Register(router)
	analysisHandler.Register(router)
	insightsHandler.Register(router)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}

	cancel()
	log.Info("Agent stopped")
}
