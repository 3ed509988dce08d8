package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scambait-lab/internal/api"
	"scambait-lab/internal/api/handlers"
	"scambait-lab/internal/config"
	"scambait-lab/internal/domain/services"
	"scambait-lab/internal/honeypot"
	"scambait-lab/internal/infrastructure/cache"
	"scambait-lab/internal/report"
	"scambait-lab/internal/session"
	"scambait-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting ScamBait Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; it only backs rate limiting
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without rate limiting")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize detection services
	lib := services.NewPatternLibrary()
	scorer := services.NewScamScorer(lib, cfg.Detection.ScamThreshold, log)
	extractor := services.NewIntelligenceExtractor(lib, log)
	responder := services.NewResponder(time.Now().UnixNano())

	// Report sink: HTTP callback when configured, log-only otherwise
	var sink report.Sink
	if cfg.Callback.Enabled && cfg.Callback.URL != "" {
		sink = report.NewHTTPSink(cfg.Callback.URL, cfg.Callback.APIKey, cfg.Callback.Timeout, log)
		log.Info().Str("url", cfg.Callback.URL).Msg("final report callback enabled")
	} else {
		sink = report.NewLogSink(log)
		log.Warn().Msg("final report callback disabled, reports will be logged only")
	}

	// Session store and engine
	store := session.NewStore(log)
	policy := honeypot.FinalizationPolicy{
		MaxMessages:    cfg.Session.MaxMessages,
		MinMessages:    cfg.Session.MinMessages,
		IntelMargin:    cfg.Session.IntelMargin,
		HighConfidence: cfg.Detection.HighConfidenceThreshold,
	}
	engine := honeypot.NewEngine(store, scorer, extractor, responder, policy, sink, log)

	// Background eviction of idle sessions
	sweeper := session.NewSweeper(store, cfg.Session.MaxAge, cfg.Session.SweepInterval, log)
	go func() {
		if err := sweeper.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("sweeper stopped with error")
		}
	}()

	// Initialize handlers
	h := handlers.NewHandlers(handlers.Dependencies{
		Engine: engine,
		Config: cfg,
		Logger: log,
	})

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background services
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
