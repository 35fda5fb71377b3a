package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightsmile-dental/voice-assistant/internal/api/router"
	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	appconfig "github.com/brightsmile-dental/voice-assistant/internal/config"
	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/http/handlers"
	"github.com/brightsmile-dental/voice-assistant/internal/observability/metrics"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
	"github.com/brightsmile-dental/voice-assistant/internal/session"
	"github.com/brightsmile-dental/voice-assistant/internal/transcript"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voice assistant",
		"env", cfg.Env,
		"port", cfg.Port,
		"scheduling_backend", cfg.SchedulingBackend,
	)

	ctx := context.Background()
	info := clinic.NewInfo()

	backend, err := scheduling.NewBackend(ctx, cfg, info, logger)
	if err != nil {
		logger.Error("failed to initialize scheduling backend", "error", err)
		os.Exit(1)
	}

	store := newTranscriptStore(cfg, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	flowMetrics := metrics.NewFlowMetrics(registry)

	catalog := flow.NewCatalog(info)
	manager := session.NewManager(info, backend, catalog, cfg.SessionTTL, logger,
		flowMetrics,
		transcript.NewRecorder(store, logger),
	)

	stop := make(chan struct{})
	go manager.SweepLoop(time.Minute, stop)

	r := router.New(&router.Config{
		Logger:           logger,
		Sessions:         handlers.NewSessionsHandler(manager, logger),
		Health:           handlers.NewHealthHandler(manager, cfg.SchedulingBackend),
		AdminTranscripts: handlers.NewAdminTranscriptsHandler(store, logger),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:  cfg.AdminJWTSecret,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	close(stop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newTranscriptStore(cfg *appconfig.Config, logger *logging.Logger) transcript.Store {
	if cfg.TranscriptStore != "redis" {
		return transcript.NewMemoryStore()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	logger.Info("using redis transcript store", "addr", cfg.RedisAddr, "ttl", cfg.TranscriptTTL)
	return transcript.NewRedisStore(redis.NewClient(opts), cfg.TranscriptTTL, nil)
}
