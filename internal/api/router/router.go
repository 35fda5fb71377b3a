package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightsmile-dental/voice-assistant/internal/http/handlers"
	httpmiddleware "github.com/brightsmile-dental/voice-assistant/internal/http/middleware"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger           *logging.Logger
	Sessions         *handlers.SessionsHandler
	Health           *handlers.HealthHandler
	AdminTranscripts *handlers.AdminTranscriptsHandler
	MetricsHandler   http.Handler
	AdminAuthSecret  string
	RateLimitRPS     float64
	RateLimitBurst   int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitRPS > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.Check)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Sessions != nil {
			public.Route("/sessions", func(s chi.Router) {
				s.Post("/", cfg.Sessions.Create)
				s.Route("/{sessionID}", func(s chi.Router) {
					s.Get("/node", cfg.Sessions.CurrentNode)
					s.Post("/handlers/{handler}", cfg.Sessions.Invoke)
					s.Delete("/", cfg.Sessions.Delete)
				})
			})
		}
	})

	// Admin endpoints behind the JWT middleware. An empty secret keeps
	// the routes unmounted.
	if cfg.AdminAuthSecret != "" && cfg.AdminTranscripts != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/transcripts/{sessionID}", cfg.AdminTranscripts.Get)
		})
	}

	return r
}
