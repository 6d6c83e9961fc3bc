package routes

import (
	"net/http"
	"time"

	"dispatch-app/backend/internal/api"
	"dispatch-app/backend/internal/auth"
	"dispatch-app/backend/internal/config"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the HTTP handler tree over initialized dependencies.
func RegisterRoutes(deps *api.Dependencies, cfg *config.Configuration, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handlers := api.NewHandlers(deps)

	r.Get("/healthCheck", handlers.HealthCheck(upSince))
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))

	var tokens middleware.TokenValidator
	if cfg.AuthEnabled() {
		tokens = auth.NewTokenService([]byte(cfg.AuthSecret))
	}
	uploads := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, "127.0.0.1", "::1")

	RegisterAPIRoutes(r, handlers, deps, tokens, uploads)

	logging.Info("Router initialized",
		"auth", cfg.AuthEnabled(),
		"cors_origins", cfg.CORSAllowedOrigins,
	)
	return r
}
