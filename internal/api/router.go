package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Vishal25102002/planify/internal/api/middleware"
	"github.com/Vishal25102002/planify/internal/handlers"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	limiter := middleware.NewRateLimiter(logger)
	r.Use(limiter.Middleware)

	// CORS - the browser UI is served from a different origin in dev
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", h.CreateConversation)
		r.Get("/", h.ListConversations)
		r.Get("/active", h.ActiveConversation)
		r.Get("/{id}", h.GetConversation)
		r.Post("/{id}/select", h.SelectConversation)
	})

	r.Post("/chat", h.Submit)
	r.Get("/chat/status", h.Status)

	return r
}
