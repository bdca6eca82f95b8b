package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ligaflagmx/liga-api/internal/api/handler"
	"github.com/ligaflagmx/liga-api/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "X-Usuario-Id", "X-Rol"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/live", h.HealthCheckLive)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Matches
		r.Route("/partidos", func(r chi.Router) {
			r.Post("/", h.CreateMatch)
			r.Get("/", h.ListMatches)
			r.Get("/{id}", h.GetMatch)
			r.Put("/{id}", h.UpdateMatch)
			r.Delete("/{id}", h.DeleteMatch)
			r.Patch("/{id}/estado", h.TransitionMatch)

			// Play ledger
			r.Post("/{id}/jugadas", h.AppendPlay)
			r.Get("/{id}/jugadas", h.ListPlays)
			r.Delete("/{id}/jugadas/ultima", h.DeleteLastPlay)
			r.Delete("/{id}/jugadas/{jugadaId}", h.DeletePlay)
		})

		// Fixture schedule
		r.Post("/generar-rol", h.GenerateSchedule)
		r.Delete("/rol/{torneoId}/{categoria}", h.ClearSchedule)
	})

	return r
}
