package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/api/handlers"
	custommiddleware "github.com/quantfolio/Portfolio-Valuation-Recorder/internal/api/middleware"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/config"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/service"
)

// NewRouter creates and configures the HTTP router for the daemon-mode
// status API.
func NewRouter(db *sql.DB, tracker *service.RunTracker, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.Status.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db, tracker)
			r.Get("/health", systemHandler.Health)
			r.Get("/status", systemHandler.Status)
		})
	})

	return r
}
