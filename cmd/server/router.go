package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/oneline-api/internal/api"
	apiMiddleware "github.com/phrazzld/oneline-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)

	// An empty list would make cors allow every origin.
	if origins := app.config.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{apiMiddleware.TraceHeader},
			MaxAge:         300,
		}))
	}

	entryHandler := api.NewEntryHandler(app.journal, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.OwnerMiddleware(app.config.Journal.OwnerID))

		r.Post("/entries", entryHandler.SubmitEntry)
		r.Get("/entries", entryHandler.GetHistory)
		r.Get("/entries/today", entryHandler.GetToday)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
