package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func NewRouter(apiHandler *APIHandler, metricsHandler http.Handler, corsAllowedOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/chat", apiHandler.ChatHandler)
	r.Get("/history", apiHandler.HistoryHandler)
	r.Delete("/clear-history", apiHandler.ClearHistoryHandler)

	r.Handle("/metrics", metricsHandler)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{corsAllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}
