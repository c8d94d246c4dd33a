// Package server assembles the chi router: middleware chain, API routes,
// the redirect route and the operational endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/handler"
	"github.com/atinyakov/tinyurl/internal/app/service"
	"github.com/atinyakov/tinyurl/internal/metrics"
	"github.com/atinyakov/tinyurl/internal/middleware"
)

func Init(baseURL string, logger *zap.Logger, svc service.URLServiceIface, m *metrics.Metrics) *chi.Mux {
	postHandler := handler.NewPost(baseURL, svc, logger)
	getHandler := handler.NewGet(baseURL, svc, logger)
	patchHandler := handler.NewPatch(baseURL, svc, logger)
	deleteHandler := handler.NewDelete(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithMetrics(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api/urls", func(r chi.Router) {
		r.Use(middleware.WithGZIPRequest)
		r.Use(middleware.WithGZIPResponse)

		r.Post("/", postHandler.Create)
		r.Get("/{code}", getHandler.ByCode)
		r.Patch("/{code}/activate", patchHandler.Activate)
		r.Patch("/{code}/deactivate", patchHandler.Deactivate)
		r.Delete("/{code}", deleteHandler.Delete)
	})

	r.Get("/ping", getHandler.Ping)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/{code}", getHandler.Redirect)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"detail":"Method Not Allowed"}`))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Route not found"}`))
	})

	return r
}
