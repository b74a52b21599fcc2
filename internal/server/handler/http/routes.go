// Package http exposes the import pipeline over a JSON HTTP API.
package http

import (
	"net/http"

	"github.com/atinyakov/otpmigrate/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler of the import service.
//
// Routes:
//
//	POST /api/import  → importHandler.Import
//	GET  /api/health  → Health
//
// Middleware chain (applied in order):
//  1. Recoverer                            turns panics into 500s
//  2. AllowContentType("application/json") rejects non-JSON bodies
//  3. WithRequestLogging(logger)           logs each request
func NewRouter(importHandler *ImportHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/import", importHandler.Import)
		r.Get("/health", Health)
	})

	return r
}
