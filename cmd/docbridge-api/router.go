// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/docbridge-ai/docbridge/cmd/docbridge-api/handlers"
	"github.com/docbridge-ai/docbridge/cmd/docbridge-api/middleware"
	"github.com/docbridge-ai/docbridge/internal/cache"
	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/docbridge-ai/docbridge/internal/observability"
)

// AppConfig holds application configuration for the router.
type AppConfig struct {
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	MaxUploadBytes int64
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg AppConfig, gateway *convert.Gateway, cacheClient cache.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	metaHandler := handlers.NewMetaHandler()
	parseHandler := handlers.NewParseHandler(logger, gateway, cacheClient, cfg.CacheTTL, cfg.MaxUploadBytes)

	r.Get("/", metaHandler.Root)
	r.Get("/health", metaHandler.Health)
	r.Get("/supported-formats", metaHandler.SupportedFormats)
	r.Post("/upload", parseHandler.Upload)
	r.Post("/parse-url", parseHandler.ParseURL)

	return r
}
