package handlers

import (
	"net/http"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// Version is the API version reported by the root endpoint.
const Version = "1.0.0"

// MetaHandler serves the informational endpoints.
type MetaHandler struct{}

// NewMetaHandler creates a meta handler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Root handles GET / with API information.
func (h *MetaHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "docbridge API",
		"version":           Version,
		"supported_formats": convert.SupportedInputExtensions(),
		"endpoints": map[string]string{
			"upload":            "/upload",
			"parse_url":         "/parse-url",
			"health":            "/health",
			"supported_formats": "/supported-formats",
		},
	})
}

// Health handles GET /health.
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "docbridge",
	})
}

// SupportedFormats handles GET /supported-formats.
func (h *MetaHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"supported_formats": map[string]any{
			"input":  convert.SupportedInputExtensions(),
			"output": convert.SupportedOutputFormats(),
		},
	})
}
