// Package handlers provides HTTP handlers for the docbridge API.
package handlers

import (
	"encoding/json"
	"net/http"
)

// ParseResponse is the payload returned for successful single-document
// conversions.
type ParseResponse struct {
	Success               bool           `json:"success"`
	Message               string         `json:"message"`
	Format                string         `json:"format"`
	Content               string         `json:"content"`
	Metadata              map[string]any `json:"metadata,omitempty"`
	FormatFallbackApplied bool           `json:"format_fallback_applied,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
