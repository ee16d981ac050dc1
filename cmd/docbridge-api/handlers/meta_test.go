package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaHandler_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetaHandler().Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "docbridge", resp["service"])
}

func TestMetaHandler_Root(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetaHandler().Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, Version, resp["version"])
	assert.Contains(t, resp, "endpoints")
}

func TestMetaHandler_SupportedFormats(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetaHandler().SupportedFormats(rec, httptest.NewRequest(http.MethodGet, "/supported-formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SupportedFormats struct {
			Input  []string `json:"input"`
			Output []string `json:"output"`
		} `json:"supported_formats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.SupportedFormats.Input, ".pdf")
	assert.Contains(t, resp.SupportedFormats.Input, ".docx")
	assert.Equal(t, []string{"markdown", "json", "html"}, resp.SupportedFormats.Output)
}
