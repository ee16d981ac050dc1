package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/docbridge-ai/docbridge/internal/cache"
	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/docbridge-ai/docbridge/internal/observability"
)

// ParseHandler handles the single-document conversion endpoints.
type ParseHandler struct {
	logger         *observability.Logger
	gateway        *convert.Gateway
	cache          cache.Client
	cacheTTL       time.Duration
	maxUploadBytes int64
}

// NewParseHandler creates a parse handler. The cache client may be nil to
// disable result caching on the parse-url path.
func NewParseHandler(logger *observability.Logger, gateway *convert.Gateway, cacheClient cache.Client, cacheTTL time.Duration, maxUploadBytes int64) *ParseHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}
	return &ParseHandler{
		logger:         logger,
		gateway:        gateway,
		cache:          cacheClient,
		cacheTTL:       cacheTTL,
		maxUploadBytes: maxUploadBytes,
	}
}

// URLParseRequest is the body of POST /parse-url.
type URLParseRequest struct {
	URL                  string `json:"url"`
	Format               string `json:"format"`
	EnableOCR            bool   `json:"enable_ocr"`
	EnableTableStructure *bool  `json:"enable_table_structure"`
}

// Upload handles POST /upload: multipart file, format, enable_ocr,
// enable_table_structure. The upload is staged in a scratch directory that is
// removed on every exit path.
func (h *ParseHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer file.Close()

	// Reject unsupported formats before any conversion work.
	if _, err := convert.DetectFormat(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, "unsupported file format", err.Error())
		return
	}

	opts := optionsFromForm(r)

	scratch, err := os.MkdirTemp("", "docbridge-upload-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create scratch directory", err.Error())
		return
	}
	defer os.RemoveAll(scratch)

	stagedPath := filepath.Join(scratch, filepath.Base(header.Filename))
	staged, err := os.Create(stagedPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stage uploaded file", err.Error())
		return
	}
	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		writeError(w, http.StatusInternalServerError, "stage uploaded file", err.Error())
		return
	}
	staged.Close()

	h.logger.Info().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Str("format", string(opts.OutputFormat)).
		Msg("Parsing uploaded file")

	outcome := h.gateway.Convert(ctx, stagedPath, opts)
	h.respond(w, outcome, opts)
}

// ParseURL handles POST /parse-url with a JSON body. Successful responses
// for a given (url, options) pair are cached.
func (h *ParseHandler) ParseURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req URLParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if !convert.IsURL(req.URL) {
		writeError(w, http.StatusBadRequest, "invalid url", req.URL)
		return
	}

	opts := convert.DefaultOptions()
	opts.OutputFormat = convert.ParseOutputFormat(req.Format)
	opts.EnableOCR = req.EnableOCR
	if req.EnableTableStructure != nil {
		opts.EnableTableStructure = *req.EnableTableStructure
	}

	cacheKey := cache.ResultKey(req.URL, opts.CacheKey())
	if h.cache != nil {
		if data, err := h.cache.Get(ctx, cacheKey); err == nil {
			h.logger.Debug().Str("url", req.URL).Msg("Serving parse result from cache")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	h.logger.Info().
		Str("url", req.URL).
		Str("format", string(opts.OutputFormat)).
		Msg("Parsing remote document")

	outcome := h.gateway.Convert(ctx, req.URL, opts)
	if outcome.Succeeded() && h.cache != nil {
		resp := buildParseResponse(outcome, opts)
		if data, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(ctx, cacheKey, data, h.cacheTTL); err != nil {
				h.logger.Warn().Err(err).Msg("Failed to cache parse result")
			}
		}
	}
	h.respond(w, outcome, opts)
}

// respond maps an outcome to the HTTP response: 400 for unsupported formats,
// 500 for other failures, 200 with a ParseResponse for successes.
func (h *ParseHandler) respond(w http.ResponseWriter, outcome convert.Outcome, opts convert.Options) {
	if !outcome.Succeeded() {
		status := http.StatusInternalServerError
		if convert.IsKind(outcome.Err, convert.KindUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "error parsing document", outcome.ErrorMessage())
		return
	}
	writeJSON(w, http.StatusOK, buildParseResponse(outcome, opts))
}

// buildParseResponse serializes the document in the requested output format.
func buildParseResponse(outcome convert.Outcome, opts convert.Options) ParseResponse {
	doc := outcome.Document

	var (
		content  string
		format   = opts.OutputFormat
		fallback bool
	)
	switch opts.OutputFormat {
	case convert.FormatJSON:
		data, err := json.Marshal(doc.ExportDict())
		if err != nil {
			content = doc.ExportMarkdown()
			format = convert.FormatMarkdown
			fallback = true
		} else {
			content = string(data)
		}
	case convert.FormatHTML:
		content, fallback = doc.ExportHTML()
		if fallback {
			format = convert.FormatMarkdown
		}
	default:
		content = doc.ExportMarkdown()
		format = convert.FormatMarkdown
	}

	metadata := map[string]any{}
	if doc.Metadata.PageCount > 0 {
		metadata["num_pages"] = doc.Metadata.PageCount
	}
	if doc.Metadata.Title != "" {
		metadata["title"] = doc.Metadata.Title
	}
	if doc.Metadata.FileSizeBytes > 0 {
		metadata["file_size"] = doc.Metadata.FileSizeBytes
	}

	return ParseResponse{
		Success:               true,
		Message:               "Document parsed successfully",
		Format:                string(format),
		Content:               content,
		Metadata:              metadata,
		FormatFallbackApplied: fallback,
	}
}

// optionsFromForm reads conversion options from multipart form values,
// keeping the documented defaults for absent fields.
func optionsFromForm(r *http.Request) convert.Options {
	opts := convert.DefaultOptions()
	opts.OutputFormat = convert.ParseOutputFormat(r.FormValue("format"))
	if v := r.FormValue("enable_ocr"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.EnableOCR = b
		}
	}
	if v := r.FormValue("enable_table_structure"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.EnableTableStructure = b
		}
	}
	return opts
}
