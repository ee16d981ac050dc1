// Package engine implements the document conversion engine behind the
// convert.Converter contract. It opens PDF and raster sources through MuPDF
// (go-fitz), walks DOCX/PPTX archives directly, and converts HTML through a
// sanitizing markdown pipeline. One Engine instance is safe for concurrent
// use; all per-conversion state lives on the stack.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/docbridge-ai/docbridge/internal/observability"
)

// Config holds engine construction settings.
type Config struct {
	// FetchTimeout bounds the download of URL sources.
	FetchTimeout time.Duration
}

// Engine converts documents into the convert.Document model.
type Engine struct {
	client *http.Client
	logger *observability.Logger
}

// New creates a conversion engine.
func New(cfg Config, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Engine{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Convert turns one source (local path or URL) into a structured document.
// Local paths with unrecognized extensions fail with an unsupported_format
// error before any I/O. URL sources without a usable extension are fetched
// first and format-sniffed from the response, since remote documents are
// commonly served from extensionless paths.
func (e *Engine) Convert(ctx context.Context, source string, opts convert.Options) (*convert.Document, error) {
	format, formatErr := convert.DetectFormat(source)
	if formatErr != nil && !convert.IsURL(source) {
		return nil, formatErr
	}

	path := source
	if convert.IsURL(source) {
		fetched, contentType, cleanup, err := e.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = fetched

		if formatErr != nil {
			format, err = sniffFileFormat(path, contentType)
			if err != nil {
				return nil, err
			}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, convert.IOError(fmt.Sprintf("stat %s", path), err)
	}

	start := time.Now()
	var doc *convert.Document
	switch format {
	case convert.InputPDF, convert.InputImage:
		doc, err = e.convertFitz(ctx, path, format, opts)
	case convert.InputDOCX:
		doc, err = e.convertDOCX(ctx, path, opts)
	case convert.InputPPTX:
		doc, err = e.convertPPTX(ctx, path)
	case convert.InputHTML:
		doc, err = e.convertHTML(ctx, path, opts)
	default:
		return nil, convert.UnsupportedFormatError(fmt.Sprintf("no handler for format %s", format), nil)
	}
	if err != nil {
		return nil, err
	}

	doc.Metadata.FileSizeBytes = info.Size()
	e.logger.Debug().
		Str("source", source).
		Str("format", string(format)).
		Dur("elapsed", time.Since(start)).
		Msg("Engine conversion complete")
	return doc, nil
}
