// Package convert defines the conversion domain model: options, typed errors,
// documents, outcomes, and the gateway that fences off the conversion engine.
package convert

import "fmt"

// OutputFormat selects the serialization of a converted document.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
	FormatHTML     OutputFormat = "html"
)

// ParseOutputFormat normalizes a user-supplied format string.
// Unknown values fall back to markdown, matching the permissive API surface.
func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatMarkdown, FormatJSON, FormatHTML:
		return OutputFormat(s)
	default:
		return FormatMarkdown
	}
}

// Options holds per-request conversion settings. Immutable once built.
type Options struct {
	EnableOCR            bool
	EnableTableStructure bool
	OutputFormat         OutputFormat
}

// DefaultOptions returns the standard conversion settings: OCR off for speed,
// table structure detection on, markdown output.
func DefaultOptions() Options {
	return Options{
		EnableOCR:            false,
		EnableTableStructure: true,
		OutputFormat:         FormatMarkdown,
	}
}

// CacheKey returns a stable string identifying these options for result caching.
func (o Options) CacheKey() string {
	return fmt.Sprintf("ocr=%t:tables=%t:fmt=%s", o.EnableOCR, o.EnableTableStructure, o.OutputFormat)
}
