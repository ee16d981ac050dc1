package convert

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Metadata carries document-level properties surfaced to callers.
type Metadata struct {
	PageCount     int    `json:"num_pages,omitempty"`
	Title         string `json:"title,omitempty"`
	FileSizeBytes int64  `json:"file_size,omitempty"`
}

// Document is the structured result of one conversion: markdown text, the
// document as nested data, optional native HTML, and metadata.
type Document struct {
	Markdown string
	// NativeHTML is set only when the source format carried HTML directly.
	NativeHTML string
	// Body is the document-as-data representation serialized on JSON export.
	Body     map[string]any
	Metadata Metadata
}

var htmlRenderer = goldmark.New(
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		goldmarkhtml.WithUnsafe(),
	),
	goldmark.WithExtensions(
		extension.GFM,
	),
)

// ExportMarkdown returns the markdown serialization.
func (d *Document) ExportMarkdown() string {
	return d.Markdown
}

// ExportHTML returns the HTML serialization. When the document has no native
// HTML the markdown is rendered through goldmark; if even that fails the raw
// markdown is returned with fallbackApplied set, so callers can surface the
// substitution instead of hiding it.
func (d *Document) ExportHTML() (content string, fallbackApplied bool) {
	if d.NativeHTML != "" {
		return d.NativeHTML, false
	}
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(d.Markdown), &buf); err != nil {
		return d.Markdown, true
	}
	return buf.String(), false
}

// ExportDict returns the document-as-data mapping, always including metadata.
func (d *Document) ExportDict() map[string]any {
	body := d.Body
	if body == nil {
		body = map[string]any{}
	}
	out := make(map[string]any, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	meta := map[string]any{}
	if d.Metadata.PageCount > 0 {
		meta["num_pages"] = d.Metadata.PageCount
	}
	if d.Metadata.Title != "" {
		meta["title"] = d.Metadata.Title
	}
	if d.Metadata.FileSizeBytes > 0 {
		meta["file_size"] = d.Metadata.FileSizeBytes
	}
	out["metadata"] = meta
	return out
}
