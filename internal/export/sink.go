// Package export serializes successful conversion outcomes to on-disk
// artifacts.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/docbridge-ai/docbridge/internal/observability"
)

// Sink writes conversion artifacts into one target directory, creating it on
// first use. Existing files are overwritten.
type Sink struct {
	dir    string
	logger *observability.Logger
}

// NewSink creates an export sink for the given directory.
func NewSink(dir string, logger *observability.Logger) *Sink {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Sink{dir: dir, logger: logger}
}

// Write serializes a successful outcome: <basename>.md with the raw markdown
// and <basename>.json with the indented document-as-data mapping. When the
// outcome's options asked for HTML a <basename>.html is written as well.
// Failure outcomes are a no-op; reporting them is the caller's concern.
func (s *Sink) Write(outcome convert.Outcome, opts convert.Options) error {
	if !outcome.Succeeded() {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return convert.IOError(fmt.Sprintf("create output directory %s", s.dir), err)
	}

	base := BaseName(outcome.Source)
	doc := outcome.Document

	mdPath := filepath.Join(s.dir, base+".md")
	if err := os.WriteFile(mdPath, []byte(doc.ExportMarkdown()), 0o644); err != nil {
		return convert.IOError(fmt.Sprintf("write %s", mdPath), err)
	}

	jsonPath := filepath.Join(s.dir, base+".json")
	data, err := marshalIndented(doc.ExportDict())
	if err != nil {
		return convert.IOError(fmt.Sprintf("encode %s", jsonPath), err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return convert.IOError(fmt.Sprintf("write %s", jsonPath), err)
	}

	if opts.OutputFormat == convert.FormatHTML {
		content, fallback := doc.ExportHTML()
		if fallback {
			s.logger.Warn().Str("source", outcome.Source).Msg("HTML export fell back to markdown")
		}
		htmlPath := filepath.Join(s.dir, base+".html")
		if err := os.WriteFile(htmlPath, []byte(content), 0o644); err != nil {
			return convert.IOError(fmt.Sprintf("write %s", htmlPath), err)
		}
	}

	s.logger.Debug().Str("source", outcome.Source).Str("dir", s.dir).Msg("Exported artifacts")
	return nil
}

// BaseName strips the directory and extension from a source identifier,
// leaving the name artifacts are derived from.
func BaseName(source string) string {
	base := filepath.Base(source)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// marshalIndented encodes v as two-space-indented UTF-8 JSON without HTML
// escaping, so non-ASCII text survives byte-for-byte.
func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
