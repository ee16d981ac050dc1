package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

func TestSink_Write_MarkdownRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	// Non-ASCII content must survive byte-for-byte.
	markdown := "# Überschrift\n\nNaïve café — 値段 ¥1,200\n"
	outcome := convert.SuccessOutcome("/data/bericht.pdf", &convert.Document{
		Markdown: markdown,
		Metadata: convert.Metadata{PageCount: 2},
	})

	require.NoError(t, sink.Write(outcome, convert.DefaultOptions()))

	got, err := os.ReadFile(filepath.Join(dir, "bericht.md"))
	require.NoError(t, err)
	assert.Equal(t, markdown, string(got))
}

func TestSink_Write_JSONArtifact(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	outcome := convert.SuccessOutcome("slides.pptx", &convert.Document{
		Markdown: "## Slide 1\n\n<b>bold</b>\n",
		Body: map[string]any{
			"slides": []any{map[string]any{"number": 1, "text": "<b>bold</b>"}},
		},
		Metadata: convert.Metadata{Title: "Démo"},
	})

	require.NoError(t, sink.Write(outcome, convert.DefaultOptions()))

	raw, err := os.ReadFile(filepath.Join(dir, "slides.json"))
	require.NoError(t, err)

	// HTML characters are not escaped in the artifact.
	assert.Contains(t, string(raw), "<b>bold</b>")
	assert.Contains(t, string(raw), "Démo")

	var dict map[string]any
	require.NoError(t, json.Unmarshal(raw, &dict))
	assert.Contains(t, dict, "slides")
	assert.Contains(t, dict, "metadata")
}

func TestSink_Write_HTMLWhenRequested(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	opts := convert.DefaultOptions()
	opts.OutputFormat = convert.FormatHTML
	outcome := convert.SuccessOutcome("page.html", &convert.Document{
		Markdown:   "# Page",
		NativeHTML: "<h1>Page</h1>",
	})

	require.NoError(t, sink.Write(outcome, opts))

	got, err := os.ReadFile(filepath.Join(dir, "page.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Page</h1>", string(got))
}

func TestSink_Write_NoHTMLForMarkdownFormat(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	outcome := convert.SuccessOutcome("doc.pdf", &convert.Document{Markdown: "# Doc"})
	require.NoError(t, sink.Write(outcome, convert.DefaultOptions()))

	_, err := os.Stat(filepath.Join(dir, "doc.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestSink_Write_FailureOutcomeIsNoop(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	outcome := convert.FailureOutcome("bad.xyz", convert.UnsupportedFormatError("unrecognized extension .xyz", nil))
	require.NoError(t, sink.Write(outcome, convert.DefaultOptions()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSink_Write_Overwrites(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	first := convert.SuccessOutcome("doc.pdf", &convert.Document{Markdown: "v1"})
	second := convert.SuccessOutcome("doc.pdf", &convert.Document{Markdown: "v2"})
	require.NoError(t, sink.Write(first, convert.DefaultOptions()))
	require.NoError(t, sink.Write(second, convert.DefaultOptions()))

	got, err := os.ReadFile(filepath.Join(dir, "doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestSink_Write_UnwritableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o555))
	t.Cleanup(func() { _ = os.Chmod(parent, 0o755) })

	sink := NewSink(filepath.Join(parent, "out"), nil)
	outcome := convert.SuccessOutcome("doc.pdf", &convert.Document{Markdown: "# Doc"})

	err := sink.Write(outcome, convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindIOFailure))
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"report.pdf", "report"},
		{"/var/data/report.pdf", "report"},
		{"https://example.com/docs/manual.pdf", "manual"},
		{"https://example.com/docs/manual.pdf?version=2", "manual"},
		{"https://example.com/page.html#section", "page"},
		{"archive.tar.gz", "archive.tar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseName(tt.source), "source %q", tt.source)
	}
}
