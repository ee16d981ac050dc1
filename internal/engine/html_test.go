package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

func writeHTML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Release Notes</title></head>
<body>
  <h1>Version 2.0</h1>
  <p>Now with <strong>batch</strong> conversion.</p>
  <script>alert("xss")</script>
  <table>
    <tr><th>Flag</th><th>Default</th></tr>
    <tr><td>--concurrent</td><td>false</td></tr>
  </table>
</body>
</html>`

func TestConvertHTML_MarkdownAndTitle(t *testing.T) {
	path := writeHTML(t, "notes.html", samplePage)
	e := New(Config{}, nil)

	doc, err := e.convertHTML(context.Background(), path, convert.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, doc.Markdown, "# Version 2.0")
	assert.Contains(t, doc.Markdown, "**batch**")
	assert.Equal(t, "Release Notes", doc.Metadata.Title)
	assert.Equal(t, "html", doc.Body["source_format"])
}

func TestConvertHTML_SanitizesScripts(t *testing.T) {
	path := writeHTML(t, "notes.html", samplePage)
	e := New(Config{}, nil)

	doc, err := e.convertHTML(context.Background(), path, convert.DefaultOptions())
	require.NoError(t, err)

	assert.NotContains(t, doc.NativeHTML, "<script")
	assert.NotContains(t, doc.NativeHTML, "alert")
	assert.NotContains(t, doc.Markdown, "alert")
	assert.Contains(t, doc.NativeHTML, "<strong>batch</strong>")
}

func TestConvertHTML_TableStructureToggle(t *testing.T) {
	path := writeHTML(t, "notes.html", samplePage)
	e := New(Config{}, nil)

	withTables, err := e.convertHTML(context.Background(), path, convert.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, withTables.Markdown, "| Flag | Default |")

	opts := convert.DefaultOptions()
	opts.EnableTableStructure = false
	without, err := e.convertHTML(context.Background(), path, opts)
	require.NoError(t, err)
	assert.NotContains(t, without.Markdown, "| Flag | Default |")
	assert.Contains(t, without.Markdown, "--concurrent")
}

func TestConvertHTML_MissingFile(t *testing.T) {
	e := New(Config{}, nil)
	_, err := e.convertHTML(context.Background(), filepath.Join(t.TempDir(), "absent.html"), convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindIOFailure))
}

func TestFindHTMLTitle(t *testing.T) {
	assert.Equal(t, "Hello", findHTMLTitle("<html><head><title>  Hello  </title></head></html>"))
	assert.Equal(t, "", findHTMLTitle("<html><body><p>no title</p></body></html>"))
}

func TestEngine_Convert_URLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	e := New(Config{}, nil)
	doc, err := e.Convert(context.Background(), srv.URL+"/docs/notes.html", convert.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, doc.Markdown, "# Version 2.0")
	assert.Equal(t, "Release Notes", doc.Metadata.Title)
	assert.Greater(t, doc.Metadata.FileSizeBytes, int64(0))
}

func TestEngine_Convert_ExtensionlessURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	e := New(Config{}, nil)

	// Remote documents served from extensionless paths are sniffed from the
	// response rather than rejected up front.
	doc, err := e.Convert(context.Background(), srv.URL+"/docs/2408.09869", convert.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "# Version 2.0")
	assert.Equal(t, "Release Notes", doc.Metadata.Title)
}

func TestEngine_Convert_ExtensionlessURLSniffsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	e := New(Config{}, nil)
	doc, err := e.Convert(context.Background(), srv.URL+"/download", convert.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "# Version 2.0")
}

func TestEngine_Convert_ExtensionlessURLUnknownContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "nothing recognizable here")
	}))
	defer srv.Close()

	e := New(Config{}, nil)
	_, err := e.Convert(context.Background(), srv.URL+"/notes", convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindUnsupportedFormat))
}

func TestEngine_Convert_URLFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := New(Config{}, nil)
	_, err := e.Convert(context.Background(), srv.URL+"/missing.html", convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindConversionFailure))
	assert.Contains(t, err.Error(), "status 404")
}

func TestEngine_Convert_UnsupportedBeforeIO(t *testing.T) {
	e := New(Config{}, nil)
	_, err := e.Convert(context.Background(), "binary.exe", convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindUnsupportedFormat))
}

func TestEngine_Convert_MissingLocalFile(t *testing.T) {
	e := New(Config{}, nil)
	_, err := e.Convert(context.Background(), filepath.Join(t.TempDir(), "ghost.html"), convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindIOFailure))
}
