package engine

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// writeArchive builds a minimal OOXML-style ZIP fixture on disk.
func writeArchive(t *testing.T, name string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for entryName, content := range entries {
		entry, err := w.Create(entryName)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

const docxBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Annual Report</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Revenue grew this year.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
      <w:r><w:t>Details</w:t></w:r>
    </w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Quarter</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Revenue</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Q1</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>100</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func TestConvertDOCX_HeadingsAndParagraphs(t *testing.T) {
	path := writeArchive(t, "report.docx", map[string]string{"word/document.xml": docxBody})
	e := New(Config{}, nil)

	doc, err := e.convertDOCX(context.Background(), path, convert.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, doc.Markdown, "# Annual Report")
	assert.Contains(t, doc.Markdown, "## Details")
	assert.Contains(t, doc.Markdown, "Revenue grew this year.")
	assert.Equal(t, "Annual Report", doc.Metadata.Title)
	assert.Equal(t, "docx", doc.Body["source_format"])
}

func TestConvertDOCX_TableStructure(t *testing.T) {
	path := writeArchive(t, "report.docx", map[string]string{"word/document.xml": docxBody})
	e := New(Config{}, nil)

	doc, err := e.convertDOCX(context.Background(), path, convert.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "| Quarter | Revenue |")
	assert.Contains(t, doc.Markdown, "| --- | --- |")
	assert.Contains(t, doc.Markdown, "| Q1 | 100 |")

	// With table structure disabled rows flatten into plain text.
	opts := convert.DefaultOptions()
	opts.EnableTableStructure = false
	flat, err := e.convertDOCX(context.Background(), path, opts)
	require.NoError(t, err)
	assert.NotContains(t, flat.Markdown, "| Quarter")
	assert.Contains(t, flat.Markdown, "Quarter Revenue")
}

func TestConvertDOCX_MissingDocumentXML(t *testing.T) {
	path := writeArchive(t, "broken.docx", map[string]string{"word/other.xml": "<x/>"})
	e := New(Config{}, nil)

	_, err := e.convertDOCX(context.Background(), path, convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindConversionFailure))
}

func TestConvertDOCX_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a zip"), 0o644))
	e := New(Config{}, nil)

	_, err := e.convertDOCX(context.Background(), path, convert.DefaultOptions())
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindConversionFailure))
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading3", 3},
		{"Heading6", 6},
		{"Heading7", 0},
		{"Title", 1},
		{"Subtitle", 2},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, docxHeadingLevel(tt.style), "style %q", tt.style)
	}
}
