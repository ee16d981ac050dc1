package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    InputFormat
		wantErr bool
	}{
		{"pdf path", "report.pdf", InputPDF, false},
		{"uppercase extension", "REPORT.PDF", InputPDF, false},
		{"docx path", "/tmp/contract.docx", InputDOCX, false},
		{"pptx path", "deck.pptx", InputPPTX, false},
		{"html path", "page.html", InputHTML, false},
		{"htm path", "page.htm", InputHTML, false},
		{"png image", "scan.png", InputImage, false},
		{"jpeg image", "photo.jpeg", InputImage, false},
		{"tiff image", "fax.tif", InputImage, false},
		{"url with query", "https://example.com/docs/manual.pdf?version=2", InputPDF, false},
		{"url htm", "http://example.com/index.htm", InputHTML, false},
		{"executable", "setup.exe", "", true},
		{"no extension", "README", "", true},
		{"url without extension", "https://example.com/docs", "", true},
		{"empty source", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.source)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		head        []byte
		want        InputFormat
		wantErr     bool
	}{
		{"pdf content type", "application/pdf", []byte("%PDF-1.7"), InputPDF, false},
		{"html with charset", "text/html; charset=utf-8", []byte("<!DOCTYPE html>"), InputHTML, false},
		{"docx content type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK\x03\x04"), InputDOCX, false},
		{"pptx content type", "application/vnd.openxmlformats-officedocument.presentationml.presentation", []byte("PK\x03\x04"), InputPPTX, false},
		{"pdf magic without content type", "", []byte("%PDF-1.4 rest of stream"), InputPDF, false},
		{"png magic without content type", "", []byte("\x89PNG\r\n\x1a\n more"), InputImage, false},
		{"html magic overrides generic content type", "application/octet-stream", []byte("<!DOCTYPE html><html>"), InputHTML, false},
		{"plain text", "text/plain", []byte("just words"), "", true},
		{"unknown binary", "", []byte{0x00, 0x01, 0x02, 0x03}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SniffFormat(tt.contentType, tt.head)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/doc.pdf"))
	assert.True(t, IsURL("http://example.com/doc.pdf"))
	assert.False(t, IsURL("/var/data/doc.pdf"))
	assert.False(t, IsURL("doc.pdf"))
	assert.False(t, IsURL("ftp://example.com/doc.pdf"))
}

func TestSupportedFormatListsAreStable(t *testing.T) {
	exts := SupportedInputExtensions()
	require.Len(t, exts, len(supportedExtensions))
	for _, ext := range exts {
		assert.Contains(t, supportedExtensions, ext)
	}

	assert.Equal(t, []string{"markdown", "json", "html"}, SupportedOutputFormats())
}
