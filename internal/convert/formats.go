package convert

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// InputFormat identifies the family a source document belongs to.
type InputFormat string

const (
	InputPDF   InputFormat = "pdf"
	InputDOCX  InputFormat = "docx"
	InputPPTX  InputFormat = "pptx"
	InputHTML  InputFormat = "html"
	InputImage InputFormat = "image"
)

// supportedExtensions maps file extensions to input formats. The set mirrors
// what the engine can actually open; anything else is rejected up front.
var supportedExtensions = map[string]InputFormat{
	".pdf":  InputPDF,
	".docx": InputDOCX,
	".pptx": InputPPTX,
	".html": InputHTML,
	".htm":  InputHTML,
	".png":  InputImage,
	".jpg":  InputImage,
	".jpeg": InputImage,
	".tiff": InputImage,
	".tif":  InputImage,
}

// DetectFormat resolves the input format of a source identifier (local path
// or URL) by extension. Returns an unsupported_format error for anything the
// engine cannot open.
func DetectFormat(source string) (InputFormat, error) {
	name := source
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name = u.Path
	}
	ext := strings.ToLower(filepath.Ext(name))
	if format, ok := supportedExtensions[ext]; ok {
		return format, nil
	}
	return "", UnsupportedFormatError("unrecognized extension "+ext, nil)
}

// formatByMediaType maps declared or sniffed media types to input formats.
var formatByMediaType = map[string]InputFormat{
	"application/pdf":       InputPDF,
	"text/html":             InputHTML,
	"application/xhtml+xml": InputHTML,
	"image/png":             InputImage,
	"image/jpeg":            InputImage,
	"image/tiff":            InputImage,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   InputDOCX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": InputPPTX,
}

// SniffFormat resolves the format of already-fetched content when the source
// name carries no usable extension: first from the declared content type,
// then from magic-byte detection on the leading bytes. Remote documents are
// commonly served from extensionless paths, so rejection has to wait until
// after the response can be inspected.
func SniffFormat(contentType string, head []byte) (InputFormat, error) {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if format, ok := formatByMediaType[mediaType]; ok {
				return format, nil
			}
		}
	}
	if mediaType, _, err := mime.ParseMediaType(http.DetectContentType(head)); err == nil {
		if format, ok := formatByMediaType[mediaType]; ok {
			return format, nil
		}
	}
	return "", UnsupportedFormatError(fmt.Sprintf("cannot determine format from content type %q", contentType), nil)
}

// IsURL reports whether the source identifier is a remote document.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SupportedInputExtensions returns the accepted file extensions in a stable order.
func SupportedInputExtensions() []string {
	return []string{".pdf", ".docx", ".pptx", ".html", ".htm", ".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// SupportedOutputFormats returns the output serializations in a stable order.
func SupportedOutputFormats() []string {
	return []string{string(FormatMarkdown), string(FormatJSON), string(FormatHTML)}
}
