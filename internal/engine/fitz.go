package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// convertFitz handles PDF and raster image sources through MuPDF. Raster
// images open as single-page documents; without OCR enabled their extracted
// text is whatever MuPDF can read, which for pure bitmaps is empty.
func (e *Engine) convertFitz(ctx context.Context, path string, format convert.InputFormat, opts convert.Options) (*convert.Document, error) {
	if opts.EnableOCR {
		// MuPDF only reads embedded text; surface the gap instead of
		// silently ignoring the option.
		e.logger.Warn().
			Str("path", path).
			Str("format", string(format)).
			Msg("OCR requested but no OCR backend is available, extracting embedded text only")
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, convert.ConversionError(fmt.Sprintf("open %s", path), err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, convert.ConversionError("document has no pages", nil)
	}

	var markdown strings.Builder
	pages := make([]map[string]any, 0, pageCount)

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, convert.ConversionError("conversion canceled", ctx.Err())
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			return nil, convert.ConversionError(fmt.Sprintf("extract text from page %d", pageNum+1), err)
		}
		text = strings.TrimSpace(text)

		if pageNum > 0 {
			markdown.WriteString("\n\n")
		}
		if pageCount > 1 {
			markdown.WriteString(fmt.Sprintf("## Page %d\n\n", pageNum+1))
		}
		markdown.WriteString(text)

		pages = append(pages, map[string]any{
			"page": pageNum + 1,
			"text": text,
		})
	}

	meta := doc.Metadata()
	title := strings.TrimSpace(meta["title"])

	return &convert.Document{
		Markdown: strings.TrimSpace(markdown.String()),
		Body: map[string]any{
			"source_format": string(format),
			"pages":         pages,
		},
		Metadata: convert.Metadata{
			PageCount: pageCount,
			Title:     title,
		},
	}, nil
}
