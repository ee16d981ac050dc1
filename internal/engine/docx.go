package engine

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// convertDOCX parses a .docx file by walking word/document.xml inside the
// ZIP archive. Paragraph styles map onto markdown headings; table rows are
// flattened into markdown tables when table structure is enabled.
func (e *Engine) convertDOCX(ctx context.Context, path string, opts convert.Options) (*convert.Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, convert.ConversionError(fmt.Sprintf("open archive %s", path), err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, convert.ConversionError("word/document.xml not found in archive", nil)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, convert.ConversionError("open document.xml", err)
	}
	defer rc.Close()

	select {
	case <-ctx.Done():
		return nil, convert.ConversionError("conversion canceled", ctx.Err())
	default:
	}

	decoder := xml.NewDecoder(rc)

	var (
		markdown       strings.Builder
		blocks         []map[string]any
		title          string
		currentText    strings.Builder
		inParagraph    bool
		paragraphStyle string
		inTable        bool
		tableRow       []string
		tableRows      [][]string
	)

	flushTable := func() {
		if len(tableRows) == 0 {
			return
		}
		if opts.EnableTableStructure {
			writeMarkdownTable(&markdown, tableRows)
			blocks = append(blocks, map[string]any{"type": "table", "rows": tableRows})
		} else {
			for _, row := range tableRows {
				markdown.WriteString(strings.Join(row, " ") + "\n\n")
				blocks = append(blocks, map[string]any{"type": "paragraph", "text": strings.Join(row, " ")})
			}
		}
		tableRows = nil
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "tbl":
				inTable = true
			case t.Name.Local == "tr" && inTable:
				tableRow = nil
			case t.Name.Local == "p":
				inParagraph = true
				currentText.Reset()
				paragraphStyle = ""
			case t.Name.Local == "pStyle" && inParagraph:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						paragraphStyle = attr.Value
					}
				}
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch {
			case t.Name.Local == "tbl":
				flushTable()
				inTable = false
			case t.Name.Local == "tr" && inTable:
				if len(tableRow) > 0 {
					tableRows = append(tableRows, tableRow)
				}
			case t.Name.Local == "p" && inParagraph:
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				if inTable {
					tableRow = append(tableRow, text)
					continue
				}

				level := docxHeadingLevel(paragraphStyle)
				if level > 0 {
					if title == "" {
						title = text
					}
					markdown.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
					blocks = append(blocks, map[string]any{"type": "heading", "level": level, "text": text})
				} else {
					markdown.WriteString(text + "\n\n")
					blocks = append(blocks, map[string]any{"type": "paragraph", "text": text})
				}
			}
		}
	}
	flushTable()

	return &convert.Document{
		Markdown: strings.TrimSpace(markdown.String()),
		Body: map[string]any{
			"source_format": string(convert.InputDOCX),
			"blocks":        blocks,
		},
		Metadata: convert.Metadata{Title: title},
	}, nil
}

// docxHeadingLevel extracts the heading level from a paragraph style name.
// e.g. "Heading1" → 1, "Heading2" → 2, "Title" → 1.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	if strings.HasPrefix(lower, "heading") {
		rest := lower[len("heading"):]
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}

	return 0
}

// writeMarkdownTable renders rows as a GFM table, treating the first row as
// the header.
func writeMarkdownTable(sb *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows[1:] {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	sb.WriteString("\n")
}
