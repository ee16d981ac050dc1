package engine

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// convertPPTX extracts text runs from each slide of a .pptx archive. Slides
// become second-level sections in the markdown output.
func (e *Engine) convertPPTX(ctx context.Context, path string) (*convert.Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, convert.ConversionError(fmt.Sprintf("open archive %s", path), err)
	}
	defer r.Close()

	var slideFiles []*zip.File
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slideFiles = append(slideFiles, f)
		}
	}
	if len(slideFiles) == 0 {
		return nil, convert.ConversionError("no slides found in archive", nil)
	}
	sort.Slice(slideFiles, func(i, j int) bool { return slideFiles[i].Name < slideFiles[j].Name })

	var markdown strings.Builder
	slides := make([]map[string]any, 0, len(slideFiles))
	var title string

	for i, f := range slideFiles {
		select {
		case <-ctx.Done():
			return nil, convert.ConversionError("conversion canceled", ctx.Err())
		default:
		}

		texts, err := extractSlideText(f)
		if err != nil {
			return nil, err
		}

		if title == "" && len(texts) > 0 {
			title = texts[0]
		}

		markdown.WriteString(fmt.Sprintf("## Slide %d\n\n", i+1))
		for _, text := range texts {
			markdown.WriteString(text + "\n\n")
		}

		slides = append(slides, map[string]any{
			"slide": i + 1,
			"texts": texts,
		})
	}

	return &convert.Document{
		Markdown: strings.TrimSpace(markdown.String()),
		Body: map[string]any{
			"source_format": string(convert.InputPPTX),
			"slides":        slides,
		},
		Metadata: convert.Metadata{
			PageCount: len(slideFiles),
			Title:     title,
		},
	}, nil
}

// extractSlideText collects the a:t text runs of one slide, one string per
// paragraph.
func extractSlideText(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, convert.ConversionError(fmt.Sprintf("open slide %s", f.Name), err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var texts []string
	var current strings.Builder
	var inText bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					texts = append(texts, text)
				}
				current.Reset()
			}
		}
	}

	if text := strings.TrimSpace(current.String()); text != "" {
		texts = append(texts, text)
	}

	return texts, nil
}
