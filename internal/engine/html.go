package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

var htmlSanitizer = bluemonday.UGCPolicy()

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

var mdConverterNoTables = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// convertHTML sanitizes an HTML source and converts it to markdown. The
// sanitized HTML is kept as the document's native HTML so an html-format
// export needs no re-rendering.
func (e *Engine) convertHTML(ctx context.Context, path string, opts convert.Options) (*convert.Document, error) {
	select {
	case <-ctx.Done():
		return nil, convert.ConversionError("conversion canceled", ctx.Err())
	default:
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, convert.IOError(fmt.Sprintf("read %s", path), err)
	}

	title := findHTMLTitle(string(raw))
	sanitized := htmlSanitizer.Sanitize(string(raw))

	conv := mdConverter
	if !opts.EnableTableStructure {
		conv = mdConverterNoTables
	}

	markdown, err := conv.ConvertString(sanitized)
	if err != nil {
		return nil, convert.ConversionError("convert html to markdown", err)
	}

	return &convert.Document{
		Markdown:   strings.TrimSpace(markdown),
		NativeHTML: sanitized,
		Body: map[string]any{
			"source_format": string(convert.InputHTML),
			"title":         title,
		},
		Metadata: convert.Metadata{Title: title},
	}, nil
}

// findHTMLTitle returns the text of the first <title> element, or "".
func findHTMLTitle(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			title = strings.TrimSpace(sb.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
