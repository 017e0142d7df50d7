// Package markdown converts page bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML is passed through: authors embed <img> tags and other markup
// directly in page bodies.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Render returns the HTML for src.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := RenderTo(&buf, src); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo writes the HTML for src to w.
func RenderTo(w io.Writer, src string) error {
	return md.Convert([]byte(src), w)
}
