// Package markdown converts Markdown content to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Converter renders Markdown to HTML. It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// Options tunes the converter.
type Options struct {
	// Unsafe passes raw HTML embedded in Markdown through to the output.
	Unsafe bool
}

// New creates a Converter with GitHub Flavored Markdown enabled.
func New(opts Options) *Converter {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	return &Converter{md: goldmark.New(rendererOpts...)}
}

// Convert renders source to HTML.
func (c *Converter) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// ConvertString is Convert for strings.
func (c *Converter) ConvertString(source string) (string, error) {
	out, err := c.Convert([]byte(source))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
