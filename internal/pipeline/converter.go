package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// ErrUnknownParser indicates a parser name with no converter behind it.
var ErrUnknownParser = errors.New("unknown markdown parser")

// Parser names accepted by NewConverter.
const (
	ParserGoldmark    = "goldmark"
	ParserBlackfriday = "blackfriday"
)

// HTMLConverter abstracts Markdown to HTML fragment conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ConverterOptions configures a markdown converter.
type ConverterOptions struct {
	// HardWraps renders every single newline inside a paragraph as <br>.
	HardWraps bool
}

// NewConverter returns the converter registered under name.
func NewConverter(name string, opts ConverterOptions) (HTMLConverter, error) {
	switch name {
	case "", ParserGoldmark:
		return NewGoldmarkConverter(opts), nil
	case ParserBlackfriday:
		return NewBlackfridayConverter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and
// class-based syntax highlighting.
func NewGoldmarkConverter(opts ConverterOptions) *GoldmarkConverter {
	rendererOpts := []renderer.Option{
		html.WithXHTML(),
		// Assembled books carry raw HTML page breaks and chapter anchors.
		html.WithUnsafe(),
	}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
