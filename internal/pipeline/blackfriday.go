package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/russross/blackfriday/v2"
)

// BlackfridayConverter converts Markdown to HTML using blackfriday, with
// fenced code highlighted through chroma using the same CSS classes as the
// goldmark converter.
type BlackfridayConverter struct {
	extensions blackfriday.Extensions
	formatter  *chromahtml.Formatter
}

// NewBlackfridayConverter creates a BlackfridayConverter.
func NewBlackfridayConverter(opts ConverterOptions) *BlackfridayConverter {
	ext := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs | blackfriday.Footnotes
	if opts.HardWraps {
		ext |= blackfriday.HardLineBreak
	}
	return &BlackfridayConverter{
		extensions: ext,
		formatter:  chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// ToHTML converts Markdown content to an HTML fragment.
func (c *BlackfridayConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, r)}
			}
		}()
		r := &highlightRenderer{
			HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
				Flags: blackfriday.CommonHTMLFlags,
			}),
			formatter: c.formatter,
		}
		out := blackfriday.Run([]byte(content),
			blackfriday.WithExtensions(c.extensions),
			blackfriday.WithRenderer(r),
		)
		done <- result{html: string(out)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// highlightRenderer delegates to blackfriday's HTML renderer except for code
// blocks, which chroma tokenises and formats.
type highlightRenderer struct {
	*blackfriday.HTMLRenderer
	formatter *chromahtml.Formatter
}

var _ blackfriday.Renderer = (*highlightRenderer)(nil)

func (r *highlightRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type != blackfriday.CodeBlock {
		return r.HTMLRenderer.RenderNode(w, node, entering)
	}

	lang := ""
	if fields := strings.Fields(string(node.CodeBlockData.Info)); len(fields) > 0 {
		lang = fields[0]
	}
	if err := r.highlight(w, lang, string(node.Literal)); err != nil {
		// Fall back to unhighlighted code.
		_, _ = fmt.Fprintf(w, "<pre><code>%s</code></pre>\n", html.EscapeString(string(node.Literal)))
	}
	return blackfriday.GoToNext
}

func (r *highlightRenderer) highlight(w io.Writer, lang, code string) error {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, styles.Fallback, iterator); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
