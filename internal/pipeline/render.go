package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ErrRender wraps a panic recovered while rendering a document.
var ErrRender = errors.New("rendering failed")

// Input is everything needed to turn one markdown body into a document.
type Input struct {
	// Markdown is the body after front matter removal and code chunk
	// processing.
	Markdown    string
	FrontMatter *FrontMatter
	// Fragments maps placeholder tokens left in Markdown to HTML.
	Fragments map[string]string
	Title     string

	PreviewCSS string
	CodeCSS    string
	PageCSS    string

	// SourceDir resolves relative asset references.
	SourceDir string
	// Offline inlines local images as data URIs.
	Offline bool
	// RewritePaths turns remaining relative references into file:// URLs,
	// for documents loaded by a browser from another directory.
	RewritePaths bool
	// OutputDir is where the document will be written. When it differs
	// from SourceDir and paths are not rewritten, relative references are
	// relocated to resolve from OutputDir.
	OutputDir string
}

// Renderer runs the pipeline stages for one converter.
type Renderer struct {
	preprocessor MarkdownPreprocessor
	converter    HTMLConverter
}

// NewRenderer creates a Renderer around converter.
func NewRenderer(converter HTMLConverter) *Renderer {
	return &Renderer{
		preprocessor: &CommonMarkPreprocessor{},
		converter:    converter,
	}
}

// Render produces a standalone HTML document. Output is a pure function of
// the input: identical input yields identical bytes.
func (r *Renderer) Render(ctx context.Context, in Input) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrRender, rec)
		}
	}()

	fm := in.FrontMatter
	if fm == nil {
		fm = &FrontMatter{}
	}

	md := r.preprocessor.PreprocessMarkdown(ctx, in.Markdown)
	body, err := r.converter.ToHTML(ctx, md)
	if err != nil {
		return "", err
	}
	body = ConvertMarkPlaceholders(body)
	body = SubstituteFragments(body, in.Fragments)
	body = ExpandTOC(body, fm)

	doc, err := Document{
		Title:      in.Title,
		PreviewCSS: in.PreviewCSS,
		CodeCSS:    in.CodeCSS,
		PageCSS:    in.PageCSS,
		Body:       body,
	}.Render()
	if err != nil {
		return "", err
	}

	if in.Offline {
		if doc, err = InlineLocalImages(doc, in.SourceDir); err != nil {
			return "", fmt.Errorf("inlining images: %w", err)
		}
	}
	if in.RewritePaths {
		if doc, err = RewriteRelativePaths(doc, in.SourceDir); err != nil {
			return "", fmt.Errorf("rewriting paths: %w", err)
		}
	} else if in.OutputDir != "" {
		if doc, err = RelocateRelativePaths(doc, in.SourceDir, in.OutputDir); err != nil {
			return "", fmt.Errorf("relocating paths: %w", err)
		}
	}
	return doc, nil
}
