package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters so they
// pass through both markdown parsers unchanged.
const (
	MarkStartPlaceholder = "\uE000" // U+E000
	MarkEndPlaceholder   = "\uE001" // U+E001
)

var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
	fenceOpen        = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown converts ==text== highlights outside fenced code into
// placeholders. Line endings must already be normalized.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return convertHighlights(content)
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// convertHighlights rewrites ==text== line by line, leaving fenced code
// blocks untouched.
func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}

	lines := strings.Split(content, "\n")
	var fence string
	for i, line := range lines {
		if fence != "" {
			if strings.HasPrefix(strings.TrimLeft(line, " "), fence) {
				fence = ""
			}
			continue
		}
		if m := fenceOpen.FindStringSubmatch(line); m != nil {
			fence = m[1]
			continue
		}
		lines[i] = highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}
	return strings.Join(lines, "\n")
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
