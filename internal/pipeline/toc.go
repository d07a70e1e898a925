package pipeline

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// tocMarker matches the paragraph a markdown parser produces for a line
// holding only [TOC].
var tocMarker = regexp.MustCompile(`(?i)<p>\s*\[TOC\]\s*</p>`)

// headingInfo represents an extracted heading from HTML.
type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// headingPattern matches h1-h6 tags with id attribute.
// Captures: 1=level, 2=id, 3=inner HTML (may contain inline tags)
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes tags, decodes entities and trims whitespace.
// Entities are decoded so the text is not double-escaped on output.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// extractHeadings returns headings between minDepth and maxDepth.
// Headings without IDs are skipped.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	matches := headingPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var headings []headingInfo
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// numberingState tracks hierarchical numbering for TOC entries.
// open holds the raw heading levels of the enclosing entries, so a skipped
// level (H1 -> H3) nests one step and a repeated H3 stays a sibling.
type numberingState struct {
	counters [6]int
	open     []int
}

// next returns the number string and effective depth for a heading level.
func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	for len(n.open) > 0 && n.open[len(n.open)-1] >= level {
		n.open = n.open[:len(n.open)-1]
	}
	if len(n.open) < len(n.counters) {
		n.open = append(n.open, level)
	}
	effectiveDepth = len(n.open)

	for i := effectiveDepth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[effectiveDepth-1]++

	parts := make([]string, 0, effectiveDepth)
	for i := range effectiveDepth {
		parts = append(parts, strconv.Itoa(n.counters[i]))
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}

// generateTOC renders headings as a nav block. Entries are indented by depth
// and, when ordered, prefixed with hierarchical numbers.
func generateTOC(headings []headingInfo, ordered bool) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="md-toc">`)

	numbering := &numberingState{}
	for _, h := range headings {
		num, depth := numbering.next(h.Level)

		buf.WriteString(`<div class="md-toc-item"`)
		if indent := float64(depth-1) * 1.5; indent > 0 {
			fmt.Fprintf(&buf, ` style="padding-left:%.1fem"`, indent)
		}
		buf.WriteString(`><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		if ordered {
			buf.WriteString(num)
			buf.WriteString(" ")
		}
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</nav>`)
	return buf.String()
}

// ExpandTOC replaces every [TOC] paragraph in an HTML fragment with a table
// of contents built from the fragment's headings.
func ExpandTOC(fragment string, fm *FrontMatter) string {
	if !tocMarker.MatchString(fragment) {
		return fragment
	}
	from, to := fm.TOCRange()
	toc := generateTOC(extractHeadings(fragment, from, to), fm.TOC.Ordered)
	return tocMarker.ReplaceAllLiteralString(fragment, toc)
}
