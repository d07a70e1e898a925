package pipeline

import (
	"sort"
	"strings"
)

// SubstituteFragments replaces each placeholder token in htmlContent with
// its HTML fragment. A token that a parser wrapped in its own paragraph is
// replaced together with the <p> wrapper so block output is not nested
// inside a paragraph.
func SubstituteFragments(htmlContent string, fragments map[string]string) string {
	if len(fragments) == 0 {
		return htmlContent
	}

	tokens := make([]string, 0, len(fragments))
	for token := range fragments {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	pairs := make([]string, 0, len(tokens)*4)
	for _, token := range tokens {
		pairs = append(pairs, "<p>"+token+"</p>", fragments[token])
	}
	for _, token := range tokens {
		pairs = append(pairs, token, fragments[token])
	}
	return strings.NewReplacer(pairs...).Replace(htmlContent)
}
