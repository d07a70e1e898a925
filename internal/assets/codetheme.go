package assets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// codeThemeAliases maps preview-editor code-block theme names to the chroma
// style that renders closest to them.
var codeThemeAliases = map[string]string{
	"default":          "github",
	"atom-dark":        "monokai",
	"atom-light":       "github",
	"atom-material":    "native",
	"coy":              "vs",
	"darcula":          "dracula",
	"funky":            "fruity",
	"github":           "github",
	"hopscotch":        "paraiso-dark",
	"monokai":          "monokai",
	"okaidia":          "monokai",
	"one-dark":         "doom-one",
	"one-light":        "github",
	"pen-paper-coffee": "autumn",
	"pojoaque":         "rrt",
	"solarized-dark":   "solarized-dark",
	"solarized-light":  "solarized-light",
	"twilight":         "vim",
	"vs":               "vs",
	"vue":              "xcode",
	"xonokai":          "monokai",
}

// ChromaStyle resolves a code-block theme name to a chroma style.
// Accepts aliases ("default.css") and raw chroma style names ("dracula").
func ChromaStyle(name string) (*chroma.Style, error) {
	normalized, err := NormalizeThemeName(name)
	if err != nil {
		return nil, err
	}

	styleName := normalized
	if alias, ok := codeThemeAliases[normalized]; ok {
		styleName = alias
	}

	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return nil, fmt.Errorf("%w: code theme %q", ErrThemeNotFound, name)
	}
	return style, nil
}

// CodeThemeCSS renders the stylesheet for a chroma style, matching the
// class names emitted by the highlighters in internal/pipeline.
func CodeThemeCSS(style *chroma.Style) (string, error) {
	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: generating CSS for %q: %v", ErrThemeRead, style.Name, err)
	}
	return buf.String(), nil
}

// CodeThemes lists the accepted code-block theme names (aliases first, then
// chroma styles), sorted and deduplicated.
func CodeThemes() []string {
	seen := make(map[string]struct{}, len(codeThemeAliases)+len(styles.Registry))
	for alias := range codeThemeAliases {
		seen[alias] = struct{}{}
	}
	for _, name := range styles.Names() {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
