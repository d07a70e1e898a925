package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed preview/*.css
var previewThemes embed.FS

// EmbeddedLoader loads preview themes from the embedded filesystem and
// generates code themes from chroma styles.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadPreviewTheme loads an embedded preview theme by name.
func (e *EmbeddedLoader) LoadPreviewTheme(name string) (string, error) {
	normalized, err := NormalizeThemeName(name)
	if err != nil {
		return "", err
	}

	content, err := previewThemes.ReadFile("preview/" + normalized + cssSuffix)
	if err != nil {
		return "", fmt.Errorf("%w: preview theme %q", ErrThemeNotFound, name)
	}
	return string(content), nil
}

// LoadCodeTheme generates the CSS of a code-block theme.
func (e *EmbeddedLoader) LoadCodeTheme(name string) (string, error) {
	style, err := ChromaStyle(name)
	if err != nil {
		return "", err
	}
	return CodeThemeCSS(style)
}

// PreviewThemes lists the embedded preview theme names with their ".css"
// suffix, sorted.
func PreviewThemes() []string {
	entries, err := fs.ReadDir(previewThemes, "preview")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), cssSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ ThemeLoader = (*EmbeddedLoader)(nil)
