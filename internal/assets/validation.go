package assets

import (
	"fmt"
	"strings"
)

// cssSuffix is accepted on theme names and stripped before lookup.
const cssSuffix = ".css"

// NormalizeThemeName strips an optional ".css" suffix and validates the rest.
// "github-light.css" and "github-light" name the same theme.
func NormalizeThemeName(name string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), cssSuffix)
	if err := ValidateThemeName(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidateThemeName checks that a theme name is safe for use as a filename.
// Returns ErrInvalidThemeName if the name is empty or contains path separators,
// dots, or null bytes.
func ValidateThemeName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidThemeName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	return nil
}
