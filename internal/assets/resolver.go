package assets

import "errors"

// ThemeResolver combines a custom and the embedded loader. With a custom
// directory configured, it tries custom first and falls back to embedded
// only when the theme is not found there.
type ThemeResolver struct {
	custom   ThemeLoader // nil if no custom path configured
	embedded ThemeLoader
}

// NewThemeResolver creates a ThemeResolver.
// An empty customBasePath uses embedded themes only.
// Returns error if customBasePath is set but invalid.
func NewThemeResolver(customBasePath string) (*ThemeResolver, error) {
	resolver := &ThemeResolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}
	return resolver, nil
}

// LoadPreviewTheme loads a preview theme, custom directory first.
func (r *ThemeResolver) LoadPreviewTheme(name string) (string, error) {
	return r.loadWithFallback(func(l ThemeLoader) (string, error) {
		return l.LoadPreviewTheme(name)
	})
}

// LoadCodeTheme loads a code-block theme, custom directory first.
func (r *ThemeResolver) LoadCodeTheme(name string) (string, error) {
	return r.loadWithFallback(func(l ThemeLoader) (string, error) {
		return l.LoadCodeTheme(name)
	})
}

func (r *ThemeResolver) loadWithFallback(loadFn func(ThemeLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are not masked by the fallback.
	if !errors.Is(err, ErrThemeNotFound) {
		return "", err
	}
	return loadFn(r.embedded)
}

// HasCustomLoader returns true if a custom theme directory is configured.
func (r *ThemeResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ ThemeLoader = (*ThemeResolver)(nil)
