package assets

// ThemeLoader loads the stylesheets that theme an exported document.
type ThemeLoader interface {
	// LoadPreviewTheme returns the CSS of a preview theme.
	// Returns ErrThemeNotFound if the theme doesn't exist.
	LoadPreviewTheme(name string) (string, error)

	// LoadCodeTheme returns the CSS of a code-block theme.
	// Returns ErrThemeNotFound if the theme doesn't exist.
	LoadCodeTheme(name string) (string, error)
}
