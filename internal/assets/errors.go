package assets

import "errors"

// Sentinel errors for theme operations.
var (
	// ErrThemeNotFound indicates the requested theme does not exist.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrInvalidThemeName indicates the theme name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidThemeName = errors.New("invalid theme name")

	// ErrInvalidBasePath indicates the configured theme directory is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid theme directory")

	// ErrThemeRead indicates an I/O error occurred while reading a theme file.
	ErrThemeRead = errors.New("failed to read theme")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
