package mdexport

import (
	"errors"

	"github.com/alnah/go-mdexport/internal/assets"
)

// Sentinel errors for library operations.
var (
	ErrNotInitialized = errors.New("engine not initialized")
	ErrSourceNotFound = errors.New("source file not found")
	ErrEmptySource    = errors.New("source path cannot be empty")
	ErrWriteOutput    = errors.New("failed to write output")

	// Config validation errors.
	ErrInvalidFileType = errors.New("invalid file type")
	ErrInvalidParser   = errors.New("invalid markdown parser")
	ErrInvalidBrowser  = errors.New("invalid browser backend")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
	ErrInvalidTimeout  = errors.New("invalid timeout")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScreenshot     = errors.New("screenshot failed")

	// Theme errors, shared with the theme loaders.
	ErrThemeNotFound    = assets.ErrThemeNotFound
	ErrInvalidThemeName = assets.ErrInvalidThemeName
	ErrInvalidThemeDir  = assets.ErrInvalidBasePath
)
