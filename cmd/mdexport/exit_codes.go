package main

import (
	"errors"
	"os"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/book"
	"github.com/alnah/go-mdexport/internal/codechunk"
	"github.com/alnah/go-mdexport/internal/config"
	"github.com/alnah/go-mdexport/internal/fileutil"
)

// Exit codes for the mdexport CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Both exports written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdexport.ErrBrowserConnect) ||
		errors.Is(err, mdexport.ErrPageLoad) ||
		errors.Is(err, mdexport.ErrPDFGeneration) ||
		errors.Is(err, mdexport.ErrScreenshot) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mdexport.ErrEmptySource) ||
		errors.Is(err, mdexport.ErrInvalidFileType) ||
		errors.Is(err, mdexport.ErrInvalidParser) ||
		errors.Is(err, mdexport.ErrInvalidBrowser) ||
		errors.Is(err, mdexport.ErrInvalidPageSize) ||
		errors.Is(err, mdexport.ErrInvalidMargin) ||
		errors.Is(err, mdexport.ErrInvalidTimeout) ||
		errors.Is(err, mdexport.ErrThemeNotFound) ||
		errors.Is(err, mdexport.ErrInvalidThemeName) ||
		errors.Is(err, mdexport.ErrInvalidThemeDir) ||
		errors.Is(err, book.ErrNoChapters) ||
		errors.Is(err, codechunk.ErrNoTangleChunks) ||
		errors.Is(err, codechunk.ErrInvalidFileName) ||
		errors.Is(err, fileutil.ErrExtensionEmpty) ||
		errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdexport.ErrSourceNotFound) ||
		errors.Is(err, mdexport.ErrWriteOutput) ||
		errors.Is(err, book.ErrReadChapter) {
		return ExitIO
	}

	return ExitGeneral
}
