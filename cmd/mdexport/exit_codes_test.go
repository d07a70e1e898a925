package main

// Notes:
// - exitCodeFor: we test the sentinel errors of the library, config, book
//   and codechunk packages, plus wrapped errors to verify the errors.Is chain.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/book"
	"github.com/alnah/go-mdexport/internal/codechunk"
	"github.com/alnah/go-mdexport/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", mdexport.ErrBrowserConnect, ExitBrowser},
		{"page load", mdexport.ErrPageLoad, ExitBrowser},
		{"pdf generation", mdexport.ErrPDFGeneration, ExitBrowser},
		{"screenshot", mdexport.ErrScreenshot, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("chrome export: %w", mdexport.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"source not found", mdexport.ErrSourceNotFound, ExitIO},
		{"write output", mdexport.ErrWriteOutput, ExitIO},
		{"read chapter", book.ErrReadChapter, ExitIO},
		{"wrapped source not found", fmt.Errorf("initializing engine: %w", mdexport.ErrSourceNotFound), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config value", config.ErrInvalidValue, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid file type", mdexport.ErrInvalidFileType, ExitUsage},
		{"invalid parser", mdexport.ErrInvalidParser, ExitUsage},
		{"invalid browser", mdexport.ErrInvalidBrowser, ExitUsage},
		{"invalid page size", mdexport.ErrInvalidPageSize, ExitUsage},
		{"invalid margin", mdexport.ErrInvalidMargin, ExitUsage},
		{"theme not found", mdexport.ErrThemeNotFound, ExitUsage},
		{"no chapters", book.ErrNoChapters, ExitUsage},
		{"no tangle chunks", codechunk.ErrNoTangleChunks, ExitUsage},

		// General (exit 1)
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"cancelled", context.Canceled, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("exit codes 0/1/2 must follow Unix conventions")
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code <= ExitUsage || code >= 126 {
			t.Errorf("custom exit code %d must be in (2, 126)", code)
		}
	}
}
