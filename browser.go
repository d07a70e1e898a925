package mdexport

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Browser renders a standalone HTML document with headless Chrome.
// Implementations launch lazily on first use.
type Browser interface {
	PDF(ctx context.Context, htmlContent string, opts PDFOptions) ([]byte, error)
	Screenshot(ctx context.Context, htmlContent string, opts ScreenshotOptions) ([]byte, error)
	Close() error
}

// PDFOptions holds Chrome print settings. Dimensions are inches; paper size
// is given in portrait and Landscape rotates it.
type PDFOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	Landscape       bool
	PrintBackground bool
}

// ScreenshotOptions configures a full-page capture.
type ScreenshotOptions struct {
	Format  FileType // png or jpeg
	Quality int      // jpeg only
	Width   int      // viewport width in CSS pixels
}

// defaultViewportWidth is the screenshot viewport when Width is unset.
const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
)

func (o ScreenshotOptions) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return defaultViewportWidth
}

// newBrowser returns the backend named by name.
func newBrowser(name string, timeout time.Duration) (Browser, error) {
	switch name {
	case "", BrowserRod:
		return newRodBrowser(timeout), nil
	case BrowserChromedp:
		return newChromedpBrowser(timeout), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidBrowser, name)
}

// browserBin returns the Chrome binary set through ROD_BROWSER_BIN.
func browserBin() string {
	return os.Getenv("ROD_BROWSER_BIN")
}

// noSandbox reports whether Chrome must run without its sandbox, as
// required in most containers and CI runners.
func noSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("CI") == "true" ||
		browserBin() != ""
}

// pageTimeout bounds a page load by the context deadline or the fallback.
func pageTimeout(ctx context.Context, fallback time.Duration) (time.Duration, error) {
	timeout := fallback
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return timeout, nil
}
