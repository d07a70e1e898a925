package mdexport

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// chromedpBrowser implements Browser with a shared chromedp allocator. It
// needs a Chrome installed on the system (or ROD_BROWSER_BIN).
type chromedpBrowser struct {
	timeout time.Duration

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var _ Browser = (*chromedpBrowser)(nil)

func newChromedpBrowser(timeout time.Duration) *chromedpBrowser {
	return &chromedpBrowser{timeout: timeout}
}

func (c *chromedpBrowser) ensureBrowser() error {
	if c.browserCtx != nil {
		return nil
	}

	options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if bin := browserBin(); bin != "" {
		options = append(options, chromedp.ExecPath(bin))
	}
	if noSandbox() {
		options = append(options, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), options...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	c.allocCancel, c.browserCtx, c.browserCancel = allocCancel, browserCtx, browserCancel
	return nil
}

// Close stops the browser. chromedp kills the process on allocator cancel.
func (c *chromedpBrowser) Close() error {
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	c.browserCtx, c.browserCancel, c.allocCancel = nil, nil, nil
	return nil
}

// run loads htmlContent from a temp file in a new tab and runs actions.
// Action failures are wrapped in failure.
func (c *chromedpBrowser) run(ctx context.Context, htmlContent string, failure error, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.ensureBrowser(); err != nil {
		return err
	}

	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	timeout, err := pageTimeout(ctx, c.timeout)
	if err != nil {
		return err
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	execCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-execCtx.Done():
		}
	}()

	load := []chromedp.Action{
		chromedp.Navigate(fileutil.FileURL(path)),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if err := chromedp.Run(execCtx, load...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := chromedp.Run(execCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", failure, err)
	}
	return nil
}

// PDF prints the document with page.PrintToPDF.
func (c *chromedpBrowser) PDF(ctx context.Context, htmlContent string, opts PDFOptions) ([]byte, error) {
	var pdf []byte
	err := c.run(ctx, htmlContent, ErrPDFGeneration, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdf, _, err = page.PrintToPDF().
			WithPaperWidth(opts.PaperWidth).
			WithPaperHeight(opts.PaperHeight).
			WithMarginTop(opts.Margin).
			WithMarginBottom(opts.Margin).
			WithMarginLeft(opts.Margin).
			WithMarginRight(opts.Margin).
			WithLandscape(opts.Landscape).
			WithPrintBackground(opts.PrintBackground).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Screenshot captures the full page. chromedp encodes PNG at quality 100
// and JPEG below it.
func (c *chromedpBrowser) Screenshot(ctx context.Context, htmlContent string, opts ScreenshotOptions) ([]byte, error) {
	quality := 100
	if opts.Format == FileTypeJPEG {
		quality = opts.Quality
	}

	var img []byte
	err := c.run(ctx, htmlContent, ErrScreenshot,
		chromedp.EmulateViewport(int64(opts.width()), defaultViewportHeight),
		chromedp.FullScreenshot(&img, quality),
	)
	if err != nil {
		return nil, err
	}
	return img, nil
}
