package mdexport

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/process"
)

// rodBrowser implements Browser using go-rod.
// Rod downloads Chromium on first run if none is found.
type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

var _ Browser = (*rodBrowser)(nil)

func newRodBrowser(timeout time.Duration) *rodBrowser {
	return &rodBrowser{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodBrowser) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := browserBin(); bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox() {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher, r.browser = l, browser
	return nil
}

// Close releases browser resources and kills the launched process group.
func (r *rodBrowser) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.kill(r.launcher)
		r.launcher = nil
	}
	return err
}

func (r *rodBrowser) kill(l *launcher.Launcher) {
	process.KillProcessGroup(l.PID())
	l.Kill()
}

// open writes htmlContent to a temp file and loads it in a new page.
func (r *rodBrowser) open(ctx context.Context, htmlContent string) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: fileutil.FileURL(path)})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	release := func() {
		_ = page.Close()
		cleanup()
	}

	timeout, err := pageTimeout(ctx, r.timeout)
	if err != nil {
		release()
		return nil, nil, err
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		release()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		release()
		return nil, nil, err
	}
	return page, release, nil
}

// PDF prints the document with Chrome's print pipeline.
func (r *rodBrowser) PDF(ctx context.Context, htmlContent string, opts PDFOptions) ([]byte, error) {
	page, release, err := r.open(ctx, htmlContent)
	if err != nil {
		return nil, err
	}
	defer release()

	reader, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:       opts.Landscape,
		PrintBackground: opts.PrintBackground,
		PaperWidth:      floatPtr(opts.PaperWidth),
		PaperHeight:     floatPtr(opts.PaperHeight),
		MarginTop:       floatPtr(opts.Margin),
		MarginBottom:    floatPtr(opts.Margin),
		MarginLeft:      floatPtr(opts.Margin),
		MarginRight:     floatPtr(opts.Margin),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Screenshot captures the full page.
func (r *rodBrowser) Screenshot(ctx context.Context, htmlContent string, opts ScreenshotOptions) ([]byte, error) {
	page, release, err := r.open(ctx, htmlContent)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.width(),
		Height:            defaultViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrScreenshot, err)
	}

	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	if opts.Format == FileTypeJPEG {
		quality := opts.Quality
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = &quality
	}
	img, err := page.Screenshot(true, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return img, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
