package mdexport

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdexport/internal/codechunk"
	"github.com/alnah/go-mdexport/internal/pipeline"
)

// FileType is the format of an exported artifact.
type FileType string

// Supported file types. HTML is produced directly, the others by Chrome.
const (
	FileTypeHTML FileType = "html"
	FileTypePDF  FileType = "pdf"
	FileTypePNG  FileType = "png"
	FileTypeJPEG FileType = "jpeg"
)

// IsChrome reports whether the type is rendered through the browser.
func (f FileType) IsChrome() bool {
	switch f {
	case FileTypePDF, FileTypePNG, FileTypeJPEG:
		return true
	}
	return false
}

// Markdown parsers.
const (
	ParserGoldmark    = pipeline.ParserGoldmark
	ParserBlackfriday = pipeline.ParserBlackfriday
)

// Browser backends.
const (
	BrowserRod      = "rod"
	BrowserChromedp = "chromedp"
)

// Defaults used when nothing else is configured.
const (
	DefaultSourcePath     = "./docs/fullbook.md"
	DefaultPreviewTheme   = "github-light.css"
	DefaultCodeBlockTheme = "default.css"
	DefaultTimeout        = 2 * time.Minute
	DefaultChunkTimeout   = codechunk.DefaultTimeout
)

// jpegQuality is used for JPEG screenshots.
const jpegQuality = 90

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeA3     = "a3"
	PageSizeA5     = "a5"
	PageSizeLegal  = "legal"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 3.0
	DefaultMargin = 0.4
)

// paperSizes holds portrait dimensions in inches.
var paperSizes = map[string]struct{ width, height float64 }{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeA3:     {11.69, 16.54},
	PageSizeA5:     {5.83, 8.27},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures Chrome page dimensions.
type PageSettings struct {
	Size      string  // letter, a4, a3, a5, legal
	Landscape bool    // swap width and height
	Margin    float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() PageSettings {
	return PageSettings{Size: PageSizeLetter, Margin: DefaultMargin}
}

// Validate checks that page settings are valid. Size comparison is
// case-insensitive.
func (p PageSettings) Validate() error {
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// paper returns the portrait width and height in inches.
func (p PageSettings) paper() (width, height float64) {
	s := paperSizes[strings.ToLower(p.Size)]
	return s.width, s.height
}

// css returns the @page rule matching the settings, plus color adjustment
// when backgrounds should print.
func (p PageSettings) css(printBackground bool) string {
	w, h := p.paper()
	if p.Landscape {
		w, h = h, w
	}
	css := fmt.Sprintf("@page { size: %.2fin %.2fin; margin: %.2fin; }", w, h, p.Margin)
	if printBackground {
		css += "\nhtml { -webkit-print-color-adjust: exact; print-color-adjust: exact; }"
	}
	return css
}

// ExportConfig holds the settings of one export run. It is not modified
// after NewEngine.
type ExportConfig struct {
	SourcePath            string
	PreviewTheme          string
	CodeBlockTheme        string
	BreakOnSingleNewLine  bool
	PrintBackground       bool
	EnableScriptExecution bool

	Parser       string // goldmark, blackfriday
	Browser      string // rod, chromedp
	ThemeDir     string // custom themes; empty = embedded only
	OutputDir    string // empty = next to the source
	Timeout      time.Duration
	ChunkTimeout time.Duration
	Page         PageSettings
}

// DefaultExportConfig returns the defaults for building ./docs/fullbook.md.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SourcePath:            DefaultSourcePath,
		PreviewTheme:          DefaultPreviewTheme,
		CodeBlockTheme:        DefaultCodeBlockTheme,
		PrintBackground:       true,
		EnableScriptExecution: true,
		Parser:                ParserGoldmark,
		Browser:               BrowserRod,
		Timeout:               DefaultTimeout,
		ChunkTimeout:          DefaultChunkTimeout,
		Page:                  DefaultPageSettings(),
	}
}

// Validate checks enumerations and ranges.
func (c ExportConfig) Validate() error {
	if c.SourcePath == "" {
		return ErrEmptySource
	}
	switch c.Parser {
	case "", ParserGoldmark, ParserBlackfriday:
	default:
		return fmt.Errorf("%w: %q (must be goldmark or blackfriday)", ErrInvalidParser, c.Parser)
	}
	switch c.Browser {
	case "", BrowserRod, BrowserChromedp:
	default:
		return fmt.Errorf("%w: %q (must be rod or chromedp)", ErrInvalidBrowser, c.Browser)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s", ErrInvalidTimeout, c.Timeout)
	}
	if c.ChunkTimeout < 0 {
		return fmt.Errorf("%w: chunk timeout %s", ErrInvalidTimeout, c.ChunkTimeout)
	}
	return c.Page.Validate()
}

// ExportRequest is one export call.
type ExportRequest struct {
	FileType FileType
	// Offline inlines local images (HTML only).
	Offline bool
	// RunAllCodeChunks runs every chunk instead of replaying earlier results.
	RunAllCodeChunks bool
}

// Validate checks the file type.
func (r ExportRequest) Validate() error {
	if r.FileType != FileTypeHTML && !r.FileType.IsChrome() {
		return fmt.Errorf("%w: %q (must be html, pdf, png or jpeg)", ErrInvalidFileType, r.FileType)
	}
	return nil
}

// HTMLExportOptions configures an HTML export.
type HTMLExportOptions struct {
	Offline          bool
	RunAllCodeChunks bool
}

// ChromeExportOptions configures a browser export.
type ChromeExportOptions struct {
	FileType         FileType // pdf (default), png, jpeg
	RunAllCodeChunks bool
}

// Artifact describes a written export.
type Artifact struct {
	FileType FileType
	Path     string
	Bytes    int
	Duration time.Duration
	// ChunksRun and ChunksFailed count code chunks processed by the export.
	ChunksRun    int
	ChunksFailed int
}

// Chunk, ChunkResult and ChunkRunner expose the code chunk types so callers
// can plug in their own execution.
type (
	Chunk       = codechunk.Chunk
	ChunkResult = codechunk.Result
	ChunkRunner = codechunk.Runner
)
