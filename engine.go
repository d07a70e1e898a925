package mdexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdexport/internal/assets"
	"github.com/alnah/go-mdexport/internal/codechunk"
	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.BlackfridayConverter)(nil)
	_ assets.ThemeLoader            = (*assets.ThemeResolver)(nil)
	_ codechunk.Runner              = (*codechunk.ExecRunner)(nil)
)

// Option configures an Engine.
type Option func(*Engine)

// WithBrowser replaces the browser backend named by ExportConfig.Browser.
// The engine closes it on Close.
func WithBrowser(b Browser) Option {
	return func(e *Engine) {
		e.browser = b
	}
}

// WithRunner replaces the process-based code chunk runner.
func WithRunner(r ChunkRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithProgress registers a callback invoked after each written artifact.
func WithProgress(fn func(Artifact)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// Engine renders one source document. Create with NewEngine, call Init,
// then any number of exports, and Close when done. An Engine is not safe
// for concurrent use.
type Engine struct {
	cfg      ExportConfig
	renderer *pipeline.Renderer
	runner   ChunkRunner
	browser  Browser
	progress func(Artifact)

	initialized bool
	sourcePath  string
	previewCSS  string
	codeCSS     string
	session     *codechunk.Session
}

// NewEngine validates cfg and creates an Engine. Empty parser, browser,
// theme and timeout fields take their defaults.
func NewEngine(cfg ExportConfig, opts ...Option) (*Engine, error) {
	cfg = withDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	converter, err := pipeline.NewConverter(cfg.Parser, pipeline.ConverterOptions{
		HardWraps: cfg.BreakOnSingleNewLine,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParser, err)
	}

	e := &Engine{
		cfg:      cfg,
		renderer: pipeline.NewRenderer(converter),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func withDefaults(cfg ExportConfig) ExportConfig {
	if cfg.PreviewTheme == "" {
		cfg.PreviewTheme = DefaultPreviewTheme
	}
	if cfg.CodeBlockTheme == "" {
		cfg.CodeBlockTheme = DefaultCodeBlockTheme
	}
	if cfg.Parser == "" {
		cfg.Parser = ParserGoldmark
	}
	if cfg.Browser == "" {
		cfg.Browser = BrowserRod
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ChunkTimeout == 0 {
		cfg.ChunkTimeout = DefaultChunkTimeout
	}
	if cfg.Page == (PageSettings{}) {
		cfg.Page = DefaultPageSettings()
	} else if cfg.Page.Size == "" {
		cfg.Page.Size = PageSizeLetter
	}
	return cfg
}

// Config returns the effective configuration.
func (e *Engine) Config() ExportConfig {
	return e.cfg
}

// Init resolves themes, checks the source file and prepares the code chunk
// session. It is idempotent; a failed Init may be retried.
func (e *Engine) Init(ctx context.Context) error {
	if e.initialized {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	themes, err := assets.NewThemeResolver(e.cfg.ThemeDir)
	if err != nil {
		return fmt.Errorf("loading themes: %w", err)
	}
	previewCSS, err := themes.LoadPreviewTheme(e.cfg.PreviewTheme)
	if err != nil {
		return fmt.Errorf("preview theme %q: %w", e.cfg.PreviewTheme, err)
	}
	codeCSS, err := themes.LoadCodeTheme(e.cfg.CodeBlockTheme)
	if err != nil {
		return fmt.Errorf("code block theme %q: %w", e.cfg.CodeBlockTheme, err)
	}

	sourcePath, err := filepath.Abs(e.cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if !fileutil.FileExists(sourcePath) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, e.cfg.SourcePath)
	}

	if e.runner == nil {
		e.runner = &codechunk.ExecRunner{
			Dir:     filepath.Dir(sourcePath),
			Timeout: e.cfg.ChunkTimeout,
		}
	}

	e.sourcePath = sourcePath
	e.previewCSS = previewCSS
	e.codeCSS = codeCSS
	e.session = codechunk.NewSession(e.runner)
	e.initialized = true
	return nil
}

// HTMLExport writes <basename>.html.
func (e *Engine) HTMLExport(ctx context.Context, opts HTMLExportOptions) (*Artifact, error) {
	return e.Export(ctx, ExportRequest{
		FileType:         FileTypeHTML,
		Offline:          opts.Offline,
		RunAllCodeChunks: opts.RunAllCodeChunks,
	})
}

// ChromeExport renders the document in the browser and writes
// <basename>.pdf, .png or .jpeg. An empty FileType means PDF.
func (e *Engine) ChromeExport(ctx context.Context, opts ChromeExportOptions) (*Artifact, error) {
	fileType := opts.FileType
	if fileType == "" {
		fileType = FileTypePDF
	}
	if !fileType.IsChrome() {
		return nil, fmt.Errorf("%w: %q is not a browser format", ErrInvalidFileType, fileType)
	}
	return e.Export(ctx, ExportRequest{
		FileType:         fileType,
		RunAllCodeChunks: opts.RunAllCodeChunks,
	})
}

// Export renders and writes one artifact.
func (e *Engine) Export(ctx context.Context, req ExportRequest) (*Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	doc, err := e.render(ctx, req)
	if err != nil {
		return nil, err
	}

	data := []byte(doc.html)
	if req.FileType.IsChrome() {
		if data, err = e.chrome(ctx, req.FileType, doc); err != nil {
			return nil, err
		}
	}

	path, err := fileutil.OutputPath(e.sourcePath, e.cfg.OutputDir, string(req.FileType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	art := Artifact{
		FileType:     req.FileType,
		Path:         path,
		Bytes:        len(data),
		Duration:     time.Since(start),
		ChunksRun:    doc.chunksRun,
		ChunksFailed: doc.chunksFailed,
	}
	if e.progress != nil {
		e.progress(art)
	}
	return &art, nil
}

// Close releases the browser if one was launched.
func (e *Engine) Close() error {
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}

// rendered is a document ready to write or hand to the browser.
type rendered struct {
	html            string
	page            PageSettings
	printBackground bool
	chunksRun       int
	chunksFailed    int
}

// render runs the pipeline for one export. Front matter settings override
// the engine configuration for this document.
func (e *Engine) render(ctx context.Context, req ExportRequest) (*rendered, error) {
	data, err := os.ReadFile(e.sourcePath) // #nosec G304 -- source path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}

	fm, body, err := pipeline.ParseFrontMatter(pipeline.NormalizeLineEndings(string(data)))
	if err != nil {
		return nil, err
	}

	chunks, err := e.session.Process(ctx, body, codechunk.Options{
		Execute: e.cfg.EnableScriptExecution,
		RunAll:  req.RunAllCodeChunks,
	})
	if err != nil {
		return nil, fmt.Errorf("code chunks: %w", err)
	}

	page, err := e.pageSettings(fm)
	if err != nil {
		return nil, err
	}
	printBackground := e.cfg.PrintBackground
	if fm.PrintBackground != nil {
		printBackground = *fm.PrintBackground
	}
	offline := req.Offline
	if req.FileType == FileTypeHTML && fm.HTML.Offline != nil {
		offline = *fm.HTML.Offline
	}

	html, err := e.renderer.Render(ctx, pipeline.Input{
		Markdown:     chunks.Markdown,
		FrontMatter:  fm,
		Fragments:    chunks.Fragments,
		Title:        e.title(fm),
		PreviewCSS:   e.previewCSS,
		CodeCSS:      e.codeCSS,
		PageCSS:      page.css(printBackground),
		SourceDir:    filepath.Dir(e.sourcePath),
		Offline:      offline && req.FileType == FileTypeHTML,
		RewritePaths: req.FileType.IsChrome(),
		OutputDir:    e.htmlOutputDir(req.FileType),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", req.FileType, err)
	}

	return &rendered{
		html:            html,
		page:            page,
		printBackground: printBackground,
		chunksRun:       chunks.Ran,
		chunksFailed:    chunks.Failed,
	}, nil
}

func (e *Engine) pageSettings(fm *pipeline.FrontMatter) (PageSettings, error) {
	page := e.cfg.Page
	if fm.Chrome.Format != "" {
		page.Size = strings.ToLower(fm.Chrome.Format)
	}
	if fm.Chrome.Landscape != nil {
		page.Landscape = *fm.Chrome.Landscape
	}
	if fm.Chrome.Margin != nil {
		page.Margin = *fm.Chrome.Margin
	}
	if err := page.Validate(); err != nil {
		return PageSettings{}, fmt.Errorf("front matter: %w", err)
	}
	return page, nil
}

// title is the front matter title or the source file name without its
// extension.
func (e *Engine) title(fm *pipeline.FrontMatter) string {
	if fm.Title != "" {
		return fm.Title
	}
	base := filepath.Base(e.sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// htmlOutputDir is the directory an HTML export is written to, or "" when
// relative references need no relocation.
func (e *Engine) htmlOutputDir(fileType FileType) string {
	if fileType != FileTypeHTML {
		return ""
	}
	return e.cfg.OutputDir
}

// chrome hands the document to the browser, launching it on first use.
func (e *Engine) chrome(ctx context.Context, fileType FileType, doc *rendered) ([]byte, error) {
	if e.browser == nil {
		b, err := newBrowser(e.cfg.Browser, e.cfg.Timeout)
		if err != nil {
			return nil, err
		}
		e.browser = b
	}

	if fileType == FileTypePDF {
		w, h := doc.page.paper()
		return e.browser.PDF(ctx, doc.html, PDFOptions{
			PaperWidth:      w,
			PaperHeight:     h,
			Margin:          doc.page.Margin,
			Landscape:       doc.page.Landscape,
			PrintBackground: doc.printBackground,
		})
	}
	return e.browser.Screenshot(ctx, doc.html, ScreenshotOptions{
		Format:  fileType,
		Quality: jpegQuality,
	})
}
