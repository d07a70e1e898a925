package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// themeFlags holds theme selection flags.
type themeFlags struct {
	preview string
	code    string
	dir     string
}

// markdownFlags holds parsing and code chunk flags.
type markdownFlags struct {
	parser         string
	breakOnNewline bool
	noScripts      bool
	noRunChunks    bool
	chunkTimeout   time.Duration
}

// chromeFlags holds browser export flags.
type chromeFlags struct {
	fileType        string
	browser         string
	printBackground bool
	timeout         time.Duration
	pageSize        string
	landscape       bool
	margin          float64
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	outputDir string
	offline   bool
	watch     bool
	theme     themeFlags
	markdown  markdownFlags
	chrome    chromeFlags

	// set records the flags given on the command line, so only those
	// override config file values.
	set map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addThemeFlags adds theme flags to a FlagSet.
func addThemeFlags(fs *flag.FlagSet, f *themeFlags) {
	fs.StringVar(&f.preview, "preview-theme", "", "preview theme (default github-light.css)")
	fs.StringVar(&f.code, "code-theme", "", "code block theme (default default.css)")
	fs.StringVar(&f.dir, "theme-dir", "", "directory with preview/ and code/ themes")
}

// addMarkdownFlags adds markdown and chunk flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.StringVar(&f.parser, "parser", "", "markdown parser: goldmark, blackfriday")
	fs.BoolVar(&f.breakOnNewline, "break-on-newline", false, "render single newlines as line breaks")
	fs.BoolVar(&f.noScripts, "no-scripts", false, "never execute code chunks")
	fs.BoolVar(&f.noRunChunks, "no-run-chunks", false, "reuse HTML chunk results for the browser export")
	fs.DurationVar(&f.chunkTimeout, "chunk-timeout", 0, "per-chunk execution timeout (e.g., 30s)")
}

// addChromeFlags adds browser export flags to a FlagSet.
func addChromeFlags(fs *flag.FlagSet, f *chromeFlags) {
	fs.StringVarP(&f.fileType, "file-type", "t", "", "browser export format: pdf, png, jpeg")
	fs.StringVar(&f.browser, "browser", "", "browser backend: rod, chromedp")
	fs.BoolVar(&f.printBackground, "print-background", true, "print background colors and images")
	fs.DurationVar(&f.timeout, "timeout", 0, "browser export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.pageSize, "page-size", "", "page size: letter, a4, a3, a5, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0-3.0)")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &exportFlags{set: map[string]bool{}}

	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for the exported files")
	fs.BoolVar(&f.offline, "offline", false, "inline local images into the HTML export")
	fs.BoolVarP(&f.watch, "watch", "w", false, "export again whenever the source changes")

	addCommonFlags(fs, &f.common)
	addThemeFlags(fs, &f.theme)
	addMarkdownFlags(fs, &f.markdown)
	addChromeFlags(fs, &f.chrome)

	fs.Usage = func() { printExportUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f, fs.Args(), nil
}
