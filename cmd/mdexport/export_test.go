package main

// Notes:
// - resolvePlan: we test each precedence layer (defaults, config file,
//   environment, flags) and that unset flags never override.
// - runExportCmd: we test status lines, quiet/verbose output, hints and exit
//   codes against a fake exporter.

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/config"
)

func mustParseExportFlags(t *testing.T, args ...string) (*exportFlags, []string) {
	t.Helper()
	var stderr strings.Builder
	f, positional, err := parseExportFlags(args, &stderr)
	if err != nil {
		t.Fatalf("parseExportFlags(%v) error = %v", args, err)
	}
	return f, positional
}

const testConfigYAML = `source: book.md
output:
  dir: build
theme:
  preview: github-dark.css
  code: monokai.css
markdown:
  parser: blackfriday
  breakOnSingleNewLine: true
chunks:
  enabled: false
  runAll: false
  timeout: 10s
html:
  offline: true
chrome:
  fileType: png
  browser: chromedp
  printBackground: false
  timeout: 30s
  page:
    size: a4
    landscape: true
    margin: 1
`

// ---------------------------------------------------------------------------
// TestParseExportFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseExportFlags(t *testing.T) {
	t.Parallel()

	f, positional := mustParseExportFlags(t,
		"book.md", "-o", "out", "-t", "jpeg", "--margin", "0.5", "--timeout", "45s", "-w", "-q")

	if len(positional) != 1 || positional[0] != "book.md" {
		t.Errorf("positional = %v, want [book.md]", positional)
	}
	if f.outputDir != "out" || f.chrome.fileType != "jpeg" || f.chrome.margin != 0.5 {
		t.Errorf("flags = %+v", f)
	}
	if f.chrome.timeout != 45*time.Second || !f.watch || !f.common.quiet {
		t.Errorf("flags = %+v", f)
	}
	for _, name := range []string{"output-dir", "file-type", "margin", "timeout", "watch", "quiet"} {
		if !f.set[name] {
			t.Errorf("set[%q] = false, want true", name)
		}
	}
	if f.set["print-background"] {
		t.Error("print-background was not given and must not count as set")
	}
}

func TestParseExportFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := [][]string{
		{"--no-such-flag"},
		{"--margin", "wide"},
		{"--timeout", "soon"},
	}
	for _, args := range tests {
		var stderr strings.Builder
		if _, _, err := parseExportFlags(args, &stderr); err == nil {
			t.Errorf("parseExportFlags(%v) error = nil, want error", args)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolvePlan - Precedence of defaults, config, environment and flags
// ---------------------------------------------------------------------------

func TestResolvePlan_Defaults(t *testing.T) {
	t.Parallel()

	f, _ := mustParseExportFlags(t)
	plan, err := resolvePlan(nil, f, &envConfig{})
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}

	want := mdexport.DefaultExportConfig()
	if plan.cfg != want {
		t.Errorf("cfg = %+v, want defaults %+v", plan.cfg, want)
	}
	if plan.fileType != mdexport.FileTypePDF || plan.offline || plan.replay {
		t.Errorf("plan = %+v, want pdf, online, run all", plan)
	}
}

func TestResolvePlan_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"mdexport.yaml": testConfigYAML})
	cfgPath := filepath.Join(dir, "mdexport.yaml")

	f, _ := mustParseExportFlags(t, "-c", cfgPath)
	plan, err := resolvePlan(nil, f, &envConfig{})
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}

	cfg := plan.cfg
	if cfg.SourcePath != "book.md" || cfg.OutputDir != "build" {
		t.Errorf("paths = %q/%q", cfg.SourcePath, cfg.OutputDir)
	}
	if cfg.PreviewTheme != "github-dark.css" || cfg.CodeBlockTheme != "monokai.css" {
		t.Errorf("themes = %q/%q", cfg.PreviewTheme, cfg.CodeBlockTheme)
	}
	if cfg.Parser != mdexport.ParserBlackfriday || !cfg.BreakOnSingleNewLine {
		t.Errorf("markdown = %q/%v", cfg.Parser, cfg.BreakOnSingleNewLine)
	}
	if cfg.EnableScriptExecution || cfg.ChunkTimeout != 10*time.Second {
		t.Errorf("chunks = %v/%s", cfg.EnableScriptExecution, cfg.ChunkTimeout)
	}
	if cfg.Browser != mdexport.BrowserChromedp || cfg.PrintBackground || cfg.Timeout != 30*time.Second {
		t.Errorf("chrome = %q/%v/%s", cfg.Browser, cfg.PrintBackground, cfg.Timeout)
	}
	if cfg.Page != (mdexport.PageSettings{Size: "a4", Landscape: true, Margin: 1}) {
		t.Errorf("page = %+v", cfg.Page)
	}
	if plan.fileType != mdexport.FileTypePNG || !plan.offline || !plan.replay {
		t.Errorf("plan = %+v, want png, offline, replay", plan)
	}
	if plan.configPath != cfgPath {
		t.Errorf("configPath = %q, want %q", plan.configPath, cfgPath)
	}
}

func TestResolvePlan_ConfigMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		want   float64
	}{
		{name: "explicit zero", config: "chrome:\n  page:\n    margin: 0\n", want: 0},
		{name: "explicit value", config: "chrome:\n  page:\n    margin: 0.25\n", want: 0.25},
		{name: "unset keeps default", config: "chrome:\n  page:\n    size: a4\n", want: mdexport.DefaultPageSettings().Margin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := setupTestDir(t, map[string]string{"mdexport.yaml": tt.config})
			f, _ := mustParseExportFlags(t, "-c", filepath.Join(dir, "mdexport.yaml"))
			plan, err := resolvePlan(nil, f, &envConfig{})
			if err != nil {
				t.Fatalf("resolvePlan() error = %v", err)
			}
			if plan.cfg.Page.Margin != tt.want {
				t.Errorf("Page.Margin = %v, want %v", plan.cfg.Page.Margin, tt.want)
			}
		})
	}
}

func TestResolvePlan_EnvOverridesConfig(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"mdexport.yaml": testConfigYAML})
	f, _ := mustParseExportFlags(t, "-c", filepath.Join(dir, "mdexport.yaml"))

	plan, err := resolvePlan(nil, f, &envConfig{
		OutputDir:    "env-out",
		PreviewTheme: "none.css",
		Browser:      "rod",
		Timeout:      time.Minute,
	})
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}
	if plan.cfg.OutputDir != "env-out" || plan.cfg.PreviewTheme != "none.css" {
		t.Errorf("cfg = %+v, want env values", plan.cfg)
	}
	if plan.cfg.Browser != "rod" || plan.cfg.Timeout != time.Minute {
		t.Errorf("browser/timeout = %q/%s, want env values", plan.cfg.Browser, plan.cfg.Timeout)
	}
	if plan.cfg.CodeBlockTheme != "monokai.css" {
		t.Errorf("CodeBlockTheme = %q, env did not set it so the config wins", plan.cfg.CodeBlockTheme)
	}
}

func TestResolvePlan_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"mdexport.yaml": testConfigYAML})
	f, positional := mustParseExportFlags(t,
		"-c", filepath.Join(dir, "mdexport.yaml"),
		"other.md",
		"--print-background",
		"--no-run-chunks=false",
		"-t", "pdf",
		"--page-size", "letter",
		"--landscape=false",
		"--margin", "0",
		"--browser", "rod",
	)

	plan, err := resolvePlan(positional, f, &envConfig{Browser: "chromedp"})
	if err != nil {
		t.Fatalf("resolvePlan() error = %v", err)
	}
	cfg := plan.cfg
	if cfg.SourcePath != "other.md" {
		t.Errorf("SourcePath = %q, want the argument", cfg.SourcePath)
	}
	if !cfg.PrintBackground || plan.replay || plan.fileType != mdexport.FileTypePDF {
		t.Errorf("plan = %+v, want flag values", plan)
	}
	if cfg.Page != (mdexport.PageSettings{Size: "letter", Landscape: false, Margin: 0}) {
		t.Errorf("page = %+v, want flag values", cfg.Page)
	}
	if cfg.Browser != "rod" {
		t.Errorf("Browser = %q, flag should beat the environment", cfg.Browser)
	}
	// Flags not given keep the config values.
	if cfg.PreviewTheme != "github-dark.css" || !plan.offline {
		t.Errorf("unset flags overrode the config: %+v", plan)
	}
}

func TestResolvePlan_Errors(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"bad.yaml": "chrome:\n  fileType: gif\n"})

	tests := []struct {
		name       string
		args       []string
		positional []string
		want       error
	}{
		{name: "html is not a browser format", args: []string{"-t", "html"}, want: mdexport.ErrInvalidFileType},
		{name: "unknown parser", args: []string{"--parser", "markdown-it"}, want: mdexport.ErrInvalidParser},
		{name: "unknown page size", args: []string{"--page-size", "b5"}, want: mdexport.ErrInvalidPageSize},
		{name: "margin out of range", args: []string{"--margin", "5"}, want: mdexport.ErrInvalidMargin},
		{name: "two inputs", positional: []string{"a.md", "b.md"}, want: ErrUsage},
		{name: "missing config", args: []string{"-c", filepath.Join(dir, "missing.yaml")}, want: config.ErrConfigNotFound},
		{name: "invalid config", args: []string{"-c", filepath.Join(dir, "bad.yaml")}, want: config.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, _ := mustParseExportFlags(t, tt.args...)
			_, err := resolvePlan(tt.positional, f, &envConfig{})
			if !errors.Is(err, tt.want) {
				t.Errorf("resolvePlan() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunExportCmd - Export command output and exit codes
// ---------------------------------------------------------------------------

func TestRunExportCmd_StatusLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		want      []string
		wantEmpty bool
	}{
		{
			name: "default",
			args: []string{"book.md"},
			want: []string{"HTML export done: " + filepath.Join("out", "book.html"), "PDF export done: " + filepath.Join("out", "book.pdf")},
		},
		{
			name: "verbose",
			args: []string{"book.md", "-v"},
			want: []string{"[1/2] HTML export done", "2.0 KB", "code chunks: 2 run, 0 failed", "[2/2] PDF export done"},
		},
		{
			name:      "quiet",
			args:      []string{"book.md", "-q"},
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv(&fakeExporter{})
			if code := runExportCmd(t.Context(), tt.args, env); code != ExitSuccess {
				t.Fatalf("runExportCmd() = %d, stderr: %s", code, stderr.String())
			}
			if tt.wantEmpty && stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing", stdout.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
		})
	}
}

func TestRunExportCmd_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		exp        *fakeExporter
		args       []string
		wantCode   int
		wantStderr []string
		wantChrome int
	}{
		{
			name:       "init failure stops before any export",
			exp:        &fakeExporter{initErr: fmt.Errorf("%w: book.md", mdexport.ErrSourceNotFound)},
			wantCode:   ExitIO,
			wantStderr: []string{"initializing engine", "hint:", "mdexport assemble"},
		},
		{
			name:       "html failure skips the browser",
			exp:        &fakeExporter{htmlErr: fmt.Errorf("%w: preview theme %q", mdexport.ErrThemeNotFound, "nope")},
			wantCode:   ExitUsage,
			wantStderr: []string{"html export", "available: ", "github-light.css"},
		},
		{
			name:       "browser failure",
			exp:        &fakeExporter{chromeErr: mdexport.ErrBrowserConnect},
			args:       []string{"--browser", "chromedp"},
			wantCode:   ExitBrowser,
			wantStderr: []string{"chrome export", "--browser rod"},
			wantChrome: 1,
		},
		{
			name:       "usage error",
			exp:        &fakeExporter{},
			args:       []string{"a.md", "b.md"},
			wantCode:   ExitUsage,
			wantStderr: []string{"at most one input", "mdexport help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := newTestEnv(tt.exp)
			code := runExportCmd(t.Context(), tt.args, env)
			if code != tt.wantCode {
				t.Errorf("runExportCmd() = %d, want %d\nstderr: %s", code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
			if len(tt.exp.chromeOpts) != tt.wantChrome {
				t.Errorf("chrome exports = %d, want %d", len(tt.exp.chromeOpts), tt.wantChrome)
			}
		})
	}
}

func TestRunExportCmd_ChunkFailuresWarn(t *testing.T) {
	t.Parallel()

	env, _, stderr := newTestEnv(&fakeExporter{chunksFailed: 1})
	if code := runExportCmd(t.Context(), []string{"book.md"}, env); code != ExitSuccess {
		t.Fatalf("runExportCmd() = %d, chunk failures must not fail the export", code)
	}
	if !strings.Contains(stderr.String(), "1 code chunk(s) failed") || !strings.Contains(stderr.String(), "mdexport doctor") {
		t.Errorf("stderr = %q, want a chunk failure warning with hint", stderr.String())
	}
}

func TestRunExportCmd_Help(t *testing.T) {
	t.Parallel()

	env, _, stderr := newTestEnv(&fakeExporter{})
	if code := runExportCmd(t.Context(), []string{"--help"}, env); code != ExitSuccess {
		t.Errorf("runExportCmd(--help) = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "Usage: mdexport [export]") {
		t.Errorf("help output = %q", stderr.String())
	}
}
