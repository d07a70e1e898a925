package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/assets"
	"github.com/alnah/go-mdexport/internal/config"
	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/hints"
)

// printer writes status lines. Errors always go to stderr; everything else
// honours --quiet and --verbose.
type printer struct {
	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	verbose bool
}

func newPrinter(env *Environment, quiet, verbose bool) *printer {
	return &printer{stdout: env.Stdout, stderr: env.Stderr, quiet: quiet, verbose: verbose && !quiet}
}

// artifact reports a completed export step.
func (p *printer) artifact(step int, art mdexport.Artifact) {
	if p.quiet {
		return
	}
	name := strings.ToUpper(string(art.FileType))
	if !p.verbose {
		fmt.Fprintf(p.stdout, "%s export done: %s\n", name, art.Path)
		return
	}
	fmt.Fprintf(p.stdout, "[%d/2] %s export done: %s (%s, %v)\n",
		step, name, art.Path, formatBytes(art.Bytes), art.Duration.Round(time.Millisecond))
	if art.ChunksRun > 0 {
		fmt.Fprintf(p.stdout, "      code chunks: %d run, %d failed\n", art.ChunksRun, art.ChunksFailed)
	}
}

// chunkFailures warns when chunks failed without failing the export.
func (p *printer) chunkFailures(n int) {
	if n == 0 || p.quiet {
		return
	}
	fmt.Fprintf(p.stderr, "warning: %d code chunk(s) failed%s\n", n, hints.ForChunkFailures(n))
}

func (p *printer) infof(format string, args ...any) {
	if !p.quiet {
		fmt.Fprintf(p.stdout, format+"\n", args...)
	}
}

func (p *printer) debugf(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(p.stderr, format+"\n", args...)
	}
}

// fail prints err with a hint and returns its exit code. A nil error
// returns ExitSuccess.
func (p *printer) fail(err error, plan *exportPlan) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(p.stderr, "error: %v%s\n", err, hintFor(err, plan))
	return exitCodeFor(err)
}

// hintFor returns the actionable hint for err, or "".
func hintFor(err error, plan *exportPlan) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "\n  hint: run 'mdexport help' for usage"
	case errors.Is(err, mdexport.ErrBrowserConnect):
		backend := mdexport.BrowserRod
		if plan != nil && plan.cfg.Browser != "" {
			backend = plan.cfg.Browser
		}
		return hints.ForBrowserConnect(backend)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		if plan == nil || plan.configName == "" {
			return ""
		}
		if fileutil.IsFilePath(plan.configName) || filepath.Ext(plan.configName) != "" {
			return hints.ForConfigNotFound(nil)
		}
		return hints.ForConfigNotFound(config.SearchPaths(plan.configName))
	case errors.Is(err, mdexport.ErrSourceNotFound):
		return hints.ForSourceNotFound()
	case errors.Is(err, mdexport.ErrThemeNotFound):
		if strings.Contains(err.Error(), "preview theme") {
			return hints.ForThemeNotFound(assets.PreviewThemes())
		}
		return hints.ForThemeNotFound(assets.CodeThemes())
	case errors.Is(err, mdexport.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// formatBytes formats a byte count for status lines.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
