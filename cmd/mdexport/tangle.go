package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/codechunk"
)

// Tangle defaults.
const (
	defaultTangleLang = "python"
	defaultTangleOut  = "code"
)

// tangleFlags holds flags for the tangle command.
type tangleFlags struct {
	common commonFlags
	lang   string
	out    string
}

func parseTangleFlags(args []string, env *Environment) (*tangleFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("tangle", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &tangleFlags{}

	fs.StringVar(&f.lang, "lang", "", "chunk language to collect (default python)")
	fs.StringVar(&f.out, "out", "", "directory for the source files (default code)")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printTangleUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// runTangleCmd writes the source files assembled from the chunks whose id
// starts with "_".
func runTangleCmd(args []string, env *Environment) int {
	f, fs, err := parseTangleFlags(args, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return newPrinter(env, false, false).fail(fmt.Errorf("%w: %v", ErrUsage, err), nil)
	}
	out := newPrinter(env, f.common.quiet, f.common.verbose)
	if fs.NArg() > 1 {
		return out.fail(fmt.Errorf("%w: expected at most one input file, got %d", ErrUsage, fs.NArg()), nil)
	}

	cfg, _, err := loadConfigFile(f.common.config)
	if err != nil {
		return out.fail(err, &exportPlan{configName: f.common.config})
	}

	source, lang, dir := mdexport.DefaultSourcePath, defaultTangleLang, defaultTangleOut
	if cfg != nil {
		source = firstNonEmpty(cfg.Source, source)
		lang = firstNonEmpty(cfg.Tangle.Lang, lang)
		dir = firstNonEmpty(cfg.Tangle.Out, dir)
	}
	if fs.NArg() == 1 {
		source = fs.Arg(0)
	}
	if fs.Changed("lang") {
		lang = f.lang
	}
	if fs.Changed("out") {
		dir = f.out
	}

	content, err := os.ReadFile(source) // #nosec G304 -- source path is user-provided
	if err != nil {
		return out.fail(fmt.Errorf("reading %s: %w", source, err), nil)
	}
	files, err := codechunk.Tangle(string(content), lang)
	if err != nil {
		return out.fail(fmt.Errorf("tangling %s: %w", source, err), nil)
	}
	paths, err := codechunk.WriteTangled(dir, files)
	if err != nil {
		return out.fail(fmt.Errorf("writing tangled files: %w", err), nil)
	}

	for i, p := range paths {
		out.infof("wrote %s (%d chunks)", p, files[i].Chunks)
	}
	return ExitSuccess
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
