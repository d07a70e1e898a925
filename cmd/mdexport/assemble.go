package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdexport/internal/book"
)

// assembleFlags holds flags for the assemble command.
type assembleFlags struct {
	common      commonFlags
	dir         string
	frontMatter string
	output      string
}

func parseAssembleFlags(args []string, env *Environment) (*assembleFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &assembleFlags{}

	fs.StringVar(&f.dir, "dir", "", "directory the book parts are relative to")
	fs.StringVar(&f.frontMatter, "front-matter", "", "file copied before the first chapter")
	fs.StringVarP(&f.output, "output", "o", "", "assembled file (default docs/fullbook.md)")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printAssembleUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// runAssembleCmd concatenates the book parts into one markdown source.
// Chapters given as arguments replace the configured list.
func runAssembleCmd(args []string, env *Environment) int {
	f, fs, err := parseAssembleFlags(args, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return newPrinter(env, false, false).fail(fmt.Errorf("%w: %v", ErrUsage, err), nil)
	}
	out := newPrinter(env, f.common.quiet, f.common.verbose)

	cfg, path, err := loadConfigFile(f.common.config)
	if err != nil {
		return out.fail(err, &exportPlan{configName: f.common.config})
	}
	if path != "" {
		out.debugf("config: %s", path)
	}

	var spec book.Spec
	if cfg != nil {
		spec = book.Spec{
			Dir:         cfg.Book.Dir,
			FrontMatter: cfg.Book.FrontMatter,
			Chapters:    cfg.Book.Chapters,
			Output:      cfg.Book.Output,
		}
	}
	if fs.Changed("dir") {
		spec.Dir = f.dir
	}
	if fs.Changed("front-matter") {
		spec.FrontMatter = f.frontMatter
	}
	if fs.Changed("output") {
		spec.Output = f.output
	}
	if fs.NArg() > 0 {
		spec.Chapters = fs.Args()
	}

	written, err := book.Build(spec)
	if err != nil {
		return out.fail(fmt.Errorf("assembling book: %w", err), nil)
	}
	out.infof("assembled %d chapters into %s", len(spec.Chapters), written)
	return ExitSuccess
}
