package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()
	setMaxProcs(env.Stderr, hasVerboseFlag(os.Args[1:]))
	os.Exit(runMain(os.Args, env))
}

// setMaxProcs configures GOMAXPROCS, logging the decision only in verbose
// mode. The error is ignored: maxprocs.Set only fails on an invalid
// GOMAXPROCS value, and the runtime default then applies.
func setMaxProcs(w io.Writer, verbose bool) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			break
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

var commands = map[string]bool{
	"export":   true,
	"assemble": true,
	"tangle":   true,
	"doctor":   true,
	"version":  true,
	"help":     true,
}

// isCommand reports whether s names a subcommand. Matching is case sensitive.
func isCommand(s string) bool {
	return commands[s]
}

// looksLikeMarkdown reports whether s has a markdown file extension.
func looksLikeMarkdown(s string) bool {
	return strings.HasSuffix(s, ".md") || strings.HasSuffix(s, ".markdown")
}

// runMain dispatches args (including the program name) and returns the exit
// code. With no arguments it runs the default export.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if len(args) > 0 {
		args = args[1:]
	}
	if len(args) == 0 {
		return runExportCmd(ctx, nil, env)
	}

	cmd := args[0]
	if !isCommand(cmd) {
		switch {
		case cmd == "-h" || cmd == "--help":
			printUsage(env.Stdout)
			return ExitSuccess
		case strings.HasPrefix(cmd, "-") || looksLikeMarkdown(cmd):
			return runExportCmd(ctx, args, env)
		default:
			fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
	}

	switch cmd {
	case "export":
		return runExportCmd(ctx, args[1:], env)
	case "assemble":
		return runAssembleCmd(args[1:], env)
	case "tangle":
		return runTangleCmd(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "mdexport %s\n", Version)
		return ExitSuccess
	default:
		return runHelp(args[1:], env)
	}
}
