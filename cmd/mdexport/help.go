package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without a command, exports ./docs/fullbook.md to HTML and then PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export a markdown file to HTML and PDF/PNG/JPEG (default)")
	fmt.Fprintln(w, "  assemble   Concatenate book chapters into one markdown file")
	fmt.Fprintln(w, "  tangle     Write source files from tagged code chunks")
	fmt.Fprintln(w, "  doctor     Check Chrome, interpreters and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdexport help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport [export] [input.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown to HTML, then through Chrome to PDF, PNG or JPEG.")
	fmt.Fprintln(w, "Code chunks run on every export.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file (default ./docs/fullbook.md or config source)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: mdexport, if present)")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Directory for exported files (default: next to input)")
	fmt.Fprintln(w, "  -t, --file-type <s>       Browser export format: pdf, png, jpeg")
	fmt.Fprintln(w, "      --offline             Inline local images into the HTML export")
	fmt.Fprintln(w, "  -w, --watch               Export again whenever the input changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Themes:")
	fmt.Fprintln(w, "      --preview-theme <s>   Preview theme (default github-light.css)")
	fmt.Fprintln(w, "      --code-theme <s>      Code block theme (default default.css)")
	fmt.Fprintln(w, "      --theme-dir <dir>     Directory with preview/ and code/ themes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --parser <s>          Parser: goldmark, blackfriday")
	fmt.Fprintln(w, "      --break-on-newline    Render single newlines as line breaks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Code chunks:")
	fmt.Fprintln(w, "      --no-scripts          Never execute code chunks")
	fmt.Fprintln(w, "      --no-run-chunks       Reuse HTML chunk results for the browser export")
	fmt.Fprintln(w, "      --chunk-timeout <d>   Per-chunk timeout (e.g., 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser <s>         Backend: rod, chromedp")
	fmt.Fprintln(w, "      --timeout <d>         Browser export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --print-background    Print background colors (default true)")
	fmt.Fprintln(w, "      --page-size <s>       Page size: letter, a4, a3, a5, legal")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDEXPORT_CONFIG, MDEXPORT_OUTPUT_DIR, MDEXPORT_PREVIEW_THEME,")
	fmt.Fprintln(w, "  MDEXPORT_CODE_THEME, MDEXPORT_THEME_DIR, MDEXPORT_BROWSER, MDEXPORT_TIMEOUT")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}

// printAssembleUsage prints usage for the assemble command.
func printAssembleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport assemble [chapter.md...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Concatenate the front matter and chapters into one markdown file,")
	fmt.Fprintln(w, "with a page break and chapter banner before each chapter.")
	fmt.Fprintln(w, "Chapters default to the book section of the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --dir <dir>           Directory the parts are relative to")
	fmt.Fprintln(w, "      --front-matter <f>    File copied before the first chapter")
	fmt.Fprintln(w, "  -o, --output <file>       Assembled file (default docs/fullbook.md)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printTangleUsage prints usage for the tangle command.
func printTangleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport tangle [input.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Collect the code chunks whose id starts with \"_\" into source files.")
	fmt.Fprintln(w, "Chunk \"_stack_02\" goes to stack.<ext>, after \"_stack_01\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --lang <s>            Chunk language (default python)")
	fmt.Fprintln(w, "      --out <dir>           Output directory (default code)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdexport doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, code chunk interpreters and the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json    Print the report as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "assemble":
		printAssembleUsage(env.Stdout)
	case "tangle":
		printTangleUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdexport version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdexport help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
