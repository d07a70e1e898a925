// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a CI system's marker variable is set.
func inCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for browser launch errors with the named
// backend ("rod" or "chromedp").
func ForBrowserConnect(backend string) string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a custom Chrome")
	}
	switch backend {
	case "chromedp":
		hints = append(hints, "or try --browser rod, which can download Chromium")
	default:
		hints = append(hints, "or try --browser chromedp with a system Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout")
}

// ForConfigNotFound suggests --config and the user config location among
// the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "go-mdexport/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForSourceNotFound returns a hint when the markdown source is missing.
func ForSourceNotFound() string {
	return format("pass the markdown file as an argument or run `mdexport assemble` first")
}

// ForThemeNotFound lists the themes that are available.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForChunkFailures returns a hint when code chunks failed without failing
// the export.
func ForChunkFailures(n int) string {
	if n == 0 {
		return ""
	}
	return format("failed chunks render as error blocks; run `mdexport doctor` to check interpreters")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
