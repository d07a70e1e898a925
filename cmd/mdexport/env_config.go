package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	mdexport "github.com/alnah/go-mdexport"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath   string        // MDEXPORT_CONFIG: config file name or path
	OutputDir    string        // MDEXPORT_OUTPUT_DIR: artifact directory
	PreviewTheme string        // MDEXPORT_PREVIEW_THEME: preview theme name
	CodeTheme    string        // MDEXPORT_CODE_THEME: code block theme name
	ThemeDir     string        // MDEXPORT_THEME_DIR: custom theme directory
	Browser      string        // MDEXPORT_BROWSER: rod, chromedp
	Timeout      time.Duration // MDEXPORT_TIMEOUT: browser export timeout
}

// knownEnvVars lists valid MDEXPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDEXPORT_CONFIG":        true,
	"MDEXPORT_OUTPUT_DIR":    true,
	"MDEXPORT_PREVIEW_THEME": true,
	"MDEXPORT_CODE_THEME":    true,
	"MDEXPORT_THEME_DIR":     true,
	"MDEXPORT_BROWSER":       true,
	"MDEXPORT_TIMEOUT":       true,
	"MDEXPORT_CONTAINER":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("MDEXPORT_CONFIG"),
		OutputDir:    os.Getenv("MDEXPORT_OUTPUT_DIR"),
		PreviewTheme: os.Getenv("MDEXPORT_PREVIEW_THEME"),
		CodeTheme:    os.Getenv("MDEXPORT_CODE_THEME"),
		ThemeDir:     os.Getenv("MDEXPORT_THEME_DIR"),
		Browser:      os.Getenv("MDEXPORT_BROWSER"),
	}

	// Invalid or non-positive durations are ignored
	if timeout := os.Getenv("MDEXPORT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDEXPORT_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDEXPORT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by applyFlags).
func applyEnvConfig(env *envConfig, cfg *mdexport.ExportConfig) {
	if env.OutputDir != "" {
		cfg.OutputDir = env.OutputDir
	}
	if env.PreviewTheme != "" {
		cfg.PreviewTheme = env.PreviewTheme
	}
	if env.CodeTheme != "" {
		cfg.CodeBlockTheme = env.CodeTheme
	}
	if env.ThemeDir != "" {
		cfg.ThemeDir = env.ThemeDir
	}
	if env.Browser != "" {
		cfg.Browser = env.Browser
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout
	}
}
