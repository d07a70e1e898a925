// Package config loads export settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultName is the config name looked up when none is given.
const DefaultName = "mdexport"

// appDir is the directory under the user config dir searched for names.
const appDir = "go-mdexport"

// Field length limits.
const (
	MaxPathLength  = 4096
	MaxNameLength  = 100
	MaxChapters    = 1000
	MaxMarginInch  = 3.0
	MaxTimeoutSpan = 24 * time.Hour
)

// Config mirrors the export settings. Pointer fields distinguish "unset"
// from an explicit false so defaults survive partial files.
type Config struct {
	Source   string         `yaml:"source" toml:"source"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Theme    ThemeConfig    `yaml:"theme" toml:"theme"`
	Markdown MarkdownConfig `yaml:"markdown" toml:"markdown"`
	Chunks   ChunksConfig   `yaml:"chunks" toml:"chunks"`
	HTML     HTMLConfig     `yaml:"html" toml:"html"`
	Chrome   ChromeConfig   `yaml:"chrome" toml:"chrome"`
	Book     BookConfig     `yaml:"book" toml:"book"`
	Tangle   TangleConfig   `yaml:"tangle" toml:"tangle"`
}

// OutputConfig defines where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" toml:"dir"` // empty = next to the source
}

// ThemeConfig selects preview and code-block themes.
type ThemeConfig struct {
	Preview string `yaml:"preview" toml:"preview"`
	Code    string `yaml:"code" toml:"code"`
	Dir     string `yaml:"dir" toml:"dir"` // custom theme directory
}

// MarkdownConfig controls parsing.
type MarkdownConfig struct {
	Parser               string `yaml:"parser" toml:"parser"` // goldmark, blackfriday
	BreakOnSingleNewLine *bool  `yaml:"breakOnSingleNewLine" toml:"breakOnSingleNewLine"`
}

// ChunksConfig controls code chunk execution.
type ChunksConfig struct {
	Enabled *bool    `yaml:"enabled" toml:"enabled"`
	RunAll  *bool    `yaml:"runAll" toml:"runAll"`
	Timeout Duration `yaml:"timeout" toml:"timeout"`
}

// HTMLConfig controls the HTML export.
type HTMLConfig struct {
	Offline bool `yaml:"offline" toml:"offline"`
}

// ChromeConfig controls the browser export.
type ChromeConfig struct {
	FileType        string     `yaml:"fileType" toml:"fileType"` // pdf, png, jpeg
	Browser         string     `yaml:"browser" toml:"browser"`   // rod, chromedp
	PrintBackground *bool      `yaml:"printBackground" toml:"printBackground"`
	Timeout         Duration   `yaml:"timeout" toml:"timeout"`
	Page            PageConfig `yaml:"page" toml:"page"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size      string   `yaml:"size" toml:"size"` // letter, a4, a3, a5, legal
	Landscape bool     `yaml:"landscape" toml:"landscape"`
	Margin    *float64 `yaml:"margin" toml:"margin"` // inches, nil = default
}

// BookConfig lists the parts `mdexport assemble` concatenates.
type BookConfig struct {
	Dir         string   `yaml:"dir" toml:"dir"`
	FrontMatter string   `yaml:"frontMatter" toml:"frontMatter"`
	Chapters    []string `yaml:"chapters" toml:"chapters"`
	Output      string   `yaml:"output" toml:"output"`
}

// TangleConfig sets `mdexport tangle` defaults.
type TangleConfig struct {
	Lang string `yaml:"lang" toml:"lang"`
	Out  string `yaml:"out" toml:"out"`
}

// Duration is a time.Duration written as a string such as "90s" or "2m".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Validate checks enumerations, ranges and field lengths.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"source", c.Source, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"theme.preview", c.Theme.Preview, MaxNameLength},
		{"theme.code", c.Theme.Code, MaxNameLength},
		{"theme.dir", c.Theme.Dir, MaxPathLength},
		{"book.dir", c.Book.Dir, MaxPathLength},
		{"book.frontMatter", c.Book.FrontMatter, MaxPathLength},
		{"book.output", c.Book.Output, MaxPathLength},
		{"tangle.lang", c.Tangle.Lang, MaxNameLength},
		{"tangle.out", c.Tangle.Out, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := oneOf("markdown.parser", c.Markdown.Parser, "goldmark", "blackfriday"); err != nil {
		return err
	}
	if err := oneOf("chrome.fileType", c.Chrome.FileType, "pdf", "png", "jpeg"); err != nil {
		return err
	}
	if err := oneOf("chrome.browser", c.Chrome.Browser, "rod", "chromedp"); err != nil {
		return err
	}
	if err := oneOf("chrome.page.size", strings.ToLower(c.Chrome.Page.Size), "letter", "a4", "a3", "a5", "legal"); err != nil {
		return err
	}
	if m := c.Chrome.Page.Margin; m != nil && (*m < 0 || *m > MaxMarginInch) {
		return fmt.Errorf("%w: chrome.page.margin must be between 0 and %.0f inches, got %.2f",
			ErrInvalidValue, MaxMarginInch, *m)
	}
	for name, d := range map[string]Duration{"chunks.timeout": c.Chunks.Timeout, "chrome.timeout": c.Chrome.Timeout} {
		if d < 0 || d.Std() > MaxTimeoutSpan {
			return fmt.Errorf("%w: %s must be between 0 and %s, got %s", ErrInvalidValue, name, MaxTimeoutSpan, d.Std())
		}
	}

	if len(c.Book.Chapters) > MaxChapters {
		return fmt.Errorf("%w: book.chapters has %d entries (max %d)", ErrInvalidValue, len(c.Book.Chapters), MaxChapters)
	}
	for i, ch := range c.Book.Chapters {
		if err := validateFieldLength(fmt.Sprintf("book.chapters[%d]", i), ch, MaxPathLength); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's searched as <name>.yaml, <name>.yml, <name>.toml in the
// current directory, then in the user config directory under go-mdexport/.
// Unknown fields are rejected.
func LoadConfig(nameOrPath string) (*Config, string, error) {
	if nameOrPath == "" {
		return nil, "", ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) && filepath.Ext(nameOrPath) == "" {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, "", err
		}
	}

	cfg, err := decodeFile(configPath)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}

func decodeFile(path string) (*Config, error) {
	var cfg Config

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown fields %s", ErrConfigParse, strings.Join(keys, ", "))
		}
		return &cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return &cfg, nil
}

// SearchPaths lists the files a config name resolves to, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml", ".toml"}
	dirs := []string{"."}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, appDir))
	}

	paths := make([]string, 0, len(extensions)*len(dirs))
	for _, dir := range dirs {
		for _, ext := range extensions {
			path := name + ext
			if dir != "." {
				path = filepath.Join(dir, path)
			}
			paths = append(paths, path)
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, path := range tried {
		if fileutil.FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
