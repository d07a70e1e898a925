package pipeline

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mdexport/internal/yamlutil"
)

// ErrFrontMatter indicates the leading YAML block could not be parsed.
var ErrFrontMatter = errors.New("invalid front matter")

// FrontMatter holds the per-document settings recognised in the leading
// YAML block. Unknown keys are ignored so documents written for other
// tools still render.
type FrontMatter struct {
	Title           string            `yaml:"title"`
	PrintBackground *bool             `yaml:"print_background"`
	HTML            FrontMatterHTML   `yaml:"html"`
	Chrome          FrontMatterChrome `yaml:"chrome"`
	TOC             FrontMatterTOC    `yaml:"toc"`
}

// FrontMatterHTML overrides HTML export settings.
type FrontMatterHTML struct {
	Offline *bool `yaml:"offline"`
}

// FrontMatterChrome overrides browser export settings.
type FrontMatterChrome struct {
	Format    string   `yaml:"format"`
	Landscape *bool    `yaml:"landscape"`
	Margin    *float64 `yaml:"margin"`
}

// FrontMatterTOC configures [TOC] expansion.
type FrontMatterTOC struct {
	DepthFrom int  `yaml:"depth_from"`
	DepthTo   int  `yaml:"depth_to"`
	Ordered   bool `yaml:"ordered"`
}

// ParseFrontMatter splits content into its front matter and markdown body.
// A document without a front matter block yields a zero FrontMatter.
func ParseFrontMatter(content string) (*FrontMatter, string, error) {
	front, body := yamlutil.SplitFrontMatter(content)
	fm := &FrontMatter{}
	if len(front) == 0 {
		return fm, body, nil
	}
	if err := yamlutil.Unmarshal(front, fm); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return fm, body, nil
}

// TOCRange returns the heading levels [from, to] covered by [TOC], applying
// the 1..6 defaults and clamping out of range values.
func (fm *FrontMatter) TOCRange() (from, to int) {
	from, to = fm.TOC.DepthFrom, fm.TOC.DepthTo
	if from < 1 || from > 6 {
		from = 1
	}
	if to < from || to > 6 {
		to = 6
	}
	return from, to
}
