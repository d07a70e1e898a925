// Package book concatenates a front matter file and chapter files into the
// single markdown document the exporter renders.
package book

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// Sentinel errors for book assembly.
var (
	ErrNoChapters  = errors.New("book has no chapters")
	ErrReadChapter = errors.New("cannot read book part")
)

// DefaultOutput is where the assembled book is written.
const DefaultOutput = "docs/fullbook.md"

// PageBreak forces the next chapter onto a new printed page.
const PageBreak = `<p style="page-break-after:always;"></p>`

// Spec describes a book on disk.
type Spec struct {
	// Dir is the directory FrontMatter and Chapters are relative to.
	Dir string
	// FrontMatter is read first and copied verbatim; empty skips it.
	FrontMatter string
	Chapters    []string
	// Output is the assembled file; empty means DefaultOutput.
	Output string
}

// Banner returns the anchor and large chapter heading placed before the
// chapter with 0-based index i.
func Banner(i int) string {
	return fmt.Sprintf(`
    <a name="chapter_%02d"></a>
    <p style="font-size:80pt;color:#d0d0d0;font-weight:bold">
    Chapter %d
    </p>
    <hr/>

`, i, i)
}

// Assemble returns the book content: front matter, then for each chapter a
// page break, its banner and the chapter text.
func Assemble(spec Spec) (string, error) {
	if len(spec.Chapters) == 0 {
		return "", ErrNoChapters
	}

	var b strings.Builder
	if spec.FrontMatter != "" {
		text, err := readPart(spec.Dir, spec.FrontMatter)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}

	for i, chapter := range spec.Chapters {
		text, err := readPart(spec.Dir, chapter)
		if err != nil {
			return "", err
		}
		b.WriteString(PageBreak)
		b.WriteString(Banner(i))
		b.WriteString(text)
	}
	return b.String(), nil
}

// Build assembles the book and writes it to spec.Output. Returns the path
// written.
func Build(spec Spec) (string, error) {
	content, err := Assemble(spec)
	if err != nil {
		return "", err
	}
	out := spec.Output
	if out == "" {
		out = DefaultOutput
	}
	if err := fileutil.WriteFileAtomic(out, []byte(content)); err != nil {
		return "", fmt.Errorf("writing book: %w", err)
	}
	return out, nil
}

func readPart(dir, name string) (string, error) {
	path := name
	if dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(dir, name)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- book parts are configured by the user
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadChapter, err)
	}
	return string(data), nil
}
