package book

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePart(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBanner(t *testing.T) {
	t.Parallel()

	want := "\n    <a name=\"chapter_07\"></a>\n" +
		"    <p style=\"font-size:80pt;color:#d0d0d0;font-weight:bold\">\n" +
		"    Chapter 7\n" +
		"    </p>\n" +
		"    <hr/>\n\n"
	if got := Banner(7); got != want {
		t.Errorf("Banner(7) = %q, want %q", got, want)
	}
	if got := Banner(12); !strings.Contains(got, `name="chapter_12"`) || !strings.Contains(got, "Chapter 12\n") {
		t.Errorf("Banner(12) = %q", got)
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePart(t, dir, "frontmatter.md", "---\ntitle: DS\n---\n# Preface\n")
	writePart(t, dir, "00_overview.md", "# Overview\n")
	writePart(t, dir, "01_python.md", "# Python\n")

	got, err := Assemble(Spec{
		Dir:         dir,
		FrontMatter: "frontmatter.md",
		Chapters:    []string{"00_overview.md", "01_python.md"},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := "---\ntitle: DS\n---\n# Preface\n" +
		PageBreak + Banner(0) + "# Overview\n" +
		PageBreak + Banner(1) + "# Python\n"
	if got != want {
		t.Errorf("Assemble() =\n%q\nwant\n%q", got, want)
	}
}

func TestAssemble_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Assemble(Spec{}); !errors.Is(err, ErrNoChapters) {
		t.Errorf("Assemble() error = %v, want ErrNoChapters", err)
	}

	_, err := Assemble(Spec{Dir: t.TempDir(), Chapters: []string{"missing.md"}})
	if !errors.Is(err, ErrReadChapter) {
		t.Errorf("Assemble() error = %v, want ErrReadChapter", err)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePart(t, dir, "a.md", "A\n")
	out := filepath.Join(dir, "docs", "fullbook.md")

	path, err := Build(Spec{Dir: dir, Chapters: []string{"a.md"}, Output: out})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if path != out {
		t.Errorf("Build() path = %q, want %q", path, out)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(got), PageBreak+Banner(0)) {
		t.Errorf("book = %q", got)
	}
}
