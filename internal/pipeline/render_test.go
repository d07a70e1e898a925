package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

const sampleBook = `[TOC]

# Chapter One

Some ==important== text with a ` + "`code span`" + `.

` + "```python\nprint('hi')\n```" + `

CHUNK

![diagram](img/d.png)

## Section

| a | b |
|---|---|
| 1 | 2 |
`

func sampleInput(sourceDir string) Input {
	return Input{
		Markdown:    strings.Replace(sampleBook, "CHUNK", "chunk-0", 1),
		FrontMatter: &FrontMatter{TOC: FrontMatterTOC{Ordered: true}},
		Fragments:   map[string]string{"chunk-0": `<pre class="code-chunk-output">hi</pre>`},
		Title:       "Sample",
		PreviewCSS:  "body.markdown-preview{}",
		CodeCSS:     ".chroma{}",
		SourceDir:   sourceDir,
	}
}

// diff returns a unified diff of two renderings for failure messages.
func diff(a, b string) string {
	d, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "first",
		ToFile:   "second",
		Context:  2,
	})
	return d
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewRenderer(NewGoldmarkConverter(ConverterOptions{}))
	got, err := r.Render(context.Background(), sampleInput(""))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"<title>Sample</title>",
		`<body class="markdown-preview">`,
		`<nav class="md-toc">`,
		`<a href="#chapter-one">1. Chapter One</a>`,
		"<mark>important</mark>",
		`<pre class="code-chunk-output">hi</pre>`,
		`class="chroma"`,
		`src="img/d.png"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
	if strings.Contains(got, "chunk-0") {
		t.Error("placeholder token left in output")
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	for name, conv := range converters(ConverterOptions{}) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := NewRenderer(conv)
			first, err := r.Render(context.Background(), sampleInput(""))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			second, err := r.Render(context.Background(), sampleInput(""))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if first != second {
				t.Errorf("Render() not deterministic:\n%s", diff(first, second))
			}
		})
	}
}

func TestRenderer_OfflineAndRewrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "img", "d.png"), pngHeader, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(NewGoldmarkConverter(ConverterOptions{}))

	t.Run("offline inlines", func(t *testing.T) {
		t.Parallel()

		in := sampleInput(dir)
		in.Offline = true
		got, err := r.Render(context.Background(), in)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(got, `src="data:image/png;base64,`) {
			t.Error("offline render should inline the local image")
		}
	})

	t.Run("rewrite for browser", func(t *testing.T) {
		t.Parallel()

		in := sampleInput(dir)
		in.RewritePaths = true
		got, err := r.Render(context.Background(), in)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(got, `src="file://`) {
			t.Error("browser render should use file:// URLs")
		}
	})

	t.Run("relocate for output dir", func(t *testing.T) {
		t.Parallel()

		in := sampleInput(dir)
		in.OutputDir = filepath.Join(dir, "out")
		got, err := r.Render(context.Background(), in)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(got, `src="../img/d.png"`) {
			t.Error("render for another output dir should relocate the image reference")
		}
	})
}

type panickingConverter struct{}

func (panickingConverter) ToHTML(context.Context, string) (string, error) {
	panic("boom")
}

func TestRenderer_RecoversPanic(t *testing.T) {
	t.Parallel()

	r := NewRenderer(panickingConverter{})
	if _, err := r.Render(context.Background(), Input{Markdown: "x"}); !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want ErrRender", err)
	}
}
