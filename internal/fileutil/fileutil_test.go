package fileutil_test

// Notes:
// - WriteTempFile write/close error branches are not covered: triggering disk
//   failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-mdexport/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "html", extension: "html"},
		{name: "jpeg", extension: "jpeg"},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\system32", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "html\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := fileutil.ValidateExtension(tt.extension); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<html></html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() unexpected error: %v", err)
	}

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q should end with .html", path)
	}
	if !strings.Contains(filepath.Base(path), "mdexport-") {
		t.Errorf("path %q should carry the mdexport- prefix", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != "<html></html>" {
		t.Errorf("content = %q", got)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cleanup() should remove %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	if _, _, err := fileutil.WriteTempFile("x", "a/b"); !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Rename-into-place writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "book.html")

	if err := fileutil.WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the artifact (no leftover temp files)", len(entries))
	}
}

// ---------------------------------------------------------------------------
// TestOutputPath - Artifact path derivation
// ---------------------------------------------------------------------------

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		outDir string
		ext    string
		want   string
	}{
		{name: "next to source", source: filepath.Join("docs", "fullbook.md"), ext: "html", want: filepath.Join("docs", "fullbook.html")},
		{name: "output dir", source: filepath.Join("docs", "fullbook.md"), outDir: "out", ext: "pdf", want: filepath.Join("out", "fullbook.pdf")},
		{name: "no extension", source: "notes", ext: "png", want: "notes.png"},
		{name: "dotted name", source: "v1.2.notes.markdown", ext: "jpeg", want: "v1.2.notes.jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.OutputPath(tt.source, tt.outDir, tt.ext)
			if err != nil {
				t.Fatalf("OutputPath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath / TestIsURL / TestFileURL - Predicates
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing.md")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"mdexport":        false,
		"./mdexport.yaml": true,
		`C:\cfg.yaml`:     true,
		"sub/dir":         true,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://example.com/a.png": true,
		"http://x":                  true,
		"//cdn.example.com/a.png":   true,
		"data:image/png;base64,AA":  true,
		"images/a.png":              false,
		"/abs/a.png":                false,
	}
	for in, want := range tests {
		if got := fileutil.IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}

	tests := map[string]string{
		"/docs/a.png":         "file:///docs/a.png",
		"/docs/my image.png":  "file:///docs/my%20image.png",
		"/docs/sub/chart.svg": "file:///docs/sub/chart.svg",
	}
	for in, want := range tests {
		if got := fileutil.FileURL(in); got != want {
			t.Errorf("FileURL(%q) = %q, want %q", in, got, want)
		}
	}
}
