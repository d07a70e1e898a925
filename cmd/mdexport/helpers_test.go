package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mdexport "github.com/alnah/go-mdexport"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake exporter and environment
// ---------------------------------------------------------------------------

// fakeExporter records the orchestrator's calls without rendering anything.
type fakeExporter struct {
	initErr      error
	htmlErr      error
	chromeErr    error
	chunksFailed int

	// runs receives a value each time the exporter is closed, which marks
	// the end of one orchestrated run.
	runs chan struct{}

	mu         sync.Mutex
	configs    []mdexport.ExportConfig
	htmlOpts   []mdexport.HTMLExportOptions
	chromeOpts []mdexport.ChromeExportOptions
	closes     int
}

func (f *fakeExporter) Init(context.Context) error {
	return f.initErr
}

func (f *fakeExporter) HTMLExport(_ context.Context, opts mdexport.HTMLExportOptions) (*mdexport.Artifact, error) {
	f.mu.Lock()
	f.htmlOpts = append(f.htmlOpts, opts)
	f.mu.Unlock()
	if f.htmlErr != nil {
		return nil, f.htmlErr
	}
	return &mdexport.Artifact{
		FileType:     mdexport.FileTypeHTML,
		Path:         filepath.Join("out", "book.html"),
		Bytes:        2048,
		Duration:     5 * time.Millisecond,
		ChunksRun:    2,
		ChunksFailed: f.chunksFailed,
	}, nil
}

func (f *fakeExporter) ChromeExport(_ context.Context, opts mdexport.ChromeExportOptions) (*mdexport.Artifact, error) {
	f.mu.Lock()
	f.chromeOpts = append(f.chromeOpts, opts)
	f.mu.Unlock()
	if f.chromeErr != nil {
		return nil, f.chromeErr
	}
	return &mdexport.Artifact{
		FileType: opts.FileType,
		Path:     filepath.Join("out", "book."+string(opts.FileType)),
		Bytes:    4096,
	}, nil
}

func (f *fakeExporter) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	if f.runs != nil {
		f.runs <- struct{}{}
	}
	return nil
}

func (f *fakeExporter) lastConfig(t *testing.T) mdexport.ExportConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.configs) == 0 {
		t.Fatal("exporter was never created")
	}
	return f.configs[len(f.configs)-1]
}

// newTestEnv returns an environment whose exporter is exp, with captured
// stdout and stderr.
func newTestEnv(exp *fakeExporter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    time.Now,
		Stdout: &stdout,
		Stderr: &stderr,
		NewExporter: func(cfg mdexport.ExportConfig) (mdexport.Exporter, error) {
			exp.mu.Lock()
			exp.configs = append(exp.configs, cfg)
			exp.mu.Unlock()
			return exp, nil
		},
	}
	return env, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}
