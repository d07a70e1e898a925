package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	mdexport "github.com/alnah/go-mdexport"
)

// ---------------------------------------------------------------------------
// TestIsSourceChange - Event filtering
// ---------------------------------------------------------------------------

func TestIsSourceChange(t *testing.T) {
	t.Parallel()

	source := filepath.Join(string(filepath.Separator)+"docs", "fullbook.md")
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: source, Op: fsnotify.Write}, true},
		{"create after replace", fsnotify.Event{Name: source, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: source, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: source, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: source, Op: fsnotify.Remove}, false},
		{"artifact", fsnotify.Event{Name: filepath.Join(filepath.Dir(source), "fullbook.html"), Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: filepath.Join(filepath.Dir(source), ".fullbook.pdf.123.tmp"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isSourceChange(tt.ev, source); got != tt.want {
				t.Errorf("isSourceChange(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunWatch - Re-export on change
// ---------------------------------------------------------------------------

func waitForRun(t *testing.T, runs <-chan struct{}) {
	t.Helper()
	select {
	case <-runs:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for an export run")
	}
}

func TestRunWatch_ExportsAgainOnChange(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"book.md": "# One\n"})
	source := filepath.Join(dir, "book.md")

	exp := &fakeExporter{runs: make(chan struct{}, 8)}
	env, _, _ := newTestEnv(exp)
	cfg := mdexport.DefaultExportConfig()
	cfg.SourcePath = source
	plan := &exportPlan{cfg: cfg, fileType: mdexport.FileTypePDF}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, plan, env, newPrinter(env, true, false)) }()

	// The watcher is registered before the first export.
	waitForRun(t, exp.runs)

	if err := os.WriteFile(source, []byte("# Two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForRun(t, exp.runs)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch() error = %v, want nil after cancel", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runWatch() did not return after cancel")
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if len(exp.htmlOpts) < 2 || len(exp.chromeOpts) < 2 {
		t.Errorf("exports = %d html / %d chrome, want at least 2 each", len(exp.htmlOpts), len(exp.chromeOpts))
	}
}

func TestRunWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	env, _, _ := newTestEnv(&fakeExporter{})
	cfg := mdexport.DefaultExportConfig()
	cfg.SourcePath = filepath.Join(t.TempDir(), "gone", "book.md")
	plan := &exportPlan{cfg: cfg, fileType: mdexport.FileTypePDF}

	if err := runWatch(t.Context(), plan, env, newPrinter(env, true, false)); err == nil {
		t.Error("runWatch() error = nil, want an error for an unwatchable directory")
	}
}
