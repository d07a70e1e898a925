package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events an editor emits on save.
const watchDebounce = 300 * time.Millisecond

// runWatch exports once, then again after every change to the source, until
// ctx is cancelled. A failed export is reported and watching continues; a
// watcher error ends the loop.
func runWatch(ctx context.Context, plan *exportPlan, env *Environment, out *printer) error {
	source, err := filepath.Abs(plan.cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory: many editors save by replacing the file.
	dir := filepath.Dir(source)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	export := func() {
		if err := exportOnce(ctx, plan, env, out); err != nil && ctx.Err() == nil {
			out.fail(err, plan)
		}
	}

	export()
	out.infof("watching %s (Ctrl+C to stop)", source)

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isSourceChange(ev, source) {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", source, err)
		case <-debounce.C:
			out.infof("%s changed, exporting", filepath.Base(source))
			export()
		}
	}
}

// isSourceChange reports whether ev modifies or replaces source. Artifacts
// and temp files written next to the source are ignored.
func isSourceChange(ev fsnotify.Event, source string) bool {
	if filepath.Clean(ev.Name) != source {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
