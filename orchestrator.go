package mdexport

import (
	"context"
	"fmt"
)

// Exporter is the part of Engine the orchestrator drives.
type Exporter interface {
	Init(ctx context.Context) error
	HTMLExport(ctx context.Context, opts HTMLExportOptions) (*Artifact, error)
	ChromeExport(ctx context.Context, opts ChromeExportOptions) (*Artifact, error)
	Close() error
}

var _ Exporter = (*Engine)(nil)

// Orchestrator runs the fixed export sequence: initialize, export HTML,
// export through Chrome. It stops at the first failure and never retries.
type Orchestrator struct {
	exporter Exporter
	fileType FileType
	// Offline inlines local images in the HTML export. Off by default.
	Offline bool
	// ReplayChunks makes the Chrome export reuse the chunk results of the
	// HTML export instead of running every chunk a second time.
	ReplayChunks bool
	// Done is called with each artifact as its step completes.
	Done func(step int, art Artifact)
}

// NewOrchestrator creates an Orchestrator. fileType selects the Chrome
// export format; empty means PDF.
func NewOrchestrator(exporter Exporter, fileType FileType) *Orchestrator {
	if fileType == "" {
		fileType = FileTypePDF
	}
	return &Orchestrator{exporter: exporter, fileType: fileType}
}

// Run performs the sequence and returns the artifacts in order. The
// exporter is closed before Run returns, even on failure.
func (o *Orchestrator) Run(ctx context.Context) (arts []Artifact, err error) {
	defer func() {
		if cerr := o.exporter.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing engine: %w", cerr)
		}
	}()

	if !o.fileType.IsChrome() {
		return nil, fmt.Errorf("%w: %q is not a browser format", ErrInvalidFileType, o.fileType)
	}

	if err := o.exporter.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}

	html, err := o.exporter.HTMLExport(ctx, HTMLExportOptions{
		Offline:          o.Offline,
		RunAllCodeChunks: true,
	})
	if err != nil {
		return nil, fmt.Errorf("html export: %w", err)
	}
	arts = append(arts, *html)
	o.done(1, *html)

	chrome, err := o.exporter.ChromeExport(ctx, ChromeExportOptions{
		FileType:         o.fileType,
		RunAllCodeChunks: !o.ReplayChunks,
	})
	if err != nil {
		return arts, fmt.Errorf("chrome export: %w", err)
	}
	arts = append(arts, *chrome)
	o.done(2, *chrome)

	return arts, nil
}

func (o *Orchestrator) done(step int, art Artifact) {
	if o.Done != nil {
		o.Done(step, art)
	}
}
