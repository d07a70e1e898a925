package main

import (
	"io"
	"os"
	"time"

	mdexport "github.com/alnah/go-mdexport"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// NewExporter builds the engine for one export run.
	NewExporter func(cfg mdexport.ExportConfig) (mdexport.Exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewExporter: newEngine,
	}
}

func newEngine(cfg mdexport.ExportConfig) (mdexport.Exporter, error) {
	return mdexport.NewEngine(cfg)
}
