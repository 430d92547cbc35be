package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-pdfmerge"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// MergerOptions are appended after the options built from flags,
	// env and config. Tests use it to replace external converters.
	MergerOptions []pdfmerge.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
