package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-pdfmerge"
	"github.com/alnah/go-pdfmerge/internal/config"
	"github.com/alnah/go-pdfmerge/internal/hints"
)

// Exit codes for the pdfmerge CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Merge written
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or manifest
	ExitIO         = 3 // File not found, permission denied
	ExitConversion = 4 // Office suite or browser failed
	ExitInput      = 5 // A source document is unreadable or nothing to merge
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Conversion errors (exit 4)
	if errors.Is(err, pdfmerge.ErrConversion) ||
		errors.Is(err, pdfmerge.ErrBrowserConnect) ||
		errors.Is(err, pdfmerge.ErrPageCreate) ||
		errors.Is(err, pdfmerge.ErrPageLoad) ||
		errors.Is(err, pdfmerge.ErrPDFGeneration) ||
		errors.Is(err, pdfmerge.ErrOfficeExec) ||
		errors.Is(err, pdfmerge.ErrOfficeOutput) {
		return ExitConversion
	}

	// Input document errors (exit 5)
	if errors.Is(err, pdfmerge.ErrDecode) ||
		errors.Is(err, pdfmerge.ErrUnsupportedImage) ||
		errors.Is(err, pdfmerge.ErrMalformedPDF) ||
		errors.Is(err, pdfmerge.ErrEmptyRequest) ||
		errors.Is(err, pdfmerge.ErrNoSupportedFiles) {
		return ExitInput
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, config.ErrManifestNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrDuplicateOutput) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrConflictingInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrManifestParse) ||
		errors.Is(err, config.ErrInvalidManifest) ||
		errors.Is(err, pdfmerge.ErrInvalidTempDir) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, pdfmerge.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, pdfmerge.ErrConversion):
		return hints.ForConversion()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	case errors.Is(err, pdfmerge.ErrNoSupportedFiles):
		return hints.ForSupportedFormats()
	}
	return ""
}
