package pdfmerge

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyRequest     = errors.New("no files submitted")
	ErrNoSupportedFiles = errors.New("no supported files to merge")
	ErrNoPages          = errors.New("document has no pages")
	ErrDocumentWritten  = errors.New("document already written")

	// Component errors.
	ErrDecode           = errors.New("image cannot be decoded")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrMalformedPDF     = errors.New("malformed PDF")
	ErrConversion       = errors.New("word document conversion failed")
	ErrNoStrategies     = errors.New("no conversion strategies configured")

	// Office suite errors.
	ErrOfficeExec   = errors.New("office conversion failed")
	ErrOfficeOutput = errors.New("office conversion produced no PDF")

	// Markup and browser errors.
	ErrMarkupExtraction = errors.New("document markup extraction failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrPDFGeneration    = errors.New("PDF generation failed")

	ErrInvalidTempDir = errors.New("invalid temporary directory")
)

// FileError reports the source file that aborted a merge.
type FileError struct {
	Index int    // position in the request
	Name  string // display name as submitted
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed on file %q: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
