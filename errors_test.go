package pdfmerge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("%w: %w", ErrConversion, ErrPDFGeneration)
	err := error(&FileError{Index: 2, Name: "docB.docx", Err: cause})

	assert.EqualError(t, err, `failed on file "docB.docx": word document conversion failed: PDF generation failed`)
	assert.ErrorIs(t, err, ErrConversion)
	assert.ErrorIs(t, err, ErrPDFGeneration)

	var fe *FileError
	require.ErrorAs(t, fmt.Errorf("merge: %w", err), &fe)
	assert.Equal(t, 2, fe.Index)
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrEmptyRequest, ErrNoSupportedFiles, ErrNoPages, ErrDocumentWritten, ErrDecode, ErrUnsupportedImage,
		ErrMalformedPDF, ErrConversion, ErrNoStrategies, ErrOfficeExec, ErrOfficeOutput,
		ErrMarkupExtraction, ErrBrowserConnect, ErrPageCreate, ErrPageLoad, ErrPDFGeneration,
		ErrInvalidTempDir, ErrPoolClosed,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
