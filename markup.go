package pdfmerge

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdfmerge/internal/docx"
)

// markupExtractor pulls a document's text structure out as CommonMark.
type markupExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

// Compile-time interface check.
var _ markupExtractor = (*docxExtractor)(nil)

// docxExtractor reads OOXML word processing packages.
type docxExtractor struct{}

func (e *docxExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	md, err := docx.Extract(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkupExtraction, err)
	}
	return md, nil
}
