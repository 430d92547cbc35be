package pdfmerge

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// newPDFConfig returns a pdfcpu configuration for reading and merging uploads.
// Validation is relaxed: real-world PDFs often carry minor defects that
// readers tolerate. The pdfcpu user config directory is never touched.
func newPDFConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.CreateBookmarks = false
	return conf
}

// Document accumulates pages in append order and serializes them as one PDF.
// Every source is merged into the document as it is appended, so a failure
// is reported by the AppendPDF call that caused it.
// A Document belongs to a single merge and is not safe for concurrent use.
type Document struct {
	ctx     *model.Context
	first   []byte // the only source while a single one was appended
	sources int
	pages   int
	conf    *model.Configuration
	err     error
	out     []byte
}

// NewDocument returns an empty document using the default configuration.
func NewDocument() *Document {
	return NewDocumentWithConfig(nil)
}

// NewDocumentWithConfig returns an empty document that parses and merges
// with conf. A nil conf selects the default configuration.
func NewDocumentWithConfig(conf *model.Configuration) *Document {
	if conf == nil {
		conf = newPDFConfig()
	}
	// pdfcpu records the running command in the configuration it is given.
	c := *conf
	c.Cmd = model.MERGECREATE
	return &Document{conf: &c}
}

// AppendPDF appends every page of src, in order, after the existing pages.
// A source that cannot be parsed leaves the document unchanged. A source
// newer than the document (PDF 2.0 after 1.x pages) raises the document's
// version. Returns the number of pages appended.
func (d *Document) AppendPDF(src []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.out != nil {
		return 0, ErrDocumentWritten
	}
	if len(src) == 0 {
		return 0, fmt.Errorf("%w: empty content", ErrMalformedPDF)
	}

	ctxSrc, err := api.ReadAndValidate(bytes.NewReader(src), d.conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}
	pages := ctxSrc.PageCount
	if pages == 0 {
		return 0, fmt.Errorf("%w: %w", ErrMalformedPDF, ErrNoPages)
	}

	if d.ctx == nil {
		if ctxSrc.XRefTable.Version() < model.V20 {
			ctxSrc.EnsureVersionForWriting()
		}
		d.ctx = ctxSrc
		d.first = src
	} else {
		if ctxSrc.XRefTable.Version() == model.V20 && d.ctx.XRefTable.Version() < model.V20 {
			v := model.V20
			d.ctx.RootVersion = &v
		}
		if err := pdfcpu.MergeXRefTables("", ctxSrc, d.ctx, false, false); err != nil {
			// The destination may hold part of src; nothing more can be appended.
			d.err = fmt.Errorf("%w: merging pages: %v", ErrMalformedPDF, err)
			return 0, d.err
		}
		d.first = nil
	}

	d.sources++
	d.pages += pages
	return pages, nil
}

// PageCount returns the number of pages appended so far.
func (d *Document) PageCount() int {
	return d.pages
}

// Bytes serializes the document. A single source is returned as-is;
// merged sources keep their page content and attributes (size, rotation)
// untouched. The document is written once and cannot be appended to
// afterwards; later calls return a copy of the same bytes.
func (d *Document) Bytes() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.out != nil {
		return bytes.Clone(d.out), nil
	}

	switch d.sources {
	case 0:
		return nil, ErrNoPages
	case 1:
		return bytes.Clone(d.first), nil
	}

	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("writing %d merged documents: %w", d.sources, err)
	}
	d.out = buf.Bytes()
	return bytes.Clone(d.out), nil
}
