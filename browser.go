package pdfmerge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfmerge/internal/fileutil"
	"github.com/alnah/go-pdfmerge/internal/pipeline"
)

// browserDocumentName is the HTML file handed to the browser.
const browserDocumentName = "document.html"

// BrowserStrategy converts documents by extracting their markup, rendering it
// to HTML and printing that HTML to an A4 PDF with headless Chrome.
// Layout fidelity is lower than the office suite; text, headings, lists and
// tables survive.
type BrowserStrategy struct {
	extractor markupExtractor
	html      pipeline.HTMLConverter
	css       pipeline.CSSInjector
	renderer  pdfRenderer
	TempDir   string        // parent of the private directory ("" = os.TempDir())
	Timeout   time.Duration // per conversion (0 = no limit beyond ctx)
}

// NewBrowserStrategy creates a BrowserStrategy backed by go-rod.
func NewBrowserStrategy(timeout time.Duration) *BrowserStrategy {
	return &BrowserStrategy{
		extractor: &docxExtractor{},
		html:      pipeline.NewGoldmarkConverter(),
		css:       &pipeline.CSSInjection{},
		renderer:  newRodRenderer(timeout),
		Timeout:   timeout,
	}
}

func (s *BrowserStrategy) Name() string { return "browser" }

// Convert runs extraction, HTML rendering and printing for one document.
func (s *BrowserStrategy) Convert(ctx context.Context, content []byte, filename string) ([]byte, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	markdown, err := s.extractor.Extract(ctx, content)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	doc, err := s.html.ToHTML(ctx, markdown, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarkupExtraction, err)
	}
	doc = s.css.InjectCSS(ctx, doc, pipeline.PrintCSS)

	dir, cleanup, err := fileutil.MakeTempDir(s.TempDir, "pdfmerge-browser-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer cleanup()

	htmlPath, err := fileutil.WriteFileIn(dir, browserDocumentName, []byte(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return s.renderer.RenderFromFile(ctx, htmlPath)
}
