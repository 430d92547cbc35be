package pdfmerge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-pdfmerge/internal/fileutil"
)

// Merger combines images, PDFs and word documents into one PDF.
// A Merger holds no per-request state: concurrent Merge calls are
// independent and share no temporary files or external processes.
type Merger struct {
	cfg    mergerConfig
	logger logrus.FieldLogger
	words  DocumentConverter
}

// NewMerger creates a Merger with default configuration.
// Word documents are converted by the office suite, falling back to the
// headless browser, unless WithStrategies or WithWordConverter say otherwise.
func NewMerger(opts ...Option) (*Merger, error) {
	m := &Merger{
		cfg:    mergerConfig{timeout: defaultTimeout},
		logger: discardLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.cfg.tempDir != "" && !fileutil.DirExists(m.cfg.tempDir) {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrInvalidTempDir, m.cfg.tempDir)
	}

	// Create word converter if not injected (e.g., by tests)
	if m.words == nil {
		strategies := m.cfg.strategies
		if strategies == nil {
			strategies = m.defaultStrategies()
		}
		m.words = NewWordConverter(m.logger, strategies...)
	}

	return m, nil
}

// defaultStrategies is the office suite first, the browser second.
func (m *Merger) defaultStrategies() []Strategy {
	office := NewOfficeStrategy(m.cfg.officePath, m.cfg.timeout)
	office.TempDir = m.cfg.tempDir

	browser := NewBrowserStrategy(m.cfg.timeout)
	browser.TempDir = m.cfg.tempDir

	return []Strategy{office, browser}
}

// mergeState is the accumulator threaded through the files of one request.
type mergeState struct {
	doc     *Document
	batches []BatchInfo
}

// foldFiles applies step to each file in order and stops at the first error.
// Cancellation is checked before every file.
func foldFiles[A any](ctx context.Context, files []SourceFile, acc A, step func(A, int, SourceFile) (A, error)) (A, error) {
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return acc, err
		}
		var err error
		if acc, err = step(acc, i, f); err != nil {
			return acc, err
		}
	}
	return acc, nil
}

// Merge processes the request's files in order and returns the merged PDF.
// Unsupported files are skipped. The first failing file aborts the merge
// with a *FileError naming it; nothing is returned in that case.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (m *Merger) Merge(ctx context.Context, req MergeRequest) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if len(req.Files) == 0 {
		return nil, ErrEmptyRequest
	}

	start := time.Now()
	log := m.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"files":      len(req.Files),
	})
	log.Debug("merge started")

	initial := &mergeState{doc: NewDocumentWithConfig(m.cfg.pdfConfig)}
	state, err := foldFiles(ctx, req.Files, initial, func(st *mergeState, i int, f SourceFile) (*mergeState, error) {
		info, err := m.appendFile(ctx, log, st.doc, i, f)
		if err != nil {
			return st, &FileError{Index: i, Name: f.Name, Err: err}
		}
		st.batches = append(st.batches, info)
		return st, nil
	})
	if err != nil {
		log.WithError(err).Debug("merge aborted")
		return nil, err
	}

	if state.doc.PageCount() == 0 {
		return nil, ErrNoSupportedFiles
	}

	pdf, err := state.doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serializing merged document: %w", err)
	}

	result = &Result{
		PDF:       pdf,
		Filename:  OutputFilename(req.Output),
		PageCount: state.doc.PageCount(),
		Batches:   state.batches,
	}
	log.WithFields(logrus.Fields{
		"pages":    result.PageCount,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("merge completed")
	return result, nil
}

// appendFile classifies one file, converts it to PDF pages and appends them.
// Every failure, including merging the pages into doc, is returned here so
// the caller can attribute it to f.
func (m *Merger) appendFile(ctx context.Context, log logrus.FieldLogger, doc *Document, i int, f SourceFile) (BatchInfo, error) {
	kind := Classify(f.ContentType, f.Name)
	info := BatchInfo{Index: i, Name: f.Name, Kind: kind}
	flog := log.WithFields(logrus.Fields{"file": f.Name, "index": i, "kind": kind.String()})

	var (
		pdf []byte
		err error
	)
	switch kind {
	case KindImage:
		pdf, err = RenderImagePage(f.Content, f.ContentType)
	case KindPDF:
		pdf = f.Content
	case KindWord:
		pdf, err = m.words.Convert(ctx, f.Content, f.Name)
	default:
		flog.WithField("content_type", f.ContentType).Info("skipping unsupported file")
		info.Skipped = true
		return info, nil
	}
	if err != nil {
		return info, err
	}

	pages, err := doc.AppendPDF(pdf)
	if err != nil {
		return info, err
	}
	info.Pages = pages
	flog.WithField("pages", pages).Debug("file appended")
	return info, nil
}

// OutputFilename sanitizes a requested output name to a bare .pdf filename.
// Empty names become merged.pdf.
func OutputFilename(requested string) string {
	name := strings.TrimSpace(strings.ReplaceAll(requested, "\\", "/"))
	name = filepath.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return DefaultOutputName
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
