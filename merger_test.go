package pdfmerge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMerger(t *testing.T, opts ...Option) *Merger {
	t.Helper()
	m, err := NewMerger(opts...)
	require.NoError(t, err)
	return m
}

func TestMerger_Merge_OrderAndPageCount(t *testing.T) {
	t.Parallel()

	wordPDF := makePDF(t, sizeSquare, sizeSquare)
	word := &fakeStrategy{name: "office", pdf: wordPDF}
	m := newTestMerger(t, WithStrategies(word))

	req := MergeRequest{
		Files: []SourceFile{
			{Name: "portrait.png", ContentType: "image/png", Content: makePNG(t, 10, 20)},
			{Name: "notes.txt", ContentType: "text/plain", Content: []byte("skip me")},
			{Name: "letter.pdf", ContentType: ContentTypePDF, Content: makePDF(t, sizeLetter, sizeLetter, sizeLetter)},
			{Name: "doc.docx", ContentType: ContentTypeDOCX, Content: []byte("docx")},
			{Name: "wide.jpg", ContentType: "image/jpeg", Content: makeJPEG(t, 40, 20)},
		},
	}

	res, err := m.Merge(context.Background(), req)
	require.NoError(t, err)

	// 1 image + 3 PDF pages + 2 word pages + 1 image
	assert.Equal(t, 7, res.PageCount)
	assert.Equal(t, DefaultOutputName, res.Filename)
	assert.EqualValues(t, 1, word.calls.Load())

	geoms := readGeometry(t, res.PDF)
	require.Len(t, geoms, 7)
	want := []pageSize{
		{a4WidthPt, a4HeightPt}, // portrait image
		sizeLetter, sizeLetter, sizeLetter,
		sizeSquare, sizeSquare,
		{a4HeightPt, a4WidthPt}, // landscape image
	}
	for i, s := range want {
		assertGeometry(t, geoms[i], s, 0)
	}

	require.Len(t, res.Batches, 5)
	assert.True(t, res.Batches[1].Skipped)
	assert.Equal(t, KindUnsupported, res.Batches[1].Kind)
	for i, pages := range []int{1, 0, 3, 2, 1} {
		assert.Equal(t, i, res.Batches[i].Index)
		assert.Equal(t, pages, res.Batches[i].Pages, "batch %d", i)
	}
}

func TestMerger_Merge_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	office := &fakeStrategy{name: "office", err: ErrOfficeExec}
	browser := &fakeStrategy{name: "browser", err: ErrBrowserConnect}
	m := newTestMerger(t, WithStrategies(office, browser))

	req := MergeRequest{
		Files: []SourceFile{
			{Name: "imageA.jpg", ContentType: "image/jpeg", Content: makeJPEG(t, 20, 10)},
			{Name: "docB.docx", ContentType: ContentTypeDOCX, Content: []byte("docx")},
			{Name: "fileC.pdf", ContentType: ContentTypePDF, Content: []byte("never parsed")},
		},
	}

	res, err := m.Merge(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, res, "no partial output on failure")

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "docB.docx", fe.Name)
	assert.Equal(t, 1, fe.Index)
	assert.Contains(t, err.Error(), `"docB.docx"`)
	assert.ErrorIs(t, err, ErrConversion)
	assert.ErrorIs(t, err, ErrBrowserConnect)
	assert.EqualValues(t, 1, office.calls.Load())
	assert.EqualValues(t, 1, browser.calls.Load())
}

func TestMerger_Merge_FileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     SourceFile
		wantErr  error
		wantName string
	}{
		{
			name:     "undecodable image",
			file:     SourceFile{Name: "broken.png", ContentType: "image/png", Content: []byte("nope")},
			wantErr:  ErrDecode,
			wantName: "broken.png",
		},
		{
			name:     "malformed PDF",
			file:     SourceFile{Name: "broken.pdf", ContentType: ContentTypePDF, Content: []byte("nope")},
			wantErr:  ErrMalformedPDF,
			wantName: "broken.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMerger(t, WithStrategies(&fakeStrategy{name: "office"}))
			req := MergeRequest{Files: []SourceFile{
				{Name: "ok.pdf", ContentType: ContentTypePDF, Content: makePDF(t, sizeA4)},
				tt.file,
			}}

			_, err := m.Merge(context.Background(), req)

			require.ErrorIs(t, err, tt.wantErr)
			var fe *FileError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantName, fe.Name)
		})
	}
}

func TestMerger_Merge_MixedPDFVersions(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t, WithStrategies(&fakeStrategy{name: "fake"}))

	req := MergeRequest{Files: []SourceFile{
		{Name: "a.png", ContentType: "image/png", Content: makePNG(t, 10, 20)},
		{Name: "b.pdf", ContentType: ContentTypePDF, Content: withVersion20(t, makePDF(t, sizeLetter, sizeSquare))},
		{Name: "c.pdf", ContentType: ContentTypePDF, Content: makePDF(t, sizeA4)},
	}}

	res, err := m.Merge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, res.PageCount)
	assert.Equal(t, 4, pageCount(t, res.PDF))
}

func TestMerger_Merge_FailureAfterMixedVersionsNamesFile(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t, WithStrategies(&fakeStrategy{name: "fake"}))

	req := MergeRequest{Files: []SourceFile{
		{Name: "a.png", ContentType: "image/png", Content: makePNG(t, 10, 20)},
		{Name: "b.pdf", ContentType: ContentTypePDF, Content: withVersion20(t, makePDF(t, sizeLetter))},
		{Name: "c.pdf", ContentType: ContentTypePDF, Content: []byte("nope")},
	}}

	res, err := m.Merge(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, res)

	var fe *FileError
	require.ErrorAs(t, err, &fe, "the error names the failing file")
	assert.Equal(t, "c.pdf", fe.Name)
	assert.Equal(t, 2, fe.Index)
	assert.ErrorIs(t, err, ErrMalformedPDF)
}

func TestMerger_Merge_WordOutputMustBePDF(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t, WithStrategies(&fakeStrategy{name: "office", pdf: []byte("not a pdf")}))

	_, err := m.Merge(context.Background(), MergeRequest{Files: []SourceFile{
		{Name: "a.docx", ContentType: ContentTypeDOCX, Content: []byte("docx")},
	}})

	assert.ErrorIs(t, err, ErrMalformedPDF)
}

func TestMerger_Merge_EmptyRequest(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t)

	_, err := m.Merge(context.Background(), MergeRequest{})
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestMerger_Merge_OnlyUnsupported(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t, WithStrategies(&fakeStrategy{name: "office"}))

	res, err := m.Merge(context.Background(), MergeRequest{Files: []SourceFile{
		{Name: "notes.txt", ContentType: "text/plain", Content: []byte("hello")},
	}})

	require.ErrorIs(t, err, ErrNoSupportedFiles)
	assert.NotErrorIs(t, err, ErrEmptyRequest)
	assert.Nil(t, res)
}

func TestMerger_Merge_SinglePDFPassesThrough(t *testing.T) {
	t.Parallel()

	src := makePDF(t, sizeLetter, sizeA4)
	m := newTestMerger(t)

	res, err := m.Merge(context.Background(), MergeRequest{
		Files:  []SourceFile{{Name: "only.pdf", ContentType: ContentTypePDF, Content: src}},
		Output: "combined",
	})

	require.NoError(t, err)
	assert.Equal(t, src, res.PDF)
	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, "combined.pdf", res.Filename)
}

func TestMerger_Merge_CancelledBetweenFiles(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancelling := &cancelStrategy{cancel: cancel, pdf: makePDF(t, sizeA4)}
	m := newTestMerger(t, WithStrategies(cancelling))

	_, err := m.Merge(ctx, MergeRequest{Files: []SourceFile{
		{Name: "a.docx", ContentType: ContentTypeDOCX, Content: []byte("docx")},
		{Name: "b.pdf", ContentType: ContentTypePDF, Content: makePDF(t, sizeA4)},
	}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerger_Merge_RecoversPanics(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t, WithWordConverter(panicConverter{}))

	res, err := m.Merge(context.Background(), MergeRequest{Files: []SourceFile{
		{Name: "a.docx", ContentType: ContentTypeDOCX, Content: []byte("docx")},
	}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Nil(t, res)
}

func TestMerger_Merge_Logging(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	m := newTestMerger(t, WithLogger(logger), WithStrategies(&fakeStrategy{name: "office"}))

	_, err := m.Merge(context.Background(), MergeRequest{Files: []SourceFile{
		{Name: "notes.txt", ContentType: "text/plain"},
		{Name: "a.pdf", ContentType: ContentTypePDF, Content: makePDF(t, sizeA4)},
	}})
	require.NoError(t, err)

	var skipped, completed bool
	requestIDs := map[any]bool{}
	for _, e := range hook.AllEntries() {
		requestIDs[e.Data["request_id"]] = true
		switch e.Message {
		case "skipping unsupported file":
			skipped = e.Data["file"] == "notes.txt"
		case "merge completed":
			completed = e.Data["pages"] == 1
		}
	}
	assert.True(t, skipped, "skipped file should be logged")
	assert.True(t, completed, "completion should be logged with page count")
	assert.Len(t, requestIDs, 1, "all entries share one request id")
}

func TestMerger_ConcurrentMergesAreIndependent(t *testing.T) {
	t.Parallel()

	m := newTestMerger(t, WithStrategies(&fakeStrategy{name: "office", pdf: makePDF(t, sizeSquare)}))

	errc := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(n int) {
			files := make([]SourceFile, 0, n+1)
			for j := 0; j <= n; j++ {
				files = append(files, SourceFile{Name: "a.docx", ContentType: ContentTypeDOCX})
			}
			res, err := m.Merge(context.Background(), MergeRequest{Files: files})
			if err == nil && res.PageCount != n+1 {
				err = errors.New("unexpected page count")
			}
			errc <- err
		}(i)
	}

	for i := 0; i < 8; i++ {
		select {
		case err := <-errc:
			assert.NoError(t, err)
		case <-time.After(30 * time.Second):
			require.FailNow(t, "concurrent merges timed out")
		}
	}
}

func TestNewMerger_InvalidTempDir(t *testing.T) {
	t.Parallel()

	_, err := NewMerger(WithTempDir("/nonexistent/pdfmerge"))
	assert.ErrorIs(t, err, ErrInvalidTempDir)
}

func TestNewMerger_DefaultStrategies(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	m := newTestMerger(t, WithOfficePath("/opt/lo/soffice"), WithTempDir(tmp), WithTimeout(time.Second))

	conv, ok := m.words.(*WordConverter)
	require.True(t, ok)
	assert.Equal(t, []string{"office", "browser"}, conv.Strategies())

	office := conv.strategies[0].(*OfficeStrategy)
	assert.Equal(t, "/opt/lo/soffice", office.Path)
	assert.Equal(t, tmp, office.TempDir)
	assert.Equal(t, time.Second, office.Timeout)

	browser := conv.strategies[1].(*BrowserStrategy)
	assert.Equal(t, tmp, browser.TempDir)
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		assert.Panics(t, func() { WithTimeout(d) }, "WithTimeout(%v)", d)
	}
}

func TestOutputFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested string
		want      string
	}{
		{"", DefaultOutputName},
		{"   ", DefaultOutputName},
		{"report.pdf", "report.pdf"},
		{"report.PDF", "report.PDF"},
		{"report", "report.pdf"},
		{"report.docx", "report.docx.pdf"},
		{"../../etc/passwd", "passwd.pdf"},
		{`C:\out\final.pdf`, "final.pdf"},
		{"dir/", "dir.pdf"},
		{"..", DefaultOutputName},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputFilename(tt.requested), "OutputFilename(%q)", tt.requested)
	}
}

// cancelStrategy cancels the merge context after converting.
type cancelStrategy struct {
	cancel context.CancelFunc
	pdf    []byte
}

func (s *cancelStrategy) Name() string { return "cancel" }

func (s *cancelStrategy) Convert(ctx context.Context, content []byte, filename string) ([]byte, error) {
	s.cancel()
	return s.pdf, nil
}

type panicConverter struct{}

func (panicConverter) Convert(ctx context.Context, content []byte, filename string) ([]byte, error) {
	panic("decoder exploded")
}
