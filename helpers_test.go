package pdfmerge

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

// pageSize is a page's MediaBox size in points.
type pageSize struct {
	w, h float64
}

var (
	sizeA4     = pageSize{595.28, 841.89}
	sizeLetter = pageSize{612, 792}
	sizeSquare = pageSize{400, 400}
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)), "encoding PNG")
	return buf.Bytes()
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 80}), "encoding JPEG")
	return buf.Bytes()
}

// makePDF builds a PDF with one page per size, each labelled with its number.
func makePDF(t *testing.T, sizes ...pageSize) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i, s := range sizes {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: s.w, Ht: s.h})
		pdf.Text(40, 40, "page "+strconv.Itoa(i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf), "writing PDF")
	return buf.Bytes()
}

// withVersion20 returns a copy of an fpdf document claiming PDF 2.0.
// The header keeps its length, so xref offsets stay valid.
func withVersion20(t *testing.T, src []byte) []byte {
	t.Helper()
	require.True(t, bytes.HasPrefix(src, []byte("%PDF-1.")), "unexpected header %q", src[:8])
	out := bytes.Clone(src)
	copy(out[5:8], "2.0")
	return out
}

// rotatePDF rotates the given pages (1-based) clockwise by degrees.
func rotatePDF(t *testing.T, src []byte, degrees int, pages ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, api.Rotate(bytes.NewReader(src), &buf, degrees, pages, newPDFConfig()), "rotating PDF")
	return buf.Bytes()
}

// pageGeometry is the effective MediaBox size and rotation of one page.
type pageGeometry struct {
	w, h   float64
	rotate int
}

// readGeometry parses a PDF and returns the geometry of every page.
func readGeometry(t *testing.T, data []byte) []pageGeometry {
	t.Helper()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newPDFConfig())
	require.NoError(t, err, "reading PDF")
	return pageGeometries(t, ctx)
}

func pageGeometries(t *testing.T, ctx *model.Context) []pageGeometry {
	t.Helper()
	geoms := make([]pageGeometry, 0, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		_, _, inh, err := ctx.PageDict(i, false)
		require.NoError(t, err, "page %d", i)
		require.True(t, inh != nil && inh.MediaBox != nil, "page %d: no MediaBox", i)
		geoms = append(geoms, pageGeometry{
			w:      inh.MediaBox.Width(),
			h:      inh.MediaBox.Height(),
			rotate: inh.Rotate,
		})
	}
	return geoms
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(data), newPDFConfig())
	require.NoError(t, err, "counting pages")
	return n
}

// fakeStrategy is a Strategy with a canned outcome.
type fakeStrategy struct {
	name  string
	pdf   []byte
	err   error
	calls atomic.Int32
}

func (s *fakeStrategy) Name() string { return s.name }

func (s *fakeStrategy) Convert(ctx context.Context, content []byte, filename string) ([]byte, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.pdf, s.err
}

// fakeRunner records invocations and can simulate the office suite's output.
type fakeRunner struct {
	mu     sync.Mutex
	name   string
	args   []string
	stdout string
	stderr string
	err    error
	// output, when set, is written to <outdir>/<input base>.pdf.
	output []byte
	// seen collects paths that existed while the command ran.
	seen []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.name = name
	r.args = append([]string(nil), args...)

	var outDir, input string
	for i, a := range args {
		if a == "--outdir" && i+1 < len(args) {
			outDir = args[i+1]
		}
	}
	if len(args) > 0 {
		input = args[len(args)-1]
	}
	if input != "" {
		r.seen = append(r.seen, input)
	}

	if r.output != nil && outDir != "" && input != "" {
		base := filepath.Base(input)
		out := filepath.Join(outDir, base[:len(base)-len(filepath.Ext(base))]+".pdf")
		if err := os.WriteFile(out, r.output, 0o600); err != nil {
			return "", "", err
		}
	}
	return r.stdout, r.stderr, r.err
}

// fakeRenderer records the HTML it was asked to print.
type fakeRenderer struct {
	pdf  []byte
	err  error
	path string
	html string
}

func (r *fakeRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	r.path = filePath
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	r.html = string(data)
	return r.pdf, r.err
}

// fakeExtractor returns canned markup.
type fakeExtractor struct {
	markdown string
	err      error
}

func (e *fakeExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	return e.markdown, e.err
}

// emptyDir reports whether dir has no entries.
func emptyDir(t *testing.T, dir string) bool {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "reading %s", dir)
	return len(entries) == 0
}
