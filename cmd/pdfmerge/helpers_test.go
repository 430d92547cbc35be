package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-pdfmerge"
)

// testEnv returns an environment writing to buffers.
func testEnv(opts ...pdfmerge.Option) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:           time.Now,
		Stdout:        &stdout,
		Stderr:        &stderr,
		MergerOptions: opts,
	}, &stdout, &stderr
}

// pngBytes encodes a solid w x h image.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// writeFile writes content under dir, creating parents, and returns the path.
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// writePNG writes a small PNG image.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	return writeFile(t, dir, name, pngBytes(t, 40, 30))
}

// writeOnePagePDF writes a single-page PDF built from an image.
func writeOnePagePDF(t *testing.T, dir, name string) string {
	t.Helper()
	pdf, err := pdfmerge.RenderImagePage(pngBytes(t, 30, 40), "image/png")
	if err != nil {
		t.Fatalf("building pdf: %v", err)
	}
	return writeFile(t, dir, name, pdf)
}

// readPDF reads a written output and checks its header.
func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("%s is not a PDF", path)
	}
	return data
}

// fakeWords converts any word document to a one-page PDF, or fails with err.
type fakeWords struct {
	page  []byte
	err   error
	calls atomic.Int32
}

func newFakeWords(t *testing.T, err error) *fakeWords {
	t.Helper()
	page, perr := pdfmerge.RenderImagePage(pngBytes(t, 10, 10), "image/png")
	if perr != nil {
		t.Fatalf("building pdf: %v", perr)
	}
	return &fakeWords{page: page, err: err}
}

func (f *fakeWords) Convert(_ context.Context, _ []byte, _ string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

// run invokes runMain with a command line.
func run(env *Environment, args ...string) int {
	return runMain(context.Background(), append([]string{"pdfmerge"}, args...), env)
}
