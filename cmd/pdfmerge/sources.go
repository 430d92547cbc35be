package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfmerge"
	"github.com/alnah/go-pdfmerge/internal/config"
	"github.com/alnah/go-pdfmerge/internal/fileutil"
)

// Sentinel errors for CLI I/O.
var (
	ErrUsage            = errors.New("invalid arguments")
	ErrNoInput          = errors.New("no input specified")
	ErrConflictingInput = errors.New("files and --manifest are mutually exclusive")
	ErrDuplicateOutput  = errors.New("several merges write the same output")
	ErrReadInput        = errors.New("failed to read input file")
	ErrWritePDF         = errors.New("failed to write PDF file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// manifestFromArgs builds an in-memory manifest from command-line paths.
func manifestFromArgs(paths []string) *config.Manifest {
	m := &config.Manifest{Files: make([]config.ManifestFile, len(paths))}
	for i, p := range paths {
		m.Files[i] = config.ManifestFile{Path: p}
	}
	return m
}

// readSources loads every manifest entry in order. Entries without a
// declared type get one from DetectContentType.
func readSources(ctx context.Context, m *config.Manifest) ([]pdfmerge.SourceFile, error) {
	files := make([]pdfmerge.SourceFile, 0, len(m.Files))
	for _, entry := range m.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(entry.Path) // #nosec G304 -- user-provided input
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		name := entry.DisplayName()
		contentType := entry.Type
		if contentType == "" {
			// The path keeps its extension even when the display name does not.
			contentType = pdfmerge.DetectContentType(entry.Path, content)
		}

		files = append(files, pdfmerge.SourceFile{
			Name:        name,
			ContentType: contentType,
			Content:     content,
		})
	}
	return files, nil
}

// splitOutput splits a requested output into a directory and a filename.
// An existing directory, or a path ending in a separator, has no filename;
// the merger then picks its default.
func splitOutput(output string) (dir, name string) {
	if output == "" {
		return "", ""
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) ||
		fileutil.DirExists(output) {
		return output, ""
	}
	return filepath.Dir(output), filepath.Base(output)
}

// writePDF writes data to path, creating parent directories.
func writePDF(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWritePDF, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil { // #nosec G306 -- merged PDFs are meant to be shared
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}
	return nil
}
