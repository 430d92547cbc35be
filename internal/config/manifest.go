package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfmerge/internal/yamlutil"
)

var (
	ErrManifestNotFound = errors.New("manifest not found")
	ErrManifestParse    = errors.New("failed to parse manifest")
	ErrInvalidManifest  = errors.New("invalid manifest")
)

// MaxManifestFiles bounds the number of entries in one manifest.
const MaxManifestFiles = 1000

// Manifest describes one merge: its files in output order and the target file.
//
//	output: report.pdf
//	files:
//	  - path: cover.png
//	  - path: body.docx
//	    name: Body
//	  - path: annex.bin
//	    type: application/pdf
type Manifest struct {
	Output string         `yaml:"output"`
	Files  []ManifestFile `yaml:"files"`

	// Path is where the manifest was loaded from; empty for in-memory manifests.
	Path string `yaml:"-"`
}

// ManifestFile is one source entry. Name and Type are optional.
type ManifestFile struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// DisplayName returns Name, or the base name of Path.
func (f ManifestFile) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return filepath.Base(f.Path)
}

// Validate checks that the manifest lists at least one usable entry.
func (m *Manifest) Validate() error {
	if len(m.Files) == 0 {
		return fmt.Errorf("%w: files: at least one entry is required", ErrInvalidManifest)
	}
	if len(m.Files) > MaxManifestFiles {
		return fmt.Errorf("%w: files: %d entries (max %d)", ErrInvalidManifest, len(m.Files), MaxManifestFiles)
	}
	for i, f := range m.Files {
		if strings.TrimSpace(f.Path) == "" {
			return fmt.Errorf("%w: files[%d].path is empty", ErrInvalidManifest, i)
		}
		if err := validateFieldLength(fmt.Sprintf("files[%d].path", i), f.Path, MaxPathLength); err != nil {
			return err
		}
	}
	return validateFieldLength("output", m.Output, MaxPathLength)
}

// LoadManifest reads a manifest from path. Relative file and output paths
// are resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if err := yamlutil.DecodeFileStrict(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestParse, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Path = path
	base := filepath.Dir(path)
	for i := range m.Files {
		m.Files[i].Path = resolveAgainst(base, m.Files[i].Path)
	}
	if m.Output != "" {
		m.Output = resolveAgainst(base, m.Output)
	}
	return &m, nil
}

// resolveAgainst joins a relative p to base. A trailing separator is kept,
// since it marks p as a directory that may not exist yet.
func resolveAgainst(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	resolved := filepath.Join(base, p)
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		resolved += string(filepath.Separator)
	}
	return resolved
}
