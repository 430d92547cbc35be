package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Sentinel errors.
var (
	ErrNotPackage   = errors.New("not a DOCX package")
	ErrMissingPart  = errors.New("missing document part")
	ErrPartTooLarge = errors.New("package part too large")
	ErrMalformedXML = errors.New("malformed package XML")
)

// MaxPartSize bounds the uncompressed size of any single XML part.
const MaxPartSize = 64 << 20

const (
	defaultDocumentPart = "word/document.xml"
	relTypeDocument     = "/officeDocument"
	relTypeStyles       = "/styles"
	relTypeNumbering    = "/numbering"
	relTypeHyperlink    = "/hyperlink"
	targetModeExternal  = "External"
)

// Extract renders the main document of a DOCX package as CommonMark.
func Extract(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotPackage, err)
	}
	pkg := &opcPackage{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		pkg.files[strings.TrimPrefix(f.Name, "/")] = f
	}

	docPart, err := pkg.mainDocument()
	if err != nil {
		return "", err
	}

	rels, err := pkg.relationships(docPart)
	if err != nil {
		return "", err
	}

	r := &reader{
		styles: map[string]paragraphStyle{},
		links:  map[string]string{},
		numbering: numbering{
			abstract: map[string]string{},
			formats:  map[string]map[int]string{},
		},
	}
	stylesPart := path.Join(path.Dir(docPart), "styles.xml")
	numberingPart := path.Join(path.Dir(docPart), "numbering.xml")
	for _, rel := range rels {
		target := resolveTarget(docPart, rel.Target)
		switch {
		case strings.HasSuffix(rel.Type, relTypeStyles):
			stylesPart = target
		case strings.HasSuffix(rel.Type, relTypeNumbering):
			numberingPart = target
		case strings.HasSuffix(rel.Type, relTypeHyperlink) && rel.TargetMode == targetModeExternal:
			r.links[rel.ID] = rel.Target
		}
	}

	if data, ok, err := pkg.read(stylesPart); err != nil {
		return "", err
	} else if ok {
		if err := r.parseStyles(data); err != nil {
			return "", err
		}
	}
	if data, ok, err := pkg.read(numberingPart); err != nil {
		return "", err
	} else if ok {
		if err := r.parseNumbering(data); err != nil {
			return "", err
		}
	}

	data, ok, err := pkg.read(docPart)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingPart, docPart)
	}
	blocks, err := r.parseDocument(data)
	if err != nil {
		return "", err
	}
	return render(blocks), nil
}

type opcPackage struct {
	files map[string]*zip.File
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationshipList struct {
	Relationships []relationship `xml:"Relationship"`
}

// mainDocument locates the officeDocument part through the package
// relationships, falling back to the conventional location.
func (p *opcPackage) mainDocument() (string, error) {
	rels, err := p.relationships("")
	if err != nil {
		return "", err
	}
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, relTypeDocument) {
			return resolveTarget("", rel.Target), nil
		}
	}
	if _, ok := p.files[defaultDocumentPart]; ok {
		return defaultDocumentPart, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissingPart, defaultDocumentPart)
}

// relationships reads the .rels part belonging to part ("" for the package).
func (p *opcPackage) relationships(part string) ([]relationship, error) {
	relsPath := "_rels/.rels"
	if part != "" {
		relsPath = path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	}
	data, ok, err := p.read(relsPath)
	if err != nil || !ok {
		return nil, err
	}
	var list relationshipList
	if err := xml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedXML, relsPath, err)
	}
	return list.Relationships, nil
}

// read returns the uncompressed part, or ok=false if the package lacks it.
func (p *opcPackage) read(name string) ([]byte, bool, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, false, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrNotPackage, name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, MaxPartSize+1))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrNotPackage, name, err)
	}
	if len(data) > MaxPartSize {
		return nil, false, fmt.Errorf("%w: %s", ErrPartTooLarge, name)
	}
	return data, true, nil
}

// resolveTarget turns a relationship target into a package part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}
