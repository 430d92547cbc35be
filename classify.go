package pdfmerge

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extensionTypes maps file extensions to the media types Classify understands.
var extensionTypes = map[string]string{
	".pdf":  ContentTypePDF,
	".docx": ContentTypeDOCX,
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// Classify maps a declared content type to a processing route.
// Media type parameters and case are ignored. An empty or generic
// (application/octet-stream) type falls back to the filename extension.
// SVG is not raster data and is unsupported.
func Classify(contentType, filename string) Kind {
	mt := normalizeMediaType(contentType)
	if mt == "" || mt == contentTypeOctetStream {
		mt = extensionTypes[strings.ToLower(filepath.Ext(filename))]
	}

	switch {
	case mt == contentTypeSVG:
		return KindUnsupported
	case strings.HasPrefix(mt, imageTypePrefix):
		return KindImage
	case mt == ContentTypePDF:
		return KindPDF
	case mt == ContentTypeDOCX:
		return KindWord
	}
	return KindUnsupported
}

// DetectContentType guesses the media type of a file that arrived without one.
// The extension wins when known; otherwise the content is sniffed.
func DetectContentType(filename string, content []byte) string {
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}
	return normalizeMediaType(mimetype.Detect(content).String())
}

// normalizeMediaType strips parameters and lowercases a media type.
func normalizeMediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
