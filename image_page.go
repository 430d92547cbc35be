package pdfmerge

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/go-pdf/fpdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// A4 page dimensions in points, portrait.
const (
	a4WidthPt  = 595.28
	a4HeightPt = 841.89

	// imageMarginPt is kept clear on every side of an image page.
	imageMarginPt = 20.0
)

// imageResourceName is the name the image is registered under in its page.
const imageResourceName = "page-image"

// declaredImageFormats maps image media subtypes to decoder format names.
var declaredImageFormats = map[string]string{
	"jpeg":     "jpeg",
	"jpg":      "jpeg",
	"pjpeg":    "jpeg",
	"png":      "png",
	"x-png":    "png",
	"gif":      "gif",
	"bmp":      "bmp",
	"x-bmp":    "bmp",
	"x-ms-bmp": "bmp",
	"tiff":     "tiff",
	"webp":     "webp",
}

// ImageLayout is the placement of an image on its page, in points.
// X and Y are measured from the top-left corner; the image is centered,
// so they are equal from the bottom-right corner as well.
type ImageLayout struct {
	Orientation string
	PageWidth   float64
	PageHeight  float64
	Scale       float64
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

// ComputeImageLayout fits a width x height image on an A4 page.
// Images at least as wide as tall get a landscape page. The image is scaled
// uniformly to fill the area inside the margin and centered on both axes.
func ComputeImageLayout(width, height int) ImageLayout {
	l := ImageLayout{
		Orientation: OrientationPortrait,
		PageWidth:   a4WidthPt,
		PageHeight:  a4HeightPt,
	}
	if width >= height {
		l.Orientation = OrientationLandscape
		l.PageWidth, l.PageHeight = a4HeightPt, a4WidthPt
	}

	maxWidth := l.PageWidth - 2*imageMarginPt
	maxHeight := l.PageHeight - 2*imageMarginPt
	l.Scale = min(maxWidth/float64(width), maxHeight/float64(height))

	l.Width = float64(width) * l.Scale
	l.Height = float64(height) * l.Scale
	l.X = (l.PageWidth - l.Width) / 2
	l.Y = (l.PageHeight - l.Height) / 2
	return l
}

// RenderImagePage draws an image on a single-page PDF.
// The content must decode as the declared image format; a generic or
// unknown image subtype accepts any supported raster format.
func RenderImagePage(content []byte, contentType string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if want := declaredImageFormat(contentType); want != "" && want != format {
		return nil, fmt.Errorf("%w: declared %s, content is %s", ErrDecode, want, format)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	data, imageType, err := embeddableImage(content, img, format)
	if err != nil {
		return nil, err
	}

	layout := ComputeImageLayout(bounds.Dx(), bounds.Dy())

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(imageResourceName, opts, bytes.NewReader(data))
	pdf.ImageOptions(imageResourceName, layout.X, layout.Y, layout.Width, layout.Height, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return buf.Bytes(), nil
}

// embeddableImage returns image bytes the PDF writer can embed.
// JPEG is embedded as-is; everything else is re-encoded as 8-bit PNG,
// since the writer rejects 16-bit and interlaced PNG.
func embeddableImage(content []byte, img image.Image, format string) ([]byte, string, error) {
	if format == "jpeg" {
		return content, "JPG", nil
	}

	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, "", fmt.Errorf("%w: re-encoding %s: %v", ErrUnsupportedImage, format, err)
	}
	return buf.Bytes(), "PNG", nil
}

// declaredImageFormat returns the decoder format named by an image media type,
// or "" when the subtype is generic or unknown.
func declaredImageFormat(contentType string) string {
	mt := normalizeMediaType(contentType)
	subtype, ok := strings.CutPrefix(mt, imageTypePrefix)
	if !ok {
		return ""
	}
	return declaredImageFormats[subtype]
}
