package pdfmerge

// Kind is the processing route chosen for a source file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindPDF
	KindWord
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word-document"
	default:
		return "unsupported"
	}
}

// Content types recognized by Classify.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	contentTypeOctetStream = "application/octet-stream"
	contentTypeSVG         = "image/svg+xml"
	imageTypePrefix        = "image/"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// DefaultOutputName is used when a request does not name its output.
const DefaultOutputName = "merged.pdf"

// SourceFile is one uploaded document. Content is never modified.
type SourceFile struct {
	Name        string // display name, used in errors
	ContentType string // declared media type
	Content     []byte
}

// MergeRequest lists the files to merge. Files order is the output page order.
type MergeRequest struct {
	Files  []SourceFile
	Output string // suggested filename (default: merged.pdf)
}

// Result is a finished merge.
type Result struct {
	PDF       []byte
	Filename  string
	PageCount int
	Batches   []BatchInfo
}

// BatchInfo describes what one source file contributed.
type BatchInfo struct {
	Index   int
	Name    string
	Kind    Kind
	Pages   int
	Skipped bool
}
