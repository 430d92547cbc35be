// Package pipeline turns extracted document markup into printable HTML.
//
// This package handles the stages between markup extraction and PDF printing:
//   - CommonMark to HTML conversion via Goldmark (tables, strikethrough,
//     syntax-highlighted code blocks)
//   - CSS injection, including the A4 print stylesheet
//
// PDF printing is handled separately by the root pdfmerge package using
// headless Chrome (go-rod).
package pipeline
