// Package pdfmerge combines images, PDF documents and word-processing
// documents into a single PDF, in the order the caller gives them.
//
// # Quick Start
//
//	m, err := pdfmerge.NewMerger()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	res, err := m.Merge(ctx, pdfmerge.MergeRequest{
//	    Files: []pdfmerge.SourceFile{
//	        {Name: "scan.jpg", ContentType: "image/jpeg", Content: jpg},
//	        {Name: "report.docx", ContentType: pdfmerge.ContentTypeDOCX, Content: docx},
//	        {Name: "annex.pdf", ContentType: pdfmerge.ContentTypePDF, Content: pdf},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.PDF, 0644)
//
// # Merge Pipeline
//
// Each file is classified from its declared content type (see Classify) and
// routed to one of three components:
//
//  1. Images become one A4 page, oriented after the image and centered
//     inside a 20pt margin (RenderImagePage).
//  2. PDF documents have all their pages appended unchanged (Document.AppendPDF).
//  3. Word documents are converted to PDF first (WordConverter), then appended.
//
// Files of any other type are skipped. The first failing file aborts the whole
// merge and is reported as a *FileError naming it; no partial output is returned.
//
// # Word Documents
//
// Conversion tries an ordered list of strategies and returns the first success:
//
//  1. LibreOffice in headless mode (SOFFICE_PATH, LIBREOFFICE_PATH, or soffice on PATH).
//  2. Markup extraction to HTML, printed to PDF by headless Chrome (go-rod).
//
// An earlier strategy's failure is logged and discarded; only when every
// strategy fails does the merge fail, with the last strategy's error.
//
// # Browser Requirements
//
// The fallback strategy requires Chrome/Chromium. The go-rod library downloads
// a managed Chromium on first run (~/.cache/rod/browser/) if none is found.
// Set ROD_BROWSER_BIN to pin a binary, and ROD_NO_SANDBOX=1 in containers.
package pdfmerge
