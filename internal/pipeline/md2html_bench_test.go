//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkPrintableHTML measures the fallback path for a converted
// word document: CommonMark to HTML, then the A4 print stylesheet.
func BenchmarkPrintableHTML(b *testing.B) {
	converter := NewGoldmarkConverter()
	injector := &CSSInjection{}
	ctx := context.Background()

	for _, pages := range []int{1, 10, 50} {
		content := wordMarkup(pages)
		b.Run(fmt.Sprintf("pages_%d", pages), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(content)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				doc, err := converter.ToHTML(ctx, content, "report.docx")
				if err != nil {
					b.Fatal(err)
				}
				_ = injector.InjectCSS(ctx, doc, PrintCSS)
			}
		})
	}
}

// BenchmarkToHTMLParallel shares one converter across goroutines, as
// concurrent merges do.
func BenchmarkToHTMLParallel(b *testing.B) {
	converter := NewGoldmarkConverter()
	content := wordMarkup(10)

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := converter.ToHTML(ctx, content, ""); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// wordMarkup approximates what the docx reader emits for a document of
// roughly the given page count: headings, paragraphs, lists and tables.
func wordMarkup(pages int) string {
	var sb strings.Builder
	for p := 1; p <= pages; p++ {
		fmt.Fprintf(&sb, "## Section %d\n\n", p)
		sb.WriteString(strings.Repeat("Quarterly figures are **final** and *audited*. ", 12))
		sb.WriteString("\n\n")
		for i := 1; i <= 4; i++ {
			fmt.Fprintf(&sb, "%d. Item %d of section %d\n", i, i, p)
		}
		sb.WriteString("\n| Region | Q1 | Q2 |\n| --- | --- | --- |\n")
		for r := 0; r < 5; r++ {
			fmt.Fprintf(&sb, "| R%d | %d | %d |\n", r, r*10, r*12)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
