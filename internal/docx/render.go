package docx

import (
	"strings"
)

const (
	listIndent = "    "
	asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var urlEscaper = strings.NewReplacer(
	" ", "%20",
	"(", "%28",
	")", "%29",
	"<", "%3C",
	">", "%3E",
)

// render joins blocks into a CommonMark document.
func render(blocks []block) string {
	var b strings.Builder
	var prev *block

	for i := 0; i < len(blocks); i++ {
		blk := blocks[i]
		if prev != nil {
			if blk.kind == blockListItem && prev.kind == blockListItem {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}

		switch blk.kind {
		case blockHeading:
			b.WriteString(strings.Repeat("#", blk.level))
			b.WriteString(" ")
			b.WriteString(blk.text)
		case blockListItem:
			b.WriteString(strings.Repeat(listIndent, blk.level))
			if blk.ordered {
				b.WriteString("1. ")
			} else {
				b.WriteString("- ")
			}
			b.WriteString(blk.text)
		case blockCode:
			lines := []string{blk.text}
			for i+1 < len(blocks) && blocks[i+1].kind == blockCode {
				i++
				lines = append(lines, blocks[i].text)
			}
			writeFence(&b, strings.Join(lines, "\n"))
		case blockTable:
			writeTable(&b, blk.rows)
		default:
			b.WriteString(blk.text)
		}
		prev = &blocks[i]
	}

	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func writeFence(b *strings.Builder, code string) {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	b.WriteString(fence)
	b.WriteString("\n")
	b.WriteString(code)
	b.WriteString("\n")
	b.WriteString(fence)
}

// writeTable emits a GFM table; the first row becomes the header.
func writeTable(b *strings.Builder, rows [][]string) {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		cols = 1
	}

	writeRow := func(cells []string) {
		b.WriteString("|")
		for c := range cols {
			cell := ""
			if c < len(cells) {
				cell = cells[c]
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(" |")
		}
	}

	writeRow(rows[0])
	b.WriteString("\n|")
	for range cols {
		b.WriteString(" --- |")
	}
	for _, row := range rows[1:] {
		b.WriteString("\n")
		writeRow(row)
	}
}

// renderInline renders segments as inline CommonMark, grouping hyperlinks.
func renderInline(segs []segment) string {
	var b strings.Builder
	for i := 0; i < len(segs); {
		link := segs[i].link
		j := i + 1
		for j < len(segs) && segs[j].link == link {
			j++
		}
		inner := renderFormatted(segs[i:j])
		if link != "" && strings.TrimSpace(inner) != "" {
			b.WriteString("[")
			b.WriteString(inner)
			b.WriteString("](")
			b.WriteString(urlEscaper.Replace(link))
			b.WriteString(")")
		} else {
			b.WriteString(inner)
		}
		i = j
	}
	return b.String()
}

func renderFormatted(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		text := escape(s.text)
		open, closing := delimiters(s.format)
		core := strings.TrimSpace(text)
		if open == "" || core == "" {
			b.WriteString(text)
			continue
		}
		lead := text[:strings.Index(text, core)]
		trail := text[len(lead)+len(core):]
		b.WriteString(lead)
		b.WriteString(open)
		b.WriteString(core)
		b.WriteString(closing)
		b.WriteString(trail)
	}
	return b.String()
}

func delimiters(f format) (open, closing string) {
	if f.strike {
		open += "~~"
	}
	if f.bold {
		open += "**"
	}
	if f.italic {
		open += "*"
	}
	for i := len(open) - 1; i >= 0; i-- {
		closing += string(open[i])
	}
	return open, closing
}

// escape backslash-escapes every ASCII punctuation character.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune(asciiPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func plainText(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}
