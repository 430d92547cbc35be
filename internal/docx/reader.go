package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockListItem
	blockCode
	blockTable
)

// block is one top-level element of the rendered document.
type block struct {
	kind    blockKind
	level   int // heading level or list depth
	ordered bool
	text    string
	rows    [][]string
}

type format struct {
	bold, italic, strike bool
}

// segment is a run of text sharing formatting and link target.
type segment struct {
	text   string
	format format
	link   string
}

type paragraph struct {
	style  string
	numID  string
	ilvl   int
	hasNum bool
	segs   []segment
}

func (p *paragraph) add(text string, f format, link string) {
	if text == "" {
		return
	}
	if n := len(p.segs); n > 0 && p.segs[n-1].format == f && p.segs[n-1].link == link {
		p.segs[n-1].text += text
		return
	}
	p.segs = append(p.segs, segment{text: text, format: f, link: link})
}

type table struct {
	rows [][]string
}

func (t *table) appendCell(text string) {
	if len(t.rows) == 0 {
		t.rows = append(t.rows, nil)
	}
	row := t.rows[len(t.rows)-1]
	if len(row) == 0 {
		return
	}
	if row[len(row)-1] == "" {
		row[len(row)-1] = text
	} else {
		row[len(row)-1] += " " + text
	}
}

func (t *table) flatten() string {
	var cells []string
	for _, row := range t.rows {
		for _, c := range row {
			if c != "" {
				cells = append(cells, c)
			}
		}
	}
	return strings.Join(cells, " ")
}

// reader holds the package-wide state needed to interpret document.xml.
type reader struct {
	styles    map[string]paragraphStyle
	numbering numbering
	links     map[string]string
}

// skipped elements never contribute text.
var skipped = map[string]bool{
	"drawing":           true,
	"pict":              true,
	"object":            true,
	"Fallback":          true,
	"instrText":         true,
	"delText":           true,
	"del":               true,
	"moveFrom":          true,
	"sectPr":            true,
	"footnoteReference": true,
	"endnoteReference":  true,
	"commentReference":  true,
}

func (r *reader) parseDocument(data []byte) ([]block, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		blocks   []block
		tables   []*table
		para     *paragraph
		run      format
		inRun    bool
		inRunPr  bool
		inText   bool
		link     string
		linkSeen int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document: %v", ErrMalformedXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipped[t.Name.Local] {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("%w: document: %v", ErrMalformedXML, err)
				}
				continue
			}
			switch t.Name.Local {
			case "p":
				para = &paragraph{}
			case "pStyle":
				if para != nil {
					para.style = attr(t, "val")
				}
			case "numId":
				if para != nil {
					para.numID, para.hasNum = attr(t, "val"), true
				}
			case "ilvl":
				if para != nil {
					para.ilvl, _ = strconv.Atoi(attr(t, "val"))
				}
			case "r":
				run, inRun = format{}, true
			case "rPr":
				inRunPr = inRun
			case "b":
				if inRunPr {
					run.bold = toggleOn(t)
				}
			case "i":
				if inRunPr {
					run.italic = toggleOn(t)
				}
			case "strike", "dstrike":
				if inRunPr {
					run.strike = toggleOn(t)
				}
			case "t":
				inText = inRun
			case "tab":
				if inRun && para != nil {
					para.add("\t", run, link)
				}
			case "br", "cr":
				if inRun && para != nil && attr(t, "type") != "page" {
					para.add("\n", run, link)
				}
			case "noBreakHyphen":
				if inRun && para != nil {
					para.add("-", run, link)
				}
			case "hyperlink":
				linkSeen++
				if linkSeen == 1 {
					link = r.links[attr(t, "id")]
				}
			case "tbl":
				tables = append(tables, &table{})
			case "tr":
				if n := len(tables); n > 0 {
					tables[n-1].rows = append(tables[n-1].rows, nil)
				}
			case "tc":
				if n := len(tables); n > 0 {
					tb := tables[n-1]
					if len(tb.rows) == 0 {
						tb.rows = append(tb.rows, nil)
					}
					last := len(tb.rows) - 1
					tb.rows[last] = append(tb.rows[last], "")
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if para == nil {
					continue
				}
				if n := len(tables); n > 0 {
					text := strings.TrimSpace(renderInline(para.segs))
					if text != "" {
						tables[n-1].appendCell(strings.ReplaceAll(text, "\n", " "))
					}
				} else if b, ok := r.paragraphBlock(para); ok {
					blocks = append(blocks, b)
				}
				para = nil
			case "r":
				inRun, inRunPr, inText = false, false, false
			case "rPr":
				inRunPr = false
			case "t":
				inText = false
			case "hyperlink":
				linkSeen--
				if linkSeen <= 0 {
					link, linkSeen = "", 0
				}
			case "tbl":
				n := len(tables)
				if n == 0 {
					continue
				}
				done := tables[n-1]
				tables = tables[:n-1]
				if len(tables) > 0 {
					if text := done.flatten(); text != "" {
						tables[len(tables)-1].appendCell(text)
					}
				} else if len(done.rows) > 0 {
					blocks = append(blocks, block{kind: blockTable, rows: done.rows})
				}
			}

		case xml.CharData:
			if inText && para != nil {
				para.add(string(t), run, link)
			}
		}
	}
	return blocks, nil
}

// paragraphBlock classifies a finished body paragraph.
func (r *reader) paragraphBlock(p *paragraph) (block, bool) {
	st := r.styles[p.style]
	if st.heading == 0 && st.numID == "" {
		st.heading = headingLevel("", p.style)
	}

	if st.code {
		return block{kind: blockCode, text: plainText(p.segs)}, true
	}

	text := strings.TrimSpace(renderInline(p.segs))
	if text == "" {
		return block{}, false
	}

	if st.heading > 0 {
		return block{kind: blockHeading, level: st.heading, text: strings.ReplaceAll(text, "\n", " ")}, true
	}

	numID, ilvl := st.numID, st.ilvl
	if p.hasNum {
		numID, ilvl = p.numID, p.ilvl
	}
	if numID != "" && numID != "0" {
		return block{
			kind:    blockListItem,
			level:   max(ilvl, 0),
			ordered: r.numbering.ordered(numID, ilvl),
			text:    text,
		}, true
	}

	return block{kind: blockParagraph, text: text}, true
}

// attr returns the value of the attribute with the given local name.
func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off property such as <w:b/> or <w:b w:val="0"/>.
func toggleOn(e xml.StartElement) bool {
	switch attr(e, "val") {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}
