package docx

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const maxHeadingLevel = 6

// maxStyleDepth bounds basedOn chains, which may be cyclic in broken files.
const maxStyleDepth = 16

var headingName = regexp.MustCompile(`^heading\s*([1-9])$`)

type valAttr struct {
	Val string `xml:"val,attr"`
}

type numPrXML struct {
	NumID *valAttr `xml:"numId"`
	Ilvl  *valAttr `xml:"ilvl"`
}

type styleXML struct {
	Type    string  `xml:"type,attr"`
	ID      string  `xml:"styleId,attr"`
	Name    valAttr `xml:"name"`
	BasedOn valAttr `xml:"basedOn"`
	PPr     struct {
		OutlineLvl *valAttr  `xml:"outlineLvl"`
		NumPr      *numPrXML `xml:"numPr"`
	} `xml:"pPr"`
}

type stylesXML struct {
	Styles []styleXML `xml:"style"`
}

// paragraphStyle is what a paragraph inherits from its named style.
type paragraphStyle struct {
	heading int
	code    bool
	numID   string
	ilvl    int
}

func (r *reader) parseStyles(data []byte) error {
	var doc stylesXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: styles: %v", ErrMalformedXML, err)
	}

	byID := make(map[string]styleXML, len(doc.Styles))
	for _, s := range doc.Styles {
		if s.Type == "" || s.Type == "paragraph" {
			byID[s.ID] = s
		}
	}
	for id := range byID {
		r.styles[id] = resolveStyle(byID, id)
	}
	return nil
}

// resolveStyle walks the basedOn chain; the nearest definition wins.
func resolveStyle(byID map[string]styleXML, id string) paragraphStyle {
	var ps paragraphStyle
	var haveHeading, haveNum bool
	for depth := 0; depth < maxStyleDepth; depth++ {
		s, ok := byID[id]
		if !ok {
			break
		}
		name := strings.ToLower(strings.TrimSpace(s.Name.Val))
		if !haveHeading {
			if lvl := headingLevel(name, s.ID); lvl > 0 {
				ps.heading, haveHeading = lvl, true
			} else if s.PPr.OutlineLvl != nil {
				if n, err := strconv.Atoi(s.PPr.OutlineLvl.Val); err == nil && n >= 0 && n < 9 {
					ps.heading, haveHeading = min(n+1, maxHeadingLevel), true
				}
			}
		}
		if !ps.code && isCodeStyle(name) {
			ps.code = true
		}
		if !haveNum && s.PPr.NumPr != nil && s.PPr.NumPr.NumID != nil {
			ps.numID, haveNum = s.PPr.NumPr.NumID.Val, true
			if s.PPr.NumPr.Ilvl != nil {
				ps.ilvl, _ = strconv.Atoi(s.PPr.NumPr.Ilvl.Val)
			}
		}
		id = s.BasedOn.Val
		if id == "" {
			break
		}
	}
	return ps
}

// headingLevel recognizes built-in heading styles by name or id.
func headingLevel(name, id string) int {
	if name == "title" {
		return 1
	}
	if m := headingName.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return min(n, maxHeadingLevel)
	}
	if m := headingName.FindStringSubmatch(strings.ToLower(id)); m != nil {
		n, _ := strconv.Atoi(m[1])
		return min(n, maxHeadingLevel)
	}
	return 0
}

func isCodeStyle(name string) bool {
	return strings.Contains(name, "code") ||
		strings.Contains(name, "preformatted") ||
		strings.Contains(name, "source")
}

type numberingXML struct {
	Abstract []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Ilvl   string  `xml:"ilvl,attr"`
			NumFmt valAttr `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID       string  `xml:"numId,attr"`
		Abstract valAttr `xml:"abstractNumId"`
	} `xml:"num"`
}

// numbering maps list instances to their per-level number formats.
type numbering struct {
	abstract map[string]string         // numId -> abstractNumId
	formats  map[string]map[int]string // abstractNumId -> ilvl -> numFmt
}

func (r *reader) parseNumbering(data []byte) error {
	var doc numberingXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: numbering: %v", ErrMalformedXML, err)
	}
	for _, a := range doc.Abstract {
		levels := make(map[int]string, len(a.Levels))
		for _, l := range a.Levels {
			n, err := strconv.Atoi(l.Ilvl)
			if err != nil {
				continue
			}
			levels[n] = l.NumFmt.Val
		}
		r.numbering.formats[a.ID] = levels
	}
	for _, n := range doc.Nums {
		r.numbering.abstract[n.ID] = n.Abstract.Val
	}
	return nil
}

// ordered reports whether the list level renders as a numbered list.
// Unknown lists default to bullets.
func (n numbering) ordered(numID string, ilvl int) bool {
	format, ok := n.formats[n.abstract[numID]][ilvl]
	if !ok {
		return false
	}
	switch format {
	case "bullet", "none", "":
		return false
	default:
		return true
	}
}
