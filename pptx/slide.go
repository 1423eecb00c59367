// ABOUTME: Slide and notes-slide parts: shape trees, text bodies, paragraphs, and styled runs.
// ABOUTME: Code text keeps its exact characters; newlines become <a:br/> inside a single paragraph.
package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/theme"
)

// Default text-box insets, matching the presentation application's defaults.
const (
	insetX = 91440
	insetY = 45720

	bulletIndent = 285750
	bulletChar   = "•"
	bulletFont   = "Arial"
)

func slideXML(s *deck.Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sld %s>`, nsDecl)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(emptyGroup)
	for i, sh := range s.Shapes() {
		id := i + 2
		switch v := sh.(type) {
		case *deck.TextBox:
			writeTextBox(&b, id, v)
		case *deck.Decoration:
			writeDecoration(&b, id, v)
		}
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func writeXfrm(b *strings.Builder, r deck.Rect) {
	fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.X, r.Y, r.W, r.H)
}

func writeDecoration(b *strings.Builder, id int, d *deck.Decoration) {
	geom := "rect"
	if d.Rounded {
		geom = "roundRect"
	}
	b.WriteString(`<p:sp>`)
	fmt.Fprintf(b, `<p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, escape(shapeName(d.Name, id)))
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, d.Rect)
	fmt.Fprintf(b, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, geom)
	fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, d.Fill.Hex())
	b.WriteString(`<a:ln><a:noFill/></a:ln>`)
	b.WriteString(`</p:spPr>`)
	b.WriteString(`</p:sp>`)
}

func writeTextBox(b *strings.Builder, id int, tb *deck.TextBox) {
	b.WriteString(`<p:sp>`)
	fmt.Fprintf(b, `<p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, escape(shapeName(tb.Name, id)))
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, tb.Rect)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/>`)
	b.WriteString(`</p:spPr>`)
	b.WriteString(`<p:txBody>`)
	wrap := "none"
	if tb.Wrap {
		wrap = "square"
	}
	fmt.Fprintf(b, `<a:bodyPr wrap="%s" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="%s" rtlCol="0"><a:noAutofit/></a:bodyPr>`,
		wrap, insetX, insetY, insetX, insetY, anchorAttr(tb.Anchor))
	b.WriteString(`<a:lstStyle/>`)
	if len(tb.Paragraphs) == 0 {
		// A text body must hold at least one paragraph.
		b.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
	}
	for _, p := range tb.Paragraphs {
		writeParagraph(b, p)
	}
	b.WriteString(`</p:txBody>`)
	b.WriteString(`</p:sp>`)
}

func writeParagraph(b *strings.Builder, p deck.Paragraph) {
	align := deck.AlignLeft
	if len(p.Runs) > 0 {
		align = p.Runs[0].Align
	}

	b.WriteString(`<a:p>`)
	if p.Bullet {
		fmt.Fprintf(b, `<a:pPr marL="%d" indent="%d" algn="%s">`, bulletIndent, -bulletIndent, alignAttr(align))
	} else {
		fmt.Fprintf(b, `<a:pPr algn="%s">`, alignAttr(align))
	}
	if p.SpaceAfter > 0 {
		fmt.Fprintf(b, `<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, hundredths(p.SpaceAfter))
	}
	if p.Bullet {
		fmt.Fprintf(b, `<a:buFont typeface="%s"/><a:buChar char="%s"/>`, bulletFont, bulletChar)
	} else {
		b.WriteString(`<a:buNone/>`)
	}
	b.WriteString(`</a:pPr>`)

	var last *deck.TextRun
	for i := range p.Runs {
		run := p.Runs[i]
		lines := strings.Split(run.Text, "\n")
		for li, line := range lines {
			if li > 0 {
				fmt.Fprintf(b, `<a:br>%s</a:br>`, runProps("a:rPr", run))
			}
			if line == "" {
				continue
			}
			fmt.Fprintf(b, `<a:r>%s<a:t>%s</a:t></a:r>`, runProps("a:rPr", run), escape(line))
		}
		last = &p.Runs[i]
	}
	if last != nil {
		b.WriteString(runProps("a:endParaRPr", *last))
	}
	b.WriteString(`</a:p>`)
}

// runProps renders the explicit character properties of a run under the given element name.
func runProps(elem string, r deck.TextRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s lang="en-US" sz="%d"`, elem, hundredths(r.Size))
	if r.Bold {
		b.WriteString(` b="1"`)
	} else {
		b.WriteString(` b="0"`)
	}
	b.WriteString(` dirty="0">`)
	fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, r.Color.Hex())
	if r.Font != "" {
		fmt.Fprintf(&b, `<a:latin typeface="%s"/><a:cs typeface="%s"/>`, escape(r.Font), escape(r.Font))
	}
	fmt.Fprintf(&b, `</%s>`, elem)
	return b.String()
}

func notesSlideXML(s *deck.Slide, t theme.Theme) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:notes %s>`, nsDecl)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(emptyGroup)
	writeNotesPlaceholders(&b, s, t)
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:notes>`)
	return b.String()
}

// writeNotesPlaceholders writes the slide image and notes body placeholders.
// A nil slide writes the empty master versions.
func writeNotesPlaceholders(b *strings.Builder, s *deck.Slide, t theme.Theme) {
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1" noRot="1" noChangeAspect="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph type="sldImg" idx="2"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, notesImageRect)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr></p:sp>`)

	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph type="body" sz="quarter" idx="3"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, notesBodyRect)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	if s == nil || !s.HasNotes() {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
	} else {
		run := deck.TextRun{Size: 12, Color: t.Palette.Dark, Font: t.Fonts.Body}
		for _, line := range strings.Split(s.Notes, "\n") {
			run.Text = line
			writeParagraph(b, deck.Paragraph{Runs: []deck.TextRun{run}})
		}
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func shapeName(name string, id int) string {
	if name == "" {
		return fmt.Sprintf("Shape %d", id)
	}
	return fmt.Sprintf("%s %d", name, id)
}

func alignAttr(a deck.Align) string {
	switch a {
	case deck.AlignCenter:
		return "ctr"
	case deck.AlignRight:
		return "r"
	default:
		return "l"
	}
}

func anchorAttr(a deck.Anchor) string {
	switch a {
	case deck.AnchorMiddle:
		return "ctr"
	case deck.AnchorBottom:
		return "b"
	default:
		return "t"
	}
}

// hundredths converts points to the 1/100 pt integers used by sz and spcPts.
func hundredths(pt float64) int {
	return int(pt*100 + 0.5)
}

// escape returns s with XML special characters escaped.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
