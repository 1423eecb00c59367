// ABOUTME: Reads a .pptx package back into a plain summary of slides, shapes, styled runs, and notes.
// ABOUTME: Follows presentation and slide relationships, so slide order is the document's display order.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Summary is the readable content of a package.
type Summary struct {
	Slides []SlideSummary
}

// SlideSummary is one slide's shapes in render order plus its notes text.
type SlideSummary struct {
	Shapes []ShapeSummary
	Notes  string
}

// Texts returns every paragraph text on the slide, shape by shape.
func (s SlideSummary) Texts() []string {
	var out []string
	for _, sh := range s.Shapes {
		out = append(out, sh.Paragraphs...)
	}
	return out
}

// ShapeSummary is one shape. Fill is set for filled shapes; Paragraphs for text boxes.
type ShapeSummary struct {
	Name       string
	Geometry   string
	Fill       string
	X, Y, W, H int64
	Paragraphs []string
	Runs       []RunSummary
}

// RunSummary is one styled run as written.
type RunSummary struct {
	Text  string
	Size  float64
	Bold  bool
	Color string
	Font  string
}

// Inspect parses an encoded package.
func Inspect(data []byte) (*Summary, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	read := func(name string) ([]byte, error) {
		f, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("package has no part %s", name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	presRels, err := readRels(read, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}
	raw, err := read("ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	var pres xPresentation
	if err := xml.Unmarshal(raw, &pres); err != nil {
		return nil, fmt.Errorf("parse presentation.xml: %w", err)
	}

	sum := &Summary{}
	for i, sid := range pres.SlideIDs {
		target, ok := presRels[sid.RelID]
		if !ok {
			return nil, fmt.Errorf("slide %d: dangling relationship %s", i+1, sid.RelID)
		}
		slidePath := path.Join("ppt", target.target)
		ss, err := readSlide(read, slidePath)
		if err != nil {
			return nil, err
		}
		sum.Slides = append(sum.Slides, ss)
	}
	return sum, nil
}

func readSlide(read func(string) ([]byte, error), slidePath string) (SlideSummary, error) {
	raw, err := read(slidePath)
	if err != nil {
		return SlideSummary{}, err
	}
	var sld xSlide
	if err := xml.Unmarshal(raw, &sld); err != nil {
		return SlideSummary{}, fmt.Errorf("parse %s: %w", slidePath, err)
	}

	var ss SlideSummary
	for _, sp := range sld.Shapes {
		ss.Shapes = append(ss.Shapes, sp.summary())
	}

	dir, file := path.Split(slidePath)
	rels, err := readRels(read, dir+"_rels/"+file+".rels")
	if err != nil {
		return SlideSummary{}, err
	}
	for _, r := range rels {
		if r.typ != relNotesSlide {
			continue
		}
		notesPath := path.Clean(path.Join(dir, r.target))
		rawNotes, err := read(notesPath)
		if err != nil {
			return SlideSummary{}, err
		}
		var notes xNotes
		if err := xml.Unmarshal(rawNotes, &notes); err != nil {
			return SlideSummary{}, fmt.Errorf("parse %s: %w", notesPath, err)
		}
		for _, sp := range notes.Shapes {
			if sp.NvSpPr.NvPr.Ph.Type == "body" {
				ss.Notes = strings.Join(sp.summary().Paragraphs, "\n")
			}
		}
	}
	return ss, nil
}

func readRels(read func(string) ([]byte, error), name string) (map[string]rel, error) {
	raw, err := read(name)
	if err != nil {
		return nil, err
	}
	var doc xRelationships
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	out := make(map[string]rel, len(doc.Rels))
	for _, r := range doc.Rels {
		out[r.ID] = rel{id: r.ID, typ: r.Type, target: r.Target}
	}
	return out, nil
}

type xRelationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xPresentation struct {
	// Only the namespaced r:id is read; an unqualified "id,attr" tag would also match it.
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type xSlide struct {
	Shapes []xShape `xml:"cSld>spTree>sp"`
}

type xNotes struct {
	Shapes []xShape `xml:"cSld>spTree>sp"`
}

type xShape struct {
	NvSpPr struct {
		CNvPr struct {
			Name string `xml:"name,attr"`
		} `xml:"cNvPr"`
		NvPr struct {
			Ph struct {
				Type string `xml:"type,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr struct {
		Xfrm struct {
			Off struct {
				X int64 `xml:"x,attr"`
				Y int64 `xml:"y,attr"`
			} `xml:"off"`
			Ext struct {
				CX int64 `xml:"cx,attr"`
				CY int64 `xml:"cy,attr"`
			} `xml:"ext"`
		} `xml:"xfrm"`
		Geom struct {
			Prst string `xml:"prst,attr"`
		} `xml:"prstGeom"`
		Fill *xSolidFill `xml:"solidFill"`
	} `xml:"spPr"`
	TxBody *struct {
		Paragraphs []xParagraph `xml:"p"`
	} `xml:"txBody"`
}

type xSolidFill struct {
	RGB struct {
		Val string `xml:"val,attr"`
	} `xml:"srgbClr"`
}

type xParagraph struct {
	Children []xParaChild `xml:",any"`
}

type xParaChild struct {
	XMLName xml.Name
	Text    string `xml:"t"`
	RPr     struct {
		Size  string      `xml:"sz,attr"`
		Bold  string      `xml:"b,attr"`
		Fill  *xSolidFill `xml:"solidFill"`
		Latin struct {
			Typeface string `xml:"typeface,attr"`
		} `xml:"latin"`
	} `xml:"rPr"`
}

func (sp xShape) summary() ShapeSummary {
	s := ShapeSummary{
		Name:     sp.NvSpPr.CNvPr.Name,
		Geometry: sp.SpPr.Geom.Prst,
		X:        sp.SpPr.Xfrm.Off.X,
		Y:        sp.SpPr.Xfrm.Off.Y,
		W:        sp.SpPr.Xfrm.Ext.CX,
		H:        sp.SpPr.Xfrm.Ext.CY,
	}
	if sp.SpPr.Fill != nil {
		s.Fill = sp.SpPr.Fill.RGB.Val
	}
	if sp.TxBody == nil {
		return s
	}
	for _, p := range sp.TxBody.Paragraphs {
		var text strings.Builder
		hasContent := false
		for _, c := range p.Children {
			switch c.XMLName.Local {
			case "r":
				hasContent = true
				text.WriteString(c.Text)
				s.Runs = append(s.Runs, c.run())
			case "br":
				hasContent = true
				text.WriteString("\n")
			case "pPr":
				// Bullets and spacing carry no text.
				hasContent = true
			}
		}
		if hasContent {
			s.Paragraphs = append(s.Paragraphs, text.String())
		}
	}
	return s
}

func (c xParaChild) run() RunSummary {
	r := RunSummary{
		Text: c.Text,
		Bold: c.RPr.Bold == "1",
		Font: c.RPr.Latin.Typeface,
	}
	if sz, err := strconv.Atoi(c.RPr.Size); err == nil {
		r.Size = float64(sz) / 100
	}
	if c.RPr.Fill != nil {
		r.Color = c.RPr.Fill.RGB.Val
	}
	return r
}
