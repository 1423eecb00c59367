// ABOUTME: Encodes a deck.Presentation as an Office Open XML presentation package (.pptx).
// ABOUTME: Output is deterministic: fixed part order, fixed timestamps, and no map iteration.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/preview"
	"github.com/2389-research/deckforge/theme"
	"github.com/google/uuid"
)

// DefaultTimestamp is used for zip entries and document properties when Options.Modified is zero.
var DefaultTimestamp = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// ThumbnailWidth is the pixel width of the embedded package thumbnail.
const ThumbnailWidth = 256

// Options controls package metadata and optional parts.
type Options struct {
	// Theme supplies the color and font scheme written to the package theme part.
	// A zero Theme means theme.Default().
	Theme theme.Theme
	// Thumbnail embeds docProps/thumbnail.jpeg rendered from the first slide.
	Thumbnail bool
	// Modified stamps zip entries and core properties. Zero means DefaultTimestamp.
	Modified time.Time
	// Application is recorded in the extended properties.
	Application string
}

// part is one file inside the package.
type part struct {
	name        string
	contentType string // empty for parts covered by a Default extension
	data        []byte
}

// Encode writes p to w as a .pptx package.
func Encode(w io.Writer, p *deck.Presentation, opts Options) error {
	if p == nil {
		return fmt.Errorf("encode: %w", deck.ErrNilSlide)
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Default()
	}
	if opts.Modified.IsZero() {
		opts.Modified = DefaultTimestamp
	}
	if opts.Application == "" {
		opts.Application = "deckforge"
	}

	parts, err := buildParts(p, opts)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, pt := range parts {
		hdr := &zip.FileHeader{
			Name:     pt.name,
			Method:   zip.Deflate,
			Modified: opts.Modified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create part %s: %w", pt.name, err)
		}
		if _, err := fw.Write(pt.data); err != nil {
			return fmt.Errorf("write part %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish package: %w", err)
	}
	return nil
}

// Bytes encodes p into memory.
func Bytes(p *deck.Presentation, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeckID returns the stable identifier recorded in the core properties.
// It is a name-based UUID so the same title always yields the same ID.
func DeckID(title string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("deckforge:deck:"+title))
}

// buildParts lays out every package part in write order. [Content_Types].xml comes first.
func buildParts(p *deck.Presentation, opts Options) ([]part, error) {
	slides := p.Slides()

	// Notes slides are numbered densely over the slides that have notes.
	notesIndex := make([]int, len(slides))
	notesCount := 0
	for i, s := range slides {
		if s.HasNotes() {
			notesCount++
			notesIndex[i] = notesCount
		}
	}

	var body []part
	add := func(name, contentType string, data string) {
		body = append(body, part{name: name, contentType: contentType, data: []byte(data)})
	}

	add("_rels/.rels", "", packageRels(opts.Thumbnail))
	add("docProps/core.xml", ctCore, coreProps(p, opts))
	add("docProps/app.xml", ctApp, appProps(p, notesCount, opts))
	if opts.Thumbnail {
		img, err := preview.ThumbnailJPEG(p, ThumbnailWidth)
		if err != nil {
			return nil, fmt.Errorf("render thumbnail: %w", err)
		}
		body = append(body, part{name: "docProps/thumbnail.jpeg", data: img})
	}

	add("ppt/presentation.xml", ctPresentation, presentationXML(p, notesCount > 0))
	add("ppt/_rels/presentation.xml.rels", "", presentationRels(len(slides), notesCount > 0))
	add("ppt/presProps.xml", ctPresProps, presPropsXML)
	add("ppt/viewProps.xml", ctViewProps, viewPropsXML)
	add("ppt/tableStyles.xml", ctTableStyles, tableStylesXML)
	add("ppt/theme/theme1.xml", ctTheme, themeXML(opts.Theme, opts.Theme.Name))
	add("ppt/slideMasters/slideMaster1.xml", ctSlideMaster, slideMasterXML)
	add("ppt/slideMasters/_rels/slideMaster1.xml.rels", "", slideMasterRels)
	add("ppt/slideLayouts/slideLayout1.xml", ctSlideLayout, slideLayoutXML)
	add("ppt/slideLayouts/_rels/slideLayout1.xml.rels", "", slideLayoutRels)
	if notesCount > 0 {
		add("ppt/theme/theme2.xml", ctTheme, themeXML(opts.Theme, opts.Theme.Name+" Notes"))
		add("ppt/notesMasters/notesMaster1.xml", ctNotesMaster, notesMasterXML(opts.Theme))
		add("ppt/notesMasters/_rels/notesMaster1.xml.rels", "", notesMasterRels)
	}

	for i, s := range slides {
		n := i + 1
		add(fmt.Sprintf("ppt/slides/slide%d.xml", n), ctSlide, slideXML(s))
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), "", slideRels(notesIndex[i]))
		if notesIndex[i] > 0 {
			k := notesIndex[i]
			add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", k), ctNotesSlide, notesSlideXML(s, opts.Theme))
			add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", k), "", notesSlideRels(n))
		}
	}

	parts := make([]part, 0, len(body)+1)
	parts = append(parts, part{name: "[Content_Types].xml", data: []byte(contentTypes(body))})
	parts = append(parts, body...)
	return parts, nil
}
