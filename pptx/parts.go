// ABOUTME: Package-level parts: content types, relationships, document properties, masters, layout, and theme.
// ABOUTME: Static parts are constants; parts that depend on the deck are built with strings.Builder.
package pptx

import (
	"fmt"
	"strings"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/theme"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	nsA = `http://schemas.openxmlformats.org/drawingml/2006/main`
	nsR = `http://schemas.openxmlformats.org/officeDocument/2006/relationships`
	nsP = `http://schemas.openxmlformats.org/presentationml/2006/main`

	nsDecl = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`
)

const (
	ctCore         = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp          = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctNotesMaster  = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"
	ctNotesSlide   = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
)

const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relThumbnail      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"
	relSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relPresProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relViewProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTableStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relNotesMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	relNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

// Notes page geometry on the portrait notes canvas.
var (
	notesSize        = deck.Size{W: 6858000, H: 9144000}
	notesImageRect   = deck.Rect{X: 1143000, Y: 685800, W: 4572000, H: 3429000}
	notesBodyRect    = deck.Rect{X: 685800, Y: 4343400, W: 5486400, H: 4114800}
	slideMasterID    = 2147483648
	slideLayoutID    = 2147483649
	firstSlideID     = 256
	clrMapAttributes = `bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"`
)

// rel is one relationship entry.
type rel struct {
	id     string
	typ    string
	target string
}

func relsXML(rels []rel) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, escape(r.target))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypes(parts []part) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	for _, pt := range parts {
		if pt.contentType == "" {
			continue
		}
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, pt.name, pt.contentType)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func packageRels(thumbnail bool) string {
	rels := []rel{
		{"rId1", relOfficeDocument, "ppt/presentation.xml"},
		{"rId2", relCoreProps, "docProps/core.xml"},
		{"rId3", relExtendedProps, "docProps/app.xml"},
	}
	if thumbnail {
		rels = append(rels, rel{"rId4", relThumbnail, "docProps/thumbnail.jpeg"})
	}
	return relsXML(rels)
}

func coreProps(p *deck.Presentation, opts Options) string {
	stamp := opts.Modified.UTC().Format("2006-01-02T15:04:05Z")
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, escape(p.Title))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, escape(p.Author))
	fmt.Fprintf(&b, `<dc:identifier>urn:uuid:%s</dc:identifier>`, DeckID(p.Title))
	fmt.Fprintf(&b, `<cp:lastModifiedBy>%s</cp:lastModifiedBy>`, escape(opts.Application))
	b.WriteString(`<cp:revision>1</cp:revision>`)
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp)
	fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp)
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func appProps(p *deck.Presentation, notes int, opts Options) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" ` +
		`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	fmt.Fprintf(&b, `<Application>%s</Application>`, escape(opts.Application))
	b.WriteString(`<PresentationFormat>Custom</PresentationFormat>`)
	fmt.Fprintf(&b, `<Slides>%d</Slides>`, p.Len())
	fmt.Fprintf(&b, `<Notes>%d</Notes>`, notes)
	b.WriteString(`<HiddenSlides>0</HiddenSlides>`)
	b.WriteString(`</Properties>`)
	return b.String()
}

func presentationXML(p *deck.Presentation, hasNotes bool) string {
	canvas := p.Canvas()
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:presentation %s saveSubsetFonts="1">`, nsDecl)
	fmt.Fprintf(&b, `<p:sldMasterIdLst><p:sldMasterId id="%d" r:id="rId1"/></p:sldMasterIdLst>`, slideMasterID)
	if hasNotes {
		b.WriteString(`<p:notesMasterIdLst><p:notesMasterId r:id="rId6"/></p:notesMasterIdLst>`)
	}
	if p.Len() > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < p.Len(); i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="%s"/>`, firstSlideID+i, slideRelID(i))
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, canvas.W, canvas.H)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, notesSize.W, notesSize.H)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

// slideRelID is the relationship ID of slide i (0-based) in presentation.xml.rels.
// rId1..rId6 are reserved for the master, theme, props, and notes master.
func slideRelID(i int) string {
	return fmt.Sprintf("rId%d", i+7)
}

func presentationRels(slides int, hasNotes bool) string {
	rels := []rel{
		{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
		{"rId2", relTheme, "theme/theme1.xml"},
		{"rId3", relPresProps, "presProps.xml"},
		{"rId4", relViewProps, "viewProps.xml"},
		{"rId5", relTableStyles, "tableStyles.xml"},
	}
	if hasNotes {
		rels = append(rels, rel{"rId6", relNotesMaster, "notesMasters/notesMaster1.xml"})
	}
	for i := 0; i < slides; i++ {
		rels = append(rels, rel{slideRelID(i), relSlide, fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	return relsXML(rels)
}

func slideRels(notesIndex int) string {
	rels := []rel{{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"}}
	if notesIndex > 0 {
		rels = append(rels, rel{"rId2", relNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", notesIndex)})
	}
	return relsXML(rels)
}

func notesSlideRels(slide int) string {
	return relsXML([]rel{
		{"rId1", relNotesMaster, "../notesMasters/notesMaster1.xml"},
		{"rId2", relSlide, fmt.Sprintf("../slides/slide%d.xml", slide)},
	})
}

var (
	slideMasterRels = relsXML([]rel{
		{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
		{"rId2", relTheme, "../theme/theme1.xml"},
	})
	slideLayoutRels = relsXML([]rel{{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"}})
	notesMasterRels = relsXML([]rel{{"rId1", relTheme, "../theme/theme2.xml"}})
)

var (
	presPropsXML   = xmlHeader + `<p:presentationPr ` + nsDecl + `/>`
	viewPropsXML   = xmlHeader + `<p:viewPr ` + nsDecl + `/>`
	tableStylesXML = xmlHeader + `<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`
)

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

var slideMasterXML = xmlHeader +
	`<p:sldMaster ` + nsDecl + `>` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMap ` + clrMapAttributes + `/>` +
	fmt.Sprintf(`<p:sldLayoutIdLst><p:sldLayoutId id="%d" r:id="rId1"/></p:sldLayoutIdLst>`, slideLayoutID) +
	`<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles>` +
	`</p:sldMaster>`

var slideLayoutXML = xmlHeader +
	`<p:sldLayout ` + nsDecl + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

func notesMasterXML(t theme.Theme) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:notesMaster %s>`, nsDecl)
	b.WriteString(`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>`)
	b.WriteString(emptyGroup)
	writeNotesPlaceholders(&b, nil, t)
	b.WriteString(`</p:spTree></p:cSld>`)
	fmt.Fprintf(&b, `<p:clrMap %s/>`, clrMapAttributes)
	fmt.Fprintf(&b, `<p:notesStyle><a:lvl1pPr marL="0" algn="l"><a:defRPr sz="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill>`+
		`<a:latin typeface="%s"/></a:defRPr></a:lvl1pPr></p:notesStyle>`, escape(t.Fonts.Body))
	b.WriteString(`</p:notesMaster>`)
	return b.String()
}

func themeXML(t theme.Theme, name string) string {
	srgb := func(c deck.RGB) string { return fmt.Sprintf(`<a:srgbClr val="%s"/>`, c.Hex()) }
	font := func(tag, typeface string) string {
		return fmt.Sprintf(`<a:%s><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:%s>`, tag, escape(typeface), tag)
	}
	solid := `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`

	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<a:theme xmlns:a="%s" name="%s"><a:themeElements>`, nsA, escape(name))

	fmt.Fprintf(&b, `<a:clrScheme name="%s">`, escape(name))
	fmt.Fprintf(&b, `<a:dk1>%s</a:dk1>`, srgb(deck.RGB{}))
	fmt.Fprintf(&b, `<a:lt1>%s</a:lt1>`, srgb(deck.RGB{R: 255, G: 255, B: 255}))
	fmt.Fprintf(&b, `<a:dk2>%s</a:dk2>`, srgb(t.Palette.Dark))
	fmt.Fprintf(&b, `<a:lt2>%s</a:lt2>`, srgb(t.Palette.Light))
	fmt.Fprintf(&b, `<a:accent1>%s</a:accent1>`, srgb(t.Palette.Primary))
	fmt.Fprintf(&b, `<a:accent2>%s</a:accent2>`, srgb(t.Palette.Dark))
	fmt.Fprintf(&b, `<a:accent3>%s</a:accent3>`, srgb(t.Palette.CodeBackground))
	fmt.Fprintf(&b, `<a:accent4>%s</a:accent4>`, srgb(t.Palette.CodeForeground))
	fmt.Fprintf(&b, `<a:accent5>%s</a:accent5>`, srgb(t.Palette.Light))
	fmt.Fprintf(&b, `<a:accent6>%s</a:accent6>`, srgb(t.Palette.Primary))
	fmt.Fprintf(&b, `<a:hlink>%s</a:hlink>`, srgb(t.Palette.Primary))
	fmt.Fprintf(&b, `<a:folHlink>%s</a:folHlink>`, srgb(t.Palette.Dark))
	b.WriteString(`</a:clrScheme>`)

	fmt.Fprintf(&b, `<a:fontScheme name="%s">%s%s</a:fontScheme>`,
		escape(name), font("majorFont", t.Fonts.Body), font("minorFont", t.Fonts.Body))

	fmt.Fprintf(&b, `<a:fmtScheme name="%s">`, escape(name))
	b.WriteString(`<a:fillStyleLst>` + solid + solid + solid + `</a:fillStyleLst>`)
	b.WriteString(`<a:lnStyleLst>`)
	for _, w := range []int{6350, 12700, 19050} {
		fmt.Fprintf(&b, `<a:ln w="%d">%s</a:ln>`, w, solid)
	}
	b.WriteString(`</a:lnStyleLst>`)
	b.WriteString(`<a:effectStyleLst>` + strings.Repeat(`<a:effectStyle><a:effectLst/></a:effectStyle>`, 3) + `</a:effectStyleLst>`)
	b.WriteString(`<a:bgFillStyleLst>` + solid + solid + solid + `</a:bgFillStyleLst>`)
	b.WriteString(`</a:fmtScheme>`)

	b.WriteString(`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`)
	return b.String()
}
