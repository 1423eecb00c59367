// ABOUTME: Document model for a slide deck: Presentation, Slide, tagged layouts, shapes, and text runs.
// ABOUTME: Slides carry an explicit Kind through their Layout variant; Shapes() flattens it into render order.
package deck

import (
	"fmt"
	"strings"
)

// Kind identifies which template produced a slide.
type Kind int

const (
	KindTitle Kind = iota
	KindContent
	KindTwoColumn
	KindCode
)

var kindNames = [...]string{
	KindTitle:     "title",
	KindContent:   "content",
	KindTwoColumn: "two_column",
	KindCode:      "code",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name ("title", "content", "two_column", "code") to a Kind.
func ParseKind(s string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, name := range kindNames {
		if name == norm {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown slide kind %q", ErrInvalidContent, s)
}

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Anchor is vertical text anchoring inside a text box.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorMiddle
	AnchorBottom
)

// TextRun is one styled span of text. Size and Color are always set by templates.
type TextRun struct {
	Text  string
	Size  float64 // points
	Bold  bool
	Color RGB
	Align Align
	Font  string
}

// Paragraph is an ordered list of runs rendered on its own line.
type Paragraph struct {
	Runs       []TextRun
	Bullet     bool
	SpaceAfter float64 // points
}

// Text returns the concatenated text of all runs.
func (p Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Shape is a positioned visual primitive on a slide.
type Shape interface {
	Bounds() Rect
	ShapeName() string
	shape()
}

// TextBox is a rectangle holding paragraphs of styled runs.
type TextBox struct {
	Name       string
	Rect       Rect
	Paragraphs []Paragraph
	Wrap       bool
	Anchor     Anchor
}

func (t *TextBox) Bounds() Rect      { return t.Rect }
func (t *TextBox) ShapeName() string { return t.Name }
func (t *TextBox) shape()            {}

// Texts returns the text of every paragraph in order.
func (t *TextBox) Texts() []string {
	out := make([]string, len(t.Paragraphs))
	for i, p := range t.Paragraphs {
		out[i] = p.Text()
	}
	return out
}

// Decoration is a filled rectangle with no text, used for accent rules and panel backgrounds.
type Decoration struct {
	Name    string
	Rect    Rect
	Fill    RGB
	Rounded bool
}

func (d *Decoration) Bounds() Rect      { return d.Rect }
func (d *Decoration) ShapeName() string { return d.Name }
func (d *Decoration) shape()            {}

// Layout is the kind-specific shape set of a slide.
type Layout interface {
	Kind() Kind
	// Shapes returns the layout's shapes in render order, skipping absent ones.
	Shapes() []Shape
}

// TitleLayout is a centered hero title with optional subtitle and footer.
type TitleLayout struct {
	Title    *TextBox
	Subtitle *TextBox
	Footer   *TextBox
}

func (l *TitleLayout) Kind() Kind { return KindTitle }

func (l *TitleLayout) Shapes() []Shape {
	return collect(l.Title, l.Subtitle, l.Footer)
}

// ContentLayout is a title, an accent rule beneath it, and a bulleted body.
type ContentLayout struct {
	Title  *TextBox
	Accent *Decoration
	Body   *TextBox
}

func (l *ContentLayout) Kind() Kind { return KindContent }

func (l *ContentLayout) Shapes() []Shape {
	return collect(l.Title, l.Accent, l.Body)
}

// Column is one half of a two-column slide.
type Column struct {
	Heading *TextBox
	Body    *TextBox
}

// TwoColumnLayout is a title over two independent heading+bullets columns.
type TwoColumnLayout struct {
	Title *TextBox
	Left  Column
	Right Column
}

func (l *TwoColumnLayout) Kind() Kind { return KindTwoColumn }

func (l *TwoColumnLayout) Shapes() []Shape {
	return collect(l.Title, l.Left.Heading, l.Left.Body, l.Right.Heading, l.Right.Body)
}

// CodePanel pairs a filled background with the code text drawn over it.
type CodePanel struct {
	Background *Decoration
	Foreground *TextBox
}

// CodeLayout is a title over a code panel.
type CodeLayout struct {
	Title *TextBox
	Panel CodePanel
}

func (l *CodeLayout) Kind() Kind { return KindCode }

// Shapes always emits the panel background before its foreground text.
func (l *CodeLayout) Shapes() []Shape {
	return collect(l.Title, l.Panel.Background, l.Panel.Foreground)
}

// collect drops nil shapes, including typed nils.
func collect(shapes ...Shape) []Shape {
	out := make([]Shape, 0, len(shapes))
	for _, s := range shapes {
		switch v := s.(type) {
		case nil:
			continue
		case *TextBox:
			if v == nil {
				continue
			}
		case *Decoration:
			if v == nil {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// Slide is one page of the deck. Its shapes are fixed once appended; notes may be attached later.
type Slide struct {
	Layout Layout
	Notes  string
}

// Kind returns the kind of the slide's layout.
func (s *Slide) Kind() Kind { return s.Layout.Kind() }

// Shapes returns the slide's shapes in render order.
func (s *Slide) Shapes() []Shape {
	if s.Layout == nil {
		return nil
	}
	return s.Layout.Shapes()
}

// HasNotes reports whether speaker notes are attached.
func (s *Slide) HasNotes() bool { return s.Notes != "" }

// SetNotes attaches speaker notes verbatim, replacing any previous notes.
func (s *Slide) SetNotes(notes string) { s.Notes = notes }

// TitleText returns the text of the slide's title box, or "" if it has none.
func (s *Slide) TitleText() string {
	var tb *TextBox
	switch l := s.Layout.(type) {
	case *TitleLayout:
		tb = l.Title
	case *ContentLayout:
		tb = l.Title
	case *TwoColumnLayout:
		tb = l.Title
	case *CodeLayout:
		tb = l.Title
	}
	if tb == nil {
		return ""
	}
	return strings.Join(tb.Texts(), "\n")
}

// Diagnostic is a lint finding on a slide or shape.
type Diagnostic struct {
	Severity string // "error", "warning"
	Message  string
	Slide    int // 1-based; 0 when the finding is deck-wide
	Shape    string
	Rule     string
}

func (d Diagnostic) String() string {
	loc := "deck"
	if d.Slide > 0 {
		loc = fmt.Sprintf("slide %d", d.Slide)
	}
	if d.Shape != "" {
		loc += " " + d.Shape
	}
	return fmt.Sprintf("%s: %s [%s]", loc, d.Message, d.Rule)
}

// Presentation is an ordered, append-only slide deck on a fixed canvas.
type Presentation struct {
	Title  string
	Author string

	canvas Size
	slides []*Slide
}

// NewPresentation creates an empty deck. The canvas cannot change afterward.
func NewPresentation(canvas Size) *Presentation {
	return &Presentation{canvas: canvas}
}

// Canvas returns the canvas size.
func (p *Presentation) Canvas() Size { return p.canvas }

// Len returns the number of slides.
func (p *Presentation) Len() int { return len(p.slides) }

// Slides returns the slides in display order. The slice is a copy; the slides are shared.
func (p *Presentation) Slides() []*Slide {
	out := make([]*Slide, len(p.slides))
	copy(out, p.slides)
	return out
}

// Slide returns the slide at the 0-based index, or nil when out of range.
func (p *Presentation) Slide(i int) *Slide {
	if i < 0 || i >= len(p.slides) {
		return nil
	}
	return p.slides[i]
}

// Add appends a slide after checking every shape lies on the canvas.
func (p *Presentation) Add(s *Slide) error {
	if s == nil || s.Layout == nil {
		return ErrNilSlide
	}
	bounds := p.canvas.Bounds()
	for _, sh := range s.Shapes() {
		if !bounds.Contains(sh.Bounds()) {
			return fmt.Errorf("%w: slide %d %s at %s", ErrOutOfBounds, len(p.slides)+1, sh.ShapeName(), sh.Bounds())
		}
	}
	p.slides = append(p.slides, s)
	return nil
}
