// ABOUTME: Theme value threaded into every slide template: palette, fonts, type sizes, and the geometry grid.
// ABOUTME: Default returns a fresh copy each call so callers and tests never share mutable style state.
package theme

import (
	"fmt"

	"github.com/2389-research/deckforge/deck"
)

// Palette holds the deck colors.
type Palette struct {
	Primary        deck.RGB `yaml:"primary"`
	Dark           deck.RGB `yaml:"dark"`
	Light          deck.RGB `yaml:"light"`
	CodeBackground deck.RGB `yaml:"code_background"`
	CodeForeground deck.RGB `yaml:"code_foreground"`
}

// Fonts names the typefaces used for body text and code.
type Fonts struct {
	Body string `yaml:"body"`
	Mono string `yaml:"mono"`
}

// Sizes are font sizes in points.
type Sizes struct {
	Hero          float64 `yaml:"hero"`
	Subtitle      float64 `yaml:"subtitle"`
	Footer        float64 `yaml:"footer"`
	SlideTitle    float64 `yaml:"slide_title"`
	Bullet        float64 `yaml:"bullet"`
	ColumnHeading float64 `yaml:"column_heading"`
	ColumnBullet  float64 `yaml:"column_bullet"`
	Code          float64 `yaml:"code"`
}

// Spacing is paragraph spacing after bullets, in points.
type Spacing struct {
	Bullet       float64 `yaml:"bullet"`
	ColumnBullet float64 `yaml:"column_bullet"`
}

// Grid is the fixed canvas and the named rectangles templates place shapes into.
type Grid struct {
	Canvas deck.Size

	HeroTitle deck.Rect
	Subtitle  deck.Rect
	Footer    deck.Rect

	TitleBand deck.Rect
	Accent    deck.Rect
	Body      deck.Rect

	LeftHeading  deck.Rect
	LeftBody     deck.Rect
	RightHeading deck.Rect
	RightBody    deck.Rect

	CodePanel deck.Rect
	CodeText  deck.Rect
}

// Named returns the grid rectangles keyed by name, in a stable order.
func (g Grid) Named() []NamedRect {
	return []NamedRect{
		{"hero_title", g.HeroTitle},
		{"subtitle", g.Subtitle},
		{"footer", g.Footer},
		{"title_band", g.TitleBand},
		{"accent", g.Accent},
		{"body", g.Body},
		{"left_heading", g.LeftHeading},
		{"left_body", g.LeftBody},
		{"right_heading", g.RightHeading},
		{"right_body", g.RightBody},
		{"code_panel", g.CodePanel},
		{"code_text", g.CodeText},
	}
}

// NamedRect is a grid rectangle with its name.
type NamedRect struct {
	Name string
	Rect deck.Rect
}

// Theme is the complete styling configuration for one deck.
type Theme struct {
	Name    string
	Palette Palette
	Fonts   Fonts
	Sizes   Sizes
	Spacing Spacing
	Grid    Grid
}

const (
	canvasWidthIn  = 10.0
	canvasHeightIn = 7.5
	marginIn       = 0.5
	gutterIn       = 0.4
	codeInsetIn    = 0.2
)

// Default returns the MongoDB-branded theme on a 10in x 7.5in canvas.
func Default() Theme {
	return Theme{
		Name: "mongodb",
		Palette: Palette{
			Primary:        deck.RGB{R: 0, G: 104, B: 74},
			Dark:           deck.RGB{R: 33, G: 49, B: 60},
			Light:          deck.RGB{R: 249, G: 251, B: 250},
			CodeBackground: deck.RGB{R: 30, G: 30, B: 30},
			CodeForeground: deck.RGB{R: 220, G: 220, B: 220},
		},
		Fonts: Fonts{Body: "Calibri", Mono: "Consolas"},
		Sizes: Sizes{
			Hero:          44,
			Subtitle:      28,
			Footer:        14,
			SlideTitle:    32,
			Bullet:        20,
			ColumnHeading: 22,
			ColumnBullet:  16,
			Code:          12,
		},
		Spacing: Spacing{Bullet: 12, ColumnBullet: 8},
		Grid:    DefaultGrid(),
	}
}

// DefaultGrid lays out the named rectangles on a 10in x 7.5in canvas.
func DefaultGrid() Grid {
	contentW := canvasWidthIn - 2*marginIn
	colW := (contentW - gutterIn) / 2
	rightX := marginIn + colW + gutterIn
	panel := deck.RectIn(marginIn, 1.3, contentW, 5)

	return Grid{
		Canvas: deck.Size{W: deck.Inches(canvasWidthIn), H: deck.Inches(canvasHeightIn)},

		HeroTitle: deck.RectIn(marginIn, 2.2, contentW, 1.5),
		Subtitle:  deck.RectIn(marginIn, 3.8, contentW, 1),
		Footer:    deck.RectIn(marginIn, 6.5, contentW, 0.5),

		TitleBand: deck.RectIn(marginIn, 0.3, contentW, 1),
		Accent:    deck.RectIn(marginIn, 1.1, 2, 0.05),
		Body:      deck.RectIn(marginIn, 1.4, contentW, 5),

		LeftHeading:  deck.RectIn(marginIn, 1.3, colW, 0.5),
		LeftBody:     deck.RectIn(marginIn, 1.9, colW, 4.5),
		RightHeading: deck.RectIn(rightX, 1.3, colW, 0.5),
		RightBody:    deck.RectIn(rightX, 1.9, colW, 4.5),

		CodePanel: panel,
		CodeText:  panel.Inset(deck.Inches(codeInsetIn)),
	}
}

// Validate checks sizes are positive, fonts are named, and every grid rectangle lies on the canvas.
func (t Theme) Validate() error {
	if t.Grid.Canvas.W <= 0 || t.Grid.Canvas.H <= 0 {
		return fmt.Errorf("%w: canvas must have positive size", deck.ErrInvalidTheme)
	}
	sizes := map[string]float64{
		"hero":           t.Sizes.Hero,
		"subtitle":       t.Sizes.Subtitle,
		"footer":         t.Sizes.Footer,
		"slide_title":    t.Sizes.SlideTitle,
		"bullet":         t.Sizes.Bullet,
		"column_heading": t.Sizes.ColumnHeading,
		"column_bullet":  t.Sizes.ColumnBullet,
		"code":           t.Sizes.Code,
	}
	for _, name := range sortedKeys(sizes) {
		if sizes[name] <= 0 {
			return fmt.Errorf("%w: size %s must be positive, got %v", deck.ErrInvalidTheme, name, sizes[name])
		}
	}
	if t.Fonts.Body == "" || t.Fonts.Mono == "" {
		return fmt.Errorf("%w: body and mono fonts must be named", deck.ErrInvalidTheme)
	}
	bounds := t.Grid.Canvas.Bounds()
	for _, nr := range t.Grid.Named() {
		if nr.Rect.Empty() {
			return fmt.Errorf("%w: grid rect %s has no area", deck.ErrInvalidTheme, nr.Name)
		}
		if !bounds.Contains(nr.Rect) {
			return fmt.Errorf("%w: grid rect %s at %s", deck.ErrOutOfBounds, nr.Name, nr.Rect)
		}
	}
	return nil
}
