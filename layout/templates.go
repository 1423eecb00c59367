// ABOUTME: Slide templates that turn semantic content into positioned, fully styled shapes.
// ABOUTME: Title, Content, TwoColumn, and Code are pure functions of a theme and their content.
package layout

import (
	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/theme"
)

// Title builds a centered title slide. Empty subtitle or footer omits that shape.
func Title(t theme.Theme, c TitleContent) *deck.Slide {
	l := &deck.TitleLayout{
		Title: textBox("Title", t.Grid.HeroTitle, deck.AnchorMiddle, deck.TextRun{
			Text:  c.Title,
			Size:  t.Sizes.Hero,
			Bold:  true,
			Color: t.Palette.Primary,
			Align: deck.AlignCenter,
			Font:  t.Fonts.Body,
		}),
	}
	if c.Subtitle != "" {
		l.Subtitle = textBox("Subtitle", t.Grid.Subtitle, deck.AnchorTop, deck.TextRun{
			Text:  c.Subtitle,
			Size:  t.Sizes.Subtitle,
			Color: t.Palette.Dark,
			Align: deck.AlignCenter,
			Font:  t.Fonts.Body,
		})
	}
	if c.Footer != "" {
		l.Footer = textBox("Footer", t.Grid.Footer, deck.AnchorTop, deck.TextRun{
			Text:  c.Footer,
			Size:  t.Sizes.Footer,
			Color: t.Palette.Dark,
			Align: deck.AlignCenter,
			Font:  t.Fonts.Body,
		})
	}
	return &deck.Slide{Layout: l}
}

// Content builds a title, an accent rule beneath it, and one bulleted paragraph per bullet.
func Content(t theme.Theme, c ContentContent) *deck.Slide {
	l := &deck.ContentLayout{
		Title: slideTitle(t, c.Title),
		Accent: &deck.Decoration{
			Name: "Accent",
			Rect: t.Grid.Accent,
			Fill: t.Palette.Primary,
		},
		Body: bulletBox("Body", t.Grid.Body, c.Bullets, deck.TextRun{
			Size:  t.Sizes.Bullet,
			Color: t.Palette.Dark,
			Font:  t.Fonts.Body,
		}, t.Spacing.Bullet),
	}
	return &deck.Slide{Layout: l, Notes: c.Notes}
}

// TwoColumn builds a title over two independent heading+bullets columns.
func TwoColumn(t theme.Theme, c TwoColumnContent) *deck.Slide {
	l := &deck.TwoColumnLayout{
		Title: slideTitle(t, c.Title),
		Left:  column(t, "Left", t.Grid.LeftHeading, t.Grid.LeftBody, c.LeftHeading, c.Left),
		Right: column(t, "Right", t.Grid.RightHeading, t.Grid.RightBody, c.RightHeading, c.Right),
	}
	return &deck.Slide{Layout: l, Notes: c.Notes}
}

// Code builds a title over a dark panel holding the code verbatim in the mono font.
func Code(t theme.Theme, c CodeContent) *deck.Slide {
	l := &deck.CodeLayout{
		Title: slideTitle(t, c.Title),
		Panel: deck.CodePanel{
			Background: &deck.Decoration{
				Name:    "Code Background",
				Rect:    t.Grid.CodePanel,
				Fill:    t.Palette.CodeBackground,
				Rounded: true,
			},
			Foreground: textBox("Code", t.Grid.CodeText, deck.AnchorTop, deck.TextRun{
				Text:  c.Code,
				Size:  t.Sizes.Code,
				Color: t.Palette.CodeForeground,
				Font:  t.Fonts.Mono,
			}),
		},
	}
	return &deck.Slide{Layout: l, Notes: c.Notes}
}

func slideTitle(t theme.Theme, text string) *deck.TextBox {
	return textBox("Title", t.Grid.TitleBand, deck.AnchorTop, deck.TextRun{
		Text:  text,
		Size:  t.Sizes.SlideTitle,
		Bold:  true,
		Color: t.Palette.Primary,
		Font:  t.Fonts.Body,
	})
}

func column(t theme.Theme, side string, headingRect, bodyRect deck.Rect, heading string, bullets []string) deck.Column {
	return deck.Column{
		Heading: textBox(side+" Heading", headingRect, deck.AnchorTop, deck.TextRun{
			Text:  heading,
			Size:  t.Sizes.ColumnHeading,
			Bold:  true,
			Color: t.Palette.Primary,
			Font:  t.Fonts.Body,
		}),
		Body: bulletBox(side+" Body", bodyRect, bullets, deck.TextRun{
			Size:  t.Sizes.ColumnBullet,
			Color: t.Palette.Dark,
			Font:  t.Fonts.Body,
		}, t.Spacing.ColumnBullet),
	}
}

// textBox holds a single paragraph with one run.
func textBox(name string, r deck.Rect, anchor deck.Anchor, run deck.TextRun) *deck.TextBox {
	return &deck.TextBox{
		Name:       name,
		Rect:       r,
		Wrap:       true,
		Anchor:     anchor,
		Paragraphs: []deck.Paragraph{{Runs: []deck.TextRun{run}}},
	}
}

// bulletBox renders one bulleted paragraph per item, in order, all styled like proto.
func bulletBox(name string, r deck.Rect, items []string, proto deck.TextRun, spaceAfter float64) *deck.TextBox {
	paras := make([]deck.Paragraph, len(items))
	for i, item := range items {
		run := proto
		run.Text = item
		paras[i] = deck.Paragraph{
			Runs:       []deck.TextRun{run},
			Bullet:     true,
			SpaceAfter: spaceAfter,
		}
	}
	return &deck.TextBox{
		Name:       name,
		Rect:       r,
		Wrap:       true,
		Anchor:     deck.AnchorTop,
		Paragraphs: paras,
	}
}
