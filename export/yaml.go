// ABOUTME: Exports a Presentation as a structured YAML document of slide kinds, text, and notes.
// ABOUTME: Uses gopkg.in/yaml.v3 with struct field order, so output is deterministic.
package export

import (
	"fmt"
	"strings"

	"github.com/2389-research/deckforge/deck"
	"gopkg.in/yaml.v3"
)

// YamlColumn is one side of a two-column slide.
type YamlColumn struct {
	Heading string   `yaml:"heading"`
	Bullets []string `yaml:"bullets"`
}

// YamlSlide is the serializable form of one slide.
type YamlSlide struct {
	Kind     string      `yaml:"kind"`
	Title    string      `yaml:"title"`
	Subtitle string      `yaml:"subtitle,omitempty"`
	Footer   string      `yaml:"footer,omitempty"`
	Bullets  []string    `yaml:"bullets,omitempty"`
	Left     *YamlColumn `yaml:"left,omitempty"`
	Right    *YamlColumn `yaml:"right,omitempty"`
	Code     string      `yaml:"code,omitempty"`
	Notes    string      `yaml:"notes,omitempty"`
}

// YamlDeck is the top-level serializable deck.
type YamlDeck struct {
	Title  string      `yaml:"title"`
	Author string      `yaml:"author,omitempty"`
	Canvas [2]float64  `yaml:"canvas_inches,flow"`
	Slides []YamlSlide `yaml:"slides"`
}

// Document converts the presentation into its serializable form.
func Document(p *deck.Presentation) YamlDeck {
	c := p.Canvas()
	doc := YamlDeck{
		Title:  p.Title,
		Author: p.Author,
		Canvas: [2]float64{c.W.InchesValue(), c.H.InchesValue()},
		Slides: make([]YamlSlide, 0, p.Len()),
	}
	for _, s := range p.Slides() {
		ys := YamlSlide{
			Kind:  s.Kind().String(),
			Title: s.TitleText(),
			Notes: s.Notes,
		}
		switch l := s.Layout.(type) {
		case *deck.TitleLayout:
			ys.Subtitle = joined(l.Subtitle)
			ys.Footer = joined(l.Footer)
		case *deck.ContentLayout:
			ys.Bullets = texts(l.Body)
		case *deck.TwoColumnLayout:
			ys.Left = &YamlColumn{Heading: joined(l.Left.Heading), Bullets: texts(l.Left.Body)}
			ys.Right = &YamlColumn{Heading: joined(l.Right.Heading), Bullets: texts(l.Right.Body)}
		case *deck.CodeLayout:
			ys.Code = joined(l.Panel.Foreground)
		}
		doc.Slides = append(doc.Slides, ys)
	}
	return doc
}

// YAML renders the deck as YAML.
func YAML(p *deck.Presentation) (string, error) {
	doc := Document(p)
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}

func joined(tb *deck.TextBox) string {
	if tb == nil {
		return ""
	}
	return strings.Join(tb.Texts(), "\n")
}

func texts(tb *deck.TextBox) []string {
	if tb == nil {
		return []string{}
	}
	return tb.Texts()
}
