// ABOUTME: Loads a theme from YAML, overlaying only the keys present onto Default().
// ABOUTME: Colors are "#RRGGBB" strings; grid rectangles are [x, y, w, h] in inches.
package theme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/2389-research/deckforge/deck"
	"gopkg.in/yaml.v3"
)

// themeFile is the on-disk YAML shape of a theme.
type themeFile struct {
	Name    string               `yaml:"name"`
	Palette map[string]string    `yaml:"palette"`
	Fonts   yaml.Node            `yaml:"fonts"`
	Sizes   yaml.Node            `yaml:"sizes"`
	Spacing yaml.Node            `yaml:"spacing"`
	Grid    map[string][]float64 `yaml:"grid"`
}

// Load reads a YAML theme file and validates the result.
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes YAML theme bytes over Default() and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Theme, error) {
	t := Default()

	var f themeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Theme{}, fmt.Errorf("%w: yaml: %v", deck.ErrInvalidTheme, err)
	}

	if f.Name != "" {
		t.Name = f.Name
	}
	if err := applyPalette(&t.Palette, f.Palette); err != nil {
		return Theme{}, err
	}
	if err := decodeOver(&f.Fonts, &t.Fonts); err != nil {
		return Theme{}, fmt.Errorf("%w: fonts: %v", deck.ErrInvalidTheme, err)
	}
	if err := decodeOver(&f.Sizes, &t.Sizes); err != nil {
		return Theme{}, fmt.Errorf("%w: sizes: %v", deck.ErrInvalidTheme, err)
	}
	if err := decodeOver(&f.Spacing, &t.Spacing); err != nil {
		return Theme{}, fmt.Errorf("%w: spacing: %v", deck.ErrInvalidTheme, err)
	}
	if err := applyGrid(&t.Grid, f.Grid); err != nil {
		return Theme{}, err
	}

	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// decodeOver decodes a YAML mapping node into an already populated struct, keeping absent fields.
// Node.Decode ignores KnownFields, so the node is re-encoded and decoded strictly.
func decodeOver(n *yaml.Node, out any) error {
	if n.Kind == 0 {
		return nil
	}
	raw, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func applyPalette(p *Palette, values map[string]string) error {
	slots := map[string]*deck.RGB{
		"primary":         &p.Primary,
		"dark":            &p.Dark,
		"light":           &p.Light,
		"code_background": &p.CodeBackground,
		"code_foreground": &p.CodeForeground,
	}
	for _, key := range sortedKeys(values) {
		slot, ok := slots[key]
		if !ok {
			return fmt.Errorf("%w: unknown palette color %q", deck.ErrInvalidTheme, key)
		}
		c, err := deck.ParseHex(values[key])
		if err != nil {
			return fmt.Errorf("%w: palette %s: %v", deck.ErrInvalidTheme, key, err)
		}
		*slot = c
	}
	return nil
}

func applyGrid(g *Grid, values map[string][]float64) error {
	slots := map[string]*deck.Rect{
		"hero_title":    &g.HeroTitle,
		"subtitle":      &g.Subtitle,
		"footer":        &g.Footer,
		"title_band":    &g.TitleBand,
		"accent":        &g.Accent,
		"body":          &g.Body,
		"left_heading":  &g.LeftHeading,
		"left_body":     &g.LeftBody,
		"right_heading": &g.RightHeading,
		"right_body":    &g.RightBody,
		"code_panel":    &g.CodePanel,
		"code_text":     &g.CodeText,
	}
	for _, key := range sortedKeys(values) {
		v := values[key]
		if key == "canvas" {
			if len(v) != 2 {
				return fmt.Errorf("%w: grid canvas wants [width, height], got %d values", deck.ErrInvalidTheme, len(v))
			}
			g.Canvas = deck.Size{W: deck.Inches(v[0]), H: deck.Inches(v[1])}
			continue
		}
		slot, ok := slots[key]
		if !ok {
			return fmt.Errorf("%w: unknown grid rect %q", deck.ErrInvalidTheme, key)
		}
		if len(v) != 4 {
			return fmt.Errorf("%w: grid %s wants [x, y, w, h], got %d values", deck.ErrInvalidTheme, key, len(v))
		}
		*slot = deck.RectIn(v[0], v[1], v[2], v[3])
	}
	return nil
}

// sortedKeys returns the keys of a map sorted for deterministic iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
