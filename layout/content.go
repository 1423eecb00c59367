// ABOUTME: Content structs for each slide kind plus Build, which dispatches kind+content to a template.
// ABOUTME: Decode turns key/value content into the typed structs, coercing non-text values with fmt.Sprint.
package layout

import (
	"fmt"
	"reflect"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/theme"
	"github.com/go-viper/mapstructure/v2"
)

// TitleContent is the input of the title template.
type TitleContent struct {
	Title    string `mapstructure:"title"`
	Subtitle string `mapstructure:"subtitle"`
	Footer   string `mapstructure:"footer"`
}

// ContentContent is the input of the bulleted content template.
type ContentContent struct {
	Title   string   `mapstructure:"title"`
	Bullets []string `mapstructure:"bullets"`
	Notes   string   `mapstructure:"notes"`
}

// TwoColumnContent is the input of the two-column template.
type TwoColumnContent struct {
	Title        string   `mapstructure:"title"`
	LeftHeading  string   `mapstructure:"left_heading"`
	Left         []string `mapstructure:"left"`
	RightHeading string   `mapstructure:"right_heading"`
	Right        []string `mapstructure:"right"`
	Notes        string   `mapstructure:"notes"`
}

// CodeContent is the input of the code template.
type CodeContent struct {
	Title string `mapstructure:"title"`
	Code  string `mapstructure:"code"`
	Notes string `mapstructure:"notes"`
}

// sequenceKeys lists, per kind, the keys that must hold a sequence when present.
var sequenceKeys = map[deck.Kind][]string{
	deck.KindContent:   {"bullets"},
	deck.KindTwoColumn: {"left", "right"},
}

// Build runs the template for kind. content may be the matching struct, a pointer to it,
// or any map with string keys (map[string]any, map[string]string, ...) decoded with Decode.
// Mismatched or nil content is an error.
func Build(t theme.Theme, kind deck.Kind, content any) (*deck.Slide, error) {
	if m, ok := stringKeyed(content); ok {
		typed, err := Decode(kind, m)
		if err != nil {
			return nil, err
		}
		content = typed
	}

	switch c := content.(type) {
	case TitleContent:
		if kind == deck.KindTitle {
			return Title(t, c), nil
		}
	case *TitleContent:
		if kind == deck.KindTitle && c != nil {
			return Title(t, *c), nil
		}
	case ContentContent:
		if kind == deck.KindContent {
			return Content(t, c), nil
		}
	case *ContentContent:
		if kind == deck.KindContent && c != nil {
			return Content(t, *c), nil
		}
	case TwoColumnContent:
		if kind == deck.KindTwoColumn {
			return TwoColumn(t, c), nil
		}
	case *TwoColumnContent:
		if kind == deck.KindTwoColumn && c != nil {
			return TwoColumn(t, *c), nil
		}
	case CodeContent:
		if kind == deck.KindCode {
			return Code(t, c), nil
		}
	case *CodeContent:
		if kind == deck.KindCode && c != nil {
			return Code(t, *c), nil
		}
	case nil:
		return nil, fmt.Errorf("%w: nil content for %s slide", deck.ErrInvalidContent, kind)
	}
	return nil, fmt.Errorf("%w: %T cannot build a %s slide", deck.ErrInvalidContent, content, kind)
}

// stringKeyed returns content as a map[string]any when it is a map whose key kind is string.
// A nil map of such a type yields a nil map so Decode can reject it.
func stringKeyed(content any) (map[string]any, bool) {
	if m, ok := content.(map[string]any); ok {
		return m, true
	}
	v := reflect.ValueOf(content)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if v.IsNil() {
		return nil, true
	}
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Decode converts key/value content into the content struct for kind.
// Scalars and sequence elements of any type become text; unknown keys, an explicit nil
// sequence, or a scalar where a sequence is expected are rejected.
func Decode(kind deck.Kind, m map[string]any) (any, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil content for %s slide", deck.ErrInvalidContent, kind)
	}
	for _, key := range sequenceKeys[kind] {
		v, present := m[key]
		if !present {
			continue
		}
		if v == nil {
			return nil, fmt.Errorf("%w: %s slide: %q is nil, want a sequence", deck.ErrInvalidContent, kind, key)
		}
		if rk := reflect.TypeOf(v).Kind(); rk != reflect.Slice && rk != reflect.Array {
			return nil, fmt.Errorf("%w: %s slide: %q is %T, want a sequence", deck.ErrInvalidContent, kind, key, v)
		}
	}

	var out any
	switch kind {
	case deck.KindTitle:
		out = &TitleContent{}
	case deck.KindContent:
		out = &ContentContent{}
	case deck.KindTwoColumn:
		out = &TwoColumnContent{}
	case deck.KindCode:
		out = &CodeContent{}
	default:
		return nil, fmt.Errorf("%w: unknown slide kind %s", deck.ErrInvalidContent, kind)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  coerceText,
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return nil, fmt.Errorf("content decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %s slide: %v", deck.ErrInvalidContent, kind, err)
	}
	return reflect.ValueOf(out).Elem().Interface(), nil
}

// coerceText renders any non-string value bound for a string field as text.
func coerceText(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() == reflect.String {
		return data, nil
	}
	if s, ok := data.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return fmt.Sprint(data), nil
}

// Texts coerces arbitrary values to their textual form, for callers assembling bullets by hand.
func Texts(values ...any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch s := v.(type) {
		case string:
			out[i] = s
		case fmt.Stringer:
			out[i] = s.String()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
