// ABOUTME: Tests for Build dispatch and Decode of key/value content into the typed content structs.
// ABOUTME: Covers scalar coercion, mismatched kinds, unknown keys, and nil or scalar sequences.
package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/theme"
	"github.com/google/go-cmp/cmp"
)

type version struct{ major, minor int }

func (v version) String() string { return fmt.Sprintf("v%d.%d", v.major, v.minor) }

type labels map[string]string

func TestBuildAcceptsStructsAndPointers(t *testing.T) {
	th := theme.Default()
	tests := []struct {
		name    string
		kind    deck.Kind
		content any
	}{
		{"title value", deck.KindTitle, TitleContent{Title: "T"}},
		{"title pointer", deck.KindTitle, &TitleContent{Title: "T"}},
		{"content value", deck.KindContent, ContentContent{Title: "T"}},
		{"content pointer", deck.KindContent, &ContentContent{Title: "T"}},
		{"two column value", deck.KindTwoColumn, TwoColumnContent{Title: "T"}},
		{"two column pointer", deck.KindTwoColumn, &TwoColumnContent{Title: "T"}},
		{"code value", deck.KindCode, CodeContent{Title: "T"}},
		{"code pointer", deck.KindCode, &CodeContent{Title: "T"}},
		{"map", deck.KindContent, map[string]any{"title": "T"}},
		{"string map", deck.KindTitle, map[string]string{"title": "T", "subtitle": "S"}},
		{"named string map", deck.KindCode, labels{"title": "T", "code": "x := 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(th, tt.kind, tt.content)
			if err != nil {
				t.Fatalf("Build() = %v", err)
			}
			if s.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", s.Kind(), tt.kind)
			}
			if s.TitleText() != "T" {
				t.Errorf("TitleText() = %q, want T", s.TitleText())
			}
		})
	}
}

func TestBuildRejects(t *testing.T) {
	th := theme.Default()
	tests := []struct {
		name    string
		kind    deck.Kind
		content any
	}{
		{"nil", deck.KindContent, nil},
		{"nil pointer", deck.KindCode, (*CodeContent)(nil)},
		{"kind mismatch", deck.KindCode, ContentContent{Title: "T"}},
		{"wrong type", deck.KindTitle, "just a string"},
		{"unknown kind", deck.Kind(9), map[string]any{"title": "T"}},
		{"nil string map", deck.KindTitle, map[string]string(nil)},
		{"int keyed map", deck.KindTitle, map[int]string{1: "T"}},
		{"string map unknown key", deck.KindTitle, map[string]string{"title": "T", "colour": "red"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(th, tt.kind, tt.content); !errors.Is(err, deck.ErrInvalidContent) {
				t.Errorf("Build() = %v, want ErrInvalidContent", err)
			}
		})
	}
}

func TestDecodeCoercesScalars(t *testing.T) {
	got, err := Decode(deck.KindContent, map[string]any{
		"title":   42,
		"bullets": []any{"text", 42, true, 2.5, version{7, 0}},
		"notes":   false,
	})
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	want := ContentContent{
		Title:   "42",
		Bullets: []string{"text", "42", "true", "2.5", "v7.0"},
		Notes:   "false",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTwoColumn(t *testing.T) {
	got, err := Decode(deck.KindTwoColumn, map[string]any{
		"title":         "Compare",
		"left_heading":  "CSFLE",
		"left":          []string{"a", "b"},
		"right_heading": "QE",
		"right":         []int{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	want := TwoColumnContent{
		Title:        "Compare",
		LeftHeading:  "CSFLE",
		Left:         []string{"a", "b"},
		RightHeading: "QE",
		Right:        []string{"1", "2", "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		kind deck.Kind
		in   map[string]any
	}{
		{"nil map", deck.KindTitle, nil},
		{"explicit nil bullets", deck.KindContent, map[string]any{"title": "T", "bullets": nil}},
		{"scalar bullets", deck.KindContent, map[string]any{"bullets": "one"}},
		{"nil right column", deck.KindTwoColumn, map[string]any{"left": []string{"a"}, "right": nil}},
		{"unknown key", deck.KindCode, map[string]any{"title": "T", "language": "go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.kind, tt.in); !errors.Is(err, deck.ErrInvalidContent) {
				t.Errorf("Decode() = %v, want ErrInvalidContent", err)
			}
		})
	}
}

func TestDecodeMissingSequenceIsEmpty(t *testing.T) {
	got, err := Decode(deck.KindContent, map[string]any{"title": "Only a title"})
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	c := got.(ContentContent)
	if len(c.Bullets) != 0 {
		t.Errorf("bullets = %v, want none", c.Bullets)
	}
}

func TestTexts(t *testing.T) {
	got := Texts("a", 1, true, version{4, 2}, nil)
	want := []string{"a", "1", "true", "v4.2", "<nil>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Texts() mismatch (-want +got):\n%s", diff)
	}
}
