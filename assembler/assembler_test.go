// ABOUTME: Tests for the document assembler: ordered appends, content errors, serialization, and file output.
// ABOUTME: End-to-end cases read the written package back with pptx.Inspect.
package assembler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/layout"
	"github.com/2389-research/deckforge/pptx"
	"github.com/2389-research/deckforge/theme"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newAssembler(t *testing.T, opts ...Option) *Assembler {
	t.Helper()
	a, err := New(theme.Default(), opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return a
}

func inspect(t *testing.T, a *Assembler) *pptx.Summary {
	t.Helper()
	data, err := a.Bytes()
	if err != nil {
		t.Fatalf("Bytes() = %v", err)
	}
	sum, err := pptx.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() = %v", err)
	}
	return sum
}

func TestNewRejectsInvalidTheme(t *testing.T) {
	th := theme.Default()
	th.Sizes.Bullet = 0
	if _, err := New(th); !errors.Is(err, deck.ErrInvalidTheme) {
		t.Errorf("New() = %v, want ErrInvalidTheme", err)
	}
}

func TestAppendKeepsOrder(t *testing.T) {
	a := newAssembler(t)
	titles := []string{"One", "Two", "Three", "Four"}
	kinds := []deck.Kind{deck.KindTitle, deck.KindContent, deck.KindTwoColumn, deck.KindCode}
	for i, title := range titles {
		if _, err := a.Append(kinds[i], map[string]any{"title": title}); err != nil {
			t.Fatalf("Append(%s) = %v", title, err)
		}
	}
	if a.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", a.Len())
	}
	for i, s := range a.Presentation().Slides() {
		if s.TitleText() != titles[i] || s.Kind() != kinds[i] {
			t.Errorf("slide %d = %s %q, want %s %q", i+1, s.Kind(), s.TitleText(), kinds[i], titles[i])
		}
	}
}

func TestAppendReturnsSlideForNotes(t *testing.T) {
	a := newAssembler(t)
	s, err := a.Append(deck.KindContent, layout.ContentContent{Title: "Agenda", Bullets: []string{"A"}})
	if err != nil {
		t.Fatal(err)
	}
	s.SetNotes("added later")
	sum := inspect(t, a)
	if sum.Slides[0].Notes != "added later" {
		t.Errorf("notes = %q, want %q", sum.Slides[0].Notes, "added later")
	}
}

func TestAppendContentErrors(t *testing.T) {
	a := newAssembler(t)
	tests := []struct {
		name    string
		kind    deck.Kind
		content any
	}{
		{"nil bullets", deck.KindContent, map[string]any{"title": "T", "bullets": nil}},
		{"mismatch", deck.KindCode, layout.TitleContent{Title: "T"}},
		{"nil content", deck.KindTitle, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Append(tt.kind, tt.content); !errors.Is(err, deck.ErrInvalidContent) {
				t.Errorf("Append() = %v, want ErrInvalidContent", err)
			}
		})
	}
	if a.Len() != 0 {
		t.Errorf("failed appends must not add slides, Len() = %d", a.Len())
	}
}

func TestAddRejectsOffCanvasSlide(t *testing.T) {
	a := newAssembler(t)
	s := layout.Content(a.Theme(), layout.ContentContent{Title: "T"})
	s.Layout.(*deck.ContentLayout).Body.Rect = deck.RectIn(0.5, 1.4, 9, 9)
	if err := a.add(s); !errors.Is(err, deck.ErrOutOfBounds) {
		t.Errorf("add() = %v, want ErrOutOfBounds", err)
	}
	if a.Len() != 0 {
		t.Error("rejected slide was appended")
	}
}

func TestAddRejectsBrokenCodePanel(t *testing.T) {
	a := newAssembler(t)
	s := layout.Code(a.Theme(), layout.CodeContent{Title: "T", Code: "x"})
	s.Layout.(*deck.CodeLayout).Panel.Background = nil
	if err := a.add(s); !errors.Is(err, deck.ErrInvariant) {
		t.Errorf("add() = %v, want ErrInvariant", err)
	}
}

func TestLintWarningsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := newAssembler(t, WithLogger(zap.New(core)))
	bullets := make([]string, 20)
	for i := range bullets {
		bullets[i] = "point"
	}
	a.AddContent("Crowded", bullets, "")
	if logs.FilterField(zap.String("rule", "capacity")).Len() != 1 {
		t.Errorf("expected one capacity warning, got %v", logs.All())
	}
}

func TestTypedHelpers(t *testing.T) {
	a := newAssembler(t)
	a.AddTitle("Deck", "Sub", "")
	a.AddContent("Agenda", []string{"A", "B", "C"}, "")
	a.AddTwoColumn("Compare", "L", []string{"1", "2", "3", "4", "5"}, "R", []string{"x", "y"}, "n")
	a.AddCode("Code", "line1\nline2", "")

	sum := inspect(t, a)
	want := [][]string{
		{"Deck", "Sub"},
		{"Agenda", "A", "B", "C"},
		{"Compare", "L", "1", "2", "3", "4", "5", "R", "x", "y"},
		{"Code", "line1\nline2"},
	}
	if len(sum.Slides) != len(want) {
		t.Fatalf("got %d slides, want %d", len(sum.Slides), len(want))
	}
	for i, w := range want {
		if diff := cmp.Diff(w, sum.Slides[i].Texts()); diff != "" {
			t.Errorf("slide %d mismatch (-want +got):\n%s", i+1, diff)
		}
	}
	if sum.Slides[2].Notes != "n" || sum.Slides[0].Notes != "" {
		t.Errorf("notes = %q, %q", sum.Slides[0].Notes, sum.Slides[2].Notes)
	}
}

func TestSerializeIdempotent(t *testing.T) {
	a := newAssembler(t, WithTitle("Deck"))
	a.AddTitle("Deck", "Sub", "")
	a.AddContent("Agenda", []string{"A"}, "notes")

	var first, second bytes.Buffer
	if err := a.Serialize(&first); err != nil {
		t.Fatal(err)
	}
	if err := a.Serialize(&second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("two serializations without appends differ")
	}

	a.AddCode("More", "x", "")
	var third bytes.Buffer
	if err := a.Serialize(&third); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first.Bytes(), third.Bytes()) {
		t.Error("serialization did not change after an append")
	}
}

func TestEmptyDeckSerializes(t *testing.T) {
	a := newAssembler(t)
	sum := inspect(t, a)
	if len(sum.Slides) != 0 {
		t.Errorf("got %d slides, want 0", len(sum.Slides))
	}
}

func TestWriteFile(t *testing.T) {
	a := newAssembler(t)
	a.AddTitle("Deck", "Sub", "")
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := a.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := a.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, want) {
		t.Error("file contents differ from Bytes()")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the deck", len(entries))
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	a := newAssembler(t)
	a.AddTitle("Deck", "", "")
	if err := a.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pptx.Inspect(data); err != nil {
		t.Errorf("overwritten file is not a valid package: %v", err)
	}
}

func TestWriteFileMissingDirectory(t *testing.T) {
	a := newAssembler(t)
	a.AddTitle("Deck", "", "")
	dir := filepath.Join(t.TempDir(), "missing")
	path := filepath.Join(dir, "deck.pptx")

	err := a.WriteFile(path)
	if err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
	if !IsIOError(err) {
		t.Errorf("IsIOError(%v) = false, want true", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should exist after a failed write")
	}
}

func TestIsIOError(t *testing.T) {
	if IsIOError(deck.ErrInvalidContent) {
		t.Error("content errors are not I/O errors")
	}
	if !IsIOError(&os.PathError{Op: "open", Path: "x", Err: os.ErrPermission}) {
		t.Error("path errors are I/O errors")
	}
}
