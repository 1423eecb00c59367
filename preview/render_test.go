// ABOUTME: Tests for slide rasterization, thumbnails, and PNG preview output.
// ABOUTME: Samples pixels at known grid positions rather than comparing whole images.
package preview

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/layout"
	"github.com/2389-research/deckforge/theme"
)

func codeDeck(t *testing.T) *deck.Presentation {
	t.Helper()
	th := theme.Default()
	p := deck.NewPresentation(th.Grid.Canvas)
	slides := []*deck.Slide{
		layout.Code(th, layout.CodeContent{Title: "Config", Code: "x := 1"}),
		layout.Content(th, layout.ContentContent{Title: "Agenda", Bullets: []string{"A"}}),
	}
	for _, s := range slides {
		if err := p.Add(s); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestRenderSize(t *testing.T) {
	img, err := Render(codeDeck(t), 0, 800)
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("bounds = %v, want 800x600", b)
	}
}

func TestRenderFillsDecorations(t *testing.T) {
	img, err := Render(codeDeck(t), 0, 1000)
	if err != nil {
		t.Fatal(err)
	}
	// 1000px across 10in gives 100px per inch; the panel spans 0.5in..9.5in by 1.3in..6.3in.
	want := color.RGBA{R: 30, G: 30, B: 30, A: 255}
	if got := img.RGBAAt(60, 620); got != want {
		t.Errorf("panel corner pixel = %v, want %v", got, want)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.RGBAAt(10, 700); got != white {
		t.Errorf("margin pixel = %v, want white", got)
	}
}

func TestRenderOutOfRange(t *testing.T) {
	if _, err := Render(codeDeck(t), 5, 100); err == nil {
		t.Error("expected an error for a missing slide")
	}
}

func TestThumbnailOfEmptyDeck(t *testing.T) {
	p := deck.NewPresentation(theme.Default().Grid.Canvas)
	img, err := Thumbnail(p, 200)
	if err != nil {
		t.Fatalf("Thumbnail() = %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 150 {
		t.Errorf("thumbnail bounds = %v, want 200x150", img.Bounds())
	}
}

func TestThumbnailJPEG(t *testing.T) {
	data, err := ThumbnailJPEG(codeDeck(t), 256)
	if err != nil {
		t.Fatalf("ThumbnailJPEG() = %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a JPEG: %v", err)
	}
	if cfg.Width != 256 || cfg.Height != 192 {
		t.Errorf("thumbnail = %dx%d, want 256x192", cfg.Width, cfg.Height)
	}
}

func TestWritePNGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")
	paths, err := WritePNGs(codeDeck(t), dir, 320)
	if err != nil {
		t.Fatalf("WritePNGs() = %v", err)
	}
	want := []string{filepath.Join(dir, "slide-01.png"), filepath.Join(dir, "slide-02.png")}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path %d = %s, want %s", i, paths[i], p)
		}
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}
