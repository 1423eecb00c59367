// ABOUTME: Rasterizes slides into wireframe previews: filled decorations plus bitmap-font text in run colors.
// ABOUTME: ThumbnailJPEG renders the first slide and downsizes it with nfnt/resize for the package thumbnail.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/deckforge/deck"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderWidth is the working width slides are drawn at before any downsizing.
const RenderWidth = 960

// JPEGQuality is the quality used for thumbnails.
const JPEGQuality = 85

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// renderer draws onto one RGBA canvas at a fixed EMU-to-pixel scale.
type renderer struct {
	img   *image.RGBA
	scale float64 // pixels per EMU
}

// Render draws slide index (0-based) of p at the given pixel width.
func Render(p *deck.Presentation, index, width int) (*image.RGBA, error) {
	s := p.Slide(index)
	if s == nil {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, p.Len()-1)
	}
	r := newRenderer(p.Canvas(), width)
	for _, sh := range s.Shapes() {
		switch v := sh.(type) {
		case *deck.Decoration:
			r.fill(v.Rect, v.Fill)
		case *deck.TextBox:
			r.text(v)
		}
	}
	return r.img, nil
}

func newRenderer(canvas deck.Size, width int) *renderer {
	if width <= 0 {
		width = RenderWidth
	}
	scale := float64(width) / float64(canvas.W)
	height := int(math.Round(float64(canvas.H) * scale))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	return &renderer{img: img, scale: scale}
}

func (r *renderer) px(e deck.EMU) int {
	return int(math.Round(float64(e) * r.scale))
}

func (r *renderer) rect(d deck.Rect) image.Rectangle {
	return image.Rect(r.px(d.X), r.px(d.Y), r.px(d.Right()), r.px(d.Bottom())).Intersect(r.img.Bounds())
}

func (r *renderer) fill(d deck.Rect, c deck.RGB) {
	draw.Draw(r.img, r.rect(d), image.NewUniform(rgba(c)), image.Point{}, draw.Src)
}

// text draws each paragraph line by line, clipped to the box. Wrapping is not modeled.
func (r *renderer) text(tb *deck.TextBox) {
	box := r.rect(tb.Rect)
	if box.Empty() {
		return
	}
	dst, ok := r.img.SubImage(box).(*image.RGBA)
	if !ok {
		return
	}
	face := basicfont.Face7x13
	y := box.Min.Y
	for _, p := range tb.Paragraphs {
		for _, run := range p.Runs {
			lineH := r.px(deck.Points(run.Size * 1.2))
			if lineH < face.Height {
				lineH = face.Height
			}
			for _, line := range strings.Split(run.Text, "\n") {
				if p.Bullet {
					line = "- " + line
				}
				x := box.Min.X + r.alignOffset(box, run.Align, face, line)
				d := &font.Drawer{
					Dst:  dst,
					Src:  image.NewUniform(rgba(run.Color)),
					Face: face,
					Dot:  fixed.P(x, y+face.Ascent),
				}
				d.DrawString(line)
				if run.Bold {
					d.Dot = fixed.P(x+1, y+face.Ascent)
					d.DrawString(line)
				}
				y += lineH
			}
		}
		y += r.px(deck.Points(p.SpaceAfter))
		if y > box.Max.Y {
			return
		}
	}
}

func (r *renderer) alignOffset(box image.Rectangle, a deck.Align, face *basicfont.Face, line string) int {
	w := font.MeasureString(face, line).Ceil()
	switch a {
	case deck.AlignCenter:
		return (box.Dx() - w) / 2
	case deck.AlignRight:
		return box.Dx() - w
	default:
		return 0
	}
}

func rgba(c deck.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Thumbnail renders the first slide and downsizes it to width pixels.
// An empty deck yields a blank canvas.
func Thumbnail(p *deck.Presentation, width int) (image.Image, error) {
	var img *image.RGBA
	if p.Len() == 0 {
		img = newRenderer(p.Canvas(), RenderWidth).img
	} else {
		var err error
		img, err = Render(p, 0, RenderWidth)
		if err != nil {
			return nil, err
		}
	}
	return resize.Resize(uint(width), 0, img, resize.Lanczos3), nil
}

// ThumbnailJPEG encodes Thumbnail as JPEG.
func ThumbnailJPEG(p *deck.Presentation, width int) ([]byte, error) {
	img, err := Thumbnail(p, width)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNGs renders every slide into dir as slide-NN.png and returns the paths written.
func WritePNGs(p *deck.Presentation, dir string, width int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	paths := make([]string, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		img, err := Render(p, i, width)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("slide-%02d.png", i+1))
		if err := writePNG(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
