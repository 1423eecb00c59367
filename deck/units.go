// ABOUTME: Physical units, rectangles, and RGB colors for the slide canvas coordinate space.
// ABOUTME: All positions are English Metric Units (EMU); helpers convert from inches and points.
package deck

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EMU is an English Metric Unit, the native length unit of presentation documents.
type EMU int64

const (
	// EMUPerInch is the number of EMU in one inch.
	EMUPerInch EMU = 914400
	// EMUPerPoint is the number of EMU in one typographic point.
	EMUPerPoint EMU = 12700
)

// Inches converts a length in inches to EMU, rounding to the nearest unit.
func Inches(in float64) EMU {
	return EMU(math.Round(in * float64(EMUPerInch)))
}

// Points converts a length in points to EMU, rounding to the nearest unit.
func Points(pt float64) EMU {
	return EMU(math.Round(pt * float64(EMUPerPoint)))
}

// InchesValue reports the length in inches.
func (e EMU) InchesValue() float64 {
	return float64(e) / float64(EMUPerInch)
}

// Size is a width/height pair.
type Size struct {
	W EMU
	H EMU
}

// Rect is an absolute rectangle in canvas coordinates. X/Y is the top-left corner.
type Rect struct {
	X EMU
	Y EMU
	W EMU
	H EMU
}

// RectIn builds a Rect from inch values.
func RectIn(x, y, w, h float64) Rect {
	return Rect{X: Inches(x), Y: Inches(y), W: Inches(w), H: Inches(h)}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() EMU { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() EMU { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether inner lies entirely within r. Edges may touch.
func (r Rect) Contains(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.Right() <= r.Right() && inner.Bottom() <= r.Bottom()
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d EMU) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Bounds returns the canvas as a rectangle anchored at the origin.
func (s Size) Bounds() Rect {
	return Rect{W: s.W, H: s.H}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2fin, %.2fin, %.2fin x %.2fin)",
		r.X.InchesValue(), r.Y.InchesValue(), r.W.InchesValue(), r.H.InchesValue())
}

// RGB is an opaque 24-bit color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex returns the color as six uppercase hex digits without a leading '#'.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MarshalText encodes the color as "#RRGGBB".
func (c RGB) MarshalText() ([]byte, error) {
	return []byte("#" + c.Hex()), nil
}

// UnmarshalText decodes "#RRGGBB" or "RRGGBB".
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
