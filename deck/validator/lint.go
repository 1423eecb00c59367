// ABOUTME: Lint rules for slide decks: canvas bounds, explicit run styling, code panel layering, and text capacity.
// ABOUTME: Provides Lint(p) for whole decks and LintSlide for a single slide before it is appended.
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/2389-research/deckforge/deck"
)

// lineHeight is the line pitch used for capacity estimates, as a multiple of the font size.
const lineHeight = 1.2

// Lint runs all lint rules on every slide of the presentation.
func Lint(p *deck.Presentation) []deck.Diagnostic {
	var diags []deck.Diagnostic
	if p.Len() == 0 {
		diags = append(diags, deck.Diagnostic{
			Severity: "warning",
			Message:  "presentation has no slides",
			Rule:     "empty_deck",
		})
	}
	for i, s := range p.Slides() {
		diags = append(diags, LintSlide(p.Canvas(), s, i+1)...)
	}
	return diags
}

// LintSlide runs all per-slide rules. index is the 1-based position used in messages.
func LintSlide(canvas deck.Size, s *deck.Slide, index int) []deck.Diagnostic {
	if s == nil || s.Layout == nil {
		return []deck.Diagnostic{{
			Severity: "error",
			Message:  "slide has no layout",
			Slide:    index,
			Rule:     "layout",
		}}
	}

	var diags []deck.Diagnostic
	diags = append(diags, checkBounds(canvas, s, index)...)
	diags = append(diags, checkEmptyRects(s, index)...)
	diags = append(diags, checkRunStyle(s, index)...)
	diags = append(diags, checkCodePanel(s, index)...)
	diags = append(diags, checkTitle(s, index)...)
	diags = append(diags, checkCapacity(s, index)...)
	return diags
}

// Errors filters diagnostics down to errors.
func Errors(diags []deck.Diagnostic) []deck.Diagnostic {
	var out []deck.Diagnostic
	for _, d := range diags {
		if d.Severity == "error" {
			out = append(out, d)
		}
	}
	return out
}

// Join renders diagnostics one per line.
func Join(diags []deck.Diagnostic) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}

// checkBounds flags any shape whose rectangle leaves the canvas.
func checkBounds(canvas deck.Size, s *deck.Slide, index int) []deck.Diagnostic {
	var diags []deck.Diagnostic
	bounds := canvas.Bounds()
	for _, sh := range s.Shapes() {
		if !bounds.Contains(sh.Bounds()) {
			diags = append(diags, deck.Diagnostic{
				Severity: "error",
				Message:  fmt.Sprintf("shape at %s lies outside the %s canvas", sh.Bounds(), bounds),
				Slide:    index,
				Shape:    sh.ShapeName(),
				Rule:     "bounds",
			})
		}
	}
	return diags
}

// checkEmptyRects flags shapes with zero or negative area.
func checkEmptyRects(s *deck.Slide, index int) []deck.Diagnostic {
	var diags []deck.Diagnostic
	for _, sh := range s.Shapes() {
		if sh.Bounds().Empty() {
			diags = append(diags, deck.Diagnostic{
				Severity: "error",
				Message:  "shape has no area",
				Slide:    index,
				Shape:    sh.ShapeName(),
				Rule:     "empty_rect",
			})
		}
	}
	return diags
}

// checkRunStyle verifies every run carries an explicit font size.
func checkRunStyle(s *deck.Slide, index int) []deck.Diagnostic {
	var diags []deck.Diagnostic
	for _, sh := range s.Shapes() {
		tb, ok := sh.(*deck.TextBox)
		if !ok {
			continue
		}
		for pi, para := range tb.Paragraphs {
			for ri, run := range para.Runs {
				if run.Size <= 0 {
					diags = append(diags, deck.Diagnostic{
						Severity: "error",
						Message:  fmt.Sprintf("paragraph %d run %d has no font size", pi+1, ri+1),
						Slide:    index,
						Shape:    tb.Name,
						Rule:     "run_style",
					})
				}
			}
		}
	}
	return diags
}

// checkCodePanel verifies a code slide has both panel layers and the text sits on the background.
func checkCodePanel(s *deck.Slide, index int) []deck.Diagnostic {
	l, ok := s.Layout.(*deck.CodeLayout)
	if !ok {
		return nil
	}
	if l.Panel.Background == nil || l.Panel.Foreground == nil {
		return []deck.Diagnostic{{
			Severity: "error",
			Message:  "code panel needs both a background and a foreground",
			Slide:    index,
			Rule:     "code_panel",
		}}
	}
	if !l.Panel.Background.Rect.Contains(l.Panel.Foreground.Rect) {
		return []deck.Diagnostic{{
			Severity: "warning",
			Message:  "code text extends past its background panel",
			Slide:    index,
			Shape:    l.Panel.Foreground.Name,
			Rule:     "code_panel",
		}}
	}
	return nil
}

// checkTitle warns when a slide has no title text.
func checkTitle(s *deck.Slide, index int) []deck.Diagnostic {
	if strings.TrimSpace(s.TitleText()) != "" {
		return nil
	}
	return []deck.Diagnostic{{
		Severity: "warning",
		Message:  "slide has an empty title",
		Slide:    index,
		Rule:     "title",
	}}
}

// checkCapacity warns when a text box's estimated line stack is taller than the box.
// Each paragraph counts one line per embedded newline; wrapping is not modeled.
func checkCapacity(s *deck.Slide, index int) []deck.Diagnostic {
	var diags []deck.Diagnostic
	for _, sh := range s.Shapes() {
		tb, ok := sh.(*deck.TextBox)
		if !ok || len(tb.Paragraphs) == 0 {
			continue
		}
		need := estimateHeight(tb)
		if need > tb.Rect.H {
			diags = append(diags, deck.Diagnostic{
				Severity: "warning",
				Message: fmt.Sprintf("text needs about %.2fin but the box is %.2fin tall",
					need.InchesValue(), tb.Rect.H.InchesValue()),
				Slide: index,
				Shape: tb.Name,
				Rule:  "capacity",
			})
		}
	}
	return diags
}

func estimateHeight(tb *deck.TextBox) deck.EMU {
	var pts float64
	for _, p := range tb.Paragraphs {
		size := 0.0
		lines := 1
		for _, r := range p.Runs {
			size = math.Max(size, r.Size)
			lines += strings.Count(r.Text, "\n")
		}
		pts += float64(lines)*size*lineHeight + p.SpaceAfter
	}
	return deck.Points(pts)
}
