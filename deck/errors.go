// ABOUTME: Sentinel errors shared by the deck model, templates, assembler, and theme loader.
// ABOUTME: Callers match them with errors.Is; wrapping sites add slide and shape context.
package deck

import "errors"

var (
	// ErrOutOfBounds indicates a shape or grid rectangle extends past the canvas.
	ErrOutOfBounds = errors.New("shape outside canvas bounds")

	// ErrInvalidContent indicates content of the wrong kind or a nil where a sequence was expected.
	ErrInvalidContent = errors.New("invalid slide content")

	// ErrInvalidTheme indicates a theme with non-positive sizes or malformed values.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrInvariant indicates a slide that breaks a structural rule, such as a code panel missing a layer.
	ErrInvariant = errors.New("slide invariant violated")

	// ErrNilSlide indicates a nil slide or a slide without a layout was appended.
	ErrNilSlide = errors.New("nil slide")
)
