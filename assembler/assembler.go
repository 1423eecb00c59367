// ABOUTME: Document assembler: holds one Presentation, appends templated slides in order, and serializes once.
// ABOUTME: WriteFile stages the artifact in a temp file and renames it so failures never leave a partial deck.
package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/deck/validator"
	"github.com/2389-research/deckforge/layout"
	"github.com/2389-research/deckforge/pptx"
	"github.com/2389-research/deckforge/theme"
	"go.uber.org/zap"
)

// Assembler accumulates slides for one deck. It is not safe for concurrent use.
type Assembler struct {
	theme     theme.Theme
	pres      *deck.Presentation
	logger    *zap.Logger
	modified  time.Time
	thumbnail bool
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTitle records the deck title in the document properties.
func WithTitle(title string) Option {
	return func(a *Assembler) { a.pres.Title = title }
}

// WithAuthor records the deck author in the document properties.
func WithAuthor(author string) Option {
	return func(a *Assembler) { a.pres.Author = author }
}

// WithTimestamp stamps the package; the default is pptx.DefaultTimestamp.
func WithTimestamp(t time.Time) Option {
	return func(a *Assembler) { a.modified = t }
}

// WithoutThumbnail skips the embedded thumbnail image.
func WithoutThumbnail() Option {
	return func(a *Assembler) { a.thumbnail = false }
}

// New validates the theme and creates an empty deck on its canvas.
func New(t theme.Theme, opts ...Option) (*Assembler, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	a := &Assembler{
		theme:     t,
		pres:      deck.NewPresentation(t.Grid.Canvas),
		logger:    zap.NewNop(),
		modified:  pptx.DefaultTimestamp,
		thumbnail: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Theme returns the theme every slide is built with.
func (a *Assembler) Theme() theme.Theme { return a.theme }

// Presentation returns the deck being assembled.
func (a *Assembler) Presentation() *deck.Presentation { return a.pres }

// Len returns the number of slides appended so far.
func (a *Assembler) Len() int { return a.pres.Len() }

// Append builds a slide of the given kind from content, checks it, and appends it.
// content is the kind's content struct (or a pointer to it) or a map[string]any.
func (a *Assembler) Append(kind deck.Kind, content any) (*deck.Slide, error) {
	s, err := layout.Build(a.theme, kind, content)
	if err != nil {
		return nil, fmt.Errorf("slide %d: %w", a.pres.Len()+1, err)
	}
	if err := a.add(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Assembler) add(s *deck.Slide) error {
	index := a.pres.Len() + 1
	diags := validator.LintSlide(a.pres.Canvas(), s, index)
	if errs := validator.Errors(diags); len(errs) > 0 {
		sentinel := deck.ErrInvariant
		for _, d := range errs {
			if d.Rule == "bounds" {
				sentinel = deck.ErrOutOfBounds
			}
		}
		return fmt.Errorf("%w: %s", sentinel, validator.Join(errs))
	}
	for _, d := range diags {
		a.logger.Warn("slide lint", zap.Int("slide", index), zap.String("rule", d.Rule), zap.String("message", d.Message))
	}
	if err := a.pres.Add(s); err != nil {
		return err
	}
	a.logger.Debug("slide appended",
		zap.Int("slide", index),
		zap.Stringer("kind", s.Kind()),
		zap.String("title", s.TitleText()),
		zap.Bool("notes", s.HasNotes()),
	)
	return nil
}

// mustAdd appends a slide produced by a template from a validated theme.
// Such slides are always in bounds; a failure here is a template bug.
func (a *Assembler) mustAdd(s *deck.Slide) *deck.Slide {
	if err := a.add(s); err != nil {
		panic(fmt.Sprintf("assembler: template produced an invalid slide: %v", err))
	}
	return s
}

// AddTitle appends a title slide.
func (a *Assembler) AddTitle(title, subtitle, footer string) *deck.Slide {
	return a.mustAdd(layout.Title(a.theme, layout.TitleContent{Title: title, Subtitle: subtitle, Footer: footer}))
}

// AddContent appends a bulleted content slide.
func (a *Assembler) AddContent(title string, bullets []string, notes string) *deck.Slide {
	return a.mustAdd(layout.Content(a.theme, layout.ContentContent{Title: title, Bullets: bullets, Notes: notes}))
}

// AddTwoColumn appends a two-column comparison slide.
func (a *Assembler) AddTwoColumn(title, leftHeading string, left []string, rightHeading string, right []string, notes string) *deck.Slide {
	return a.mustAdd(layout.TwoColumn(a.theme, layout.TwoColumnContent{
		Title:        title,
		LeftHeading:  leftHeading,
		Left:         left,
		RightHeading: rightHeading,
		Right:        right,
		Notes:        notes,
	}))
}

// AddCode appends a code slide.
func (a *Assembler) AddCode(title, code, notes string) *deck.Slide {
	return a.mustAdd(layout.Code(a.theme, layout.CodeContent{Title: title, Code: code, Notes: notes}))
}

// Serialize encodes the deck to w. With no intervening appends, repeated calls write identical bytes.
func (a *Assembler) Serialize(w io.Writer) error {
	return pptx.Encode(w, a.pres, pptx.Options{
		Theme:     a.theme,
		Thumbnail: a.thumbnail,
		Modified:  a.modified,
	})
}

// Bytes returns the serialized deck.
func (a *Assembler) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the deck to path. The deck is encoded into a temp file in the same
// directory and renamed over path only after a successful sync; the temp file is removed
// on every failure path.
func (a *Assembler) WriteFile(path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = a.Serialize(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}

	a.logger.Info("deck written", zap.String("path", path), zap.Int("slides", a.pres.Len()))
	return nil
}

// IsIOError reports whether err came from writing the artifact rather than from content.
func IsIOError(err error) bool {
	var pe *os.PathError
	var le *os.LinkError
	return errors.As(err, &pe) || errors.As(err, &le)
}
