package selection

import (
	"github.com/pstuifzand/sermonedit/internal/model"
)

// Surface is the editable host the selection is read from and written to.
type Surface interface {
	// Selection returns the live anchor and focus. A zero point means the
	// host has no selection.
	Selection() (anchor, focus model.Point)
	// SetSelection moves the live selection.
	SetSelection(anchor, focus model.Point)
	// ScrollIntoView asks the host to keep p on screen.
	ScrollIntoView(p model.Point)
}

// MemorySurface is a Surface without a screen. It keeps the last selection
// and every scroll request.
type MemorySurface struct {
	Anchor   model.Point
	Focus    model.Point
	Scrolled []model.Point
}

// NewMemorySurface returns a surface with a caret at p.
func NewMemorySurface(p model.Point) *MemorySurface {
	return &MemorySurface{Anchor: p, Focus: p}
}

func (s *MemorySurface) Selection() (model.Point, model.Point) {
	return s.Anchor, s.Focus
}

func (s *MemorySurface) SetSelection(anchor, focus model.Point) {
	s.Anchor = anchor
	s.Focus = focus
}

func (s *MemorySurface) ScrollIntoView(p model.Point) {
	s.Scrolled = append(s.Scrolled, p)
}

// Caret moves the caret of the surface to p.
func (s *MemorySurface) Caret(p model.Point) {
	s.SetSelection(p, p)
}
