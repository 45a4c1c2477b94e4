package controller

import (
	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
)

// Label is a 2D overlay actor: a line of text with an optional progress
// fraction, drawn by the host inside its bounds.
type Label struct {
	*actor.Base
	bounds   input.Rect
	text     string
	fraction float64
}

var (
	_ Bounded        = (*Label)(nil)
	_ actor.Tintable = (*Label)(nil)
)

func NewLabel(id string, typ actor.Type, bounds input.Rect) *Label {
	return &Label{
		Base:   actor.NewBase(id, typ, actor.StatusActive, geometry.NewTransformAt(geometry.Zero, geometry.One)),
		bounds: bounds,
	}
}

func (l *Label) Bounds() input.Rect    { return l.bounds }
func (l *Label) Text() string          { return l.text }
func (l *Label) SetText(s string)      { l.text = s }
func (l *Label) Fraction() float64     { return l.fraction }
func (l *Label) SetFraction(v float64) { l.fraction = min(max(v, 0), 1) }

// Update runs the attached controllers against the label itself.
func (l *Label) Update(f frame.Frame) {
	l.UpdateControllers(f, l)
}
