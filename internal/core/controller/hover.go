package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
)

// Pointer reports whether the mouse is over a screen rectangle.
type Pointer interface {
	Within(r input.Rect) bool
}

// Bounded actors occupy a screen rectangle.
type Bounded interface {
	Bounds() input.Rect
}

// MouseHoverController tints a UI actor while the pointer is over it.
// Actors that are not both Bounded and Tintable are left alone.
type MouseHoverController struct {
	Base
	Pointer   Pointer
	Highlight mgl64.Vec3
	Normal    mgl64.Vec3

	hovered bool
}

func NewMouseHoverController(id string, p Pointer, highlight mgl64.Vec3) *MouseHoverController {
	return &MouseHoverController{
		Base:      NewBase(id),
		Pointer:   p,
		Highlight: highlight,
		Normal:    actor.ColorWhite,
	}
}

func (c *MouseHoverController) Hovered() bool { return c.hovered }

func (c *MouseHoverController) Update(_ frame.Frame, a actor.Actor) {
	b, ok := a.(Bounded)
	if !ok || c.Pointer == nil {
		return
	}
	t, ok := a.(actor.Tintable)
	if !ok {
		return
	}
	c.hovered = c.Pointer.Within(b.Bounds())
	if c.hovered {
		t.Tint(c.Highlight)
	} else {
		t.Tint(c.Normal)
	}
}
