// Package controller holds reusable per-frame behaviours attached to actors:
// spinning and pulsing props, hover highlighting for UI widgets and the HUD
// counters driven by UI events.
package controller

import (
	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

var (
	_ actor.Controller = (*RotationController)(nil)
	_ actor.Controller = (*ScaleController)(nil)
	_ actor.Controller = (*MouseHoverController)(nil)
	_ actor.Controller = (*DeathCountText)(nil)
	_ actor.Controller = (*HealthProgress)(nil)
	_ actor.Controller = Func{}
)

// Base supplies the controller id.
type Base struct {
	id string
}

func NewBase(id string) Base { return Base{id: id} }
func (b Base) ID() string    { return b.id }

// Func adapts a plain function to actor.Controller.
type Func struct {
	Base
	Fn func(f frame.Frame, a actor.Actor)
}

func NewFunc(id string, fn func(f frame.Frame, a actor.Actor)) Func {
	return Func{Base: NewBase(id), Fn: fn}
}

func (c Func) Update(f frame.Frame, a actor.Actor) {
	if c.Fn != nil {
		c.Fn(f, a)
	}
}
