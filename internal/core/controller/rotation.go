package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

// RotationController spins its actor by Speed degrees about Axis every frame.
type RotationController struct {
	Base
	Axis  mgl64.Vec3
	Speed float64
}

func NewRotationController(id string, speed float64, axis mgl64.Vec3) *RotationController {
	return &RotationController{Base: NewBase(id), Axis: axis, Speed: speed}
}

func (c *RotationController) Update(_ frame.Frame, a actor.Actor) {
	if a == nil || a.Transform() == nil {
		return
	}
	a.Transform().RotateBy(c.Axis.Mul(c.Speed))
}
