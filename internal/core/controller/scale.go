package controller

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

// ScaleController pulses its actor's scale around the value it had on the
// first update: scale = rest * (1 + Amplitude*sin(2*pi*t/Period)).
type ScaleController struct {
	Base
	Amplitude float64
	Period    time.Duration

	rest    mgl64.Vec3
	started bool
}

func NewScaleController(id string, amplitude float64, period time.Duration) *ScaleController {
	return &ScaleController{Base: NewBase(id), Amplitude: amplitude, Period: period}
}

func (c *ScaleController) Update(f frame.Frame, a actor.Actor) {
	if a == nil || a.Transform() == nil || c.Period <= 0 {
		return
	}
	t := a.Transform()
	if !c.started {
		c.rest = t.Scale
		c.started = true
	}
	phase := 2 * math.Pi * f.Total.Seconds() / c.Period.Seconds()
	t.Scale = c.rest.Mul(1 + c.Amplitude*math.Sin(phase))
}
