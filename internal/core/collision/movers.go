package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
)

// Movement is a staged translation and rotation, applied only when the
// frame's collision response allows it.
type Movement struct {
	Translate mgl64.Vec3
	Rotate    mgl64.Vec3 // degrees
}

func (m Movement) IsZero() bool {
	return m.Translate == geometry.Zero && m.Rotate == geometry.Zero
}

func (m Movement) apply(t *geometry.Transform) {
	if m.Rotate != geometry.Zero {
		t.RotateBy(m.Rotate)
	}
	if m.Translate != geometry.Zero {
		t.TranslateBy(m.Translate)
	}
}

// Mover computes the movement an actor wants this frame. It must not touch
// the transform itself.
type Mover interface {
	Stage(f frame.Frame, self *Actor) Movement
}

// MoverFunc adapts a function to Mover.
type MoverFunc func(f frame.Frame, self *Actor) Movement

func (fn MoverFunc) Stage(f frame.Frame, self *Actor) Movement { return fn(f, self) }

// KeyReader is the keyboard state a KeyboardMover polls.
type KeyReader interface {
	IsKeyDown(input.Key) bool
	IsFirstKeyPress(input.Key) bool
}

// MoveKeys binds the player's movement controls.
type MoveKeys struct {
	Forward, Backward   input.Key
	Left, Right         input.Key
	TurnLeft, TurnRight input.Key
}

// DefaultMoveKeys is WASD with Q/E quarter turns.
func DefaultMoveKeys() MoveKeys {
	return MoveKeys{
		Forward: "w", Backward: "s",
		Left: "a", Right: "d",
		TurnLeft: "q", TurnRight: "e",
	}
}

// KeyboardMover moves along the look and right vectors while keys are held
// and turns a quarter on each fresh press of a turn key.
type KeyboardMover struct {
	Keys      MoveKeys
	Speed     float64 // world units per millisecond
	TurnAngle float64 // degrees per press
	Input     KeyReader
}

func (m *KeyboardMover) Stage(f frame.Frame, self *Actor) Movement {
	var mv Movement
	if m.Input == nil {
		return mv
	}
	t := self.Transform()
	step := f.ElapsedMillis() * m.Speed

	if m.Input.IsKeyDown(m.Keys.Forward) {
		mv.Translate = t.Look().Mul(step)
	} else if m.Input.IsKeyDown(m.Keys.Backward) {
		mv.Translate = t.Look().Mul(-step)
	}
	if m.Input.IsKeyDown(m.Keys.Left) {
		mv.Translate = mv.Translate.Add(t.Right().Mul(-step))
	} else if m.Input.IsKeyDown(m.Keys.Right) {
		mv.Translate = mv.Translate.Add(t.Right().Mul(step))
	}

	turn := m.TurnAngle
	if turn == 0 {
		turn = 90
	}
	if m.Input.IsFirstKeyPress(m.Keys.TurnRight) {
		mv.Rotate = mgl64.Vec3{0, -turn, 0}
	} else if m.Input.IsFirstKeyPress(m.Keys.TurnLeft) {
		mv.Rotate = mgl64.Vec3{0, turn, 0}
	}
	return mv
}

// ChaseMover steps toward a target actor on X and Z while it is within range.
// A missing target (not spawned yet, or removed) means no movement.
type ChaseMover struct {
	TargetID string
	Range    float64
	Step     float64
	Peers    Peers
}

func (m *ChaseMover) Stage(_ frame.Frame, self *Actor) Movement {
	if m.Peers == nil {
		return Movement{}
	}
	target, ok := m.Peers.GetActorByID(m.TargetID)
	if !ok {
		return Movement{}
	}
	from := self.Transform().Translation
	to := target.Transform().Translation
	if from.Sub(to).Len() > m.Range {
		return Movement{}
	}
	return Movement{Translate: mgl64.Vec3{
		towards(from.X(), to.X(), m.Step),
		0,
		towards(from.Z(), to.Z(), m.Step),
	}}
}

func towards(from, to, step float64) float64 {
	switch {
	case from < to:
		return step
	case from > to:
		return -step
	default:
		return 0
	}
}

// OscillateMover swings an actor about its anchor by
// Amplitude*sin(t/Period) along Axis, with t the game time in seconds.
type OscillateMover struct {
	Axis      mgl64.Vec3
	Amplitude float64
	Period    float64
}

func (m *OscillateMover) Stage(f frame.Frame, _ *Actor) Movement {
	period := m.Period
	if period == 0 {
		period = 1
	}
	now := f.TotalSeconds()
	prev := now - f.Elapsed.Seconds()
	delta := m.Amplitude * (math.Sin(now/period) - math.Sin(prev/period))
	return Movement{Translate: m.Axis.Mul(delta)}
}
