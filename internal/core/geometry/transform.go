// Package geometry holds the spatial transform shared by actors and their
// collision primitives, and the discrete overlap tests between primitives.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	UnitX = mgl64.Vec3{1, 0, 0}
	UnitY = mgl64.Vec3{0, 1, 0}
	UnitZ = mgl64.Vec3{0, 0, 1}
	Zero  = mgl64.Vec3{}
	One   = mgl64.Vec3{1, 1, 1}
)

// Transform is the position, orientation and scale of a 3D actor.
// Exactly one exists per actor; primitives hold a pointer to it and never
// copy its fields.
type Transform struct {
	Translation     mgl64.Vec3
	RotationDegrees mgl64.Vec3
	Scale           mgl64.Vec3

	look mgl64.Vec3
	up   mgl64.Vec3

	initial struct {
		translation, rotation, scale mgl64.Vec3
	}
}

// NewTransform builds a transform with an explicit look/up basis. The
// values passed here are what Reset returns to.
func NewTransform(translation, rotationDegrees, scale, look, up mgl64.Vec3) *Transform {
	if look.Len() == 0 {
		look = UnitZ.Mul(-1)
	}
	if up.Len() == 0 {
		up = UnitY
	}
	t := &Transform{
		Translation:     translation,
		RotationDegrees: rotationDegrees,
		Scale:           scale,
		look:            look.Normalize(),
		up:              up.Normalize(),
	}
	t.initial.translation = translation
	t.initial.rotation = rotationDegrees
	t.initial.scale = scale
	return t
}

// NewTransformAt is a transform with default basis (look -Z, up +Y) and no rotation.
func NewTransformAt(translation, scale mgl64.Vec3) *Transform {
	return NewTransform(translation, Zero, scale, UnitZ.Mul(-1), UnitY)
}

func (t *Transform) rotation() mgl64.Quat {
	r := t.RotationDegrees
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(r.X()),
		mgl64.DegToRad(r.Y()),
		mgl64.DegToRad(r.Z()),
		mgl64.XYZ,
	)
}

// Look is the original look vector rotated by the current rotation.
func (t *Transform) Look() mgl64.Vec3 {
	return t.rotation().Rotate(t.look).Normalize()
}

// Up is the original up vector rotated by the current rotation.
func (t *Transform) Up() mgl64.Vec3 {
	return t.rotation().Rotate(t.up).Normalize()
}

// Right is Look × Up.
func (t *Transform) Right() mgl64.Vec3 {
	return t.Look().Cross(t.Up()).Normalize()
}

func (t *Transform) TranslateBy(delta mgl64.Vec3) {
	t.Translation = t.Translation.Add(delta)
}

func (t *Transform) SetTranslation(v mgl64.Vec3) {
	t.Translation = v
}

func (t *Transform) RotateBy(deltaDegrees mgl64.Vec3) {
	t.RotationDegrees = wrapDegrees(t.RotationDegrees.Add(deltaDegrees))
}

// RotateAroundUpBy turns the transform about its up axis (yaw).
func (t *Transform) RotateAroundUpBy(degrees float64) {
	t.RotateBy(mgl64.Vec3{0, degrees, 0})
}

func (t *Transform) ScaleBy(factor mgl64.Vec3) {
	t.Scale = mgl64.Vec3{t.Scale.X() * factor.X(), t.Scale.Y() * factor.Y(), t.Scale.Z() * factor.Z()}
}

// Reset restores the values the transform was constructed with.
func (t *Transform) Reset() {
	t.Translation = t.initial.translation
	t.RotationDegrees = t.initial.rotation
	t.Scale = t.initial.scale
}

// Clone returns an independent copy, including its reset point.
func (t *Transform) Clone() *Transform {
	c := *t
	return &c
}

// Distance is the Euclidean distance between two transforms' translations.
func Distance(a, b *Transform) float64 {
	return a.Translation.Sub(b.Translation).Len()
}

func wrapDegrees(v mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		v[i] = math.Mod(v[i], 360)
	}
	return v
}
