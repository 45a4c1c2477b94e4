package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Primitive is a collision proxy bound to an actor's live transform.
// Geometry is recomputed from the transform on every call; nothing about
// world position is cached between frames.
type Primitive interface {
	Intersects(other Primitive) bool
	Transform() *Transform
	Center() mgl64.Vec3
	// Rebind returns the same shape attached to another transform. Used when
	// cloning archetypes.
	Rebind(t *Transform) Primitive
}

// Box is an axis-aligned box over a unit cube scaled by the transform, so
// its half extents are |scale|/2 on each axis. Rotation is ignored.
type Box struct {
	transform *Transform
}

func NewBox(t *Transform) *Box {
	return &Box{transform: t}
}

func (b *Box) Transform() *Transform { return b.transform }

func (b *Box) Center() mgl64.Vec3 { return b.transform.Translation }

func (b *Box) HalfExtents() mgl64.Vec3 {
	s := b.transform.Scale
	return mgl64.Vec3{math.Abs(s.X()) / 2, math.Abs(s.Y()) / 2, math.Abs(s.Z()) / 2}
}

// Bounds returns the current min and max corners.
func (b *Box) Bounds() (min, max mgl64.Vec3) {
	c, h := b.Center(), b.HalfExtents()
	return c.Sub(h), c.Add(h)
}

func (b *Box) Rebind(t *Transform) Primitive { return NewBox(t) }

// Intersects reports strict overlap: boxes that only touch do not intersect.
func (b *Box) Intersects(other Primitive) bool {
	switch o := other.(type) {
	case *Box:
		return boxBox(b, o)
	case *Sphere:
		return boxSphere(b, o)
	default:
		return false
	}
}

// Sphere is centred on the transform translation with a fixed radius.
// The radius is not scaled by the transform.
type Sphere struct {
	transform *Transform
	radius    float64
}

func NewSphere(t *Transform, radius float64) *Sphere {
	return &Sphere{transform: t, radius: math.Abs(radius)}
}

func (s *Sphere) Transform() *Transform { return s.transform }

func (s *Sphere) Center() mgl64.Vec3 { return s.transform.Translation }

func (s *Sphere) Radius() float64 { return s.radius }

func (s *Sphere) Rebind(t *Transform) Primitive { return NewSphere(t, s.radius) }

// Intersects is true iff the centre distance is strictly less than the sum
// of radii (sphere) or the radius (box closest point).
func (s *Sphere) Intersects(other Primitive) bool {
	switch o := other.(type) {
	case *Sphere:
		return sphereSphere(s, o)
	case *Box:
		return boxSphere(o, s)
	default:
		return false
	}
}

func boxBox(a, b *Box) bool {
	ca, cb := a.Center(), b.Center()
	ha, hb := a.HalfExtents(), b.HalfExtents()
	for i := 0; i < 3; i++ {
		if math.Abs(ca[i]-cb[i]) >= ha[i]+hb[i] {
			return false
		}
	}
	return true
}

func sphereSphere(a, b *Sphere) bool {
	r := a.radius + b.radius
	return a.Center().Sub(b.Center()).LenSqr() < r*r
}

func boxSphere(b *Box, s *Sphere) bool {
	closest := ClosestPointOnBox(b, s.Center())
	return closest.Sub(s.Center()).LenSqr() < s.radius*s.radius
}

// ClosestPointOnBox clamps p into the box's current bounds.
func ClosestPointOnBox(b *Box, p mgl64.Vec3) mgl64.Vec3 {
	min, max := b.Bounds()
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), min.X(), max.X()),
		mgl64.Clamp(p.Y(), min.Y(), max.Y()),
		mgl64.Clamp(p.Z(), min.Z(), max.Z()),
	}
}
