// Package actor defines game entity identity: id, type tag, status flags,
// the shared transform and the render-facing effect parameters.
package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
)

// Type tags an actor with its gameplay kind. Collision responses dispatch on
// pairs of these.
type Type uint8

const (
	TypeUnknown Type = iota
	TypePlayer
	TypeEnemy
	TypePickup
	TypeObstacle
	TypeDecorator
	TypeZone
	TypeSky
	TypeGround
	TypeHelper
	TypeCamera
	TypeUIText
	TypeUITexture
	TypeUIButton
)

var typeNames = [...]string{
	TypeUnknown:   "unknown",
	TypePlayer:    "player",
	TypeEnemy:     "enemy",
	TypePickup:    "pickup",
	TypeObstacle:  "obstacle",
	TypeDecorator: "decorator",
	TypeZone:      "zone",
	TypeSky:       "sky",
	TypeGround:    "ground",
	TypeHelper:    "helper",
	TypeCamera:    "camera",
	TypeUIText:    "ui_text",
	TypeUITexture: "ui_texture",
	TypeUIButton:  "ui_button",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType maps a configuration name onto a Type.
func ParseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return TypeUnknown, false
}

// IsUI reports whether the type belongs to the 2D overlay.
func (t Type) IsUI() bool {
	return t == TypeUIText || t == TypeUITexture || t == TypeUIButton
}

// Status is a bit set controlling whether an actor is drawn and/or updated.
type Status uint8

const (
	StatusOff     Status = 0
	StatusDrawn   Status = 1 << 0
	StatusUpdated Status = 1 << 1

	StatusActive = StatusDrawn | StatusUpdated
)

func (s Status) Has(flag Status) bool       { return s&flag == flag }
func (s Status) With(flag Status) Status    { return s | flag }
func (s Status) Without(flag Status) Status { return s &^ flag }

func (s Status) String() string {
	switch s {
	case StatusOff:
		return "off"
	case StatusDrawn:
		return "drawn"
	case StatusUpdated:
		return "updated"
	case StatusActive:
		return "drawn|updated"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Actor is the identity every registered entity exposes.
type Actor interface {
	ID() string
	Type() Type
	Status() Status
	SetStatus(Status)
	Transform() *geometry.Transform
}

// Updater is implemented by actors with per-frame behaviour.
type Updater interface {
	Update(f frame.Frame)
}

// Effect carries the parameters the rendering layer reads. The core only
// mutates them (e.g. tinting a collidee); it never draws.
type Effect struct {
	DiffuseColor mgl64.Vec3
	Alpha        float64
	Texture      string
}

var (
	ColorWhite  = mgl64.Vec3{1, 1, 1}
	ColorYellow = mgl64.Vec3{1, 1, 0}
	ColorPurple = mgl64.Vec3{0.5, 0, 0.5}
	ColorRed    = mgl64.Vec3{1, 0, 0}
)

// Tintable actors accept a diffuse color change from gameplay code.
type Tintable interface {
	Tint(color mgl64.Vec3)
}

// DefaultEffect is opaque white with no texture.
func DefaultEffect() Effect {
	return Effect{DiffuseColor: ColorWhite, Alpha: 1}
}

// Controller is a reusable per-frame behaviour attached to an actor.
type Controller interface {
	ID() string
	Update(f frame.Frame, a Actor)
}

// Base is the common Actor implementation. Specialised actors embed it.
type Base struct {
	id          string
	typ         Type
	status      Status
	transform   *geometry.Transform
	Effect      Effect
	controllers []Controller
}

var (
	_ Actor    = (*Base)(nil)
	_ Tintable = (*Base)(nil)
)

func NewBase(id string, typ Type, status Status, transform *geometry.Transform) *Base {
	if transform == nil {
		transform = geometry.NewTransformAt(geometry.Zero, geometry.One)
	}
	return &Base{
		id:        id,
		typ:       typ,
		status:    status,
		transform: transform,
		Effect:    DefaultEffect(),
	}
}

func (b *Base) ID() string                       { return b.id }
func (b *Base) Type() Type                       { return b.typ }
func (b *Base) Status() Status                   { return b.status }
func (b *Base) SetStatus(s Status)               { b.status = s }
func (b *Base) Transform() *geometry.Transform   { return b.transform }
func (b *Base) Controllers() []Controller        { return b.controllers }
func (b *Base) AttachController(c ...Controller) { b.controllers = append(b.controllers, c...) }

// Tint sets the diffuse color.
func (b *Base) Tint(color mgl64.Vec3) { b.Effect.DiffuseColor = color }

// DetachController removes the controller with the given id.
func (b *Base) DetachController(id string) bool {
	for i, c := range b.controllers {
		if c.ID() == id {
			b.controllers = append(b.controllers[:i], b.controllers[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateControllers advances every attached controller, in attachment order.
func (b *Base) UpdateControllers(f frame.Frame, self Actor) {
	for _, c := range b.controllers {
		c.Update(f, self)
	}
}

// Update runs the controllers. Actors without other behaviour use this as
// their per-frame body.
func (b *Base) Update(f frame.Frame) {
	b.UpdateControllers(f, b)
}

// CloneBase copies identity, effect and controllers under a new id with an
// independent transform. Controllers are shared, not copied.
func (b *Base) CloneBase(id string) *Base {
	c := &Base{
		id:        id,
		typ:       b.typ,
		status:    b.status,
		transform: b.transform.Clone(),
		Effect:    b.Effect,
	}
	c.controllers = append(c.controllers, b.controllers...)
	return c
}

func (b *Base) String() string {
	return fmt.Sprintf("%s(%s)", b.typ, b.id)
}
