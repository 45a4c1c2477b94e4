// Package collision implements collidable actors: the per-frame
// stage/detect/respond/commit update and the (own type, other type)
// response table that decides what an overlap means.
package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Publisher is the part of the event dispatcher responses use.
type Publisher interface {
	Publish(e events.Event) error
}

// Recorder is told about every detected overlap.
type Recorder interface {
	ObserveCollision(own, other actor.Type)
}

// FrameResult is what one update produced. Collidee is the detection result
// after response handling: nil when nothing overlapped or the response let
// the actor pass through.
type FrameResult struct {
	Frame      uint64
	Detected   Collidable
	Collidee   Collidable
	Staged     Movement
	Committed  bool
	Generation uint64
}

// Option configures an Actor.
type Option func(*Config)

// Config holds an Actor's collaborators.
type Config struct {
	Mover     Mover
	Table     *ResponseTable
	Peers     Peers
	Publisher Publisher
	Recorder  Recorder
	Logger    log.Log
	Spawn     *mgl64.Vec3
	Cue       string
	Passive   bool
	PhaseHook func(Phase)
}

func WithMover(m Mover) Option            { return func(c *Config) { c.Mover = m } }
func WithTable(t *ResponseTable) Option   { return func(c *Config) { c.Table = t } }
func WithPeers(p Peers) Option            { return func(c *Config) { c.Peers = p } }
func WithPublisher(p Publisher) Option    { return func(c *Config) { c.Publisher = p } }
func WithRecorder(r Recorder) Option      { return func(c *Config) { c.Recorder = r } }
func WithLogger(l log.Log) Option         { return func(c *Config) { c.Logger = l } }
func WithPhaseHook(fn func(Phase)) Option { return func(c *Config) { c.PhaseHook = fn } }

// WithSpawn sets where ResetToSpawn puts the actor. Defaults to the
// translation at construction.
func WithSpawn(p mgl64.Vec3) Option { return func(c *Config) { c.Spawn = &p } }

// WithCue attaches a sound cue, played when something enters a zone.
func WithCue(cue string) Option { return func(c *Config) { c.Cue = cue } }

// Passive actors are collided with but never test for collisions
// themselves, e.g. walls and pickups.
func Passive() Option { return func(c *Config) { c.Passive = true } }

// Actor is a positioned entity owning a collision primitive bound to its
// transform.
type Actor struct {
	*actor.Base

	primitive geometry.Primitive
	cfg       Config
	spawn     mgl64.Vec3
	lastClear mgl64.Vec3
	phase     Phase
	last      FrameResult
	logger    log.Log
}

var (
	_ Collidable    = (*Actor)(nil)
	_ actor.Updater = (*Actor)(nil)
)

// New builds a collidable actor. The primitive must be bound to base's transform.
func New(base *actor.Base, primitive geometry.Primitive, opts ...Option) *Actor {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
	if primitive != nil && primitive.Transform() != base.Transform() {
		primitive = primitive.Rebind(base.Transform())
	}
	a := &Actor{
		Base:      base,
		primitive: primitive,
		cfg:       cfg,
		spawn:     base.Transform().Translation,
		lastClear: base.Transform().Translation,
		logger:    cfg.Logger.With(log.String("actor", base.ID())),
	}
	if cfg.Spawn != nil {
		a.spawn = *cfg.Spawn
	}
	return a
}

// NewBox is New with a box primitive over the actor's transform.
func NewBox(base *actor.Base, opts ...Option) *Actor {
	return New(base, geometry.NewBox(base.Transform()), opts...)
}

// NewSphere is New with a sphere primitive over the actor's transform.
func NewSphere(base *actor.Base, radius float64, opts ...Option) *Actor {
	return New(base, geometry.NewSphere(base.Transform(), radius), opts...)
}

func (a *Actor) Primitive() geometry.Primitive { return a.primitive }
func (a *Actor) Phase() Phase                  { return a.phase }
func (a *Actor) Cue() string                   { return a.cfg.Cue }
func (a *Actor) Spawn() mgl64.Vec3             { return a.spawn }
func (a *Actor) SetSpawn(p mgl64.Vec3)         { a.spawn = p }
func (a *Actor) LastResult() FrameResult       { return a.last }
func (a *Actor) Peers() Peers                  { return a.cfg.Peers }

// Collidee is the actor this one overlapped in its last update, or nil. A
// collidee that has since left the registry, or whose registry has been
// cleared, is reported as nil.
func (a *Actor) Collidee() Collidable {
	c := a.last.Collidee
	if c == nil || a.cfg.Peers == nil {
		return nil
	}
	if a.last.Generation != a.cfg.Peers.Generation() || !a.cfg.Peers.Contains(c) {
		return nil
	}
	return c
}

// ResetToSpawn moves the actor back to its spawn point.
func (a *Actor) ResetToSpawn() {
	a.Transform().SetTranslation(a.spawn)
	a.lastClear = a.spawn
}

// StepBack returns the actor to where it last started a frame without overlapping anything.
func (a *Actor) StepBack() {
	a.Transform().SetTranslation(a.lastClear)
}

func (a *Actor) enter(p Phase) {
	a.phase = p
	if a.cfg.PhaseHook != nil {
		a.cfg.PhaseHook(p)
	}
}

// Update runs attached controllers, then one stage/detect/respond/commit cycle.
func (a *Actor) Update(f frame.Frame) {
	a.UpdateControllers(f, a)
	if a.cfg.Passive {
		return
	}

	res := FrameResult{Frame: f.Index}
	if a.cfg.Peers != nil {
		res.Generation = a.cfg.Peers.Generation()
	}

	a.enter(PhaseIdle)
	if a.cfg.Mover != nil {
		res.Staged = a.cfg.Mover.Stage(f, a)
	}
	a.enter(PhaseInputApplied)

	res.Detected = Detect(a, a.cfg.Peers)
	res.Collidee = res.Detected
	if res.Detected == nil {
		a.lastClear = a.Transform().Translation
	}
	a.enter(PhaseCollisionTested)

	if res.Detected != nil {
		if a.cfg.Recorder != nil {
			a.cfg.Recorder.ObserveCollision(a.Type(), res.Detected.Type())
		}
		outcome := a.cfg.Table.Handle(&Context{
			Frame:     f,
			Self:      a,
			Other:     res.Detected,
			Publisher: a.cfg.Publisher,
			Peers:     a.cfg.Peers,
			Logger:    a.logger,
		})
		if outcome == PassThrough {
			res.Collidee = nil
		}
	}
	a.enter(PhaseResponseHandled)

	if res.Collidee == nil {
		res.Staged.apply(a.Transform())
		res.Committed = true
	}
	a.enter(PhaseMovementCommittedOrVetoed)

	a.last = res
	a.enter(PhasePrimitiveSynced)

	if res.Detected != nil {
		a.logger.Debug("collision",
			log.Stringer("other", res.Detected.Type()),
			log.String("other_id", res.Detected.ID()),
			log.Bool("committed", res.Committed),
			log.Uint64("frame", f.Index),
		)
	}
}

// Clone copies the actor under a new id with an independent transform and
// a primitive bound to it. Behaviour and collaborators are shared.
func (a *Actor) Clone(id string) *Actor {
	base := a.CloneBase(id)
	var prim geometry.Primitive
	if a.primitive != nil {
		prim = a.primitive.Rebind(base.Transform())
	}
	c := &Actor{
		Base:      base,
		primitive: prim,
		cfg:       a.cfg,
		spawn:     a.spawn,
		lastClear: base.Transform().Translation,
		logger:    a.cfg.Logger.With(log.String("actor", id)),
	}
	return c
}
