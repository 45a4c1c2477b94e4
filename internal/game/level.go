package game

import (
	"errors"
	"image"
	"runtime"
	"time"

	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/config"
	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/collision"
	"github.com/zerodeaths/zerodeaths/internal/core/controller"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
	"github.com/zerodeaths/zerodeaths/internal/core/level"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
	"github.com/zerodeaths/zerodeaths/pkg/concurrent"
	"github.com/zerodeaths/zerodeaths/pkg/sequence"
)

// pulsePeriod is the scale pulse cycle of props with a pulse amplitude.
const pulsePeriod = 2 * time.Second

// loadLevel replaces everything in the registry with level n. Actors that
// fail to register are logged and skipped; a map layer that cannot be read
// fails the load after the rest of the level is in place.
func (g *Game) loadLevel(n int) error {
	lc, ok := g.cfg.Level(n)
	if !ok {
		return oops.Code("UNKNOWN_LEVEL").With("level", n).Wrap(ErrUnknownLevel)
	}
	if g.levelGroup != nil {
		g.levelGroup.CancelAll()
	}
	g.registry.Clear()
	g.levelGroup = g.dispatcher.NewGroup("level")

	g.player = g.buildPlayer()
	actors := []actor.Actor{g.player}
	for _, e := range lc.Enemies {
		actors = append(actors, g.buildEnemy(e))
	}
	for _, o := range lc.Obstacles {
		actors = append(actors, g.buildObstacle(o))
	}
	for _, p := range lc.Pickups {
		actors = append(actors, g.buildProp(p, actor.TypePickup))
	}
	for _, z := range lc.Zones {
		actors = append(actors, g.buildProp(z, actor.TypeZone))
	}
	for _, d := range lc.Decorators {
		actors = append(actors, g.buildProp(d, actor.TypeDecorator))
	}

	var errs error
	layers, err := g.loadLayers(lc.Layers)
	errs = errors.Join(errs, err)
	actors = append(actors, layers...)

	for _, a := range actors {
		if err := g.registry.Add(a); err != nil {
			g.logger.Warn("actor not added", log.String("actor", a.ID()), log.Error(err))
		}
	}
	g.pickups = g.registry.CountByType()[actor.TypePickup]
	if _, err := g.levelGroup.Subscribe(events.CategoryObject, g.trackPickups); err != nil {
		errs = errors.Join(errs, err)
	}

	g.logger.Info("level loaded",
		log.Int("level", n),
		log.String("name", lc.Name),
		log.Int("actors", g.registry.Len()),
		log.Int("pickups", g.pickups),
	)
	return errs
}

// trackPickups keeps the remaining pickup count for the HUD.
func (g *Game) trackPickups(e events.Event) error {
	if e.Action != events.OnRemoveActor {
		return nil
	}
	if ref, ok := events.PayloadAs[events.ActorRef](e); ok && ref.Actor != nil && ref.Actor.Type() == actor.TypePickup {
		g.pickups = max(g.pickups-1, 0)
	}
	return nil
}

func (g *Game) common() []collision.Option {
	opts := []collision.Option{
		collision.WithTable(g.table),
		collision.WithPeers(g.registry),
		collision.WithPublisher(g.dispatcher),
		collision.WithLogger(g.logger),
	}
	if g.metrics != nil {
		opts = append(opts, collision.WithRecorder(g.metrics))
	}
	return opts
}

func (g *Game) buildPlayer() *collision.Actor {
	p := g.cfg.Player
	keys := collision.MoveKeys{
		Forward:   input.ParseKey(p.Keys.Forward),
		Backward:  input.ParseKey(p.Keys.Back),
		Left:      input.ParseKey(p.Keys.Left),
		Right:     input.ParseKey(p.Keys.Right),
		TurnLeft:  input.ParseKey(p.Keys.TurnLeft),
		TurnRight: input.ParseKey(p.Keys.TurnRight),
	}
	base := actor.NewBase(p.ID, actor.TypePlayer, actor.StatusActive, geometry.NewTransformAt(p.Spawn.Vec(), p.Scale.Vec()))
	opts := append(g.common(), collision.WithMover(&collision.KeyboardMover{
		Keys:      keys,
		Speed:     p.Speed,
		TurnAngle: p.TurnAngle,
		Input:     g.input.Keyboard,
	}))
	return collision.NewBox(base, opts...)
}

func (g *Game) buildEnemy(e config.EnemyConfig) *collision.Actor {
	opts := append(g.common(), collision.WithMover(&collision.ChaseMover{
		TargetID: g.cfg.Player.ID,
		Range:    e.Range,
		Step:     e.Step,
		Peers:    g.registry,
	}))
	return g.newCollidable(e.PropConfig, actor.TypeEnemy, opts...)
}

func (g *Game) buildObstacle(o config.ObstacleConfig) *collision.Actor {
	opts := g.common()
	if o.Amplitude != 0 {
		opts = append(opts, collision.WithMover(&collision.OscillateMover{
			Axis:      o.Axis.Vec(),
			Amplitude: o.Amplitude,
			Period:    o.Period.Seconds(),
		}))
	}
	return g.newCollidable(o.PropConfig, actor.TypeObstacle, opts...)
}

// buildProp makes a passive actor: pickups, zones and walls never test for
// overlaps themselves.
func (g *Game) buildProp(p config.PropConfig, typ actor.Type) *collision.Actor {
	opts := append(g.common(), collision.Passive())
	if p.Cue != "" {
		opts = append(opts, collision.WithCue(p.Cue))
	}
	return g.newCollidable(p, typ, opts...)
}

func (g *Game) newCollidable(p config.PropConfig, typ actor.Type, opts ...collision.Option) *collision.Actor {
	base := actor.NewBase(p.ID, typ, actor.StatusActive, geometry.NewTransformAt(p.Position.Vec(), p.Scale.Vec()))
	if p.Spin != 0 {
		base.AttachController(controller.NewRotationController(p.ID+" spin", p.Spin, geometry.UnitY))
	}
	if p.Pulse != 0 {
		base.AttachController(controller.NewScaleController(p.ID+" pulse", p.Pulse, pulsePeriod))
	}
	if p.Shape == "sphere" {
		return collision.NewSphere(base, p.Radius, opts...)
	}
	return collision.NewBox(base, opts...)
}

// loadLayers decodes every layer image concurrently, then builds the
// actors in layer order so numbering stays stable.
func (g *Game) loadLayers(layers []config.LayerConfig) ([]actor.Actor, error) {
	if len(layers) == 0 {
		return nil, nil
	}
	images, errs := concurrent.ParallelMap(sequence.From(layers), runtime.GOMAXPROCS(0),
		func(l config.LayerConfig) (image.Image, error) {
			return level.DecodeFile(g.cfg.ResolvePath(l.Image))
		})

	var out []actor.Actor
	loader := level.NewLoader(g.logger, g.common()...)
	for i, l := range layers {
		if images[i] == nil {
			continue
		}
		ld := loader
		if len(l.Archetypes) > 0 {
			restricted, err := loader.Restrict(l.Archetypes...)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			ld = restricted
		}
		for _, a := range ld.Load(images[i], l.ScaleX, l.ScaleZ, l.Height, l.Offset.Vec()) {
			out = append(out, a)
		}
	}
	return out, errs
}
