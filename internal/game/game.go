// Package game owns the frame update: it feeds input, applies global keys,
// swaps levels, advances the registry and ticks the components, always in
// that order.
package game

import (
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/config"
	"github.com/zerodeaths/zerodeaths/internal/core/collision"
	"github.com/zerodeaths/zerodeaths/internal/core/component"
	"github.com/zerodeaths/zerodeaths/internal/core/controller"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/metrics"
	"github.com/zerodeaths/zerodeaths/internal/core/registry"
)

// System is anything ticked once per frame after the registry.
type System interface {
	Update(f frame.Frame)
}

// Option configures a Game.
type Option func(*Game)

// WithMetrics records frames, registry size and collisions.
func WithMetrics(m *metrics.Collector) Option { return func(g *Game) { g.metrics = m } }

// WithExit is called when the menu's exit button is clicked.
func WithExit(fn func()) Option { return func(g *Game) { g.exitFn = fn } }

// WithInput replaces the input state, e.g. to share it with a host pump.
func WithInput(in *input.State) Option { return func(g *Game) { g.input = in } }

type Game struct {
	cfg        *config.Config
	dispatcher *events.Dispatcher
	registry   *registry.Registry
	input      *input.State
	table      *collision.ResponseTable
	metrics    *metrics.Collector
	logger     log.Log

	world   *component.Pausable
	state   *component.StateManager
	sound   *component.SoundManager
	menu    *component.MenuManager
	camera  *component.CameraManager
	deaths  *controller.DeathCountText
	health  *controller.HealthProgress
	hud     []*controller.Label
	buttons []*controller.Label
	systems []System

	group      *events.Group
	levelGroup *events.Group
	player     *collision.Actor
	pending    int
	pickups    int
	frame      frame.Frame
	started    bool
	over       bool
	exitFn     func()
	exited     bool
}

// New wires the components onto d and r. Nothing is loaded until Start.
func New(cfg *config.Config, d *events.Dispatcher, r *registry.Registry, logger log.Log, opts ...Option) (*Game, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	g := &Game{
		cfg:        cfg,
		dispatcher: d,
		registry:   r,
		logger:     logger.With(log.String("component", "game")),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.input == nil {
		g.input = input.NewState(cfg.Game.HoldFrames)
	}
	if err := g.wire(logger); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func (g *Game) wire(logger log.Log) error {
	var err error
	d := g.dispatcher

	if g.group, err = g.registry.Subscribe(d); err != nil {
		return err
	}
	if g.state, err = component.NewStateManager(d, g.cfg.Game.StartLevel, g.cfg.FinalLevel(), logger); err != nil {
		return err
	}
	if _, err = g.group.Subscribe(events.CategoryPlayer, g.handlePlayer); err != nil {
		return err
	}
	if g.world, err = component.NewPausable(d, component.PausableConfig{
		Name:   "world",
		Body:   g.registry.Update,
		Logger: logger,
	}); err != nil {
		return err
	}

	if g.sound, err = component.NewSoundManager(d, component.SoundConfig{MasterVolume: 1, Logger: logger}); err != nil {
		return err
	}
	for _, s := range g.cfg.Sounds {
		if err := g.sound.Add(component.Cue{
			ID:        s.ID,
			Frequency: s.Frequency,
			Duration:  s.Duration,
			Volume:    s.Volume,
			Pitch:     s.Pitch,
			Pan:       s.Pan,
			Loop:      s.Loop,
			Category:  s.Category,
		}); err != nil {
			return err
		}
	}

	if g.menu, err = component.NewMenuManager(d, component.MenuConfig{
		StartHidden: true,
		ToggleKey:   input.ParseKey(g.cfg.Player.Keys.Menu),
		Input:       g.input,
		Exit:        g.requestExit,
		Logger:      logger,
	}); err != nil {
		return err
	}
	if _, err = g.group.Subscribe(events.CategoryMenu, g.handleMenu); err != nil {
		return err
	}
	if g.camera, err = component.NewCameraManager(d, g.cfg.Game.Cameras, logger); err != nil {
		return err
	}

	if err := g.wireHUD(logger); err != nil {
		return err
	}

	rules := collision.Rules{
		LoseCue:   g.cfg.Player.LoseCue,
		PickupCue: g.cfg.Player.PickupCue,
		NextLevel: g.state.NextLevel,
	}
	g.table = collision.DefaultTable(rules)

	g.systems = []System{g.world, g.state, g.sound, g.menu}
	return nil
}

// Start resets the game state and loads the start level.
func (g *Game) Start() error {
	g.state.Reset(g.cfg.Game.StartLevel)
	g.over = false
	g.pending = 0
	if err := g.loadLevel(g.cfg.Game.StartLevel); err != nil {
		return err
	}
	g.started = true
	if g.cfg.Game.StartInMenu {
		g.publish(events.Pause())
	}
	return nil
}

// Update runs one frame: input, global keys, a pending level swap, the
// registry (unless paused) and then the components.
func (g *Game) Update(f frame.Frame) error {
	if !g.started {
		return oops.Code("GAME_NOT_STARTED").Wrap(ErrNotStarted)
	}
	g.frame = f
	g.input.Update(f)
	g.globalKeys()

	if g.pending != 0 {
		next := g.pending
		g.pending = 0
		if err := g.loadLevel(next); err != nil {
			g.logger.Error("level load failed", log.Int("level", next), log.Error(err))
		}
	}

	for _, s := range g.systems {
		s.Update(f)
	}
	g.updateHUD(f)

	if g.metrics != nil {
		g.metrics.ObserveFrame(f)
		g.metrics.SetActors(g.registry.Len())
	}
	return nil
}

func (g *Game) globalKeys() {
	kb := g.input.Keyboard
	keys := g.cfg.Player.Keys
	switch {
	case kb.IsFirstKeyPress(input.ParseKey(keys.Pause)):
		if g.world.IsPaused() {
			g.publish(events.Play())
		} else {
			g.publish(events.Pause())
		}
	case kb.IsFirstKeyPress(input.ParseKey(keys.Camera)):
		if err := g.camera.CycleActiveCamera(); err != nil {
			g.logger.Warn("camera cycle failed", log.Error(err))
		}
	case kb.IsFirstKeyPress(input.KeyUp):
		g.publish(events.HealthDelta(1))
	case kb.IsFirstKeyPress(input.KeyDown):
		g.publish(events.HealthDelta(-1))
	}
}

func (g *Game) handlePlayer(e events.Event) error {
	switch e.Action {
	case events.OnWin:
		lc, ok := events.PayloadAs[events.LevelChange](e)
		if !ok {
			g.logger.Warn("ignoring malformed win event", log.Stringer("event", e))
			return nil
		}
		if lc.Level <= g.cfg.FinalLevel() {
			g.pending = lc.Level
		}
	case events.OnGameOver:
		over, _ := events.PayloadAs[events.GameOver](e)
		g.over = true
		g.logger.Info("game finished", log.Int("deaths", over.DeathCount), log.Int("level", over.Level))
	}
	return nil
}

func (g *Game) handleMenu(e events.Event) error {
	if e.Action == events.OnSceneChange {
		g.rebuildButtons()
	}
	return nil
}

func (g *Game) requestExit() {
	g.exited = true
	if g.exitFn != nil {
		g.exitFn()
	}
}

// publish drops the error: the dispatcher has already logged it.
func (g *Game) publish(e events.Event) {
	_ = g.dispatcher.Publish(e.From("game"))
}

func (g *Game) Config() *config.Config           { return g.cfg }
func (g *Game) Dispatcher() *events.Dispatcher   { return g.dispatcher }
func (g *Game) Registry() *registry.Registry     { return g.registry }
func (g *Game) Input() *input.State              { return g.input }
func (g *Game) State() *component.StateManager   { return g.state }
func (g *Game) Sound() *component.SoundManager   { return g.sound }
func (g *Game) Menu() *component.MenuManager     { return g.menu }
func (g *Game) Camera() *component.CameraManager { return g.camera }
func (g *Game) Player() *collision.Actor         { return g.player }
func (g *Game) Frame() frame.Frame               { return g.frame }
func (g *Game) IsPaused() bool                   { return g.world.IsPaused() }
func (g *Game) IsOver() bool                     { return g.over }
func (g *Game) ExitRequested() bool              { return g.exited }
func (g *Game) PickupsRemaining() int            { return g.pickups }

// Close drops every subscription the game and its components made.
func (g *Game) Close() {
	if g.levelGroup != nil {
		g.levelGroup.CancelAll()
	}
	if g.group != nil {
		g.group.CancelAll()
	}
	if g.world != nil {
		g.world.Close()
	}
	if g.state != nil {
		g.state.Close()
	}
	if g.sound != nil {
		g.sound.Close()
	}
	if g.menu != nil {
		g.menu.Close()
	}
	if g.camera != nil {
		g.camera.Close()
	}
	if g.deaths != nil {
		g.deaths.Close()
	}
	if g.health != nil {
		g.health.Close()
	}
}
