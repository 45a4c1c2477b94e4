// Package component holds the frame-driven services that react to gameplay
// events: the pausable gate, game state tracking, sound, menu and camera
// management.
package component

import (
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Pausable gates a per-frame body on Menu OnPause/OnPlay. The event channel
// is the only way to change its state.
type Pausable struct {
	name     string
	paused   bool
	body     func(f frame.Frame)
	onPause  func()
	onResume func()
	group    *events.Group
	logger   log.Log
}

// PausableConfig configures a Pausable.
type PausableConfig struct {
	Name        string
	StartPaused bool
	Body        func(f frame.Frame)
	OnPause     func()
	OnResume    func()
	Logger      log.Log
}

// NewPausable subscribes the gate to Menu events on d.
func NewPausable(d *events.Dispatcher, cfg PausableConfig) (*Pausable, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	p := &Pausable{
		name:     cfg.Name,
		paused:   cfg.StartPaused,
		body:     cfg.Body,
		onPause:  cfg.OnPause,
		onResume: cfg.OnResume,
		group:    d.NewGroup(cfg.Name),
		logger:   logger.With(log.String("component", cfg.Name)),
	}
	if _, err := p.group.Subscribe(events.CategoryMenu, p.handleMenu); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pausable) handleMenu(e events.Event) error {
	switch e.Action {
	case events.OnPause:
		if p.paused {
			return nil
		}
		p.paused = true
		if p.onPause != nil {
			p.onPause()
		}
		p.logger.Debug("paused")
	case events.OnPlay:
		if !p.paused {
			return nil
		}
		p.paused = false
		if p.onResume != nil {
			p.onResume()
		}
		p.logger.Debug("resumed")
	}
	return nil
}

func (p *Pausable) Name() string   { return p.name }
func (p *Pausable) IsPaused() bool { return p.paused }

// Update runs the body unless paused.
func (p *Pausable) Update(f frame.Frame) {
	if p.paused || p.body == nil {
		return
	}
	p.body(f)
}

// Close removes every subscription the component made.
func (p *Pausable) Close() {
	p.group.CancelAll()
}

// Subscribe adds a subscription torn down with the component.
func (p *Pausable) Subscribe(c events.Category, h events.Handler) error {
	_, err := p.group.Subscribe(c, h)
	return err
}
