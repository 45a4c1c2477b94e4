package controller

import (
	"fmt"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// TextSetter receives rendered HUD text.
type TextSetter interface {
	SetText(s string)
}

// FractionSetter receives a 0..1 progress value.
type FractionSetter interface {
	SetFraction(v float64)
}

// counter is a UI event subscriber holding a value clamped to 0..max.
type counter struct {
	value  int
	max    int
	action events.Action
	group  *events.Group
	logger log.Log
}

func newCounter(d *events.Dispatcher, name string, action events.Action, start, limit int, logger log.Log) (*counter, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	c := &counter{
		max:    limit,
		action: action,
		group:  d.NewGroup(name),
		logger: logger.With(log.String("controller", name)),
	}
	c.set(start)
	if _, err := c.group.Subscribe(events.CategoryUI, c.handle); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *counter) handle(e events.Event) error {
	if e.Action != c.action {
		return nil
	}
	d, ok := events.PayloadAs[events.Delta](e)
	if !ok {
		c.logger.Warn("ignoring malformed ui event", log.Stringer("event", e))
		return nil
	}
	c.set(c.value + d.Amount)
	return nil
}

func (c *counter) set(v int) {
	c.value = min(max(v, 0), c.max)
}

// DeathCountText renders the death count onto a text actor.
type DeathCountText struct {
	Base
	*counter
	Format string
}

// NewDeathCountText follows UI OnDeathCountChange deltas, clamped to 0..limit.
func NewDeathCountText(d *events.Dispatcher, id string, limit int, logger log.Log) (*DeathCountText, error) {
	c, err := newCounter(d, id, events.OnDeathCountChange, 0, limit, logger)
	if err != nil {
		return nil, err
	}
	return &DeathCountText{Base: NewBase(id), counter: c, Format: "Death Count: %d"}, nil
}

func (c *DeathCountText) Count() int   { return c.value }
func (c *DeathCountText) Text() string { return fmt.Sprintf(c.Format, c.value) }

func (c *DeathCountText) Update(_ frame.Frame, a actor.Actor) {
	if t, ok := a.(TextSetter); ok {
		t.SetText(c.Text())
	}
}

// Close stops following UI events.
func (c *DeathCountText) Close() { c.group.CancelAll() }

// HealthProgress shows health as a bar, starting full.
type HealthProgress struct {
	Base
	*counter
	Format string
}

// NewHealthProgress follows UI OnHealthDelta deltas, clamped to 0..limit.
func NewHealthProgress(d *events.Dispatcher, id string, limit int, logger log.Log) (*HealthProgress, error) {
	c, err := newCounter(d, id, events.OnHealthDelta, limit, limit, logger)
	if err != nil {
		return nil, err
	}
	return &HealthProgress{Base: NewBase(id), counter: c, Format: "Health %d/%d"}, nil
}

func (c *HealthProgress) Health() int  { return c.value }
func (c *HealthProgress) Max() int     { return c.max }
func (c *HealthProgress) Text() string { return fmt.Sprintf(c.Format, c.value, c.max) }

// Fraction is health over max; zero when max is zero.
func (c *HealthProgress) Fraction() float64 {
	if c.max == 0 {
		return 0
	}
	return float64(c.value) / float64(c.max)
}

func (c *HealthProgress) Update(_ frame.Frame, a actor.Actor) {
	if t, ok := a.(TextSetter); ok {
		t.SetText(c.Text())
	}
	if p, ok := a.(FractionSetter); ok {
		p.SetFraction(c.Fraction())
	}
}

func (c *HealthProgress) Close() { c.group.CancelAll() }
