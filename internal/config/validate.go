package config

import (
	"errors"
	"fmt"

	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Validate reports every problem at once, each an oops error wrapping
// ErrInvalid with the offending field attached.
func (c *Config) Validate() error {
	v := &validator{}

	if c.Game.FPS <= 0 {
		v.fail("game.fps", "must be positive, got %d", c.Game.FPS)
	}
	if c.Game.StartLevel < 1 || c.Game.StartLevel > len(c.Levels) {
		v.fail("game.start_level", "must be within 1..%d, got %d", len(c.Levels), c.Game.StartLevel)
	}
	if _, err := log.ParseLevel(c.Game.LogLevel); err != nil {
		v.fail("game.log_level", "%v", err)
	}
	switch c.Game.LogEncoding {
	case "", "json", "console":
	default:
		v.fail("game.log_encoding", "must be json or console, got %q", c.Game.LogEncoding)
	}
	if len(c.Game.Cameras) == 0 {
		v.fail("game.cameras", "at least one camera is required")
	}
	if c.Game.HoldFrames < 1 {
		v.fail("game.hold_frames", "must be at least 1, got %d", c.Game.HoldFrames)
	}
	if c.Game.MaxHealth < 1 {
		v.fail("game.max_health", "must be at least 1, got %d", c.Game.MaxHealth)
	}

	if c.Player.ID == "" {
		v.fail("player.id", "is required")
	}
	if c.Player.Speed <= 0 {
		v.fail("player.speed", "must be positive, got %g", c.Player.Speed)
	}
	v.scale("player.scale", c.Player.Scale)

	cues := make(map[string]bool, len(c.Sounds))
	for i, s := range c.Sounds {
		field := fmt.Sprintf("sounds[%d]", i)
		switch {
		case s.ID == "":
			v.fail(field+".id", "is required")
		case cues[s.ID]:
			v.fail(field+".id", "duplicate cue %q", s.ID)
		}
		cues[s.ID] = true
		if s.Volume < 0 || s.Volume > 1 {
			v.fail(field+".volume", "must be within 0..1, got %g", s.Volume)
		}
		if s.Frequency <= 0 {
			v.fail(field+".frequency", "must be positive, got %g", s.Frequency)
		}
	}
	for _, cue := range []struct{ field, id string }{
		{"player.lose_cue", c.Player.LoseCue},
		{"player.pickup_cue", c.Player.PickupCue},
	} {
		if cue.id != "" && !cues[cue.id] {
			v.fail(cue.field, "unknown cue %q", cue.id)
		}
	}

	if len(c.Levels) == 0 {
		v.fail("levels", "at least one level is required")
	}
	for i, l := range c.Levels {
		c.validateLevel(v, fmt.Sprintf("levels[%d]", i), l, cues)
	}

	if c.Server.Enabled && c.Server.Listen == "" {
		v.fail("server.listen", "is required when the server is enabled")
	}
	return v.err
}

func (c *Config) validateLevel(v *validator, field string, l LevelConfig, cues map[string]bool) {
	ids := map[string]bool{c.Player.ID: true}
	prop := func(f string, p PropConfig) {
		switch {
		case p.ID == "":
			v.fail(f+".id", "is required")
		case ids[p.ID]:
			v.fail(f+".id", "duplicate actor id %q", p.ID)
		}
		ids[p.ID] = true
		v.scale(f+".scale", p.Scale)
		if p.Cue != "" && !cues[p.Cue] {
			v.fail(f+".cue", "unknown cue %q", p.Cue)
		}
		switch p.Shape {
		case "", "box":
		case "sphere":
			if p.Radius <= 0 {
				v.fail(f+".radius", "must be positive for a sphere, got %g", p.Radius)
			}
		default:
			v.fail(f+".shape", "must be box or sphere, got %q", p.Shape)
		}
	}
	for i, e := range l.Enemies {
		f := fmt.Sprintf("%s.enemies[%d]", field, i)
		prop(f, e.PropConfig)
		if e.Step < 0 || e.Range < 0 {
			v.fail(f, "range and step must not be negative")
		}
	}
	for i, o := range l.Obstacles {
		f := fmt.Sprintf("%s.obstacles[%d]", field, i)
		prop(f, o.PropConfig)
		if o.Amplitude != 0 && o.Period <= 0 {
			v.fail(f+".period", "must be positive when oscillating")
		}
	}
	for i, p := range l.Pickups {
		prop(fmt.Sprintf("%s.pickups[%d]", field, i), p)
	}
	for i, p := range l.Zones {
		prop(fmt.Sprintf("%s.zones[%d]", field, i), p)
	}
	for i, p := range l.Decorators {
		prop(fmt.Sprintf("%s.decorators[%d]", field, i), p)
	}
	for i, layer := range l.Layers {
		f := fmt.Sprintf("%s.layers[%d]", field, i)
		if layer.Image == "" {
			v.fail(f+".image", "is required")
		}
		if layer.ScaleX <= 0 || layer.ScaleZ <= 0 {
			v.fail(f, "scale_x and scale_z must be positive")
		}
	}
}

type validator struct {
	err error
}

func (v *validator) fail(field, format string, args ...any) {
	v.err = errors.Join(v.err, oops.
		Code("CONFIG_INVALID").
		With("field", field).
		Wrap(fmt.Errorf("%w: %s %s", ErrInvalid, field, fmt.Sprintf(format, args...))))
}

func (v *validator) scale(field string, s Vec3) {
	for _, c := range s {
		if c <= 0 {
			v.fail(field, "components must be positive, got %v", s)
			return
		}
	}
}
