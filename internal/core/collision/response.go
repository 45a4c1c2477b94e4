package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Outcome is a response's verdict on the staged movement.
type Outcome uint8

const (
	// Block keeps the collidee and vetoes this frame's movement.
	Block Outcome = iota
	// PassThrough clears the collidee and lets the movement commit.
	PassThrough
)

func (o Outcome) String() string {
	if o == PassThrough {
		return "pass_through"
	}
	return "block"
}

// Context is what a response sees: the acting actor, the detected collidee
// and the services it may use.
type Context struct {
	Frame     frame.Frame
	Self      *Actor
	Other     Collidable
	Publisher Publisher
	Peers     Peers
	Logger    log.Log
}

// Publish sends e and logs, rather than returns, handler failures.
func (c *Context) Publish(e events.Event) {
	if c.Publisher == nil {
		return
	}
	if err := c.Publisher.Publish(e.From(c.Self.ID())); err != nil && c.Logger != nil {
		c.Logger.Error("collision response publish failed",
			log.Stringer("event", e),
			log.Error(err),
		)
	}
}

// ResponseFunc handles one (own type, other type) overlap.
type ResponseFunc func(c *Context) Outcome

type pair struct {
	own, other actor.Type
}

// ResponseTable maps (own type, other type) to a response. Pairs without an
// entry do nothing and block.
type ResponseTable struct {
	rules map[pair]ResponseFunc
}

func NewResponseTable() *ResponseTable {
	return &ResponseTable{rules: make(map[pair]ResponseFunc)}
}

// Set registers fn for the pair, replacing any previous rule.
func (t *ResponseTable) Set(own, other actor.Type, fn ResponseFunc) *ResponseTable {
	t.rules[pair{own, other}] = fn
	return t
}

// SetAll registers fn for own against each of others.
func (t *ResponseTable) SetAll(own actor.Type, fn ResponseFunc, others ...actor.Type) *ResponseTable {
	for _, other := range others {
		t.Set(own, other, fn)
	}
	return t
}

func (t *ResponseTable) Lookup(own, other actor.Type) (ResponseFunc, bool) {
	if t == nil {
		return nil, false
	}
	fn, ok := t.rules[pair{own, other}]
	return fn, ok
}

// Handle dispatches c to its rule. Unhandled pairs block.
func (t *ResponseTable) Handle(c *Context) Outcome {
	fn, ok := t.Lookup(c.Self.Type(), c.Other.Type())
	if !ok || fn == nil {
		return Block
	}
	return fn(c)
}

// Len is the number of registered rules.
func (t *ResponseTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules configures the default game table.
type Rules struct {
	LoseCue   string
	PickupCue string
	// NextLevel is published with Player OnWin when the last pickup is
	// collected, whoever collects it. Nil disables the win event.
	NextLevel func() int
}

// DefaultRules uses the stock cue names.
func DefaultRules(nextLevel func() int) Rules {
	return Rules{LoseCue: "lose", PickupCue: "pickup", NextLevel: nextLevel}
}

// DefaultTable is the game's response table:
//
//	player, enemy, obstacle x zone     play the zone cue, pass through
//	player x pickup                    remove pickup, win when none remain
//	enemy x pickup                     remove pickup silently, win when none remain
//	player x enemy, player x obstacle  lose: tint, respawn, count a death
//	movers x walls and each other      step back to the last clear spot
func DefaultTable(r Rules) *ResponseTable {
	t := NewResponseTable()
	zone := EnterZone()
	t.Set(actor.TypePlayer, actor.TypeZone, zone)
	t.Set(actor.TypeEnemy, actor.TypeZone, zone)
	t.Set(actor.TypeObstacle, actor.TypeZone, zone)

	t.Set(actor.TypePlayer, actor.TypePickup, CollectPickup(r.PickupCue, r.NextLevel))
	t.Set(actor.TypeEnemy, actor.TypePickup, CollectPickup("", r.NextLevel))

	t.Set(actor.TypePlayer, actor.TypeEnemy, Lose(r.LoseCue, actor.ColorYellow))
	t.Set(actor.TypePlayer, actor.TypeObstacle, Lose(r.LoseCue, actor.ColorPurple))

	back := StepBack()
	t.SetAll(actor.TypePlayer, back, actor.TypeDecorator)
	t.SetAll(actor.TypeEnemy, back, actor.TypeDecorator, actor.TypeEnemy, actor.TypeObstacle)
	t.SetAll(actor.TypeObstacle, back, actor.TypeDecorator, actor.TypeObstacle)
	return t
}

// EnterZone plays the zone's cue, if it has one, and lets the actor through.
func EnterZone() ResponseFunc {
	return func(c *Context) Outcome {
		if z, ok := c.Other.(interface{ Cue() string }); ok && z.Cue() != "" {
			c.Publish(events.Play2D(z.Cue()))
		}
		return PassThrough
	}
}

// CollectPickup removes the pickup. With nextLevel set, collecting the last
// pickup also announces a win.
func CollectPickup(cue string, nextLevel func() int) ResponseFunc {
	return func(c *Context) Outcome {
		c.Publish(events.RemoveActor(c.Other))
		if cue != "" {
			c.Publish(events.Play2D(cue))
		}
		if nextLevel != nil && !pickupsRemain(c) {
			c.Publish(events.Win(nextLevel()))
		}
		return Block
	}
}

func pickupsRemain(c *Context) bool {
	if c.Peers == nil {
		return false
	}
	_, ok := c.Peers.FindFirstMatching(func(a actor.Actor) bool {
		return a.Type() == actor.TypePickup && a != actor.Actor(c.Other)
	})
	return ok
}

// Lose tints the collidee, sends the actor back to its spawn point and
// counts one death.
func Lose(cue string, tint mgl64.Vec3) ResponseFunc {
	return func(c *Context) Outcome {
		if cue != "" {
			c.Publish(events.Play2D(cue))
		}
		if t, ok := c.Other.(actor.Tintable); ok {
			t.Tint(tint)
		}
		c.Self.ResetToSpawn()
		c.Publish(events.DeathCountChange(1))
		return Block
	}
}

// StepBack undoes the move that caused the overlap.
func StepBack() ResponseFunc {
	return func(c *Context) Outcome {
		c.Self.StepBack()
		return Block
	}
}
