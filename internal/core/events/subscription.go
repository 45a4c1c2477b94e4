package events

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/samber/oops"
)

// Subscription is a registered handler bound to a category.
type Subscription struct {
	id         string
	category   Category
	handler    Handler
	active     atomic.Bool
	dispatcher *Dispatcher
	group      *Group
}

func (s *Subscription) ID() string         { return s.id }
func (s *Subscription) Category() Category { return s.category }
func (s *Subscription) IsActive() bool     { return s.active.Load() }

// Cancel de-registers the handler. Multiple calls are safe.
func (s *Subscription) Cancel() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.dispatcher.remove(s)
	if s.group != nil {
		s.group.forget(s)
	}
}

func (s *Subscription) invoke(e Event) error {
	var err error
	if panicErr := oops.
		Code("EVENT_HANDLER_PANIC").
		With("category", e.Category.String()).
		With("action", e.Action.String()).
		Recover(func() {
			err = s.handler(e)
		}); panicErr != nil {
		return panicErr
	}
	if err == nil {
		return nil
	}
	if _, isOops := oops.AsOops(err); isOops {
		return err
	}
	return oops.
		Code("EVENT_HANDLER_FAILED").
		With("category", e.Category.String()).
		With("action", e.Action.String()).
		With("subscription", s.id).
		Wrap(err)
}

// Group collects subscriptions so they can be torn down together.
type Group struct {
	name       string
	dispatcher *Dispatcher

	mu   sync.Mutex
	subs []*Subscription
}

func (g *Group) Name() string { return g.name }

// Subscribe registers handler on the group's dispatcher and tracks it.
func (g *Group) Subscribe(category Category, handler Handler) (*Subscription, error) {
	s, err := g.dispatcher.subscribe(category, handler, g)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.subs = append(g.subs, s)
	g.mu.Unlock()
	return s, nil
}

// Len is the number of live subscriptions in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// CancelAll cancels every subscription made through the group.
func (g *Group) CancelAll() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()

	for _, s := range subs {
		s.group = nil
		s.Cancel()
	}
}

func (g *Group) forget(s *Subscription) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i := slices.Index(g.subs, s); i >= 0 {
		g.subs = slices.Delete(g.subs, i, i+1)
	}
}
