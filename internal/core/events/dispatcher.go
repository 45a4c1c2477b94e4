// Package events is the synchronous publish/subscribe bus that decouples
// event producers (collisions, input, game state) from consumers (sound, UI,
// menu, state tracking).
//
// Key characteristics:
//   - Category fan-out: handlers subscribe by Event.Category.
//   - Synchronous delivery: Publish runs every handler in the caller
//     goroutine, in subscription order, before returning.
//   - Reentrant publishing: a handler may publish further events. Nothing
//     bounds the resulting chain; the dispatcher only logs a warning once
//     nesting passes DeepPublishWarn.
//   - Error aggregation: handler errors and panics are joined and returned,
//     never propagated as a crash.
//   - Owned service: there is no package-level bus. Construct one per
//     process and pass it to the components that need it.
package events

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// DeepPublishWarn is the nesting depth past which a reentrant publish is logged.
const DeepPublishWarn = 16

// Handler is invoked per delivered event. A returned error is aggregated by
// Publish; it does not stop delivery to later handlers.
type Handler func(e Event) error

// Observer is notified about every publish. Observers should return quickly.
type Observer interface {
	OnPublish(e Event)
	OnDelivered(e Event, handlers int, err error, elapsed time.Duration)
}

// Dispatcher is the event bus.
type Dispatcher struct {
	mu        sync.Mutex
	subs      map[Category][]*Subscription
	observers []Observer
	depth     int
	maxDepth  int
	logger    log.Log
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger log.Log) *Dispatcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Dispatcher{
		subs:   make(map[Category][]*Subscription),
		logger: logger.With(log.String("component", "events")),
	}
}

// Subscribe registers handler for every event of category, after any
// handlers already registered for it.
func (d *Dispatcher) Subscribe(category Category, handler Handler) (*Subscription, error) {
	return d.subscribe(category, handler, nil)
}

// MustSubscribe is Subscribe for construction-time wiring with a known non-nil handler.
func (d *Dispatcher) MustSubscribe(category Category, handler Handler) *Subscription {
	s, err := d.Subscribe(category, handler)
	if err != nil {
		panic(err)
	}
	return s
}

func (d *Dispatcher) subscribe(category Category, handler Handler, group *Group) (*Subscription, error) {
	if handler == nil {
		return nil, oops.Code("EVENT_NIL_HANDLER").With("category", category.String()).Wrap(ErrNilHandler)
	}
	s := &Subscription{
		id:         uuid.NewString(),
		category:   category,
		handler:    handler,
		dispatcher: d,
		group:      group,
	}
	s.active.Store(true)

	d.mu.Lock()
	d.subs[category] = append(d.subs[category], s)
	d.mu.Unlock()
	return s, nil
}

// Unsubscribe cancels the subscription. Safe with nil.
func (d *Dispatcher) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	s.Cancel()
}

func (d *Dispatcher) remove(s *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.subs[s.category]
	if i := slices.Index(list, s); i >= 0 {
		d.subs[s.category] = slices.Delete(slices.Clone(list), i, i+1)
	}
}

// Publish delivers e to every active subscriber of e.Category, in
// subscription order, before returning. Subscriptions added during delivery
// do not see the in-flight event; subscriptions cancelled during delivery
// are skipped from that point on.
func (d *Dispatcher) Publish(e Event) error {
	start := time.Now()

	d.mu.Lock()
	subs := d.subs[e.Category]
	observers := d.observers
	d.depth++
	depth := d.depth
	if depth > d.maxDepth {
		d.maxDepth = depth
	}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.depth--
		d.mu.Unlock()
	}()

	if depth == DeepPublishWarn+1 {
		d.logger.Warn("deep reentrant publish chain",
			log.Int("depth", depth),
			log.Stringer("event", e),
		)
	}

	for _, obs := range observers {
		obs.OnPublish(e)
	}

	var all error
	delivered := 0
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		delivered++
		if err := s.invoke(e); err != nil {
			all = errors.Join(all, err)
		}
	}

	if all != nil {
		d.logger.Error("event handlers failed", log.Stringer("event", e), log.Error(all))
	}

	for _, obs := range observers {
		obs.OnDelivered(e, delivered, all, time.Since(start))
	}
	return all
}

// PublishBatch publishes events in order and joins their errors.
func (d *Dispatcher) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		if err := d.Publish(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// NewGroup returns a subscription group whose members can be cancelled
// together, e.g. everything a level subscribed.
func (d *Dispatcher) NewGroup(name string) *Group {
	return &Group{name: name, dispatcher: d}
}

// AddObserver registers an observer for publish/delivery callbacks.
func (d *Dispatcher) AddObserver(obs Observer) {
	d.mu.Lock()
	d.observers = append(slices.Clone(d.observers), obs)
	d.mu.Unlock()
}

// RemoveObserver unregisters a previously added observer.
func (d *Dispatcher) RemoveObserver(obs Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := slices.Index(d.observers, obs); i >= 0 {
		d.observers = slices.Delete(slices.Clone(d.observers), i, i+1)
	}
}

// SubscriberCount reports active subscriptions for a category.
func (d *Dispatcher) SubscriberCount(category Category) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs[category])
}

// MaxDepth is the deepest publish nesting seen so far.
func (d *Dispatcher) MaxDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxDepth
}

// Reset cancels every subscription. Observers are kept.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	all := d.subs
	d.subs = make(map[Category][]*Subscription)
	d.mu.Unlock()

	for _, list := range all {
		for _, s := range list {
			if s.active.CompareAndSwap(true, false) && s.group != nil {
				s.group.forget(s)
			}
		}
	}
	d.logger.Debug("dispatcher reset")
}
