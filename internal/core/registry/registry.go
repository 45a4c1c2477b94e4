// Package registry is the authoritative set of active actors, queried by
// collision detection, gameplay and debug code.
//
// Registration order is preserved and is the iteration order of every
// query. Identifiers are unique: a second actor with a known id is rejected.
// Removals requested while a traversal is running (Update, Each, or an event
// delivered from inside one) are queued and applied when the outermost
// traversal ends, so iteration never observes a mutated slice.
package registry

import (
	"errors"
	"slices"

	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
	"github.com/zerodeaths/zerodeaths/pkg/sequence"
)

// Predicate selects actors in queries.
type Predicate = func(actor.Actor) bool

// Registry owns the active actors. It is not safe for concurrent use; it
// lives on the frame goroutine.
type Registry struct {
	actors     []actor.Actor
	byID       map[string]actor.Actor
	pending    map[string]struct{}
	order      []string
	traversals int
	generation uint64
	logger     log.Log
}

func New(logger log.Log) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		byID:    make(map[string]actor.Actor),
		pending: make(map[string]struct{}),
		logger:  logger.With(log.String("component", "registry")),
	}
}

// Add registers a single actor.
func (r *Registry) Add(a actor.Actor) error {
	if a == nil {
		return oops.Code("NIL_ACTOR").Wrap(ErrNilActor)
	}
	id := a.ID()
	if id == "" {
		return oops.Code("EMPTY_ACTOR_ID").With("type", a.Type().String()).Wrap(ErrEmptyID)
	}
	if existing, ok := r.byID[id]; ok {
		// Re-adding an actor that is queued for removal cancels the removal.
		if existing == a {
			if _, queued := r.pending[id]; queued {
				delete(r.pending, id)
				return nil
			}
		}
		r.logger.Warn("duplicate actor id rejected",
			log.String("id", id),
			log.Stringer("type", a.Type()),
		)
		return oops.
			Code("DUPLICATE_ACTOR").
			With("id", id).
			With("type", a.Type().String()).
			Wrap(ErrDuplicateID)
	}
	r.actors = append(r.actors, a)
	r.byID[id] = a
	return nil
}

// AddAll registers every actor it can and joins the errors of those it could not.
func (r *Registry) AddAll(actors ...actor.Actor) error {
	var all error
	for _, a := range actors {
		if err := r.Add(a); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// Remove takes an actor out of the active set. Inside a traversal the
// removal is queued; the actor stops matching queries immediately but stays
// in the backing slice until the traversal ends. Removing an actor that is
// not registered is a no-op and reports false.
func (r *Registry) Remove(a actor.Actor) bool {
	if a == nil {
		return false
	}
	registered, ok := r.byID[a.ID()]
	if !ok || registered != a {
		return false
	}
	return r.RemoveByID(a.ID())
}

// RemoveByID is Remove keyed by identifier.
func (r *Registry) RemoveByID(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	if _, queued := r.pending[id]; queued {
		return false
	}
	if r.traversals > 0 {
		r.pending[id] = struct{}{}
		r.order = append(r.order, id)
		return true
	}
	r.drop(id)
	return true
}

func (r *Registry) drop(id string) {
	delete(r.byID, id)
	if i := slices.IndexFunc(r.actors, func(a actor.Actor) bool { return a.ID() == id }); i >= 0 {
		r.actors = slices.Delete(r.actors, i, i+1)
	}
}

// PendingRemoval reports whether the actor is queued for removal.
func (r *Registry) PendingRemoval(id string) bool {
	_, ok := r.pending[id]
	return ok
}

// Flush applies queued removals. It is a no-op inside a traversal.
func (r *Registry) Flush() {
	if r.traversals > 0 || len(r.order) == 0 {
		return
	}
	for _, id := range r.order {
		if _, ok := r.pending[id]; ok {
			r.drop(id)
		}
	}
	r.order = r.order[:0]
	clear(r.pending)
}

// GetActorByID returns the live actor with id. A miss is an expected,
// transient condition and is not logged.
func (r *Registry) GetActorByID(id string) (actor.Actor, bool) {
	a, ok := r.byID[id]
	if !ok || r.PendingRemoval(id) {
		return nil, false
	}
	return a, true
}

// Contains reports whether exactly this actor is live in the registry.
func (r *Registry) Contains(a actor.Actor) bool {
	if a == nil {
		return false
	}
	got, ok := r.GetActorByID(a.ID())
	return ok && got == a
}

// Len is the number of live actors.
func (r *Registry) Len() int {
	return len(r.byID) - len(r.pending)
}

// Generation increases on every Clear. Holders of actor references compare
// generations to detect a level teardown.
func (r *Registry) Generation() uint64 {
	return r.generation
}

// Live iterates live actors in registration order over a stable snapshot.
func (r *Registry) Live() *sequence.Iterator[actor.Actor] {
	snapshot := slices.Clone(r.actors)
	return sequence.FromSeq(func(yield func(actor.Actor) bool) {
		for _, a := range snapshot {
			if !r.Contains(a) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	})
}

// Snapshot copies the live actors in registration order.
func (r *Registry) Snapshot() []actor.Actor {
	return r.Live().Collect()
}

// FindAllMatching returns live actors for which pred is true, in registration order.
func (r *Registry) FindAllMatching(pred Predicate) []actor.Actor {
	if pred == nil {
		return nil
	}
	return r.Live().Filter(pred).Collect()
}

// FindFirstMatching returns the first live actor for which pred is true.
func (r *Registry) FindFirstMatching(pred Predicate) (actor.Actor, bool) {
	if pred == nil {
		return nil, false
	}
	return r.Live().Find(pred)
}

// CountByType tallies live actors per type tag.
func (r *Registry) CountByType() map[actor.Type]int {
	return sequence.CountBy(r.Live(), actor.Actor.Type)
}

// ApplyToFirstMatch runs apply on the first match and reports whether one existed.
func (r *Registry) ApplyToFirstMatch(pred Predicate, apply func(actor.Actor)) bool {
	if apply == nil {
		return false
	}
	a, ok := r.FindFirstMatching(pred)
	if !ok {
		return false
	}
	r.traverse(func() { apply(a) })
	return true
}

// ApplyToAllMatches runs apply on every match and returns how many there were.
func (r *Registry) ApplyToAllMatches(pred Predicate, apply func(actor.Actor)) int {
	if apply == nil {
		return 0
	}
	matches := r.FindAllMatching(pred)
	r.traverse(func() {
		for _, a := range matches {
			apply(a)
		}
	})
	return len(matches)
}

// Each visits every live actor. Removals requested by fn are deferred.
func (r *Registry) Each(fn func(actor.Actor)) {
	r.traverse(func() {
		for a := range r.Live().Seq() {
			fn(a)
		}
	})
}

// Update advances every live actor flagged as updated, in registration
// order, then applies removals requested during the pass. Actors added
// during the pass are first updated next frame.
func (r *Registry) Update(f frame.Frame) {
	r.Each(func(a actor.Actor) {
		if !a.Status().Has(actor.StatusUpdated) {
			return
		}
		if u, ok := a.(actor.Updater); ok {
			u.Update(f)
		}
	})
}

func (r *Registry) traverse(fn func()) {
	r.traversals++
	defer func() {
		r.traversals--
		if r.traversals == 0 {
			r.Flush()
		}
	}()
	fn()
}

// Clear empties the registry for a level transition, drops queued
// removals and bumps the generation.
func (r *Registry) Clear() {
	n := len(r.actors)
	r.actors = nil
	clear(r.byID)
	clear(r.pending)
	r.order = r.order[:0]
	r.generation++
	r.logger.Debug("registry cleared",
		log.Int("actors", n),
		log.Uint64("generation", r.generation),
	)
}
