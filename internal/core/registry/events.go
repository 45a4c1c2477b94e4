package registry

import (
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Subscribe wires the registry to Object events on d. The returned group
// tears the wiring down.
func (r *Registry) Subscribe(d *events.Dispatcher) (*events.Group, error) {
	g := d.NewGroup("registry")
	if _, err := g.Subscribe(events.CategoryObject, r.handleObjectEvent); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *Registry) handleObjectEvent(e events.Event) error {
	switch e.Action {
	case events.OnRemoveActor:
		ref, ok := events.PayloadAs[events.ActorRef](e)
		if !ok || ref.Actor == nil {
			r.malformed(e)
			return nil
		}
		r.Remove(ref.Actor)
	case events.OnAddActor:
		ref, ok := events.PayloadAs[events.ActorRef](e)
		if !ok || ref.Actor == nil {
			r.malformed(e)
			return nil
		}
		return r.Add(ref.Actor)
	case events.OnApplyActionToFirstMatchActor:
		q, ok := events.PayloadAs[events.ActorQuery](e)
		if !ok || q.Match == nil || q.Apply == nil {
			r.malformed(e)
			return nil
		}
		r.ApplyToFirstMatch(q.Match, q.Apply)
	case events.OnApplyActionToAllActors:
		q, ok := events.PayloadAs[events.ActorQuery](e)
		if !ok || q.Match == nil || q.Apply == nil {
			r.malformed(e)
			return nil
		}
		r.ApplyToAllMatches(q.Match, q.Apply)
	}
	return nil
}

func (r *Registry) malformed(e events.Event) {
	r.logger.Warn("ignoring malformed object event", log.Stringer("event", e))
}
