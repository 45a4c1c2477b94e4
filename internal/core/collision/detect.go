package collision

import (
	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
)

// Collidable is an actor with a collision primitive.
type Collidable interface {
	actor.Actor
	Primitive() geometry.Primitive
}

// Peers is the view of the object registry a collidable actor queries.
type Peers interface {
	Snapshot() []actor.Actor
	Contains(actor.Actor) bool
	Generation() uint64
	GetActorByID(id string) (actor.Actor, bool)
	FindFirstMatching(pred func(actor.Actor) bool) (actor.Actor, bool)
}

// Detect returns the first registered peer whose primitive overlaps self's,
// tested at the current transforms. Self, actors switched off and actors
// without a primitive are skipped. Ties resolve by registry order, which is
// registration order; nothing else ranks overlaps.
func Detect(self Collidable, peers Peers) Collidable {
	if self == nil || peers == nil {
		return nil
	}
	mine := self.Primitive()
	if mine == nil {
		return nil
	}
	for _, a := range peers.Snapshot() {
		if a == actor.Actor(self) || a.Status() == actor.StatusOff {
			continue
		}
		other, ok := a.(Collidable)
		if !ok {
			continue
		}
		theirs := other.Primitive()
		if theirs == nil {
			continue
		}
		if mine.Intersects(theirs) {
			return other
		}
	}
	return nil
}
