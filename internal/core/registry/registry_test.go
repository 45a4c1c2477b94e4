package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

type ticking struct {
	*actor.Base
	updates int
	onTick  func()
}

func (t *ticking) Update(frame.Frame) {
	t.updates++
	if t.onTick != nil {
		t.onTick()
	}
}

func newTicking(id string, typ actor.Type) *ticking {
	return &ticking{Base: actor.NewBase(id, typ, actor.StatusActive, nil)}
}

func ids(actors []actor.Actor) []string {
	out := make([]string, 0, len(actors))
	for _, a := range actors {
		out = append(out, a.ID())
	}
	return out
}

func TestGetActorByIDMissingOnEmptyRegistry(t *testing.T) {
	r := New(nil)
	a, ok := r.GetActorByID("missing")
	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestAddPreservesOrderAndRejectsDuplicates(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.AddAll(newTicking("a", actor.TypePlayer), newTicking("b", actor.TypeEnemy)))

	err := r.Add(newTicking("a", actor.TypePickup))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)

	assert.ErrorIs(t, r.Add(nil), ErrNilActor)
	assert.ErrorIs(t, r.Add(newTicking("", actor.TypeZone)), ErrEmptyID)

	assert.Equal(t, []string{"a", "b"}, ids(r.Snapshot()))
	got, ok := r.GetActorByID("a")
	require.True(t, ok)
	assert.Equal(t, actor.TypePlayer, got.Type(), "the original registration wins")
}

func TestAddAllKeepsValidActors(t *testing.T) {
	r := New(nil)
	err := r.AddAll(newTicking("a", actor.TypeZone), nil, newTicking("a", actor.TypeZone), newTicking("b", actor.TypeZone))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilActor)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 2, r.Len())
}

func TestRemoveOutsideTraversalIsImmediate(t *testing.T) {
	r := New(nil)
	a := newTicking("a", actor.TypePickup)
	require.NoError(t, r.Add(a))

	assert.True(t, r.Remove(a))
	assert.False(t, r.Remove(a), "second removal is a no-op")
	assert.False(t, r.Remove(newTicking("ghost", actor.TypePickup)))
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Contains(a))
}

func TestRemoveRequiresSameInstance(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(newTicking("a", actor.TypePickup)))
	assert.False(t, r.Remove(newTicking("a", actor.TypePickup)))
	assert.Equal(t, 1, r.Len())
}

func TestRemoveDuringUpdateIsDeferred(t *testing.T) {
	r := New(nil)
	a := newTicking("a", actor.TypePlayer)
	b := newTicking("b", actor.TypePickup)
	c := newTicking("c", actor.TypeEnemy)
	a.onTick = func() {
		assert.True(t, r.Remove(b))
		assert.False(t, r.Contains(b), "queued actors stop matching queries")
		assert.True(t, r.PendingRemoval("b"))
		assert.Equal(t, 2, r.Len())
	}
	require.NoError(t, r.AddAll(a, b, c))

	r.Update(frame.Fixed(1, 0))

	assert.Equal(t, 1, a.updates)
	assert.Equal(t, 0, b.updates, "queued actors are skipped for the rest of the pass")
	assert.Equal(t, 1, c.updates)
	assert.Equal(t, []string{"a", "c"}, ids(r.Snapshot()))
	assert.False(t, r.PendingRemoval("b"))
}

func TestAddDuringUpdateWaitsForNextFrame(t *testing.T) {
	r := New(nil)
	late := newTicking("late", actor.TypeEnemy)
	a := newTicking("a", actor.TypePlayer)
	a.onTick = func() { _ = r.Add(late) }
	require.NoError(t, r.Add(a))

	r.Update(frame.Fixed(1, 0))
	assert.Equal(t, 0, late.updates)

	a.onTick = nil
	r.Update(frame.Fixed(2, 0))
	assert.Equal(t, 1, late.updates)
}

func TestUpdateSkipsActorsNotFlaggedUpdated(t *testing.T) {
	r := New(nil)
	drawnOnly := newTicking("d", actor.TypeDecorator)
	drawnOnly.SetStatus(actor.StatusDrawn)
	off := newTicking("o", actor.TypeDecorator)
	off.SetStatus(actor.StatusOff)
	require.NoError(t, r.AddAll(drawnOnly, off))

	r.Update(frame.Fixed(1, 0))
	assert.Equal(t, 0, drawnOnly.updates)
	assert.Equal(t, 0, off.updates)
}

func TestClearDuringUpdate(t *testing.T) {
	r := New(nil)
	a := newTicking("a", actor.TypePlayer)
	b := newTicking("b", actor.TypeEnemy)
	a.onTick = func() { r.Clear() }
	require.NoError(t, r.AddAll(a, b))
	gen := r.Generation()

	r.Update(frame.Fixed(1, 0))
	assert.Equal(t, 0, b.updates)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, gen+1, r.Generation())
}

func TestQueries(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.AddAll(
		newTicking("pickup 1", actor.TypePickup),
		newTicking("enemy 1", actor.TypeEnemy),
		newTicking("pickup 2", actor.TypePickup),
	))
	isPickup := func(a actor.Actor) bool { return a.Type() == actor.TypePickup }

	assert.Equal(t, []string{"pickup 1", "pickup 2"}, ids(r.FindAllMatching(isPickup)))
	assert.Nil(t, r.FindAllMatching(nil))

	first, ok := r.FindFirstMatching(isPickup)
	require.True(t, ok)
	assert.Equal(t, "pickup 1", first.ID())

	_, ok = r.FindFirstMatching(func(a actor.Actor) bool { return a.Type() == actor.TypeZone })
	assert.False(t, ok)

	assert.Equal(t, map[actor.Type]int{actor.TypePickup: 2, actor.TypeEnemy: 1}, r.CountByType())
}

func TestApplyToMatchesMayRemove(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.AddAll(
		newTicking("p1", actor.TypePickup),
		newTicking("p2", actor.TypePickup),
		newTicking("e1", actor.TypeEnemy),
	))
	isPickup := func(a actor.Actor) bool { return a.Type() == actor.TypePickup }

	n := r.ApplyToAllMatches(isPickup, func(a actor.Actor) { r.Remove(a) })
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"e1"}, ids(r.Snapshot()))

	assert.True(t, r.ApplyToFirstMatch(
		func(a actor.Actor) bool { return a.Type() == actor.TypeEnemy },
		func(a actor.Actor) { a.SetStatus(actor.StatusOff) },
	))
	e, _ := r.GetActorByID("e1")
	assert.Equal(t, actor.StatusOff, e.Status())
	assert.False(t, r.ApplyToFirstMatch(isPickup, func(actor.Actor) {}))
}

func TestClearBumpsGeneration(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(newTicking("a", actor.TypePlayer)))
	r.Clear()
	assert.Equal(t, uint64(1), r.Generation())
	assert.Equal(t, 0, r.Len())
	require.NoError(t, r.Add(newTicking("a", actor.TypePlayer)), "ids are reusable after a clear")
}

func TestObjectEvents(t *testing.T) {
	d := events.NewDispatcher(nil)
	r := New(nil)
	g, err := r.Subscribe(d)
	require.NoError(t, err)

	p := newTicking("pickup", actor.TypePickup)
	require.NoError(t, d.Publish(events.New(events.CategoryObject, events.OnAddActor, events.ActorRef{Actor: p})))
	assert.True(t, r.Contains(p))

	touched := 0
	require.NoError(t, d.Publish(events.New(events.CategoryObject, events.OnApplyActionToAllActors, events.ActorQuery{
		Match: func(actor.Actor) bool { return true },
		Apply: func(actor.Actor) { touched++ },
	})))
	assert.Equal(t, 1, touched)

	require.NoError(t, d.Publish(events.New(events.CategoryObject, events.OnApplyActionToFirstMatchActor, events.ActorQuery{
		Match: func(a actor.Actor) bool { return a.ID() == "pickup" },
		Apply: func(a actor.Actor) { a.SetStatus(actor.StatusDrawn) },
	})))
	assert.Equal(t, actor.StatusDrawn, p.Status())

	// Malformed payloads are ignored.
	require.NoError(t, d.Publish(events.New(events.CategoryObject, events.OnRemoveActor, events.Delta{Amount: 1})))
	require.NoError(t, d.Publish(events.New(events.CategoryObject, events.OnApplyActionToAllActors, nil)))
	assert.True(t, r.Contains(p))

	require.NoError(t, d.Publish(events.RemoveActor(p)))
	assert.False(t, r.Contains(p))

	g.CancelAll()
	require.NoError(t, d.Publish(events.New(events.CategoryObject, events.OnAddActor, events.ActorRef{Actor: p})))
	assert.False(t, r.Contains(p))
}
