package collision

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueuedWorld() (*World, *EventQueue) {
	q := &EventQueue{}
	return NewWorld(DefaultSettings(), WithEventSink(q)), q
}

func registerZone(w *World, id EntityID, pos cp.Vector) {
	w.Register(id, Descriptor{
		Shape:        NewBox(0, 0, 32, 32),
		BelongsTo:    LayerTrigger,
		CollidesWith: LayerEntityDefault,
		IsTrigger:    true,
		IsStatic:     true,
	}, pos)
}

func registerBody(w *World, id EntityID, pos cp.Vector) {
	w.Register(id, Descriptor{
		Shape:        NewBox(0, 0, 10, 10),
		BelongsTo:    LayerEntityDefault,
		CollidesWith: LayerEntityDefault | LayerTrigger,
	}, pos)
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestTriggerLifecycle(t *testing.T) {
	w, q := newQueuedWorld()
	registerZone(w, "zone", cp.Vector{X: 100, Y: 100})
	registerBody(w, "player", cp.Vector{X: 0, Y: 0})

	w.ProcessCollisions()
	assert.Zero(t, q.Len())

	w.Reposition("player", cp.Vector{X: 110, Y: 110})
	w.ProcessCollisions()
	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, EventTriggerEnter, events[0].Kind)
	assert.Equal(t, TriggerEvent{Trigger: "zone", Other: "player", Layers: LayerTrigger}, events[0].Trigger)
	assert.Equal(t, []EntityID{"player"}, w.Overlapping("zone"))

	for range 5 {
		w.Reposition("player", cp.Vector{X: 112, Y: 111})
		w.ProcessCollisions()
	}
	assert.Zero(t, q.Len(), "staying inside produces no events")

	w.Reposition("player", cp.Vector{X: 300, Y: 110})
	w.ProcessCollisions()
	events = q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, EventTriggerExit, events[0].Kind)
	assert.Equal(t, TriggerEvent{Trigger: "zone", Other: "player", Layers: LayerTrigger}, events[0].Trigger)
	assert.Empty(t, w.Overlapping("zone"))

	w.ProcessCollisions()
	assert.Zero(t, q.Len())
}

func TestTriggerEdgeContactDoesNotEnter(t *testing.T) {
	w, q := newQueuedWorld()
	registerZone(w, "zone", cp.Vector{X: 100, Y: 100})
	registerBody(w, "player", cp.Vector{X: 90, Y: 100})

	w.ProcessCollisions()
	assert.Zero(t, q.Len())
}

func TestTriggerExitsWhenMasksStopInteracting(t *testing.T) {
	cases := []struct {
		name       string
		target     EntityID
		change     func(*Descriptor)
		wantLayers Layer
	}{
		{"trigger_changes_layers", "zone", func(d *Descriptor) {
			d.BelongsTo = LayerWater
			d.CollidesWith = LayerNone
		}, LayerWater},
		{"body_changes_layers", "player", func(d *Descriptor) {
			d.BelongsTo = LayerWater
			d.CollidesWith = LayerNone
		}, LayerTrigger},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, q := newQueuedWorld()
			registerZone(w, "zone", cp.Vector{X: 100, Y: 100})
			registerBody(w, "player", cp.Vector{X: 110, Y: 110})
			w.ProcessCollisions()
			require.Equal(t, []EventKind{EventTriggerEnter}, kinds(q.Drain()))

			require.True(t, w.UpdateDescriptor(c.target, c.change))
			w.ProcessCollisions()
			events := q.Drain()
			require.Equal(t, []EventKind{EventTriggerExit}, kinds(events))
			assert.Equal(t, TriggerEvent{Trigger: "zone", Other: "player", Layers: c.wantLayers}, events[0].Trigger)
			assert.Empty(t, w.Overlapping("zone"))

			w.ProcessCollisions()
			assert.Zero(t, q.Len(), "still overlapping but no longer interacting")
		})
	}
}

func TestCollisionEventPerPair(t *testing.T) {
	for _, order := range [][]EntityID{{"a", "b"}, {"b", "a"}} {
		t.Run(string(order[0])+"_first", func(t *testing.T) {
			w, q := newQueuedWorld()
			positions := map[EntityID]cp.Vector{"a": {X: 0, Y: 0}, "b": {X: 6, Y: 2}}
			for _, id := range order {
				registerBody(w, id, positions[id])
			}

			w.ProcessCollisions()
			events := q.Drain()
			require.Len(t, events, 1)
			require.Equal(t, EventCollision, events[0].Kind)

			ev := events[0].Collision
			assert.Equal(t, EntityID("a"), ev.A)
			assert.Equal(t, EntityID("b"), ev.B)
			assert.Equal(t, cp.Vector{X: 3, Y: 1}, ev.Contact)
			l := math.Sqrt(40)
			assert.InDelta(t, 6/l, ev.Normal.X, 1e-9)
			assert.InDelta(t, 2/l, ev.Normal.Y, 1e-9)
			assert.InDelta(t, 4.0, ev.Penetration, 1e-9)

			w.ProcessCollisions()
			assert.Equal(t, 1, q.Len(), "collisions are reported every tick")
		})
	}
}

func TestCollisionCoincidentPositions(t *testing.T) {
	w, q := newQueuedWorld()
	registerBody(w, "a", cp.Vector{X: 5, Y: 5})
	registerBody(w, "b", cp.Vector{X: 5, Y: 5})

	w.ProcessCollisions()
	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, cp.Vector{}, events[0].Collision.Normal)
	assert.InDelta(t, 10.0, events[0].Collision.Penetration, 1e-9)
}

func TestCollisionMasks(t *testing.T) {
	cases := []struct {
		name     string
		a, b     Descriptor
		wantHits int
	}{
		{
			"one_way_is_enough",
			Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerEntityDefault, CollidesWith: LayerHazard},
			Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerHazard},
			1,
		},
		{
			"no_overlap_in_masks",
			Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerEntityDefault, CollidesWith: LayerSolid},
			Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerWater, CollidesWith: LayerPlatform},
			0,
		},
		{
			"shapeless_never_collides",
			Descriptor{BelongsTo: LayerAll, CollidesWith: LayerAll},
			Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerAll, CollidesWith: LayerAll},
			0,
		},
		{
			"static_pairs_are_scanned",
			Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerSolid, CollidesWith: LayerSolid, IsStatic: true},
			Descriptor{Shape: NewCircle(5, 5, 3), BelongsTo: LayerSolid, CollidesWith: LayerSolid, IsStatic: true},
			1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, q := newQueuedWorld()
			w.Register("a", c.a, cp.Vector{X: 0, Y: 0})
			w.Register("b", c.b, cp.Vector{X: 4, Y: 4})
			w.ProcessCollisions()
			assert.Equal(t, c.wantHits, q.Len())
		})
	}
}

func TestUnregisterPurgesTriggerState(t *testing.T) {
	w, q := newQueuedWorld()
	registerZone(w, "zone", cp.Vector{X: 0, Y: 0})
	registerBody(w, "player", cp.Vector{X: 5, Y: 5})

	w.ProcessCollisions()
	require.Equal(t, []EventKind{EventTriggerEnter}, kinds(q.Drain()))

	w.Unregister("player")
	assert.Empty(t, w.Overlapping("zone"))
	w.ProcessCollisions()
	assert.Zero(t, q.Len(), "unregistering does not emit an exit")

	registerBody(w, "player", cp.Vector{X: 5, Y: 5})
	w.ProcessCollisions()
	assert.Equal(t, []EventKind{EventTriggerEnter}, kinds(q.Drain()), "re-registration enters again")

	w.Unregister("zone")
	w.ProcessCollisions()
	assert.Zero(t, q.Len())
	assert.Equal(t, 0, w.Stats().Triggers)
}

func TestReregisterTriggerAsSolid(t *testing.T) {
	w, q := newQueuedWorld()
	registerZone(w, "zone", cp.Vector{X: 0, Y: 0})
	registerBody(w, "player", cp.Vector{X: 5, Y: 5})
	w.ProcessCollisions()
	q.Drain()

	desc, pos, ok := w.Lookup("zone")
	require.True(t, ok)
	desc.IsTrigger = false
	w.Register("zone", desc, pos)
	assert.Empty(t, w.Overlapping("zone"))

	w.ProcessCollisions()
	assert.Equal(t, []EventKind{EventCollision}, kinds(q.Drain()))

	ok = w.UpdateDescriptor("zone", func(d *Descriptor) { d.IsTrigger = true })
	require.True(t, ok)
	w.ProcessCollisions()
	assert.Equal(t, []EventKind{EventTriggerEnter}, kinds(q.Drain()))
}

func TestTriggerPairEntersBothWays(t *testing.T) {
	w, q := newQueuedWorld()
	w.Register("t1", Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerTrigger, CollidesWith: LayerTrigger, IsTrigger: true}, cp.Vector{})
	w.Register("t2", Descriptor{Shape: NewBox(0, 0, 10, 10), BelongsTo: LayerTrigger, CollidesWith: LayerTrigger, IsTrigger: true}, cp.Vector{X: 5})

	w.ProcessCollisions()
	events := q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, TriggerEvent{Trigger: "t1", Other: "t2", Layers: LayerTrigger}, events[0].Trigger)
	assert.Equal(t, TriggerEvent{Trigger: "t2", Other: "t1", Layers: LayerTrigger}, events[1].Trigger)

	w.Reposition("t2", cp.Vector{X: 50})
	w.ProcessCollisions()
	events = q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, EventTriggerExit, events[0].Kind)
	assert.Equal(t, EntityID("t1"), events[0].Trigger.Trigger)
	assert.Equal(t, EntityID("t2"), events[1].Trigger.Trigger)
}

func TestClearResetsWorld(t *testing.T) {
	w, q := newQueuedWorld()
	w.InitializeLevels([]Level{gridLevel("Collision", 16, 4, 4, 1, TileCoord{1, 1})})
	registerZone(w, "zone", cp.Vector{X: 0, Y: 0})
	registerBody(w, "player", cp.Vector{X: 5, Y: 5})
	w.ProcessCollisions()
	q.Drain()

	w.Clear()
	assert.Equal(t, Stats{TileSize: DefaultTileSize}, w.Stats())
	assert.Empty(t, w.Overlapping("zone"))
	assert.False(t, w.Raycast(cp.Vector{}, cp.Vector{X: 1, Y: 1}, 100, LayerAll).Hit)

	w.ProcessCollisions()
	assert.Zero(t, q.Len())
}

func TestSetEventSinkNilRestoresNop(t *testing.T) {
	w, q := newQueuedWorld()
	registerBody(w, "a", cp.Vector{})
	registerBody(w, "b", cp.Vector{X: 1})
	w.SetEventSink(nil)
	assert.NotPanics(t, w.ProcessCollisions)
	assert.Zero(t, q.Len())
}
