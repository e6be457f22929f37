package collision

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySetAndRemove(t *testing.T) {
	r := NewRegistry()
	r.Set("a", Descriptor{BelongsTo: LayerSolid}, cp.Vector{X: 1})
	r.Set("b", Descriptor{BelongsTo: LayerWater}, cp.Vector{X: 2})
	r.Set("c", Descriptor{BelongsTo: LayerHazard}, cp.Vector{X: 3})
	require.Equal(t, 3, r.Len())
	assert.Equal(t, []EntityID{"a", "b", "c"}, r.IDs())

	r.Set("b", Descriptor{BelongsTo: LayerPlatform}, cp.Vector{X: 20})
	assert.Equal(t, 3, r.Len(), "set on an existing id overwrites")
	desc, pos, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, LayerPlatform, desc.BelongsTo)
	assert.Equal(t, cp.Vector{X: 20}, pos)

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	assert.Equal(t, []EntityID{"c", "b"}, r.IDs(), "last entry fills the hole")
	assert.False(t, r.Has("a"))

	desc, pos, ok = r.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, LayerHazard, desc.BelongsTo)
	assert.Equal(t, cp.Vector{X: 3}, pos)

	assert.True(t, r.SetPosition("c", cp.Vector{Y: 9}))
	assert.False(t, r.SetPosition("zz", cp.Vector{}))
	_, pos, _ = r.Lookup("c")
	assert.Equal(t, cp.Vector{Y: 9}, pos)

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.IDs())
}

func TestWorldRepositionAndVelocity(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.Reposition("ghost", cp.Vector{X: 1})
	_, _, ok := w.Lookup("ghost")
	assert.False(t, ok, "reposition of unknown ids is ignored")

	registerBody(w, "p", cp.Vector{})
	assert.True(t, w.SetVelocity("p", cp.Vector{X: 3, Y: -1}))
	assert.False(t, w.SetVelocity("ghost", cp.Vector{}))
	desc, _, _ := w.Lookup("p")
	assert.Equal(t, cp.Vector{X: 3, Y: -1}, desc.Velocity)

	var seen []EntityID
	w.Each(func(id EntityID, _ Descriptor, _ cp.Vector) { seen = append(seen, id) })
	assert.Equal(t, []EntityID{"p"}, seen)
}

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	q.OnTriggerEnter(TriggerEvent{Trigger: "t", Other: "o"})
	q.OnCollision(CollisionEvent{A: "a", B: "b"})
	q.OnTriggerExit(TriggerEvent{Trigger: "t", Other: "o"})
	require.Equal(t, 3, q.Len())

	events := q.Drain()
	assert.Equal(t, []EventKind{EventTriggerEnter, EventCollision, EventTriggerExit}, kinds(events))
	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}
