package collision

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
)

// ProcessCollisions runs one tick of pairwise detection. Trigger enter events
// are emitted during the scan; trigger exit events are emitted afterwards by
// re-testing every tracked overlap. Non-trigger pairs produce exactly one
// collision event each.
func (w *World) ProcessCollisions() {
	clear(w.processed)

	entries := w.entities.entries()
	placed := make([]Shape, len(entries))
	for i := range entries {
		placed[i] = entries[i].desc.worldShape(entries[i].pos)
	}

	for i := 0; i < len(entries); i++ {
		a := &entries[i]
		if placed[i] == nil {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			b := &entries[j]
			if placed[j] == nil || !CanInteract(&a.desc, &b.desc) {
				continue
			}
			if !placed[i].Intersects(placed[j]) {
				continue
			}
			key := makePairKey(a.id, b.id)
			if _, done := w.processed[key]; done {
				continue
			}
			w.processed[key] = struct{}{}

			if a.desc.IsTrigger || b.desc.IsTrigger {
				if a.desc.IsTrigger {
					w.enterTrigger(a, b.id)
				}
				if b.desc.IsTrigger {
					w.enterTrigger(b, a.id)
				}
				continue
			}
			w.sink.OnCollision(collisionBetween(a, b, placed[i], placed[j]))
		}
	}

	w.cleanupTriggers()
}

func (w *World) enterTrigger(trigger *entry, other EntityID) {
	inside, ok := w.overlaps[trigger.id]
	if !ok {
		inside = make(map[EntityID]struct{})
		w.overlaps[trigger.id] = inside
	}
	if _, already := inside[other]; already {
		return
	}
	inside[other] = struct{}{}
	w.sink.OnTriggerEnter(TriggerEvent{Trigger: trigger.id, Other: other, Layers: trigger.desc.BelongsTo})
}

// cleanupTriggers drops overlaps whose entity is gone, no longer touches the
// trigger, or no longer interacts with it after a mask change. Triggers and members are visited in sorted order so exit
// events are deterministic.
func (w *World) cleanupTriggers() {
	triggers := make([]EntityID, 0, len(w.overlaps))
	for id := range w.overlaps {
		triggers = append(triggers, id)
	}
	slices.Sort(triggers)

	for _, tid := range triggers {
		inside := w.overlaps[tid]
		if len(inside) == 0 {
			continue
		}
		trig, ok := w.entities.get(tid)
		var trigShape Shape
		if ok {
			trigShape = trig.desc.worldShape(trig.pos)
		}
		layers := Layer(0)
		if ok {
			layers = trig.desc.BelongsTo
		}

		members := make([]EntityID, 0, len(inside))
		for id := range inside {
			members = append(members, id)
		}
		slices.Sort(members)

		for _, oid := range members {
			other, registered := w.entities.get(oid)
			still := registered && trigShape != nil
			if still {
				otherShape := other.desc.worldShape(other.pos)
				still = otherShape != nil && CanInteract(&trig.desc, &other.desc) &&
					trigShape.Intersects(otherShape)
			}
			if still {
				continue
			}
			delete(inside, oid)
			w.sink.OnTriggerExit(TriggerEvent{Trigger: tid, Other: oid, Layers: layers})
		}
	}
}

// collisionBetween builds the event for an intersecting pair, ordered so A
// is the smaller id.
func collisionBetween(a, b *entry, sa, sb Shape) CollisionEvent {
	if b.id < a.id {
		a, b = b, a
		sa, sb = sb, sa
	}
	contact := a.pos.Add(b.pos).Mult(0.5)
	var normal cp.Vector
	if d := b.pos.Sub(a.pos); d.Length() > 0 {
		normal = d.Mult(1 / d.Length())
	}
	ow, oh := overlapExtents(sa.Bounds(), sb.Bounds())
	return CollisionEvent{
		A:           a.id,
		B:           b.id,
		Contact:     contact,
		Normal:      normal,
		Penetration: math.Min(ow, oh),
	}
}
