package collision

import "github.com/jakecoffman/cp"

// CollisionEvent is emitted once per tick for every intersecting pair of
// non-trigger entities. A is the lexically smaller id.
type CollisionEvent struct {
	A, B        EntityID
	Contact     cp.Vector
	Normal      cp.Vector
	Penetration float64
}

// TriggerEvent describes an entity entering or leaving a trigger volume.
type TriggerEvent struct {
	Trigger EntityID
	Other   EntityID
	Layers  Layer
}

// EventSink receives the events produced by ProcessCollisions. It is a
// publish-only port; the host decides where events go.
type EventSink interface {
	OnCollision(CollisionEvent)
	OnTriggerEnter(TriggerEvent)
	OnTriggerExit(TriggerEvent)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) OnCollision(CollisionEvent)  {}
func (NopSink) OnTriggerEnter(TriggerEvent) {}
func (NopSink) OnTriggerExit(TriggerEvent)  {}

// EventKind identifies a queued event.
type EventKind string

const (
	EventCollision    EventKind = "collision"
	EventTriggerEnter EventKind = "trigger_enter"
	EventTriggerExit  EventKind = "trigger_exit"
)

// Event is one recorded event. Exactly one of Collision and Trigger is set,
// according to Kind.
type Event struct {
	Kind      EventKind
	Collision CollisionEvent
	Trigger   TriggerEvent
}

// EventQueue is a FIFO sink that records events until drained.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) OnCollision(ev CollisionEvent) {
	q.push(Event{Kind: EventCollision, Collision: ev})
}

func (q *EventQueue) OnTriggerEnter(ev TriggerEvent) {
	q.push(Event{Kind: EventTriggerEnter, Trigger: ev})
}

func (q *EventQueue) OnTriggerExit(ev TriggerEvent) {
	q.push(Event{Kind: EventTriggerExit, Trigger: ev})
}

func (q *EventQueue) push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
