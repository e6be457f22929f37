package event

import "github.com/TychoHenzen/OctarineCodex/collision"

// Sink publishes collision events onto a Bus.
type Sink struct {
	bus *Bus
}

var _ collision.EventSink = Sink{}

func NewSink(b *Bus) Sink {
	return Sink{bus: b}
}

func (s Sink) OnCollision(ev collision.CollisionEvent) {
	Emit(s.bus, Collided{ev})
}

func (s Sink) OnTriggerEnter(ev collision.TriggerEvent) {
	Emit(s.bus, TriggerEntered{ev})
}

func (s Sink) OnTriggerExit(ev collision.TriggerEvent) {
	Emit(s.bus, TriggerExited{ev})
}
