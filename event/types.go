package event

import "github.com/TychoHenzen/OctarineCodex/collision"

type Collided struct {
	collision.CollisionEvent
}

type TriggerEntered struct {
	collision.TriggerEvent
}

type TriggerExited struct {
	collision.TriggerEvent
}

// LevelsReloaded is emitted after the tile map was rebuilt from disk.
type LevelsReloaded struct {
	Source string
	Tiles  int
}
