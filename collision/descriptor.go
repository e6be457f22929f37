package collision

import "github.com/jakecoffman/cp"

// EntityID identifies a registered entity. Ids are supplied by the caller and
// must be unique within a World.
type EntityID string

// Descriptor is the per-entity collision record.
type Descriptor struct {
	Shape Shape
	// BelongsTo is what the entity is.
	BelongsTo Layer
	// CollidesWith is what the entity reacts to.
	CollidesWith Layer
	IsStatic     bool
	IsTrigger    bool
	Velocity     cp.Vector
	LastPosition cp.Vector
}

// CanInteract reports whether two descriptors care about each other. One
// matching direction is enough.
func CanInteract(a, b *Descriptor) bool {
	if a == nil || b == nil {
		return false
	}
	return a.BelongsTo&b.CollidesWith != 0 || b.BelongsTo&a.CollidesWith != 0
}

func (d *Descriptor) worldShape(pos cp.Vector) Shape {
	if d == nil || d.Shape == nil {
		return nil
	}
	return d.Shape.Translate(pos)
}
