// Package debugdraw renders the collision world as an overlay. Collect
// gathers primitives without touching the GPU; Draw renders them.
package debugdraw

import (
	"github.com/jakecoffman/cp"

	"github.com/TychoHenzen/OctarineCodex/collision"
)

type Kind int

const (
	KindTile Kind = iota
	KindEntity
	KindTrigger
	KindCircle
	KindRay
	KindHit
	KindNormal
)

// Primitive is one thing to draw, in world coordinates. Rect is set for
// tiles and boxes, Center/Radius for circles, From/To for lines and hits.
type Primitive struct {
	Kind   Kind
	Rect   cp.BB
	Center cp.Vector
	Radius float64
	From   cp.Vector
	To     cp.Vector
	Layers collision.Layer
	ID     collision.EntityID
}

// Ray is a query result to visualise.
type Ray struct {
	Origin cp.Vector
	End    cp.Vector
	Hit    collision.Hit
}

const normalLength = 8

// Collect returns the tiles touching view, every entity shape and the given
// rays. Tiles come first in row-major order, then entities in registry
// order, then rays.
func Collect(w *collision.World, view cp.BB, rays ...Ray) []Primitive {
	if w == nil {
		return nil
	}
	var out []Primitive

	tm := w.TileMap()
	for _, c := range tm.Coords() {
		bb := tm.TileBounds(c)
		if !bb.Intersects(view) {
			continue
		}
		out = append(out, Primitive{Kind: KindTile, Rect: bb, Layers: tm.Layers(c)})
	}

	w.Each(func(id collision.EntityID, desc collision.Descriptor, pos cp.Vector) {
		if desc.Shape == nil {
			return
		}
		out = appendShape(out, id, desc, desc.Shape.Translate(pos))
	})

	for _, r := range rays {
		end := r.End
		if r.Hit.Hit {
			end = r.Hit.Point
		}
		out = append(out, Primitive{Kind: KindRay, From: r.Origin, To: end})
		if !r.Hit.Hit {
			continue
		}
		out = append(out,
			Primitive{Kind: KindHit, From: r.Hit.Point, To: r.Hit.Point, Layers: r.Hit.Layers, ID: r.Hit.EntityID},
			Primitive{Kind: KindNormal, From: r.Hit.Point, To: r.Hit.Point.Add(r.Hit.Normal.Mult(normalLength))},
		)
	}
	return out
}

func appendShape(out []Primitive, id collision.EntityID, desc collision.Descriptor, s collision.Shape) []Primitive {
	switch v := s.(type) {
	case collision.Box:
		kind := KindEntity
		if desc.IsTrigger {
			kind = KindTrigger
		}
		return append(out, Primitive{Kind: kind, Rect: v.Bounds(), Layers: desc.BelongsTo, ID: id})
	case collision.Circle:
		return append(out, Primitive{Kind: KindCircle, Center: v.Center, Radius: v.Radius, Layers: desc.BelongsTo, ID: id})
	case collision.Composite:
		for _, child := range v.Shapes {
			out = appendShape(out, id, desc, child)
		}
	}
	return out
}
