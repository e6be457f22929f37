package collision

import (
	"slices"

	"github.com/jakecoffman/cp"
)

// shapeCastInset pulls sampled corners inside the shape so a ray starting
// flush against a tile boundary still enters that tile.
const shapeCastInset = 1e-3

// Linecast tests the segment start→end. Coincident endpoints never hit.
func (w *World) Linecast(start, end cp.Vector, mask Layer, ignore ...EntityID) Hit {
	delta := end.Sub(start)
	dist := delta.Length()
	if dist <= w.settings.Epsilon {
		return Hit{}
	}
	return w.Raycast(start, delta, dist, mask, ignore...)
}

// OverlapShape returns every tile and entity matching mask that intersects
// shape placed at position. Tiles come first in row-major order, then
// entities in registry order.
func (w *World) OverlapShape(shape Shape, position cp.Vector, mask Layer, ignore ...EntityID) []Hit {
	if shape == nil {
		return nil
	}
	placed := shape.Translate(position)
	var hits []Hit

	w.tiles.overlapping(placed.Bounds(), mask, func(c TileCoord, layers Layer) bool {
		tb := w.tiles.TileBounds(c)
		tile := Box{Offset: cp.Vector{X: tb.L, Y: tb.B}, Width: tb.R - tb.L, Height: tb.T - tb.B}
		if !placed.Intersects(tile) {
			return true
		}
		center := bbCenter(tb)
		hits = append(hits, Hit{
			Hit:      true,
			Point:    center,
			Distance: center.Distance(position),
			HasTile:  true,
			Tile:     c,
			Layers:   layers,
		})
		return true
	})

	for _, e := range w.entities.entries() {
		if e.desc.BelongsTo&mask == 0 || e.desc.Shape == nil || slices.Contains(ignore, e.id) {
			continue
		}
		if !placed.Intersects(e.desc.Shape.Translate(e.pos)) {
			continue
		}
		hits = append(hits, Hit{
			Hit:      true,
			Point:    e.pos,
			Distance: e.pos.Distance(position),
			EntityID: e.id,
			Layers:   e.desc.BelongsTo,
		})
	}
	return hits
}

// ShapeCast approximates sweeping shape from start to end by casting rays
// from the four corners of its bounds and from start itself, returning the
// nearest hit. It is a sampled approximation: thin geometry between the
// sample rays can be missed.
func (w *World) ShapeCast(shape Shape, start, end cp.Vector, mask Layer, ignore ...EntityID) Hit {
	if shape == nil {
		return Hit{}
	}
	delta := end.Sub(start)
	dist := delta.Length()
	if dist <= w.settings.Epsilon {
		return Hit{}
	}

	var best Hit
	for _, p := range castSamples(shape.Translate(start).Bounds(), start) {
		best = closer(best, w.Raycast(p, delta, dist, mask, ignore...))
	}
	return best
}

func castSamples(bb cp.BB, center cp.Vector) [5]cp.Vector {
	inX := min(shapeCastInset, (bb.R-bb.L)/2)
	inY := min(shapeCastInset, (bb.T-bb.B)/2)
	l, r := bb.L+inX, bb.R-inX
	b, t := bb.B+inY, bb.T-inY
	return [5]cp.Vector{
		{X: l, Y: b},
		{X: r, Y: b},
		{X: l, Y: t},
		{X: r, Y: t},
		center,
	}
}

// TileLayersAt returns the tile layers at a world point.
func (w *World) TileLayersAt(p cp.Vector) Layer {
	return w.tiles.Layers(w.tiles.CoordAt(p))
}
