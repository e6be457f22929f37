package collision

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/TychoHenzen/OctarineCodex/common"
)

// Hit is the result of a query. The zero value means "no hit".
type Hit struct {
	Hit      bool
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	// EntityID is set for entity hits.
	EntityID EntityID
	// HasTile and Tile are set for tile hits.
	HasTile bool
	Tile    TileCoord
	Layers  Layer
}

// IsEntity reports whether the hit is an entity rather than a tile.
func (h Hit) IsEntity() bool {
	return h.Hit && !h.HasTile
}

func closer(best, candidate Hit) Hit {
	if !candidate.Hit {
		return best
	}
	if !best.Hit || candidate.Distance < best.Distance {
		return candidate
	}
	return best
}

// Raycast casts a ray from origin along direction and returns the closest
// tile or entity matching mask within maxDistance. Entities listed in ignore
// are skipped.
func (w *World) Raycast(origin, direction cp.Vector, maxDistance float64, mask Layer, ignore ...EntityID) Hit {
	length := direction.Length()
	if common.ApproxZero(length, w.settings.Epsilon) || maxDistance <= 0 || math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) {
		return Hit{}
	}
	dir := direction.Mult(1 / length)

	best := w.raycastTiles(origin, dir, maxDistance, mask)
	return closer(best, w.raycastEntities(origin, dir, maxDistance, mask, ignore))
}

// raycastTiles walks the grid with a DDA. The tile containing origin is not
// tested. The walk stops early once the ray has left the occupied extent of
// the map along its step direction.
func (w *World) raycastTiles(origin, dir cp.Vector, maxDistance float64, mask Layer) Hit {
	tm := w.tiles
	lo, hi, ok := tm.Extent()
	if !ok {
		return Hit{}
	}
	size := tm.TileSize()
	cell := tm.CoordAt(origin)

	stepX, tMaxX, tDeltaX := ddaAxis(origin.X, dir.X, cell.X, size)
	stepY, tMaxY, tDeltaY := ddaAxis(origin.Y, dir.Y, cell.Y, size)

	for {
		var t float64
		var normal cp.Vector
		if tMaxX < tMaxY {
			t = tMaxX
			cell.X += stepX
			tMaxX += tDeltaX
			normal = cp.Vector{X: -float64(stepX)}
		} else {
			t = tMaxY
			cell.Y += stepY
			tMaxY += tDeltaY
			normal = cp.Vector{Y: -float64(stepY)}
		}
		if t > maxDistance || math.IsInf(t, 1) || leftExtent(cell, stepX, stepY, lo, hi) {
			return Hit{}
		}
		layers := tm.Layers(cell)
		if layers&mask == 0 {
			continue
		}
		return Hit{
			Hit:      true,
			Point:    origin.Add(dir.Mult(t)),
			Normal:   normal,
			Distance: t,
			HasTile:  true,
			Tile:     cell,
			Layers:   layers,
		}
	}
}

// leftExtent reports whether cell lies past [lo, hi] on an axis the ray is
// stepping away from, so no occupied tile can still be reached.
func leftExtent(cell TileCoord, stepX, stepY int, lo, hi TileCoord) bool {
	return (stepX > 0 && cell.X > hi.X) || (stepX < 0 && cell.X < lo.X) ||
		(stepY > 0 && cell.Y > hi.Y) || (stepY < 0 && cell.Y < lo.Y) ||
		(stepX == 0 && (cell.X < lo.X || cell.X > hi.X)) ||
		(stepY == 0 && (cell.Y < lo.Y || cell.Y > hi.Y))
}

// ddaAxis returns the step direction, the ray distance to the first cell
// boundary and the ray distance per whole cell along one axis. A zero
// component never crosses a boundary.
func ddaAxis(origin, dir float64, cell int, size float64) (step int, tMax, tDelta float64) {
	switch {
	case dir > 0:
		next := float64(cell+1) * size
		return 1, (next - origin) / dir, size / dir
	case dir < 0:
		prev := float64(cell) * size
		return -1, (origin - prev) / -dir, size / -dir
	}
	return 0, math.Inf(1), math.Inf(1)
}

func (w *World) raycastEntities(origin, dir cp.Vector, maxDistance float64, mask Layer, ignore []EntityID) Hit {
	var best Hit
	for _, e := range w.entities.entries() {
		if e.desc.BelongsTo&mask == 0 || e.desc.Shape == nil || slices.Contains(ignore, e.id) {
			continue
		}
		bb := e.desc.Shape.Translate(e.pos).Bounds()
		t, ok := rayAABB(origin, dir, maxDistance, bb)
		if !ok {
			continue
		}
		point := origin.Add(dir.Mult(t))
		best = closer(best, Hit{
			Hit:      true,
			Point:    point,
			Normal:   boxNormalAt(bb, point),
			Distance: t,
			EntityID: e.id,
			Layers:   e.desc.BelongsTo,
		})
	}
	return best
}

// rayAABB is a slab test for a ray of unit direction dir over [0, maxT].
func rayAABB(origin, dir cp.Vector, maxT float64, bb cp.BB) (float64, bool) {
	tmin := 0.0
	tmax := maxT

	if dir.X != 0 {
		inv := 1.0 / dir.X
		t1 := (bb.L - origin.X) * inv
		t2 := (bb.R - origin.X) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if origin.X < bb.L || origin.X > bb.R {
		return 0, false
	}

	if dir.Y != 0 {
		inv := 1.0 / dir.Y
		t1 := (bb.B - origin.Y) * inv
		t2 := (bb.T - origin.Y) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if origin.Y < bb.B || origin.Y > bb.T {
		return 0, false
	}

	if tmax >= tmin {
		return tmin, true
	}
	return 0, false
}

// boxNormalAt returns the outward normal of the edge of bb nearest to p.
func boxNormalAt(bb cp.BB, p cp.Vector) cp.Vector {
	best := math.Abs(p.X - bb.L)
	normal := cp.Vector{X: -1}
	if d := math.Abs(p.X - bb.R); d < best {
		best, normal = d, cp.Vector{X: 1}
	}
	if d := math.Abs(p.Y - bb.B); d < best {
		best, normal = d, cp.Vector{Y: -1}
	}
	if d := math.Abs(p.Y - bb.T); d < best {
		normal = cp.Vector{Y: 1}
	}
	return normal
}
