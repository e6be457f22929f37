package collision

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// ResolveMovement turns a desired position into one whose bounds do not
// overlap tiles the entity collides with. When the full move is blocked it
// tries the horizontal component alone, then the vertical one, and finally
// stays put. Only tiles are considered; entities never block.
//
// Unknown entities are logged and allowed to move freely.
func (w *World) ResolveMovement(id EntityID, current, desired cp.Vector) cp.Vector {
	e, ok := w.entities.get(id)
	if !ok {
		w.log.Error("resolve movement for unregistered entity",
			zap.String("entity", string(id)),
			zap.Float64("x", desired.X),
			zap.Float64("y", desired.Y))
		return desired
	}
	if e.desc.Shape == nil {
		return desired
	}

	mask := e.desc.CollidesWith
	free := func(p cp.Vector) bool {
		return !w.tiles.blocked(e.desc.Shape.Translate(p).Bounds(), mask)
	}

	if free(desired) {
		return desired
	}
	if horizontal := (cp.Vector{X: desired.X, Y: current.Y}); free(horizontal) {
		return horizontal
	}
	if vertical := (cp.Vector{X: current.X, Y: desired.Y}); free(vertical) {
		return vertical
	}
	return current
}

// IsBlocked reports whether id placed at pos would overlap a tile it
// collides with.
func (w *World) IsBlocked(id EntityID, pos cp.Vector) bool {
	e, ok := w.entities.get(id)
	if !ok || e.desc.Shape == nil {
		return false
	}
	return w.tiles.blocked(e.desc.Shape.Translate(pos).Bounds(), e.desc.CollidesWith)
}
