package collision

import (
	"slices"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/TychoHenzen/OctarineCodex/common"
)

// TileCoord is an integer grid cell in world tile space.
type TileCoord struct {
	X, Y int
}

// TileMap is the sparse static collision grid. It is rebuilt wholesale and
// never patched.
type TileMap struct {
	tiles    map[TileCoord]Layer
	tileSize float64
	// min and max bound every occupied coordinate; meaningless when empty.
	min, max TileCoord
}

func NewTileMap(tileSize float64) *TileMap {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &TileMap{tiles: make(map[TileCoord]Layer), tileSize: tileSize}
}

func (m *TileMap) TileSize() float64 {
	return m.tileSize
}

func (m *TileMap) Len() int {
	return len(m.tiles)
}

// Layers returns the bitmask stored at c, LayerNone when empty.
func (m *TileMap) Layers(c TileCoord) Layer {
	return m.tiles[c]
}

// CoordAt returns the tile containing the world point p.
func (m *TileMap) CoordAt(p cp.Vector) TileCoord {
	return TileCoord{
		X: common.FloorDiv(p.X, m.tileSize),
		Y: common.FloorDiv(p.Y, m.tileSize),
	}
}

// TileBounds returns the world rectangle covered by c.
func (m *TileMap) TileBounds(c TileCoord) cp.BB {
	x := float64(c.X) * m.tileSize
	y := float64(c.Y) * m.tileSize
	return cp.BB{L: x, B: y, R: x + m.tileSize, T: y + m.tileSize}
}

// Extent returns the smallest and largest occupied coordinates on each axis.
// ok is false for an empty map.
func (m *TileMap) Extent() (lo, hi TileCoord, ok bool) {
	if len(m.tiles) == 0 {
		return TileCoord{}, TileCoord{}, false
	}
	return m.min, m.max, true
}

// Coords returns every occupied coordinate sorted by row then column.
func (m *TileMap) Coords() []TileCoord {
	out := make([]TileCoord, 0, len(m.tiles))
	for c := range m.tiles {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCoords)
	return out
}

// Equal reports whether both maps hold the same cells and tile size.
func (m *TileMap) Equal(other *TileMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.tileSize != other.tileSize || len(m.tiles) != len(other.tiles) {
		return false
	}
	for c, l := range m.tiles {
		if other.tiles[c] != l {
			return false
		}
	}
	return true
}

// overlapping calls fn for every occupied tile matching mask whose box
// strictly overlaps bb, in row-major order. Returning false stops the walk.
func (m *TileMap) overlapping(bb cp.BB, mask Layer, fn func(TileCoord, Layer) bool) {
	if len(m.tiles) == 0 {
		return
	}
	minX := common.FloorDiv(bb.L, m.tileSize)
	minY := common.FloorDiv(bb.B, m.tileSize)
	maxX := common.FloorDiv(bb.R, m.tileSize)
	maxY := common.FloorDiv(bb.T, m.tileSize)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			c := TileCoord{X: x, Y: y}
			layers, ok := m.tiles[c]
			if !ok || layers&mask == 0 {
				continue
			}
			if !overlapsBB(bb, m.TileBounds(c)) {
				continue
			}
			if !fn(c, layers) {
				return
			}
		}
	}
}

// blocked reports whether bb overlaps any tile matching mask.
func (m *TileMap) blocked(bb cp.BB, mask Layer) bool {
	hit := false
	m.overlapping(bb, mask, func(TileCoord, Layer) bool {
		hit = true
		return false
	})
	return hit
}

type tileMapBuilder struct {
	keywords   []string
	cellLayers map[int]Layer
	log        *zap.Logger
}

// build constructs a fresh map from levels. The resulting tile size is the
// grid size of the last collision layer seen; fallback is used when no
// collision layer exists.
func (b tileMapBuilder) build(levels []Level, fallback float64) *TileMap {
	tiles := make(map[TileCoord]Layer)
	tileSize := fallback
	seenSize := 0
	var lo, hi TileCoord

	for _, lvl := range levels {
		for _, layer := range lvl.Layers {
			if !IsCollisionLayer(layer.Identifier, b.keywords) {
				continue
			}
			if layer.GridSize <= 0 || layer.CellsWide <= 0 {
				b.log.Warn("skipping malformed collision layer",
					zap.String("level", lvl.Identifier),
					zap.String("layer", layer.Identifier),
					zap.Int("grid_size", layer.GridSize),
					zap.Int("cells_wide", layer.CellsWide))
				continue
			}
			if seenSize != 0 && seenSize != layer.GridSize {
				b.log.Warn("collision layers disagree on grid size",
					zap.String("level", lvl.Identifier),
					zap.String("layer", layer.Identifier),
					zap.Int("previous", seenSize),
					zap.Int("grid_size", layer.GridSize))
			}
			seenSize = layer.GridSize
			tileSize = float64(layer.GridSize)

			grid := float64(layer.GridSize)
			for i, v := range layer.Cells {
				if v == 0 {
					continue
				}
				cx := i % layer.CellsWide
				cy := i / layer.CellsWide
				px := float64(lvl.WorldX + layer.OffsetX + cx*layer.GridSize)
				py := float64(lvl.WorldY + layer.OffsetY + cy*layer.GridSize)
				l := b.layerFor(v)
				if l == LayerNone {
					continue
				}
				c := TileCoord{
					X: common.FloorDiv(px, grid),
					Y: common.FloorDiv(py, grid),
				}
				if len(tiles) == 0 {
					lo, hi = c, c
				} else {
					lo = TileCoord{X: min(lo.X, c.X), Y: min(lo.Y, c.Y)}
					hi = TileCoord{X: max(hi.X, c.X), Y: max(hi.Y, c.Y)}
				}
				tiles[c] |= l
			}
		}
	}

	return &TileMap{tiles: tiles, tileSize: tileSize, min: lo, max: hi}
}

func (b tileMapBuilder) layerFor(value int) Layer {
	if l, ok := b.cellLayers[value]; ok {
		return l
	}
	return LayerSolid
}

func compareCoords(a, b TileCoord) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}
