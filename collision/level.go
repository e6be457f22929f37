package collision

import "strings"

// Level is one level of the loaded world as seen by the collision system.
type Level struct {
	Identifier string
	// WorldX and WorldY are the level origin in world pixels.
	WorldX int
	WorldY int
	Layers []GridLayer
}

// GridLayer is an integer grid layer. Cells is row-major with CellsWide
// columns; zero cells are empty.
type GridLayer struct {
	Identifier string
	GridSize   int
	CellsWide  int
	Cells      []int
	// OffsetX and OffsetY shift the layer inside its level, in pixels.
	OffsetX int
	OffsetY int
}

// DefaultLayerKeywords select the grid layers that carry collision.
var DefaultLayerKeywords = []string{"Collision", "Solid", "Wall"}

// DefaultCellLayers maps int-grid values to collision layers.
func DefaultCellLayers() map[int]Layer {
	return map[int]Layer{
		1: LayerSolid,
		2: LayerPlatform,
		3: LayerWater,
		4: LayerHazard,
		5: LayerTrigger,
	}
}

// IsCollisionLayer reports whether identifier contains one of keywords,
// ignoring case.
func IsCollisionLayer(identifier string, keywords []string) bool {
	id := strings.ToLower(identifier)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(id, kw) {
			return true
		}
	}
	return false
}
