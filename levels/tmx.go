package levels

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/TychoHenzen/OctarineCodex/collision"
)

// CollisionProperty is the tileset tile property holding the int-grid value
// of a tile. Tiles without it count as 1 (solid).
const CollisionProperty = "collision"

// LoadTMX parses a Tiled map and returns it as one level placed at
// (worldX, worldY). Every tile layer becomes a grid layer named after the
// Tiled layer, so the usual keyword filter picks the collision ones.
func LoadTMX(fsys fs.FS, tmxPath string, worldX, worldY int) (collision.Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return collision.Level{}, fmt.Errorf("levels: load TMX %s: %w", tmxPath, err)
	}

	lvl := collision.Level{
		Identifier: strings.TrimSuffix(path.Base(tmxPath), path.Ext(tmxPath)),
		WorldX:     worldX,
		WorldY:     worldY,
	}
	for _, layer := range levelMap.Layers {
		cells := make([]int, levelMap.Width*levelMap.Height)
		for i, tile := range layer.Tiles {
			if i >= len(cells) {
				break
			}
			cells[i] = cellValue(tile)
		}
		lvl.Layers = append(lvl.Layers, collision.GridLayer{
			Identifier: layer.Name,
			GridSize:   levelMap.TileWidth,
			CellsWide:  levelMap.Width,
			Cells:      cells,
			OffsetX:    int(layer.OffsetX),
			OffsetY:    int(layer.OffsetY),
		})
	}
	return lvl, nil
}

func cellValue(tile *tiled.LayerTile) int {
	if tile == nil || tile.IsNil() {
		return 0
	}
	if tile.Tileset == nil {
		return 1
	}
	tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID)
	if err != nil || len(tilesetTile.Properties.Get(CollisionProperty)) == 0 {
		return 1
	}
	return tilesetTile.Properties.GetInt(CollisionProperty)
}
