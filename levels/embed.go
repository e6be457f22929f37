package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/TychoHenzen/OctarineCodex/collision"
)

//go:embed *.json *.tmx
var LevelsFS embed.FS

// DiskDir is checked before the embedded levels so edited files win.
const DiskDir = "levels"

var ErrNoLevels = errors.New("no levels")

// Project is the on-disk level set: one entry per level, each with its
// int-grid layers.
type Project struct {
	Levels []LevelSpec `json:"levels"`
}

type LevelSpec struct {
	Identifier string      `json:"identifier"`
	WorldX     int         `json:"world_x"`
	WorldY     int         `json:"world_y"`
	Layers     []LayerSpec `json:"layers"`
}

type LayerSpec struct {
	Identifier string `json:"identifier"`
	GridSize   int    `json:"grid_size"`
	CellsWide  int    `json:"c_wid"`
	IntGrid    []int  `json:"int_grid"`
	OffsetX    int    `json:"px_offset_x"`
	OffsetY    int    `json:"px_offset_y"`
}

// Collision converts the project into collision level descriptors.
func (p Project) Collision() []collision.Level {
	out := make([]collision.Level, 0, len(p.Levels))
	for _, l := range p.Levels {
		lvl := collision.Level{
			Identifier: l.Identifier,
			WorldX:     l.WorldX,
			WorldY:     l.WorldY,
			Layers:     make([]collision.GridLayer, 0, len(l.Layers)),
		}
		for _, layer := range l.Layers {
			lvl.Layers = append(lvl.Layers, collision.GridLayer{
				Identifier: layer.Identifier,
				GridSize:   layer.GridSize,
				CellsWide:  layer.CellsWide,
				Cells:      layer.IntGrid,
				OffsetX:    layer.OffsetX,
				OffsetY:    layer.OffsetY,
			})
		}
		out = append(out, lvl)
	}
	return out
}

// LoadProject reads a JSON project from fsys.
func LoadProject(fsys fs.FS, name string) ([]collision.Level, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if len(p.Levels) == 0 {
		return nil, fmt.Errorf("levels: %s: %w", name, ErrNoLevels)
	}
	return p.Collision(), nil
}

// Load reads name from DiskDir, falling back to the embedded copy.
func Load(name string) ([]collision.Level, error) {
	return LoadFrom(DiskDir, name)
}

// LoadFrom reads name from dir, falling back to the embedded copy. The
// format follows the extension: .json projects or .tmx maps.
func LoadFrom(dir, name string) ([]collision.Level, error) {
	clean := cleanLevelPath(name)
	if dir != "" {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return loadAny(os.DirFS(dir), clean)
		}
	}
	return loadAny(LevelsFS, clean)
}

// Embedded returns the bundled sample project.
func Embedded() ([]collision.Level, error) {
	return LoadProject(LevelsFS, "sample.json")
}

func loadAny(fsys fs.FS, name string) ([]collision.Level, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return LoadProject(fsys, name)
	case ".tmx":
		lvl, err := LoadTMX(fsys, name, 0, 0)
		if err != nil {
			return nil, err
		}
		return []collision.Level{lvl}, nil
	}
	return nil, fmt.Errorf("levels: %s: unsupported level format", name)
}

func cleanLevelPath(p string) string {
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, DiskDir+"/"); ok {
		return after
	}
	return s
}

func isLevelFile(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".json" || ext == ".tmx"
}
