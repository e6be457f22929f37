package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/TychoHenzen/OctarineCodex/collision"
)

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalid       = errors.New("invalid config")
)

type Config struct {
	Collision CollisionConfig `yaml:"collision" toml:"collision"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Viewer    ViewerConfig    `yaml:"viewer" toml:"viewer"`
}

type CollisionConfig struct {
	TileSize      float64  `yaml:"tile_size" toml:"tile_size"`
	LayerKeywords []string `yaml:"layer_keywords" toml:"layer_keywords"`
	// CellLayers maps an int-grid value (as a string key) to a layer
	// expression such as "solid|hazard".
	CellLayers map[string]string `yaml:"cell_layers" toml:"cell_layers"`
	Epsilon    float64           `yaml:"epsilon" toml:"epsilon"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json or console
}

type ViewerConfig struct {
	LevelsDir  string  `yaml:"levels_dir" toml:"levels_dir"`
	Level      string  `yaml:"level" toml:"level"`
	ScriptsDir string  `yaml:"scripts_dir" toml:"scripts_dir"`
	Watch      bool    `yaml:"watch" toml:"watch"`
	ProbeSize  float64 `yaml:"probe_size" toml:"probe_size"`
	ProbeSpeed float64 `yaml:"probe_speed" toml:"probe_speed"`
}

// Load reads path and overlays it on the defaults. The decoder is picked
// from the file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or ".toml").
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Defaults()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Collision: CollisionConfig{
			TileSize:      collision.DefaultTileSize,
			LayerKeywords: slices.Clone(collision.DefaultLayerKeywords),
			Epsilon:       1e-6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Viewer: ViewerConfig{
			LevelsDir:  "levels",
			Level:      "sample.json",
			ScriptsDir: "scripts",
			ProbeSize:  12,
			ProbeSpeed: 2,
		},
	}
}

func (c *Config) Validate() error {
	if c.Collision.TileSize <= 0 {
		return fmt.Errorf("%w: collision.tile_size must be positive, got %v", ErrInvalid, c.Collision.TileSize)
	}
	if c.Collision.Epsilon < 0 {
		return fmt.Errorf("%w: collision.epsilon must not be negative", ErrInvalid)
	}
	if len(c.Collision.LayerKeywords) == 0 {
		return fmt.Errorf("%w: collision.layer_keywords is empty", ErrInvalid)
	}
	for _, k := range c.Collision.LayerKeywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: collision.layer_keywords contains a blank entry", ErrInvalid)
		}
	}
	if _, err := c.cellLayers(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if c.Viewer.ProbeSize <= 0 || c.Viewer.ProbeSpeed <= 0 {
		return fmt.Errorf("%w: viewer probe size and speed must be positive", ErrInvalid)
	}
	return nil
}

// CollisionSettings converts the collision section for collision.NewWorld.
// Configured cell layers are overlaid on the default table.
func (c *Config) CollisionSettings() (collision.Settings, error) {
	cells, err := c.cellLayers()
	if err != nil {
		return collision.Settings{}, err
	}
	s := collision.DefaultSettings()
	s.TileSize = c.Collision.TileSize
	s.LayerKeywords = slices.Clone(c.Collision.LayerKeywords)
	if c.Collision.Epsilon > 0 {
		s.Epsilon = c.Collision.Epsilon
	}
	for v, l := range cells {
		s.CellLayers[v] = l
	}
	return s, nil
}

func (c *Config) cellLayers() (map[int]collision.Layer, error) {
	out := make(map[int]collision.Layer, len(c.Collision.CellLayers))
	for key, expr := range c.Collision.CellLayers {
		v, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: collision.cell_layers key %q is not an integer", ErrInvalid, key)
		}
		l, err := collision.ParseLayer(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: collision.cell_layers[%d]: %v", ErrInvalid, v, err)
		}
		out[v] = l
	}
	return out, nil
}
