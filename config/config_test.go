package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TychoHenzen/OctarineCodex/collision"
)

const yamlConfig = `
collision:
  tile_size: 8
  layer_keywords: [Collision, Blocking]
  cell_layers:
    "2": platform
    "7": solid|hazard
logging:
  level: debug
  format: json
viewer:
  level: cave.tmx
  watch: true
`

const tomlConfig = `
[collision]
tile_size = 32
epsilon = 0.001

[collision.cell_layers]
"6" = "none"

[logging]
level = "warn"

[viewer]
probe_speed = 4.5
`

func TestParseFormats(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		ext   string
		check func(t *testing.T, c *Config)
	}{
		{
			name: "yaml",
			data: yamlConfig,
			ext:  ".yaml",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 8.0, c.Collision.TileSize)
				assert.Equal(t, []string{"Collision", "Blocking"}, c.Collision.LayerKeywords)
				assert.Equal(t, "debug", c.Logging.Level)
				assert.Equal(t, "json", c.Logging.Format)
				assert.Equal(t, "cave.tmx", c.Viewer.Level)
				assert.True(t, c.Viewer.Watch)
				assert.Equal(t, "levels", c.Viewer.LevelsDir, "unset keys keep defaults")
			},
		},
		{
			name: "yml_upper_case_ext",
			data: yamlConfig,
			ext:  ".YML",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 8.0, c.Collision.TileSize)
			},
		},
		{
			name: "toml",
			data: tomlConfig,
			ext:  ".toml",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 32.0, c.Collision.TileSize)
				assert.Equal(t, 0.001, c.Collision.Epsilon)
				assert.Equal(t, "warn", c.Logging.Level)
				assert.Equal(t, "console", c.Logging.Format)
				assert.Equal(t, 4.5, c.Viewer.ProbeSpeed)
				assert.Equal(t, collision.DefaultLayerKeywords, c.Collision.LayerKeywords)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.data), tc.ext)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		ext     string
		wantErr error
	}{
		{"unknown_ext", "x = 1", ".ini", ErrUnknownFormat},
		{"zero_tile_size", "collision:\n  tile_size: 0\n", ".yaml", ErrInvalid},
		{"empty_keywords", "collision:\n  layer_keywords: []\n", ".yaml", ErrInvalid},
		{"bad_layer_name", "collision:\n  cell_layers:\n    \"3\": lava\n", ".yaml", ErrInvalid},
		{"bad_cell_key", "[collision.cell_layers]\nthree = \"solid\"\n", ".toml", ErrInvalid},
		{"bad_format", "[logging]\nformat = \"xml\"\n", ".toml", ErrInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.ext)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	_, err := Parse([]byte("collision: [unclosed"), ".yaml")
	assert.Error(t, err)
}

func TestCollisionSettings(t *testing.T) {
	cfg, err := Parse([]byte(yamlConfig), ".yaml")
	require.NoError(t, err)

	s, err := cfg.CollisionSettings()
	require.NoError(t, err)
	assert.Equal(t, 8.0, s.TileSize)
	assert.Equal(t, []string{"Collision", "Blocking"}, s.LayerKeywords)
	assert.Equal(t, collision.LayerPlatform, s.CellLayers[2])
	assert.Equal(t, collision.LayerSolid|collision.LayerHazard, s.CellLayers[7])
	assert.Equal(t, collision.LayerHazard, s.CellLayers[4], "defaults survive the overlay")

	w := collision.NewWorld(s)
	assert.Equal(t, 8.0, w.Settings().TileSize)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collisionview.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32.0, cfg.Collision.TileSize)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.NoError(t, Defaults().Validate())
}
