// Package collision is the per-frame 2D collision system: a sparse tile
// collision map, a registry of moving entities, geometric queries, an
// axis-separated movement resolver and a pairwise collision/trigger pass.
//
// A World is not safe for concurrent use. The host must finish repositioning
// entities for a tick before calling ProcessCollisions.
package collision

import (
	"maps"
	"slices"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/TychoHenzen/OctarineCodex/common"
)

// DefaultTileSize is used until a level set provides a grid size.
const DefaultTileSize = 16

// Settings tunes a World.
type Settings struct {
	// TileSize is the working tile size before any level is loaded.
	TileSize float64
	// LayerKeywords select collision grid layers by identifier.
	LayerKeywords []string
	// CellLayers maps int-grid cell values to layers. Values missing from
	// the table count as LayerSolid; values mapped to LayerNone are ignored.
	CellLayers map[int]Layer
	// Epsilon is the tolerance for degenerate geometry.
	Epsilon float64
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		TileSize:      DefaultTileSize,
		LayerKeywords: append([]string(nil), DefaultLayerKeywords...),
		CellLayers:    DefaultCellLayers(),
		Epsilon:       common.Epsilon,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.TileSize <= 0 {
		s.TileSize = d.TileSize
	}
	if len(s.LayerKeywords) == 0 {
		s.LayerKeywords = d.LayerKeywords
	}
	if s.CellLayers == nil {
		s.CellLayers = d.CellLayers
	} else {
		s.CellLayers = maps.Clone(s.CellLayers)
	}
	if s.Epsilon <= 0 {
		s.Epsilon = d.Epsilon
	}
	return s
}

// Option configures a World.
type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func WithEventSink(sink EventSink) Option {
	return func(w *World) {
		if sink != nil {
			w.sink = sink
		}
	}
}

type pairKey struct {
	lo, hi EntityID
}

func makePairKey(a, b EntityID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// World owns the tile map, the entity registry and the trigger bookkeeping.
type World struct {
	settings Settings
	log      *zap.Logger
	sink     EventSink

	tiles    *TileMap
	entities *Registry

	// overlaps maps a trigger to the entities currently inside it.
	overlaps map[EntityID]map[EntityID]struct{}
	// processed is reset at the start of every ProcessCollisions call.
	processed map[pairKey]struct{}
}

func NewWorld(settings Settings, opts ...Option) *World {
	settings = settings.withDefaults()
	w := &World{
		settings:  settings,
		log:       zap.NewNop(),
		sink:      NopSink{},
		tiles:     NewTileMap(settings.TileSize),
		entities:  NewRegistry(),
		overlaps:  make(map[EntityID]map[EntityID]struct{}),
		processed: make(map[pairKey]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetEventSink replaces the event destination. nil restores the no-op sink.
func (w *World) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = NopSink{}
	}
	w.sink = sink
}

// Settings returns the effective settings.
func (w *World) Settings() Settings {
	return w.settings
}

// TileMap returns the current tile collision map. The map is replaced, not
// modified, by InitializeLevels.
func (w *World) TileMap() *TileMap {
	return w.tiles
}

// InitializeLevels rebuilds the tile collision map from scratch.
func (w *World) InitializeLevels(levels []Level) {
	b := tileMapBuilder{
		keywords:   w.settings.LayerKeywords,
		cellLayers: w.settings.CellLayers,
		log:        w.log,
	}
	w.tiles = b.build(levels, w.tiles.TileSize())
	w.log.Info("collision map rebuilt",
		zap.Int("levels", len(levels)),
		zap.Int("tiles", w.tiles.Len()),
		zap.Float64("tile_size", w.tiles.TileSize()))
}

// Register adds or overwrites an entity.
func (w *World) Register(id EntityID, desc Descriptor, pos cp.Vector) {
	w.entities.Set(id, desc, pos)
	if desc.IsTrigger {
		if _, ok := w.overlaps[id]; !ok {
			w.overlaps[id] = make(map[EntityID]struct{})
		}
		return
	}
	delete(w.overlaps, id)
}

// Unregister removes an entity and purges it from every trigger. No exit
// event is emitted for the purge.
func (w *World) Unregister(id EntityID) {
	w.entities.Remove(id)
	delete(w.overlaps, id)
	for _, inside := range w.overlaps {
		delete(inside, id)
	}
}

// Reposition moves a registered entity. Unknown ids are ignored.
func (w *World) Reposition(id EntityID, pos cp.Vector) {
	w.entities.SetPosition(id, pos)
}

// Lookup returns the descriptor and position of id.
func (w *World) Lookup(id EntityID) (Descriptor, cp.Vector, bool) {
	return w.entities.Lookup(id)
}

// UpdateDescriptor applies fn to the stored descriptor of id. It reports
// whether id was registered. Trigger bookkeeping follows IsTrigger; a mask
// change that stops a tracked pair from interacting produces an exit on the
// next ProcessCollisions.
func (w *World) UpdateDescriptor(id EntityID, fn func(*Descriptor)) bool {
	e, ok := w.entities.get(id)
	if !ok || fn == nil {
		return ok
	}
	fn(&e.desc)
	if e.desc.IsTrigger {
		if _, ok := w.overlaps[id]; !ok {
			w.overlaps[id] = make(map[EntityID]struct{})
		}
	} else {
		delete(w.overlaps, id)
	}
	return true
}

// SetVelocity records the velocity of id.
func (w *World) SetVelocity(id EntityID, v cp.Vector) bool {
	return w.UpdateDescriptor(id, func(d *Descriptor) { d.Velocity = v })
}

// Overlapping returns the ids currently inside trigger, sorted.
func (w *World) Overlapping(trigger EntityID) []EntityID {
	inside := w.overlaps[trigger]
	out := make([]EntityID, 0, len(inside))
	for id := range inside {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Stats summarises the world contents.
type Stats struct {
	Tiles    int
	Entities int
	Triggers int
	TileSize float64
}

func (w *World) Stats() Stats {
	return Stats{
		Tiles:    w.tiles.Len(),
		Entities: w.entities.Len(),
		Triggers: len(w.overlaps),
		TileSize: w.tiles.TileSize(),
	}
}

// Clear drops tiles, entities and all trigger state.
func (w *World) Clear() {
	w.tiles = NewTileMap(w.settings.TileSize)
	w.entities.Clear()
	clear(w.overlaps)
	clear(w.processed)
}

// Each calls fn for every registered entity in registry order.
func (w *World) Each(fn func(id EntityID, desc Descriptor, pos cp.Vector)) {
	for _, e := range w.entities.entries() {
		fn(e.id, e.desc, e.pos)
	}
}
