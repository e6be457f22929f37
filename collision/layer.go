package collision

import (
	"fmt"
	"strings"
)

// Layer is a bitmask of collision categories. Every descriptor carries two:
// the categories it belongs to and the categories it collides with.
type Layer uint32

const (
	LayerNone     Layer = 0
	LayerSolid    Layer = 1 << 0
	LayerPlatform Layer = 1 << 1
	LayerTrigger  Layer = 1 << 2
	LayerWater    Layer = 1 << 3
	LayerHazard   Layer = 1 << 4
	// LayerEntityDefault is the category for ordinary actors.
	LayerEntityDefault Layer = 1 << 5
	LayerAll           Layer = 0xFFFFFFFF
)

var layerNames = []struct {
	layer Layer
	name  string
}{
	{LayerSolid, "solid"},
	{LayerPlatform, "platform"},
	{LayerTrigger, "trigger"},
	{LayerWater, "water"},
	{LayerHazard, "hazard"},
	{LayerEntityDefault, "entity"},
}

// Has reports whether every bit of other is set.
func (l Layer) Has(other Layer) bool {
	return other != LayerNone && l&other == other
}

// Matches reports whether l shares at least one bit with mask.
func (l Layer) Matches(mask Layer) bool {
	return l&mask != 0
}

func (l Layer) String() string {
	switch l {
	case LayerNone:
		return "none"
	case LayerAll:
		return "all"
	}
	var parts []string
	rest := l
	for _, ln := range layerNames {
		if l&ln.layer != 0 {
			parts = append(parts, ln.name)
			rest &^= ln.layer
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseLayer parses names joined by '|' ("solid|hazard"). Names are case
// insensitive; "none" and "all" are accepted.
func ParseLayer(s string) (Layer, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LayerNone, fmt.Errorf("collision: empty layer expression")
	}
	var out Layer
	for _, part := range strings.Split(s, "|") {
		name := strings.ToLower(strings.TrimSpace(part))
		switch name {
		case "none":
			continue
		case "all":
			out |= LayerAll
			continue
		case "entitydefault", "entity_default":
			name = "entity"
		}
		found := false
		for _, ln := range layerNames {
			if ln.name == name {
				out |= ln.layer
				found = true
				break
			}
		}
		if !found {
			return LayerNone, fmt.Errorf("collision: unknown layer %q", part)
		}
	}
	return out, nil
}
