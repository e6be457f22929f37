package collision

import "github.com/jakecoffman/cp"

type entry struct {
	id   EntityID
	desc Descriptor
	pos  cp.Vector
}

// Registry stores entities densely so iteration is cache friendly and its
// order is stable: insertion order, with the last entry moved into the hole
// on removal.
type Registry struct {
	dense  []entry
	sparse map[EntityID]int
}

func NewRegistry() *Registry {
	return &Registry{sparse: make(map[EntityID]int)}
}

// Has reports whether id is registered.
func (r *Registry) Has(id EntityID) bool {
	if r == nil {
		return false
	}
	_, ok := r.sparse[id]
	return ok
}

// Set inserts or overwrites the entry for id.
func (r *Registry) Set(id EntityID, desc Descriptor, pos cp.Vector) {
	if idx, ok := r.sparse[id]; ok {
		r.dense[idx] = entry{id: id, desc: desc, pos: pos}
		return
	}
	r.dense = append(r.dense, entry{id: id, desc: desc, pos: pos})
	r.sparse[id] = len(r.dense) - 1
}

// Remove deletes id and reports whether it was present.
func (r *Registry) Remove(id EntityID) bool {
	idx, ok := r.sparse[id]
	if !ok {
		return false
	}
	last := len(r.dense) - 1
	moved := r.dense[last]
	r.dense[idx] = moved
	r.sparse[moved.id] = idx
	r.dense[last] = entry{}
	r.dense = r.dense[:last]
	delete(r.sparse, id)
	return true
}

// SetPosition updates the position of id. Unknown ids are ignored.
func (r *Registry) SetPosition(id EntityID, pos cp.Vector) bool {
	idx, ok := r.sparse[id]
	if !ok {
		return false
	}
	r.dense[idx].pos = pos
	return true
}

func (r *Registry) get(id EntityID) (*entry, bool) {
	if r == nil {
		return nil, false
	}
	idx, ok := r.sparse[id]
	if !ok {
		return nil, false
	}
	return &r.dense[idx], true
}

// Lookup returns a copy of the descriptor and the position of id.
func (r *Registry) Lookup(id EntityID) (Descriptor, cp.Vector, bool) {
	e, ok := r.get(id)
	if !ok {
		return Descriptor{}, cp.Vector{}, false
	}
	return e.desc, e.pos, true
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.dense)
}

// IDs returns the registered ids in iteration order.
func (r *Registry) IDs() []EntityID {
	if r == nil {
		return nil
	}
	ids := make([]EntityID, len(r.dense))
	for i := range r.dense {
		ids[i] = r.dense[i].id
	}
	return ids
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.dense = nil
	r.sparse = make(map[EntityID]int)
}

func (r *Registry) entries() []entry {
	if r == nil {
		return nil
	}
	return r.dense
}
