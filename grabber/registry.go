package grabber

import (
	"sort"
	"sync"
	"time"
)

// Registry maps source IDs to sources. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources map[SourceID]Source
}

// NewRegistry creates a registry holding the given sources. Later sources
// with an already registered ID are ignored.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{sources: make(map[SourceID]Source)}
	for _, s := range sources {
		r.Register(s, false)
	}
	return r
}

// DefaultRegistry returns a registry with every built-in source. Dates on
// the sites are read in loc, UTC when nil.
func DefaultRegistry(g *Grabber, loc *time.Location) *Registry {
	batoto := NewBatoto(g)
	if loc != nil {
		batoto.Location = loc
	}
	return NewRegistry(batoto)
}

// Register adds s. An existing source with the same ID is only replaced when
// overwrite is set. It reports whether s was stored.
func (r *Registry) Register(s Source, overwrite bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sources[s.ID()]; ok && !overwrite {
		return false
	}
	r.sources[s.ID()] = s
	return true
}

// Unregister removes the source with the given ID, if any
func (r *Registry) Unregister(id SourceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, id)
}

// Get returns the source registered under id
func (r *Registry) Get(id SourceID) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[id]
	return s, ok
}

// Sources returns every registered source ordered by ID
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}
