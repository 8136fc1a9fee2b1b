package imaging

import (
	"fmt"
	"sync"
)

// Gallery holds every successfully previewed image for the lifetime of the
// process, in insertion order.
//
// Gallery is safe for concurrent use. Entries stay in memory until Clear is
// called.
type Gallery struct {
	// insertMu orders inserts together with their onInsert calls, so
	// observers see entries in the same order as List.
	insertMu sync.Mutex

	mu       sync.RWMutex
	entries  map[string]*Entry
	order    []string
	onInsert func(*Entry)
}

// NewGallery creates an empty gallery. onInsert, if non-nil, is called after
// every Insert, in insertion order. It may read the gallery but must not
// insert into it.
func NewGallery(onInsert func(*Entry)) *Gallery {
	return &Gallery{
		entries:  make(map[string]*Entry),
		onInsert: onInsert,
	}
}

// Insert appends e. Inserting an ID that is already present is a no-op.
func (g *Gallery) Insert(e *Entry) {
	g.insertMu.Lock()
	defer g.insertMu.Unlock()

	g.mu.Lock()
	if _, ok := g.entries[e.ID]; ok {
		g.mu.Unlock()
		return
	}
	g.entries[e.ID] = e
	g.order = append(g.order, e.ID)
	g.mu.Unlock()

	if g.onInsert != nil {
		g.onInsert(e)
	}
}

// Get returns the entry with the given ID.
func (g *Gallery) Get(id string) (*Entry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entries[id]
	if !ok {
		return nil, fmt.Errorf("gallery entry not found: %s", id)
	}
	return e, nil
}

// Len returns the number of entries.
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// List returns the entries in insertion order.
func (g *Gallery) List() []*Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Entry, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.entries[id])
	}
	return out
}

// Clear removes every entry and returns how many were removed.
func (g *Gallery) Clear() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := len(g.order)
	g.entries = make(map[string]*Entry)
	g.order = nil
	return n
}
