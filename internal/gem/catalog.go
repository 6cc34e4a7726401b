package gem

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Catalog is a flat, immutable list of gems with an id index.
// The zero value is an empty catalog.
type Catalog struct {
	gems  []Gem
	index map[string]int
}

// NewCatalog builds a catalog, dropping records with an empty id and any later duplicate ids.
// The ids that were dropped as duplicates are returned for logging.
func NewCatalog(gems []Gem) (Catalog, []string) {
	c := Catalog{
		gems:  make([]Gem, 0, len(gems)),
		index: make(map[string]int, len(gems)),
	}
	var dropped []string
	for _, g := range gems {
		id := strings.TrimSpace(g.ID)
		if id == "" {
			continue
		}
		if _, exists := c.index[id]; exists {
			dropped = append(dropped, id)
			continue
		}
		g.ID = id
		c.index[id] = len(c.gems)
		c.gems = append(c.gems, g)
	}
	return c, dropped
}

// Len returns the number of gems.
func (c Catalog) Len() int { return len(c.gems) }

// All returns a copy of the gems in catalog order.
func (c Catalog) All() []Gem {
	out := make([]Gem, len(c.gems))
	copy(out, c.gems)
	return out
}

// Get looks up a gem by id.
func (c Catalog) Get(id string) (Gem, bool) {
	i, ok := c.index[id]
	if !ok {
		return Gem{}, false
	}
	return c.gems[i], true
}

// Has reports whether id is part of the catalog.
func (c Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Decode reads a JSON array of gems.
func Decode(r io.Reader) ([]Gem, error) {
	var gems []Gem
	if err := json.NewDecoder(r).Decode(&gems); err != nil {
		return nil, fmt.Errorf("%w: decode gems: %v", ErrFetch, err)
	}
	return gems, nil
}

// Holder keeps the current catalog and lets it be swapped atomically on reload.
type Holder struct {
	mu       sync.RWMutex
	catalog  Catalog
	version  uint64
	onChange []func(Catalog)
}

// NewHolder returns a holder seeded with c.
func NewHolder(c Catalog) *Holder {
	return &Holder{catalog: c}
}

// Current returns the catalog in effect.
func (h *Holder) Current() Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog
}

// Snapshot returns the catalog in effect with its version. The version grows on every Replace.
func (h *Holder) Snapshot() (Catalog, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog, h.version
}

// Replace swaps in c and notifies subscribers.
func (h *Holder) Replace(c Catalog) {
	h.mu.Lock()
	h.catalog = c
	h.version++
	subs := append([]func(Catalog){}, h.onChange...)
	h.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}

// OnChange registers fn to run after every Replace.
func (h *Holder) OnChange(fn func(Catalog)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}
