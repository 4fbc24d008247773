package vinyl

import (
	"fmt"

	"go.uber.org/zap"
)

// Cache memoizes RenderData by identity. Each identity is loaded from the
// backing Store at most once; failed loads are not cached and are retried on
// the next Get.
//
// A Cache is not safe for concurrent use. Callers on several goroutines must
// serialize access themselves.
type Cache struct {
	store   Store
	entries map[Identity]*RenderData
	log     *zap.Logger
}

// NewCache creates an empty cache backed by store. store may be nil, in which
// case only entries added with Add are available.
func NewCache(store Store, opts ...Option) *Cache {
	o := newOptions(opts)
	return &Cache{
		store:   store,
		entries: make(map[Identity]*RenderData),
		log:     o.logger,
	}
}

// Get returns the geometry for id, loading it on first use. A miss with no
// backing record returns an error wrapping ErrMissingAsset.
func (c *Cache) Get(id Identity) (*RenderData, error) {
	if d, ok := c.entries[id]; ok {
		return d, nil
	}
	if c.store == nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingAsset, id)
	}
	d, err := c.store.Load(id)
	if err != nil {
		c.log.Debug("load render data", zap.Stringer("id", id), zap.Error(err))
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingAsset, id)
	}
	c.entries[id] = d
	c.log.Debug("loaded render data", zap.Stringer("id", id), zap.Int("vertices", len(d.Vertices)))
	return d, nil
}

// Add inserts d unless its identity is already cached. It reports whether d
// was inserted; an existing entry is never replaced since shapes may already
// share it.
func (c *Cache) Add(d *RenderData) bool {
	if d == nil {
		panic("vinyl: Add called with nil RenderData")
	}
	if _, ok := c.entries[d.ID]; ok {
		return false
	}
	c.entries[d.ID] = d
	return true
}

// Len returns the number of cached identities.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Reset drops every cached entry. Shapes keep the geometry they already
// reference.
func (c *Cache) Reset() {
	clear(c.entries)
}
