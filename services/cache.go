package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// View names a cached projection of one owner's data.
type View string

const (
	ViewCloset   View = "closet"
	ViewCalendar View = "calendar"
	ViewInsights View = "insights"
)

// AllViews is every cached view, used when an item change touches everything.
var AllViews = []View{ViewCloset, ViewCalendar, ViewInsights}

// Slot addresses one cached value under the view generation current when the
// slot was resolved. A slot resolved before an invalidation never reads or
// writes the fresh generation.
type Slot string

// ViewCache stores per-owner views. Invalidate drops every key of the named views.
type ViewCache interface {
	Slot(ownerID string, view View, key string) Slot
	Get(slot Slot) (any, bool)
	Set(slot Slot, value any)
	Invalidate(ownerID string, views ...View)
}

// RistrettoViewCache keeps views in a ristretto cache. Each (owner, view) pair
// carries a generation number baked into the key, so invalidation bumps the
// generation instead of enumerating keys.
type RistrettoViewCache struct {
	cache *ristretto.Cache[string, any]
	ttl   time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

func NewRistrettoViewCache(maxEntries int64, ttl time.Duration) (*RistrettoViewCache, error) {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}
	return &RistrettoViewCache{
		cache:       c,
		ttl:         ttl,
		generations: make(map[string]uint64),
	}, nil
}

func (c *RistrettoViewCache) Slot(ownerID string, view View, key string) Slot {
	scope := ownerID + "|" + string(view)
	c.mu.Lock()
	gen := c.generations[scope]
	c.mu.Unlock()
	return Slot(fmt.Sprintf("%s|%d|%s", scope, gen, key))
}

func (c *RistrettoViewCache) Get(slot Slot) (any, bool) {
	return c.cache.Get(string(slot))
}

// Set stores value and waits for the write to land so the next Get observes it.
func (c *RistrettoViewCache) Set(slot Slot, value any) {
	if c.ttl > 0 {
		c.cache.SetWithTTL(string(slot), value, 1, c.ttl)
	} else {
		c.cache.Set(string(slot), value, 1)
	}
	c.cache.Wait()
}

func (c *RistrettoViewCache) Invalidate(ownerID string, views ...View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range views {
		c.generations[ownerID+"|"+string(v)]++
	}
}

func (c *RistrettoViewCache) Close() {
	c.cache.Close()
}

// NoopViewCache never stores anything.
type NoopViewCache struct{}

func (NoopViewCache) Slot(string, View, string) Slot { return "" }
func (NoopViewCache) Get(Slot) (any, bool)           { return nil, false }
func (NoopViewCache) Set(Slot, any)                  {}
func (NoopViewCache) Invalidate(string, ...View)     {}

// cached returns the view value under key, loading and storing it on a miss.
// The slot is resolved before loading, so a load racing an invalidation is
// stored under the dead generation.
func cached[T any](c ViewCache, ownerID string, view View, key string, load func() (T, error)) (T, error) {
	slot := c.Slot(ownerID, view, key)
	if v, ok := c.Get(slot); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(slot, v)
	return v, nil
}
