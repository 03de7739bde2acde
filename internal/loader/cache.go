package loader

import (
	"sort"
	"sync"
	"time"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

// Entry is a cached, normalized season table.
type Entry struct {
	LoadID   string
	Season   int
	Table    *analysis.Table
	LoadedAt time.Time
}

// Cache memoizes normalized tables by season. It is safe for concurrent use.
// Only successful loads are stored.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]*Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int]*Entry)}
}

func (c *Cache) Get(season int) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[season]
	return e, ok
}

func (c *Cache) Put(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Season] = e
}

// Invalidate drops season and reports whether it was cached.
func (c *Cache) Invalidate(season int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[season]
	delete(c.entries, season)
	return ok
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]*Entry)
}

// Seasons lists cached seasons in ascending order.
func (c *Cache) Seasons() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.entries))
	for s := range c.entries {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
