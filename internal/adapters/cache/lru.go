package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/habitvault/habitvault/internal/core/domain"
)

var _ domain.MetricsCache = (*LRUMetricsCache)(nil)

const DefaultLRUSize = 4096

// LRUMetricsCache is the in-process metrics cache used when Redis is not
// configured. It keeps a per-habit index of cached keys so a habit can be
// invalidated without scanning the whole cache.
type LRUMetricsCache struct {
	mu      sync.Mutex
	entries *lru.Cache[domain.MetricsKey, domain.DerivedMetrics]
	byHabit map[string]map[domain.MetricsKey]struct{}
	// gens is never pruned: resetting a habit to 0 would let a slow reader
	// holding an old 0 write again.
	gens map[string]uint64
}

func NewLRUMetricsCache(size int) (*LRUMetricsCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}

	c := &LRUMetricsCache{
		byHabit: make(map[string]map[domain.MetricsKey]struct{}),
		gens:    make(map[string]uint64),
	}

	entries, err := lru.NewWithEvict(size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// onEvict is only triggered by calls made while c.mu is held.
func (c *LRUMetricsCache) onEvict(key domain.MetricsKey, _ domain.DerivedMetrics) {
	keys := c.byHabit[key.HabitID]
	delete(keys, key)
	if len(keys) == 0 {
		delete(c.byHabit, key.HabitID)
	}
}

func (c *LRUMetricsCache) Generation(ctx context.Context, habitID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[habitID]
}

func (c *LRUMetricsCache) Get(ctx context.Context, key domain.MetricsKey) (domain.DerivedMetrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Get(key)
}

func (c *LRUMetricsCache) Set(ctx context.Context, key domain.MetricsKey, gen uint64, m domain.DerivedMetrics) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key.HabitID] != gen {
		return false
	}

	c.entries.Add(key, m)

	keys, ok := c.byHabit[key.HabitID]
	if !ok {
		keys = make(map[domain.MetricsKey]struct{})
		c.byHabit[key.HabitID] = keys
	}
	keys[key] = struct{}{}
	return true
}

func (c *LRUMetricsCache) Invalidate(ctx context.Context, habitID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[habitID]++
	for key := range c.byHabit[habitID] {
		c.entries.Remove(key)
	}
	delete(c.byHabit, habitID)
}

func (c *LRUMetricsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
