package engine

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ============================================================================
// SERIES CACHE — Injected memoization for Bucket results
// ============================================================================
// Series are pure functions of (table content, date column, value column,
// granularity), so entries never change once stored; they only expire.
// ============================================================================

// DefaultCacheTTL is how long a computed series stays valid.
const DefaultCacheTTL = 5 * time.Minute

// SeriesKey identifies one computed series.
type SeriesKey struct {
	Table       uint64 // table.Table.Hash
	DateColumn  string
	ValueColumn string
	Granularity Granularity
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%016x/%q/%q/%s", k.Table, k.DateColumn, k.ValueColumn, k.Granularity)
}

// SeriesCache stores computed series. Implementations must be safe for
// concurrent use.
type SeriesCache interface {
	Get(key SeriesKey) ([]Point, bool)
	Put(key SeriesKey, points []Point)
	Expire() int // drops stale entries, returns how many
}

// ============================================================================
// TTL CACHE
// ============================================================================

type cacheEntry struct {
	points  []Point
	expires time.Time
}

// TTLCache keeps each series for a fixed time after it was stored.
type TTLCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   clockwork.Clock
	entries map[SeriesKey]cacheEntry
}

// NewTTLCache creates a cache. ttl <= 0 means DefaultCacheTTL; a nil clock
// means the real clock.
func NewTTLCache(ttl time.Duration, clock clockwork.Clock) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TTLCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[SeriesKey]cacheEntry),
	}
}

func (c *TTLCache) Get(key SeriesKey) ([]Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(e.expires) {
		return nil, false
	}
	return slices.Clone(e.points), true
}

func (c *TTLCache) Put(key SeriesKey, points []Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		points:  slices.Clone(points),
		expires: c.clock.Now().Add(c.ttl),
	}
}

func (c *TTLCache) Expire() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ============================================================================
// NOOP CACHE
// ============================================================================

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(SeriesKey) ([]Point, bool) { return nil, false }
func (NoopCache) Put(SeriesKey, []Point)        {}
func (NoopCache) Expire() int                   { return 0 }
