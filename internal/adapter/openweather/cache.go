package openweather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/observability"
)

// CachedSource wraps a Source with an in-memory LRU cache keyed by coarse
// coordinates, so sessions from the same neighbourhood share one upstream
// call. Entries expire after ttl.
type CachedSource struct {
	inner   Source
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a weather source.
func NewCachedSource(inner Source, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedSource) Current(ctx context.Context, loc domain.Location) (domain.WeatherSnapshot, error) {
	// Two decimals is roughly a kilometre; plenty for a sky mood.
	key := fmt.Sprintf("%.2f,%.2f", loc.Lat, loc.Lon)

	if snap, ok := c.cache.get(key, c.clock.Now()); ok {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return snap, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	snap, err := c.inner.Current(ctx, loc)
	if err != nil {
		// Failures are not cached: the next session at this spot may succeed.
		return snap, err
	}

	c.cache.put(key, snap, c.clock.Now().Add(c.ttl))
	return snap, nil
}

// lruCache is a simple thread-safe LRU cache for weather snapshots with
// per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.WeatherSnapshot
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string, now time.Time) (domain.WeatherSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.WeatherSnapshot{}, false
	}
	if !now.Before(e.expiresAt) {
		c.remove(e)
		delete(c.entries, key)
		return domain.WeatherSnapshot{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.WeatherSnapshot, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
