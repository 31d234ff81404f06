package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the upstream content refresh cadence.
const DefaultTTL = 24 * time.Hour

// DefaultLoadTimeout bounds a shared load once it no longer follows any caller's context.
const DefaultLoadTimeout = 30 * time.Second

// Clock supplies the current time. Tests inject a fake to expire entries without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type Options struct {
	TTL         time.Duration
	MaxEntries  int
	Clock       Clock
	LoadTimeout time.Duration
}

type MetricsHooks struct {
	OnHit   func(labels map[string]string)
	OnMiss  func(labels map[string]string)
	OnStore func(labels map[string]string)
	OnEvict func(labels map[string]string)
	OnPurge func(labels map[string]string)
}

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a key-addressed store whose entries are fresh for TTL after they are stored.
// Staleness is detected lazily on read. When MaxEntries is exceeded the oldest
// inserted keys are evicted first.
type Cache struct {
	mu      sync.RWMutex
	items   map[string]*entry
	order   []string
	opts    Options
	metrics MetricsHooks
	sf      singleflight.Group

	// generation is bumped by PurgeAll; loads started before a purge are not stored.
	generation uint64
}

// SnapshotEntry represents a point-in-time cache entry for inspection.
type SnapshotEntry struct {
	Key       string    `json:"key"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Fresh     bool      `json:"fresh"`
}

func New(opts Options, hooks MetricsHooks) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}
	return &Cache{
		items:   make(map[string]*entry),
		order:   make([]string, 0, 64),
		opts:    opts,
		metrics: hooks,
	}
}

// Loader computes the value for a key on miss. Returned errors are never cached.
type Loader func(ctx context.Context) (any, error)

// Get returns the value for key if it was stored less than TTL ago.
func (c *Cache) Get(key string) (any, bool) {
	now := c.opts.Clock.Now()
	c.mu.RLock()
	e, ok := c.items[key]
	if ok && now.Sub(e.storedAt) < c.opts.TTL {
		val := e.value
		c.mu.RUnlock()
		c.hook(c.metrics.OnHit, key)
		return val, true
	}
	c.mu.RUnlock()

	if ok {
		// stale: drop so the slot can be reused, unless a fresher value raced in
		c.mu.Lock()
		if cur, exists := c.items[key]; exists && now.Sub(cur.storedAt) >= c.opts.TTL {
			delete(c.items, key)
			c.removeFromOrder(key)
		}
		c.mu.Unlock()
	}
	c.hook(c.metrics.OnMiss, key)
	return nil, false
}

// GetOrLoad returns the fresh value for key or runs loader and stores its result.
// Concurrent loads of the same key share one call. The shared call runs detached from
// any single caller's cancellation (bounded by LoadTimeout); each caller stops waiting
// when its own ctx is done.
func (c *Cache) GetOrLoad(ctx context.Context, key string, loader Loader) (any, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	ch := c.sf.DoChan(flightKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.LoadTimeout)
		defer cancel()

		v, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, v, gen, true)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Set stores val under key, resetting its age. Re-setting a key keeps its insertion position.
func (c *Cache) Set(key string, val any) {
	c.store(key, val, 0, false)
}

// store writes the entry. With checkGen it is dropped when a purge happened since gen was read.
func (c *Cache) store(key string, val any, gen uint64, checkGen bool) {
	e := &entry{value: val, storedAt: c.opts.Clock.Now()}
	c.mu.Lock()
	if checkGen && c.generation != gen {
		c.mu.Unlock()
		return
	}
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = e
	evicted := c.evictIfNeeded()
	c.mu.Unlock()

	c.hook(c.metrics.OnStore, key)
	for _, victim := range evicted {
		c.hook(c.metrics.OnEvict, victim)
	}
}

// PurgeAll drops every entry unconditionally.
func (c *Cache) PurgeAll() int {
	c.mu.Lock()
	n := len(c.items)
	c.generation++
	c.items = make(map[string]*entry)
	c.order = c.order[:0]
	c.mu.Unlock()

	if c.metrics.OnPurge != nil {
		c.metrics.OnPurge(map[string]string{"entries": strconv.Itoa(n)})
	}
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Snapshot returns the current entries in insertion order.
func (c *Cache) Snapshot() []SnapshotEntry {
	now := c.opts.Clock.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]SnapshotEntry, 0, len(c.order))
	for _, k := range c.order {
		e := c.items[k]
		out = append(out, SnapshotEntry{
			Key:       k,
			StoredAt:  e.storedAt,
			ExpiresAt: e.storedAt.Add(c.opts.TTL),
			Fresh:     now.Sub(e.storedAt) < c.opts.TTL,
		})
	}
	return out
}

func (c *Cache) TTL() time.Duration { return c.opts.TTL }

func (c *Cache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// evictIfNeeded must be called with mu held.
func (c *Cache) evictIfNeeded() []string {
	if c.opts.MaxEntries <= 0 || len(c.items) <= c.opts.MaxEntries {
		return nil
	}
	var evicted []string
	excess := len(c.items) - c.opts.MaxEntries
	for excess > 0 && len(c.order) > 0 {
		victim := c.order[0]
		c.order = c.order[1:]
		delete(c.items, victim)
		evicted = append(evicted, victim)
		excess--
	}
	return evicted
}

func (c *Cache) hook(fn func(map[string]string), key string) {
	if fn != nil {
		fn(map[string]string{"key": key})
	}
}
