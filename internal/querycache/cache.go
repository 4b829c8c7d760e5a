package querycache

import (
	"context"
	"fmt"
	"sync"
)

// Key addresses one cached read. Kind is the entity group ("listings",
// "userStats", ...) and Arg carries the parameters that produced the read.
// All entries sharing a Kind form one invalidation group.
type Key struct {
	Kind string
	Arg  string
}

func (k Key) String() string {
	if k.Arg == "" {
		return k.Kind
	}
	return k.Kind + "?" + k.Arg
}

// entry tracks one fetch and its outcome. done is closed exactly once when
// the fetch finishes; val and err are written before the close.
type entry struct {
	gen   uint64
	stale bool
	done  chan struct{}
	val   any
	err   error
}

// Cache memoizes remote reads by key, coalescing concurrent identical
// reads into a single fetch. Invalidation is caller-driven only; there is
// no time-based expiry.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	gens    map[Key]uint64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		gens:    make(map[Key]uint64),
	}
}

// Read resolves key through cache c. A fresh or in-flight entry is
// returned or awaited without invoking fetch; otherwise fetch runs in the
// calling goroutine and its result is memoized. Fetch errors are delivered
// to every waiter of that fetch but are never cached.
func Read[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.read(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	val, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s holds %T", key, v)
	}
	return val, nil
}

func (c *Cache) read(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		c.mu.Unlock()
		return c.await(ctx, e)
	}

	// Missing or stale: issue a new generation. A stale in-flight fetch
	// keeps running and resolves its own waiters, but the map now points
	// at this newer generation, so the old completion cannot clobber it.
	c.gens[key]++
	e := &entry{gen: c.gens[key], done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	val, err := fetch(ctx)

	c.mu.Lock()
	e.val = val
	e.err = err
	if err != nil && c.entries[key] != nil && c.entries[key].gen == e.gen {
		// Errors propagate to waiters but never occupy the cache.
		delete(c.entries, key)
	}
	c.mu.Unlock()
	close(e.done)

	return val, err
}

// await blocks until the entry's fetch completes or ctx is cancelled.
func (c *Cache) await(ctx context.Context, e *entry) (any, error) {
	select {
	case <-e.done:
		return e.val, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate marks every entry in the group stale. In-flight fetches are
// not cancelled: they complete, resolve their waiters, and remain until
// the next read replaces them.
func (c *Cache) Invalidate(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if k.Kind == kind {
			e.stale = true
		}
	}
}

// InvalidateKey marks a single entry stale.
func (c *Cache) InvalidateKey(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
}

// Generation reports how many fetches have been issued for key. Useful for
// asserting supersession in tests.
func (c *Cache) Generation(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}
