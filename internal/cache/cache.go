// Package cache provides key-based memoization with TTL and
// stale-while-revalidate semantics over a two-level store: an in-memory
// map backed by an optional durable key-value layer that survives restarts.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"alcosklad/pkg/logger"
)

// Durable is the persistent layer under the in-memory cache.
// All operations are best-effort: implementations swallow their own
// failures, the memory layer stays authoritative for the session.
type Durable interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	Delete(ctx context.Context, keys ...string)
	Keys(ctx context.Context, prefix string) []string
}

// FetchFunc loads fresh data for a cache key.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// UpdateFunc is invoked after a background revalidation completes.
// Consumers observe a result twice: immediately (stale) and via this
// callback (fresh).
type UpdateFunc func(data json.RawMessage)

type entry struct {
	data       json.RawMessage
	observedAt time.Time
	ttl        time.Duration
}

// Cache is the stale-while-revalidate cache.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	refreshing map[string]struct{}

	durable Durable // nil means memory-only

	// now is swappable for tests.
	now func() time.Time
}

// New creates a cache. durable may be nil for a memory-only cache.
func New(durable Durable) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		refreshing: make(map[string]struct{}),
		durable:    durable,
		now:        time.Now,
	}
}

// GetOrFetch returns cached data for key.
//   - Fresh entry: returned as is, fetch is not called.
//   - Stale entry: returned immediately; fetch runs in the background and,
//     on success, overwrites the cache and invokes onUpdate.
//   - No entry: fetch runs synchronously, the result is cached and returned.
//
// Empty results (nil, empty array) are returned but never cached, so an
// error-shaped empty load does not shadow real data.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc, onUpdate UpdateFunc) (json.RawMessage, error) {
	if e, ok := c.lookup(ctx, key); ok {
		if c.isFresh(e) {
			return e.data, nil
		}
		c.revalidate(ctx, key, ttl, fetch, onUpdate)
		return e.data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !isEmptyResult(data) {
		c.Set(ctx, key, data, ttl)
	}
	return data, nil
}

// Set stores data under key with the given ttl, in memory and durably.
func (c *Cache) Set(ctx context.Context, key string, data json.RawMessage, ttl time.Duration) {
	e := entry{data: data, observedAt: c.now(), ttl: ttl}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()

	if c.durable != nil {
		if payload, err := encodeEnvelope(e); err == nil {
			c.durable.Set(ctx, key, payload)
		}
	}
}

// Cached returns the cached value for key without fetching, regardless of
// freshness. The second result reports whether an entry exists.
func (c *Cache) Cached(ctx context.Context, key string) (json.RawMessage, bool) {
	e, ok := c.lookup(ctx, key)
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Invalidate removes every entry whose key equals prefix or starts with
// prefix + ":". Must be called after every mutation that changes the
// underlying collections.
func (c *Cache) Invalidate(ctx context.Context, prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if matchesPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	if c.durable != nil {
		var stale []string
		for _, key := range c.durable.Keys(ctx, prefix) {
			if matchesPrefix(key, prefix) {
				stale = append(stale, key)
			}
		}
		if len(stale) > 0 {
			c.durable.Delete(ctx, stale...)
		}
	}
}

// revalidate triggers a single background refresh for a stale key.
// Concurrent stale reads of the same key collapse into one refetch;
// a later response always overwrites an earlier cache state.
func (c *Cache) revalidate(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc, onUpdate UpdateFunc) {
	c.mu.Lock()
	if _, busy := c.refreshing[key]; busy {
		c.mu.Unlock()
		return
	}
	c.refreshing[key] = struct{}{}
	c.mu.Unlock()

	// Detach from the caller: the request that triggered revalidation may
	// finish before the refresh does.
	bgCtx := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key)
			c.mu.Unlock()
		}()

		data, err := fetch(bgCtx)
		if err != nil {
			logger.Warn(bgCtx, "cache revalidation failed", "key", key, "error", err)
			return
		}
		if isEmptyResult(data) {
			return
		}

		c.Set(bgCtx, key, data, ttl)
		if onUpdate != nil {
			onUpdate(data)
		}
	}()
}

// lookup reads memory first, then the durable layer, promoting durable
// hits into memory.
func (c *Cache) lookup(ctx context.Context, key string) (entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e, true
	}

	if c.durable == nil {
		return entry{}, false
	}
	payload, ok := c.durable.Get(ctx, key)
	if !ok {
		return entry{}, false
	}
	e, err := decodeEnvelope(payload)
	if err != nil {
		// Corrupted durable entry: drop it.
		c.durable.Delete(ctx, key)
		return entry{}, false
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return e, true
}

func (c *Cache) isFresh(e entry) bool {
	return c.now().Sub(e.observedAt) < e.ttl
}

func matchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+":")
}

func isEmptyResult(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("[]"))
}
