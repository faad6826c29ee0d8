package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDurable struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeDurable() *fakeDurable {
	return &fakeDurable{entries: make(map[string][]byte)}
}

func (f *fakeDurable) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[key]
	return payload, ok
}

func (f *fakeDurable) Set(_ context.Context, key string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = payload
}

func (f *fakeDurable) Delete(_ context.Context, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
}

func (f *fakeDurable) Keys(_ context.Context, _ string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.entries))
	for key := range f.entries {
		keys = append(keys, key)
	}
	return keys
}

func (f *fakeDurable) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// fakeClock makes freshness deterministic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(durable Durable) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(durable)
	c.now = clock.Now
	return c, clock
}

func staticFetch(data string, calls *atomic.Int32) FetchFunc {
	return func(context.Context) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(data), nil
	}
}

func TestGetOrFetch_FreshEntrySkipsFetch(t *testing.T) {
	c, _ := newTestCache(nil)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := staticFetch(`[1,2,3]`, &calls)

	data, err := c.GetOrFetch(ctx, "stocks", time.Minute, fetch, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))
	assert.Equal(t, int32(1), calls.Load())

	// Within TTL the fetcher must not run again.
	data, err = c.GetOrFetch(ctx, "stocks", time.Minute, fetch, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrFetch_StaleEntryReturnsStaleThenRevalidates(t *testing.T) {
	c, clock := newTestCache(nil)
	ctx := context.Background()

	var calls atomic.Int32
	_, err := c.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`["old"]`, &calls), nil)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	updated := make(chan json.RawMessage, 1)
	data, err := c.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`["new"]`, &calls), func(fresh json.RawMessage) {
		updated <- fresh
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["old"]`, string(data), "stale read must return the stale value immediately")

	select {
	case fresh := <-updated:
		assert.JSONEq(t, `["new"]`, string(fresh))
	case <-time.After(2 * time.Second):
		t.Fatal("background revalidation never completed")
	}

	cached, ok := c.Cached(ctx, "stocks")
	require.True(t, ok)
	assert.JSONEq(t, `["new"]`, string(cached))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrFetch_ConcurrentStaleReadsTriggerOneRefetch(t *testing.T) {
	c, clock := newTestCache(nil)
	ctx := context.Background()

	var seed atomic.Int32
	_, err := c.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`["old"]`, &seed), nil)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	var refetches atomic.Int32
	release := make(chan struct{})
	slowFetch := func(context.Context) (json.RawMessage, error) {
		refetches.Add(1)
		<-release
		return json.RawMessage(`["new"]`), nil
	}

	for i := 0; i < 5; i++ {
		data, err := c.GetOrFetch(ctx, "stocks", time.Minute, slowFetch, nil)
		require.NoError(t, err)
		assert.JSONEq(t, `["old"]`, string(data))
	}
	close(release)

	require.Eventually(t, func() bool {
		cached, ok := c.Cached(ctx, "stocks")
		return ok && string(cached) == `["new"]`
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), refetches.Load(), "stale reads must collapse into a single refetch")
}

func TestGetOrFetch_EmptyResultNotCached(t *testing.T) {
	c, _ := newTestCache(nil)
	ctx := context.Background()

	var calls atomic.Int32
	data, err := c.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`[]`, &calls), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	_, ok := c.Cached(ctx, "stocks")
	assert.False(t, ok, "empty results must not be cached")

	// The next read goes back to the fetcher.
	_, err = c.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`[]`, &calls), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidate_Scope(t *testing.T) {
	c, _ := newTestCache(nil)
	ctx := context.Background()

	c.Set(ctx, "stocks", json.RawMessage(`1`), time.Minute)
	c.Set(ctx, "stocks:msk", json.RawMessage(`2`), time.Minute)
	c.Set(ctx, "stocks:spb:page2", json.RawMessage(`3`), time.Minute)
	c.Set(ctx, "stocksnapshot", json.RawMessage(`4`), time.Minute)
	c.Set(ctx, "products", json.RawMessage(`5`), time.Minute)

	c.Invalidate(ctx, "stocks")

	_, ok := c.Cached(ctx, "stocks")
	assert.False(t, ok)
	_, ok = c.Cached(ctx, "stocks:msk")
	assert.False(t, ok)
	_, ok = c.Cached(ctx, "stocks:spb:page2")
	assert.False(t, ok)

	// Shared string prefix without the separator is a different key family.
	_, ok = c.Cached(ctx, "stocksnapshot")
	assert.True(t, ok)
	_, ok = c.Cached(ctx, "products")
	assert.True(t, ok)
}

func TestInvalidate_ClearsDurableLayer(t *testing.T) {
	durable := newFakeDurable()
	c, _ := newTestCache(durable)
	ctx := context.Background()

	c.Set(ctx, "stocks", json.RawMessage(`1`), time.Minute)
	c.Set(ctx, "stocks:msk", json.RawMessage(`2`), time.Minute)
	c.Set(ctx, "products", json.RawMessage(`3`), time.Minute)
	require.Equal(t, 3, durable.len())

	c.Invalidate(ctx, "stocks")
	assert.Equal(t, 1, durable.len())
	_, ok := durable.Get(ctx, "products")
	assert.True(t, ok)
}

func TestLookup_PromotesDurableEntry(t *testing.T) {
	durable := newFakeDurable()
	seed, _ := newTestCache(durable)
	ctx := context.Background()
	seed.Set(ctx, "stocks", json.RawMessage(`["persisted"]`), time.Minute)

	// Fresh cache instance simulating a restart: memory is empty, the
	// durable layer still has the entry.
	restarted, _ := newTestCache(durable)
	var calls atomic.Int32
	data, err := restarted.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`["fetched"]`, &calls), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `["persisted"]`, string(data))
	assert.Equal(t, int32(0), calls.Load())
}

func TestLookup_DropsCorruptedDurableEntry(t *testing.T) {
	durable := newFakeDurable()
	ctx := context.Background()
	durable.Set(ctx, "stocks", []byte("not an envelope"))

	c, _ := newTestCache(durable)
	var calls atomic.Int32
	data, err := c.GetOrFetch(ctx, "stocks", time.Minute, staticFetch(`["fetched"]`, &calls), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `["fetched"]`, string(data))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, durable.len(), "corrupted entry replaced by the fresh one")
}

func TestEnvelopeRoundTrip(t *testing.T) {
	in := entry{
		data:       json.RawMessage(`{"a":1}`),
		observedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		ttl:        90 * time.Second,
	}
	payload, err := encodeEnvelope(in)
	require.NoError(t, err)

	out, err := decodeEnvelope(payload)
	require.NoError(t, err)
	assert.JSONEq(t, string(in.data), string(out.data))
	assert.True(t, in.observedAt.Equal(out.observedAt))
	assert.Equal(t, in.ttl, out.ttl)
}

func TestTypedGetOrFetch(t *testing.T) {
	type row struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	}

	c, _ := newTestCache(nil)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(context.Context) ([]row, error) {
		calls.Add(1)
		return []row{{ID: "p1", Quantity: 7}}, nil
	}

	rows, err := GetOrFetch(ctx, c, "stocks", time.Minute, fetch, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0].ID)
	assert.Equal(t, 7, rows[0].Quantity)

	rows, err = GetOrFetch(ctx, c, "stocks", time.Minute, fetch, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(1), calls.Load())
}
