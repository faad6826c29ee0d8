package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetOrFetch is the typed wrapper over Cache.GetOrFetch. It marshals and
// unmarshals through JSON, so T must round-trip through encoding/json.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error), onUpdate func(value T)) (T, error) {
	var zero T

	rawFetch := func(ctx context.Context) (json.RawMessage, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal cache value %q: %w", key, err)
		}
		return data, nil
	}

	var rawUpdate UpdateFunc
	if onUpdate != nil {
		rawUpdate = func(data json.RawMessage) {
			var value T
			if err := json.Unmarshal(data, &value); err != nil {
				return
			}
			onUpdate(value)
		}
	}

	data, err := c.GetOrFetch(ctx, key, ttl, rawFetch, rawUpdate)
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("unmarshal cache value %q: %w", key, err)
	}
	return value, nil
}
