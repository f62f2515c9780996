package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON reads a key and unmarshals it into out. Returns false on miss
// or on any backend/decoding failure so callers fall back to recompute.
func GetJSON(ctx context.Context, c Cache, key string, out any) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt snapshot is recomputable; treat it as a miss.
		return false, nil
	}
	return true, nil
}

// SetJSON marshals value and stores it under key with the given TTL.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
