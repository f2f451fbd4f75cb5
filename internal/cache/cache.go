// Package cache provides a small TTL key-value cache abstraction with
// in-process and Redis implementations. Values are opaque byte slices;
// callers pick their own codec.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL key-value store. Get returns (nil, false, nil) for a
// missing or expired key; cache failures are returned so callers can
// fall through to their backing store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
