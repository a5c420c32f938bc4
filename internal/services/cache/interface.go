package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys until they expire
type Cache interface {
	// Get returns the value and true when key is present and not expired
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl; ttl <= 0 uses the cache default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key; a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// Stats reports cache usage counters
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	Bytes     int64
	MaxBytes  int64
}
