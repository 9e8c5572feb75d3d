// Package cache provides the byte-level storage backends behind the HTTP
// response cache.
//
// Backends implement [Cache]. Entries expire by time only: every Set carries
// a TTL and an entry past its TTL reads as a miss. There is no size-based
// eviction.
//
//   - [MemoryCache]: process-local, the default
//   - [RedisCache]: shared between processes through Redis
//   - [NullCache]: stores nothing, for disabling caching
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
