// Package cache provides pluggable byte caches for computed routes.
//
// A cache stores opaque byte blobs under string keys with an optional TTL.
// Three backends are provided:
//   - [FileCache]: entries on disk, for CLI usage
//   - [RedisCache]: shared entries in Redis, for server deployments
//   - [NullCache]: a no-op, for tests and when caching is disabled
//
// Keys for route results are derived with [Key] from the graph version and
// the search parameters, so any mutation of the graph invalidates every
// cached route without explicit eviction.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
