package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It backs the
// "none" cache backend and the CLI --no-cache flag, so disabling the
// route cache needs no branching at call sites.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing; there is never anything to remove.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}
