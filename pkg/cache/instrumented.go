package cache

import (
	"context"
	"time"

	"github.com/wayfinder/wayfinder/pkg/observability"
)

// Instrumented wraps a cache and reports hits, misses, and writes to the
// registered observability hooks. The keyType label distinguishes what kind
// of data the cache holds (e.g. "path").
type Instrumented struct {
	inner   Cache
	keyType string
}

// NewInstrumented wraps c with hook reporting under the given keyType label.
func NewInstrumented(c Cache, keyType string) Cache {
	return &Instrumented{inner: c, keyType: keyType}
}

// Get retrieves a value and records the hit or miss.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

// Set stores a value and records the write.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}

// Delete removes a value.
func (c *Instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close closes the wrapped cache.
func (c *Instrumented) Close() error {
	return c.inner.Close()
}

// Ensure Instrumented implements Cache.
var _ Cache = (*Instrumented)(nil)
