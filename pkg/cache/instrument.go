package cache

import (
	"context"
	"time"

	"github.com/matzehuels/archgraph/pkg/observability"
)

// Instrument reports every lookup and write on c to the registered cache
// hooks. Lookups that fail count as misses.
func Instrument(c Cache) Cache {
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if hit && err == nil {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return err
}
