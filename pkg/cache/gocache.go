package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// goCacheWrapper adapts go-cache, which sweeps expired entries on an interval
// instead of bounding the item count.
type goCacheWrapper struct {
	cache *gocache.Cache
}

// NewGoCache creates a go-cache backed local cache.
func NewGoCache(config LocalConfig) Cache {
	return &goCacheWrapper{
		cache: gocache.New(config.DefaultExpiration, config.CleanupInterval),
	}
}

func (gc *goCacheWrapper) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, found := gc.cache.Get(key); found {
		if b, ok := value.([]byte); ok {
			return b, true
		}
	}
	return nil, false
}

func (gc *goCacheWrapper) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	gc.cache.Set(key, value, expiration)
	return nil
}

func (gc *goCacheWrapper) Delete(ctx context.Context, key string) error {
	gc.cache.Delete(key)
	return nil
}

func (gc *goCacheWrapper) Exists(ctx context.Context, key string) bool {
	_, found := gc.cache.Get(key)
	return found
}

func (gc *goCacheWrapper) Clear(ctx context.Context) error {
	gc.cache.Flush()
	return nil
}

func (gc *goCacheWrapper) Close() error {
	gc.cache.Flush()
	return nil
}
