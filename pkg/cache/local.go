package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// localCache is a bounded in-process cache. Eviction is LRU; expiration is
// checked lazily on read.
type localCache struct {
	config LocalConfig
	items  *lru.Cache[string, localItem]
}

type localItem struct {
	value      []byte
	expiration time.Time
}

// NewLocalCache creates the default in-process backend.
func NewLocalCache(config LocalConfig) Cache {
	size := config.MaxSize
	if size <= 0 {
		size = 1000
	}
	items, _ := lru.New[string, localItem](size)
	return &localCache{config: config, items: items}
}

func (lc *localCache) Get(ctx context.Context, key string) ([]byte, bool) {
	item, ok := lc.items.Get(key)
	if !ok {
		return nil, false
	}
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		lc.items.Remove(key)
		return nil, false
	}
	return item.value, true
}

func (lc *localCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = lc.config.DefaultExpiration
	}
	var exp time.Time
	if expiration > 0 {
		exp = time.Now().Add(expiration)
	}
	lc.items.Add(key, localItem{value: value, expiration: exp})
	return nil
}

func (lc *localCache) Delete(ctx context.Context, key string) error {
	lc.items.Remove(key)
	return nil
}

func (lc *localCache) Exists(ctx context.Context, key string) bool {
	_, ok := lc.Get(ctx, key)
	return ok
}

func (lc *localCache) Clear(ctx context.Context) error {
	lc.items.Purge()
	return nil
}

func (lc *localCache) Close() error {
	lc.items.Purge()
	return nil
}
