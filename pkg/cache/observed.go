package cache

import (
	"context"
	"time"

	"github.com/matzehuels/selfmap/pkg/observability"
)

// Observed reports hits, misses and writes on c to the registered
// [observability.CacheHooks], labelled by [KeyType].
func Observed(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return observed{c}
}

type observed struct{ Cache }

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}
