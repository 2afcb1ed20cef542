package affix

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedResolver memoises resolved pools per catalog content and query.
// Catalogs are immutable so an entry can only go stale by expiring.
type CachedResolver struct {
	cache *cache.Cache
}

// NewCachedResolver creates a resolver whose entries live for ttl.
func NewCachedResolver(ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedResolver{cache: cache.New(ttl, 2*ttl)}
}

func (r *CachedResolver) Resolve(c *Catalog, q Query) (Pool, error) {
	if c == nil {
		return Resolve(c, q)
	}
	k := cacheKey(c, q)
	if v, ok := r.cache.Get(k); ok {
		return v.(Pool), nil
	}
	p, err := Resolve(c, q)
	if err != nil {
		return Pool{}, err
	}
	r.cache.SetDefault(k, p)
	return p, nil
}

// Len reports the number of memoised pools.
func (r *CachedResolver) Len() int { return r.cache.ItemCount() }

// Flush drops every memoised pool.
func (r *CachedResolver) Flush() { r.cache.Flush() }

func cacheKey(c *Catalog, q Query) string {
	return fmt.Sprintf("%s|%s|%d|%s|%t", c.Key(), q.ItemType, q.ItemLevel, q.ModType, q.IncludeDesecrated)
}
