package bench

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlcacheCache struct {
	c *ttlcache.Cache[string, string]
}

// NewTTLCache creates a TTL-based cache. The TTL is long because replay
// exercises capacity eviction, not expiration.
func NewTTLCache(capacity int) Cache {
	c := ttlcache.New[string, string](
		ttlcache.WithCapacity[string, string](uint64(capacity)),
		ttlcache.WithTTL[string, string](time.Hour),
	)
	go c.Start()
	return &ttlcacheCache{c: c}
}

func (c *ttlcacheCache) Get(key string) (string, bool) {
	item := c.c.Get(key)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func (c *ttlcacheCache) Set(key, value string) {
	c.c.Set(key, value, ttlcache.DefaultTTL)
}

func (*ttlcacheCache) Name() string {
	return "ttlcache"
}

func (c *ttlcacheCache) Close() {
	c.c.Stop()
}
