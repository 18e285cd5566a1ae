package bench

import (
	lru "github.com/elastic/go-freelru"
	"github.com/zeebo/xxh3"
)

func hash(s string) uint32 {
	return uint32(xxh3.HashString(s))
}

type freeLRUCache struct {
	c *lru.SyncedLRU[string, string]
}

// NewFreeLRU creates a freelru cache.
func NewFreeLRU(capacity int) Cache {
	c, _ := lru.NewSynced[string, string](uint32(capacity), hash)
	return &freeLRUCache{c: c}
}

func (c *freeLRUCache) Get(key string) (string, bool) {
	return c.c.Get(key)
}

func (c *freeLRUCache) Set(key, value string) {
	c.c.Add(key, value)
}

func (*freeLRUCache) Name() string {
	return "freelru"
}

func (*freeLRUCache) Close() {}
