package bench

import "github.com/dgryski/go-s4lru"

type s4lruCache struct {
	c *s4lru.Cache
}

// NewS4LRU creates a segmented LRU cache.
func NewS4LRU(capacity int) Cache {
	return &s4lruCache{c: s4lru.New(capacity)}
}

func (c *s4lruCache) Get(key string) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c *s4lruCache) Set(key, value string) {
	c.c.Set(key, value)
}

func (*s4lruCache) Name() string {
	return "s4lru"
}

func (*s4lruCache) Close() {}
