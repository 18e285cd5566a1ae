package bench

import "github.com/coocood/freecache"

type freecacheCache struct {
	c *freecache.Cache
}

// NewFreecache creates a freecache sized for small synthetic keys
// (key + value + ~32 bytes internal overhead per entry). freecache
// enforces a 512KB minimum, so small capacities hold more entries than
// requested.
func NewFreecache(capacity int) Cache {
	cacheBytes := max(capacity*64, 512*1024)
	return &freecacheCache{c: freecache.NewCache(cacheBytes)}
}

func (c *freecacheCache) Get(key string) (string, bool) {
	v, err := c.c.Get([]byte(key))
	if err != nil {
		return "", false
	}
	return string(v), true
}

func (c *freecacheCache) Set(key, value string) {
	c.c.Set([]byte(key), []byte(value), 0)
}

func (*freecacheCache) Name() string {
	return "freecache"
}

func (*freecacheCache) Close() {}
