package bench

import "github.com/Code-Hex/go-generics-cache/policy/clock"

type clockCache struct {
	c *clock.Cache[string, string]
}

// NewClock creates a clock-based cache.
func NewClock(capacity int) Cache {
	return &clockCache{
		c: clock.NewCache[string, string](clock.WithCapacity(capacity)),
	}
}

func (c *clockCache) Get(key string) (string, bool) {
	return c.c.Get(key)
}

func (c *clockCache) Set(key, value string) {
	c.c.Set(key, value)
}

func (*clockCache) Name() string {
	return "clock"
}

func (*clockCache) Close() {}
