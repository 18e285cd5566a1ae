package bench

import "github.com/maypok86/otter/v2"

type otterCache struct {
	c *otter.Cache[string, string]
}

// NewOtter creates an Otter cache.
func NewOtter(capacity int) Cache {
	c := otter.Must(&otter.Options[string, string]{MaximumSize: capacity})
	return &otterCache{c: c}
}

func (c *otterCache) Get(key string) (string, bool) {
	return c.c.GetIfPresent(key)
}

func (c *otterCache) Set(key, value string) {
	c.c.Set(key, value)
}

func (*otterCache) Name() string {
	return "otter"
}

func (*otterCache) Close() {}
