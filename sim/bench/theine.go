package bench

import "github.com/Yiling-J/theine-go"

type theineCache struct {
	c *theine.Cache[string, string]
}

// NewTheine creates a Theine cache.
func NewTheine(capacity int) Cache {
	c, _ := theine.NewBuilder[string, string](int64(capacity)).Build()
	return &theineCache{c: c}
}

func (c *theineCache) Get(key string) (string, bool) {
	return c.c.Get(key)
}

func (c *theineCache) Set(key, value string) {
	c.c.Set(key, value, 1)
}

func (*theineCache) Name() string {
	return "theine"
}

func (c *theineCache) Close() {
	c.c.Close()
}
