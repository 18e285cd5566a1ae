package sim

// LRUCache evicts the least recently used resident key. Recency order is
// total, so the eviction victim is always the single longest-unaccessed
// resident and ties cannot occur.
type LRUCache struct {
	capacity int
	list     *KeyList
	hits     int
	steps    int
}

// NewLRUCache creates an LRU policy with the given resident capacity.
func NewLRUCache(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		list:     NewKeyList(),
	}
}

func (c *LRUCache) Name() string {
	return PolicyLRU
}

// Access touches key. A resident key is refreshed to the most recent
// position and reported as a Hit; otherwise the least recently used key
// is evicted if the cache is full, key is inserted as most recent, and
// the access is a Miss.
func (c *LRUCache) Access(key Key) Outcome {
	c.steps++
	if c.list.MoveToFront(key) {
		c.hits++
		return Hit
	}
	if c.list.Len() >= c.capacity {
		c.list.PopBack()
	}
	c.list.PushFront(key)
	return Miss
}

// Snapshot lists residents most recently used first.
func (c *LRUCache) Snapshot() PolicyState {
	return PolicyState{
		Hits:    c.hits,
		HitRate: hitRate(c.hits, c.steps),
		Keys:    c.list.Keys(),
	}
}
