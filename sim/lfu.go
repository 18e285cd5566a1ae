package sim

import "sort"

// LFUCache evicts the least frequently used resident key. Keys are grouped
// into buckets by current frequency, with the minimum occupied frequency
// tracked so eviction never scans. Within a bucket keys keep arrival order
// and the oldest arrival is evicted first: the FIFO tie-break makes the
// eviction choice deterministic for a given workload.
type LFUCache struct {
	capacity int
	freqs    map[Key]int      // resident key -> current frequency
	buckets  map[int]*KeyList // frequency -> keys at that frequency, newest first
	minFreq  int              // lowest occupied frequency, valid while len(freqs) > 0
	hits     int
	steps    int
}

// NewLFUCache creates an LFU policy with the given resident capacity.
func NewLFUCache(capacity int) *LFUCache {
	return &LFUCache{
		capacity: capacity,
		freqs:    make(map[Key]int),
		buckets:  make(map[int]*KeyList),
	}
}

func (c *LFUCache) Name() string {
	return PolicyLFU
}

// Access touches key. A resident key moves from its frequency bucket to
// the next one and counts as a Hit. A miss on a full cache first evicts
// the oldest key in the minimum-frequency bucket, then inserts key with
// frequency 1.
func (c *LFUCache) Access(key Key) Outcome {
	c.steps++
	if freq, ok := c.freqs[key]; ok {
		c.hits++
		c.removeFromBucket(key, freq)
		c.freqs[key] = freq + 1
		c.bucket(freq + 1).PushFront(key)
		return Hit
	}
	if len(c.freqs) >= c.capacity {
		c.evict()
	}
	c.freqs[key] = 1
	c.bucket(1).PushFront(key)
	c.minFreq = 1
	return Miss
}

// Snapshot lists residents in ascending frequency, newest arrival first
// within each bucket, so the head of the slice is the next eviction
// region and the tail the most protected keys.
func (c *LFUCache) Snapshot() PolicyState {
	occupied := make([]int, 0, len(c.buckets))
	for freq := range c.buckets {
		occupied = append(occupied, freq)
	}
	sort.Ints(occupied)

	keys := make([]Key, 0, len(c.freqs))
	for _, freq := range occupied {
		keys = append(keys, c.buckets[freq].Keys()...)
	}
	return PolicyState{
		Hits:    c.hits,
		HitRate: hitRate(c.hits, c.steps),
		Keys:    keys,
	}
}

// bucket returns the (possibly new) key list for freq.
func (c *LFUCache) bucket(freq int) *KeyList {
	b, ok := c.buckets[freq]
	if !ok {
		b = NewKeyList()
		c.buckets[freq] = b
	}
	return b
}

// removeFromBucket detaches key from its frequency bucket, advancing
// minFreq past the bucket if it just emptied. The caller reinserts the
// key at freq+1, so the next frequency up is always occupied.
func (c *LFUCache) removeFromBucket(key Key, freq int) {
	b := c.buckets[freq]
	b.Remove(key)
	if b.Len() == 0 {
		delete(c.buckets, freq)
		if c.minFreq == freq {
			c.minFreq = freq + 1
		}
	}
}

// evict removes the oldest arrival in the minimum-frequency bucket.
func (c *LFUCache) evict() {
	b := c.buckets[c.minFreq]
	victim, ok := b.PopBack()
	if !ok {
		return
	}
	delete(c.freqs, victim)
	if b.Len() == 0 {
		delete(c.buckets, c.minFreq)
	}
}
