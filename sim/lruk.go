package sim

// Promotion-rate thresholds and window size for adaptive K. A full window
// with a success rate above the upper threshold lowers K (promote faster);
// below the lower threshold raises K (be more selective).
const (
	adaptWindowSize    = 20
	promotionRateUpper = 0.4
	promotionRateLower = 0.1
)

// LastEvent locations, as they appear on the wire.
const (
	LocationNew     = "new"           // key entered the history tier
	LocationHistory = "history_cache" // key was already in the history tier
	LocationMain    = "main_cache"    // key was resident in the main tier
)

// LastEvent describes what happened to the key touched this step.
type LastEvent struct {
	Key      Key    `json:"key"`
	Location string `json:"location"`
	Promoted bool   `json:"promoted"`
}

// AdaptiveLRUKCache is a two-tier LRU-K policy. Keys first enter a bounded
// history tier and are promoted into the bounded main tier on their K-th
// access since entering; both tiers evict by recency. Only accesses that
// find the key in the main tier count as Hits, so the hit rate reflects
// keys proven hot rather than everything the policy has ever seen.
//
// With adaptive mode on, K follows the recent promotion success rate: a
// window of promotion-attempt outcomes (promotions vs. history evictions
// that discarded a key before its K-th access) is evaluated once per step
// after the access, and K moves one unit at a time within [1, maxK]. A
// changed K applies to subsequent accesses only.
type AdaptiveLRUKCache struct {
	capacity int
	k        int
	maxK     int
	adaptive bool

	history *KeyList    // keys seen fewer than K times, most recent first
	counts  map[Key]int // access count for history-resident keys
	main    *KeyList    // promoted keys, most recent first

	window *attemptWindow
	last   LastEvent
	hits   int
	steps  int
}

// NewAdaptiveLRUKCache creates an LRU-K policy. Both tiers are bounded at
// capacity. maxK caps adaptive growth of k and must be >= k.
func NewAdaptiveLRUKCache(capacity, k, maxK int, adaptive bool) *AdaptiveLRUKCache {
	return &AdaptiveLRUKCache{
		capacity: capacity,
		k:        k,
		maxK:     maxK,
		adaptive: adaptive,
		history:  NewKeyList(),
		counts:   make(map[Key]int),
		main:     NewKeyList(),
		window:   newAttemptWindow(adaptWindowSize),
	}
}

func (c *AdaptiveLRUKCache) Name() string {
	return PolicyLRUK
}

// K returns the current promotion threshold.
func (c *AdaptiveLRUKCache) K() int {
	return c.k
}

// Access touches key and then, in adaptive mode, re-evaluates K. The
// promoting access itself is still a Miss: the key only starts hitting
// once it is resident in the main tier.
func (c *AdaptiveLRUKCache) Access(key Key) Outcome {
	c.steps++
	out := c.access(key)
	if out == Hit {
		c.hits++
	}
	c.adapt()
	return out
}

func (c *AdaptiveLRUKCache) access(key Key) Outcome {
	if c.main.MoveToFront(key) {
		c.last = LastEvent{Key: key, Location: LocationMain}
		return Hit
	}
	if c.history.Contains(key) {
		count := c.counts[key] + 1
		// >= rather than == so a key already past a freshly lowered K
		// still promotes on its next access.
		if count >= c.k {
			c.history.Remove(key)
			delete(c.counts, key)
			if c.main.Len() >= c.capacity {
				c.main.PopBack()
			}
			c.main.PushFront(key)
			c.window.record(true)
			c.last = LastEvent{Key: key, Location: LocationHistory, Promoted: true}
			return Miss
		}
		c.counts[key] = count
		c.history.MoveToFront(key)
		c.last = LastEvent{Key: key, Location: LocationHistory}
		return Miss
	}
	if c.history.Len() >= c.capacity {
		if victim, ok := c.history.PopBack(); ok {
			delete(c.counts, victim)
			// The victim never reached K accesses: a failed promotion attempt.
			c.window.record(false)
		}
	}
	c.history.PushFront(key)
	c.counts[key] = 1
	c.last = LastEvent{Key: key, Location: LocationNew}
	return Miss
}

// adapt moves K one unit when a full window's success rate leaves the
// [lower, upper] band. The window is cleared after a change so the next
// adjustment is judged on attempts made under the new K.
func (c *AdaptiveLRUKCache) adapt() {
	if !c.adaptive || !c.window.full() {
		return
	}
	rate := c.window.successRate()
	switch {
	case rate > promotionRateUpper && c.k > 1:
		c.k--
		c.window.reset()
	case rate < promotionRateLower && c.k < c.maxK:
		c.k++
		c.window.reset()
	}
}

// Snapshot carries both tier orderings (most recent first), the current K,
// and the event for the key touched this step.
func (c *AdaptiveLRUKCache) Snapshot() PolicyState {
	last := c.last
	return PolicyState{
		Hits:      c.hits,
		HitRate:   hitRate(c.hits, c.steps),
		History:   c.history.Keys(),
		Main:      c.main.Keys(),
		CurrentK:  c.k,
		LastEvent: &last,
	}
}

// attemptWindow is a fixed-size ring over the outcomes of the most recent
// promotion attempts: true for a promotion, false for a history eviction
// that discarded a key before it reached K.
type attemptWindow struct {
	outcomes  []bool
	next      int
	filled    int
	successes int
}

func newAttemptWindow(size int) *attemptWindow {
	return &attemptWindow{outcomes: make([]bool, size)}
}

func (w *attemptWindow) record(success bool) {
	if w.filled == len(w.outcomes) {
		// ring is full: the slot being overwritten leaves the window
		if w.outcomes[w.next] {
			w.successes--
		}
	} else {
		w.filled++
	}
	w.outcomes[w.next] = success
	if success {
		w.successes++
	}
	w.next = (w.next + 1) % len(w.outcomes)
}

func (w *attemptWindow) full() bool {
	return w.filled == len(w.outcomes)
}

func (w *attemptWindow) successRate() float64 {
	if w.filled == 0 {
		return 0
	}
	return float64(w.successes) / float64(w.filled)
}

func (w *attemptWindow) reset() {
	w.next = 0
	w.filled = 0
	w.successes = 0
}
