package sim

import "fmt"

// Key identifies a cached item. Workload generators name synthetic keys
// item-<n>; custom workloads may use any non-empty string.
type Key string

// Outcome reports whether an access found its key resident.
type Outcome int

const (
	Miss Outcome = iota
	Hit
)

func (o Outcome) String() string {
	if o == Hit {
		return "hit"
	}
	return "miss"
}

// Policy names as they appear in configuration and the event protocol.
const (
	PolicyLRU  = "lru"
	PolicyLFU  = "lfu"
	PolicyLRUK = "lruk"
)

// CachePolicy is the capability every eviction policy implements. The
// driver feeds each step's key to Access and snapshots the policy right
// after, so Snapshot always describes post-access state.
//
// Implementations are not safe for concurrent use; each run owns its
// policy instances exclusively.
type CachePolicy interface {
	// Name returns the policy's wire name (lru, lfu, lruk).
	Name() string
	// Access touches key, updating residency, eviction order, and hit
	// counters, and reports whether the key was found resident.
	Access(key Key) Outcome
	// Snapshot returns the policy's current externally visible state.
	Snapshot() PolicyState
}

// NewPolicy constructs the named policy from cfg. cfg is expected to be
// validated and defaulted; see Config.Validate.
func NewPolicy(name string, cfg Config) (CachePolicy, error) {
	switch name {
	case PolicyLRU:
		return NewLRUCache(cfg.Capacity), nil
	case PolicyLFU:
		return NewLFUCache(cfg.Capacity), nil
	case PolicyLRUK:
		return NewAdaptiveLRUKCache(cfg.Capacity, cfg.K, cfg.MaxK, cfg.AdaptiveK), nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, name)
	}
}

// PolicyNames returns the closed set of policy names in event order.
func PolicyNames() []string {
	return []string{PolicyLRU, PolicyLFU, PolicyLRUK}
}

// hitRate returns hits/steps, or 0 before the first access.
func hitRate(hits, steps int) float64 {
	if steps == 0 {
		return 0
	}
	return float64(hits) / float64(steps)
}
