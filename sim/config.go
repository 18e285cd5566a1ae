package sim

import "fmt"

// DefaultMaxK is the adaptive-K upper bound applied when Config.MaxK is
// left zero.
const DefaultMaxK = 5

// Config holds the per-run simulation parameters shared by all policies.
type Config struct {
	Capacity  int            // resident capacity per policy tier (must be >= 1)
	K         int            // LRU-K promotion threshold (must be >= 1)
	MaxK      int            // adaptive-K upper bound (0 = DefaultMaxK, raised to K if needed)
	AdaptiveK bool           // adjust K from the recent promotion success rate
	Active    ActivePolicies // which policies participate in the run
}

// ActivePolicies selects the policies a run instantiates.
type ActivePolicies struct {
	LRU  bool
	LFU  bool
	LRUK bool
}

// Any reports whether at least one policy is selected.
func (a ActivePolicies) Any() bool {
	return a.LRU || a.LFU || a.LRUK
}

// Names returns the selected policy names in event order.
func (a ActivePolicies) Names() []string {
	var names []string
	if a.LRU {
		names = append(names, PolicyLRU)
	}
	if a.LFU {
		names = append(names, PolicyLFU)
	}
	if a.LRUK {
		names = append(names, PolicyLRUK)
	}
	return names
}

// ActivePoliciesFromNames builds a selection from policy names.
func ActivePoliciesFromNames(names []string) (ActivePolicies, error) {
	var active ActivePolicies
	for _, name := range names {
		switch name {
		case PolicyLRU:
			active.LRU = true
		case PolicyLFU:
			active.LFU = true
		case PolicyLRUK:
			active.LRUK = true
		default:
			return ActivePolicies{}, fmt.Errorf("%w: unknown policy %q; valid: lru, lfu, lruk", ErrInvalidConfig, name)
		}
	}
	return active, nil
}

// Validate checks the configuration before any simulation state exists.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be >= 1, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.K < 1 {
		return fmt.Errorf("%w: k must be >= 1, got %d", ErrInvalidConfig, c.K)
	}
	if c.MaxK != 0 && c.MaxK < c.K {
		return fmt.Errorf("%w: max_k must be >= k, got max_k=%d k=%d", ErrInvalidConfig, c.MaxK, c.K)
	}
	if !c.Active.Any() {
		return fmt.Errorf("%w: at least one active policy required", ErrInvalidConfig)
	}
	return nil
}

// withDefaults fills the optional fields of a validated Config.
func (c Config) withDefaults() Config {
	if c.MaxK == 0 {
		c.MaxK = DefaultMaxK
		if c.K > c.MaxK {
			c.MaxK = c.K
		}
	}
	return c
}
