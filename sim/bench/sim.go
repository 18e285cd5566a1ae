package bench

import "github.com/cachesim/cachesim/sim"

// simPolicyK is the promotion threshold for the benchmarked LRU-K
// policy, matching the simulator's default run configuration.
const simPolicyK = 2

// policyCache adapts a simulated eviction policy to the benchmark
// interface. Access already admits missing keys, so Set is a no-op.
type policyCache struct {
	p    sim.CachePolicy
	name string
}

// NewSimLRU creates the simulated LRU policy.
func NewSimLRU(capacity int) Cache {
	return &policyCache{p: sim.NewLRUCache(capacity), name: "sim:lru"}
}

// NewSimLFU creates the simulated LFU policy.
func NewSimLFU(capacity int) Cache {
	return &policyCache{p: sim.NewLFUCache(capacity), name: "sim:lfu"}
}

// NewSimLRUK creates the simulated adaptive LRU-K policy.
func NewSimLRUK(capacity int) Cache {
	return &policyCache{
		p:    sim.NewAdaptiveLRUKCache(capacity, simPolicyK, sim.DefaultMaxK, true),
		name: "sim:lruk",
	}
}

func (c *policyCache) Get(key string) (string, bool) {
	if c.p.Access(sim.Key(key)) == sim.Hit {
		return key, true
	}
	return "", false
}

func (c *policyCache) Set(key, value string) {}

func (c *policyCache) Name() string {
	return c.name
}

func (c *policyCache) Close() {}
