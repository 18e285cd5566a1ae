package bench

import (
	"fmt"
	"strings"

	"github.com/cachesim/cachesim/sim"
)

// Result holds replay hit rates for a single cache.
type Result struct {
	Name  string
	Rates map[int]float64 // cache capacity -> hit rate percentage
}

// DefaultSizes are the cache capacities replayed by default.
var DefaultSizes = []int{64, 256, 1024}

// RunHitRate replays keys against every registered (or filtered) cache
// at each capacity and reports percent hit rates in display order.
func RunHitRate(keys []sim.Key, sizes []int) []Result {
	results := make([]Result, 0, len(All()))
	for _, factory := range All() {
		c := factory(sizes[0])
		name := c.Name()
		c.Close()

		rates := make(map[int]float64)
		for _, size := range sizes {
			rates[size] = replay(factory, keys, size)
		}
		results = append(results, Result{Name: name, Rates: rates})
	}
	return results
}

func replay(factory Factory, keys []sim.Key, capacity int) float64 {
	if len(keys) == 0 {
		return 0
	}
	c := factory(capacity)
	defer c.Close()

	var hits int64
	for _, key := range keys {
		k := string(key)
		if _, ok := c.Get(k); ok {
			hits++
		} else {
			c.Set(k, k)
		}
	}
	return float64(hits) / float64(len(keys)) * 100
}

// Table renders results as fixed-width text, one row per cache in the
// order RunHitRate produced them, one column per capacity.
func Table(results []Result, sizes []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s", "CACHE")
	for _, size := range sizes {
		fmt.Fprintf(&b, " %9d", size)
	}
	b.WriteString("\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%-14s", r.Name)
		for _, size := range sizes {
			fmt.Fprintf(&b, " %8.2f%%", r.Rates[size])
		}
		b.WriteString("\n")
	}
	return b.String()
}
