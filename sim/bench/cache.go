// Package bench compares the simulated eviction policies against
// production cache libraries by replaying a workload and measuring hit
// rates.
package bench

// Cache is a minimal interface for hit-rate benchmarking with string keys.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Name() string
	Close()
}

// Factory creates a new cache instance with the given capacity.
type Factory func(capacity int) Cache
