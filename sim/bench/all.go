package bench

// registry maps cache names to their factory functions.
var registry = map[string]Factory{
	"sim:lru":   NewSimLRU,
	"sim:lfu":   NewSimLFU,
	"sim:lruk":  NewSimLRUK,
	"lru":       NewLRU,
	"2q":        NewTwoQueue,
	"s4lru":     NewS4LRU,
	"clock":     NewClock,
	"sieve":     NewSieve,
	"s3-fifo":   NewS3FIFO,
	"tinylfu":   NewTinyLFU,
	"otter":     NewOtter,
	"theine":    NewTheine,
	"freelru":   NewFreeLRU,
	"ristretto": NewRistretto,
	"freecache": NewFreecache,
	"ttlcache":  NewTTLCache,
}

// defaultOrder defines the display order: simulated policies first, then
// the production libraries.
var defaultOrder = []string{
	"sim:lru", "sim:lfu", "sim:lruk",
	"lru", "2q", "s4lru", "clock",
	"sieve", "s3-fifo", "tinylfu", "otter", "theine",
	"freelru", "ristretto", "freecache", "ttlcache",
}

// Filter holds the current cache filter (nil = all caches).
var Filter map[string]bool

// SetFilter sets which caches to include in benchmark runs.
func SetFilter(names []string) {
	if len(names) == 0 {
		Filter = nil
		return
	}
	Filter = make(map[string]bool)
	for _, name := range names {
		Filter[name] = true
	}
}

// All returns factories for all (or filtered) cache implementations.
func All() []Factory {
	var factories []Factory
	for _, name := range defaultOrder {
		if Filter != nil && !Filter[name] {
			continue
		}
		if f, ok := registry[name]; ok {
			factories = append(factories, f)
		}
	}
	return factories
}

// AllNames returns the names of all (or filtered) cache implementations.
func AllNames() []string {
	if Filter == nil {
		return defaultOrder
	}
	var names []string
	for _, name := range defaultOrder {
		if Filter[name] {
			names = append(names, name)
		}
	}
	return names
}

// AvailableNames returns all available cache names (ignoring filter).
func AvailableNames() []string {
	return defaultOrder
}
