package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cachesim/cachesim/sim"
)

const hotProbability = 0.8

// Generate materializes the full key sequence for spec.
// Deterministic given the same spec and seed: each randomized kind draws
// from its own seed-derived stream, so switching kinds never perturbs the
// sequence another kind would produce.
func Generate(spec Spec) ([]sim.Key, error) {
	spec = spec.withDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case KindCustom:
		return append([]sim.Key(nil), spec.Keys...), nil
	case KindScan:
		return generateScan(spec), nil
	case KindRealistic:
		return generateRealistic(spec, streamFor(spec)), nil
	case KindRandom:
		return generateRandom(spec, streamFor(spec)), nil
	case KindZipf:
		return generateZipf(spec, streamFor(spec)), nil
	case KindLua:
		return generateScript(spec)
	}
	return nil, fmt.Errorf("%w: unknown kind %q", sim.ErrInvalidWorkload, spec.Kind)
}

// streamFor derives the spec's RNG from its seed, isolated per kind.
func streamFor(spec Spec) *rand.Rand {
	return sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed)).ForStream(spec.Kind)
}

// keyName formats the nth synthetic key.
func keyName(n int) sim.Key {
	return sim.Key(fmt.Sprintf("item-%d", n))
}

// generateScan sweeps item-0 .. item-(KeySpace-1) in order, cycling when
// Size exceeds the key space.
func generateScan(spec Spec) []sim.Key {
	keys := make([]sim.Key, spec.Size)
	for i := range keys {
		keys[i] = keyName(i % spec.KeySpace)
	}
	return keys
}

// generateRealistic draws from a hot subset (the first ~20% of the key
// space) with probability 0.8 and uniformly from the cold remainder
// otherwise, modeling the 80/20 rule.
func generateRealistic(spec Spec, rng *rand.Rand) []sim.Key {
	hot := spec.KeySpace / 5
	if hot < 1 {
		hot = 1
	}
	keys := make([]sim.Key, spec.Size)
	for i := range keys {
		if hot >= spec.KeySpace || rng.Float64() < hotProbability {
			keys[i] = keyName(rng.Intn(hot))
		} else {
			keys[i] = keyName(hot + rng.Intn(spec.KeySpace-hot))
		}
	}
	return keys
}

// generateRandom draws uniformly over the key space with replacement.
func generateRandom(spec Spec, rng *rand.Rand) []sim.Key {
	keys := make([]sim.Key, spec.Size)
	for i := range keys {
		keys[i] = keyName(rng.Intn(spec.KeySpace))
	}
	return keys
}

// generateZipf draws ranks with Zipfian skew using the YCSB generator:
// rank popularity ~ 1/rank^theta, normalized by the zeta sums. Rank 0 is
// the most popular key.
func generateZipf(spec Spec, rng *rand.Rand) []sim.Key {
	spread := spec.KeySpace + 1
	zeta2 := computeZeta(2, spec.Theta)
	zetaN := computeZeta(uint64(spread), spec.Theta)
	alpha := 1.0 / (1.0 - spec.Theta)
	eta := (1 - math.Pow(2.0/float64(spread), 1.0-spec.Theta)) / (1.0 - zeta2/zetaN)
	halfPowTheta := 1.0 + math.Pow(0.5, spec.Theta)

	keys := make([]sim.Key, spec.Size)
	for i := range keys {
		u := rng.Float64()
		uz := u * zetaN
		var rank int
		switch {
		case uz < 1.0:
			rank = 0
		case uz < halfPowTheta:
			rank = 1
		default:
			rank = int(float64(spread) * math.Pow(eta*u-eta+1.0, alpha))
		}
		if rank >= spec.KeySpace {
			rank = spec.KeySpace - 1
		}
		keys[i] = keyName(rank)
	}
	return keys
}

func computeZeta(n uint64, theta float64) float64 {
	sum := 0.0
	for i := uint64(1); i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}
