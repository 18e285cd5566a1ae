package sim

import (
	"context"
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

// Driver steps every active policy through a fixed key sequence in
// lockstep and emits one StepEvent per key.
type Driver struct {
	cfg      Config
	keys     []Key
	policies []CachePolicy
}

// NewDriver builds a driver for the given config and pre-generated key
// sequence. The config is validated and defaulted; one policy instance is
// constructed per active policy, in event order.
func NewDriver(cfg Config, keys []Key) (*Driver, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("workload: %w: no keys", ErrInvalidWorkload)
	}
	d := &Driver{cfg: cfg, keys: keys}
	for _, name := range cfg.Active.Names() {
		p, err := NewPolicy(name, cfg)
		if err != nil {
			return nil, err
		}
		d.policies = append(d.policies, p)
	}
	return d, nil
}

// TotalSteps returns the length of the key sequence.
func (d *Driver) TotalSteps() int {
	return len(d.keys)
}

// Run returns the simulation as a lazy sequence of step events. Each step
// is computed only when the consumer pulls it, so a consumer that stops
// pulling freezes simulated time with no step lost or precomputed.
// Breaking out of the range ends the run; cancelling ctx ends it between
// steps without a further event.
func (d *Driver) Run(ctx context.Context) iter.Seq[StepEvent] {
	return func(yield func(StepEvent) bool) {
		for i, key := range d.keys {
			if ctx.Err() != nil {
				logrus.Infof("simulation cancelled at step %d/%d", i, len(d.keys))
				return
			}
			if !yield(d.step(i+1, key)) {
				return
			}
		}
	}
}

// step feeds key to every policy and snapshots each one afterwards.
func (d *Driver) step(step int, key Key) StepEvent {
	logrus.Infof("[step %04d/%d] key=%s", step, len(d.keys), key)
	ev := StepEvent{Step: step, TotalSteps: len(d.keys), Key: key}
	for _, p := range d.policies {
		outcome := p.Access(key)
		logrus.Debugf("  %s: %s", p.Name(), outcome)
		state := p.Snapshot()
		switch p.Name() {
		case PolicyLRU:
			ev.LRU = &state
		case PolicyLFU:
			ev.LFU = &state
		case PolicyLRUK:
			ev.LRUK = &state
		}
	}
	return ev
}
