package trace

import (
	"fmt"
	"strings"

	"github.com/cachesim/cachesim/sim"
)

// PolicyTotals is the running tally for one policy.
type PolicyTotals struct {
	Hits    int
	HitRate float64
}

// Summary tracks the latest per-policy tallies seen in an event
// stream. Observing every event of a run leaves the end-of-run totals.
type Summary struct {
	Steps    int
	Policies map[string]PolicyTotals
}

// NewSummary creates a Summary ready for observing.
func NewSummary() *Summary {
	return &Summary{Policies: make(map[string]PolicyTotals)}
}

// Observe folds one event into the summary.
func (s *Summary) Observe(event sim.StepEvent) {
	if event.Step > s.Steps {
		s.Steps = event.Step
	}
	if event.LRU != nil {
		s.Policies[sim.PolicyLRU] = PolicyTotals{Hits: event.LRU.Hits, HitRate: event.LRU.HitRate}
	}
	if event.LFU != nil {
		s.Policies[sim.PolicyLFU] = PolicyTotals{Hits: event.LFU.Hits, HitRate: event.LFU.HitRate}
	}
	if event.LRUK != nil {
		s.Policies[sim.PolicyLRUK] = PolicyTotals{Hits: event.LRUK.Hits, HitRate: event.LRUK.HitRate}
	}
}

// Table renders the summary as fixed-width text, policies in their
// simulation order.
func (s *Summary) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %8s %8s %10s\n", "POLICY", "HITS", "MISSES", "HIT RATE")
	for _, name := range sim.PolicyNames() {
		totals, ok := s.Policies[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-8s %8d %8d %9.2f%%\n",
			name, totals.Hits, s.Steps-totals.Hits, totals.HitRate*100)
	}
	return b.String()
}
