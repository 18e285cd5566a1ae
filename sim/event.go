package sim

import "encoding/json"

// PolicyState is a point-in-time snapshot of one policy, taken after an
// access. Flat policies fill Keys; the tiered LRU-K policy fills History,
// Main, CurrentK and LastEvent instead. All key slices are ordered most
// recent first and are never nil, so an empty tier marshals as [].
type PolicyState struct {
	Hits    int
	HitRate float64

	// Flat policies (lru, lfu).
	Keys []Key

	// Tiered policy (lruk).
	History   []Key
	Main      []Key
	CurrentK  int
	LastEvent *LastEvent
}

// StepEvent is the outcome of one simulation step: the key that was
// accessed and a snapshot of every active policy after it observed that
// access. Policies the run was not configured with stay nil.
type StepEvent struct {
	Step       int // 1-based
	TotalSteps int
	Key        Key

	LRU  *PolicyState
	LFU  *PolicyState
	LRUK *PolicyState
}

// Wire shapes. Field names follow the dashboard protocol: snake_case, one
// block per active policy, the LRU-K tiers nested under "state".
type policyPayload struct {
	State   []Key   `json:"state"`
	Hits    int     `json:"hits"`
	HitRate float64 `json:"hit_rate"`
}

type lrukState struct {
	History  []Key `json:"history_cache"`
	Main     []Key `json:"main_cache"`
	CurrentK int   `json:"current_k"`
}

type lrukPayload struct {
	State     lrukState  `json:"state"`
	Hits      int        `json:"hits"`
	HitRate   float64    `json:"hit_rate"`
	LastEvent *LastEvent `json:"last_event"`
}

type stepPayload struct {
	Step       int            `json:"step"`
	TotalSteps int            `json:"total_steps"`
	CurrentKey Key            `json:"current_key"`
	LRU        *policyPayload `json:"lru_cache,omitempty"`
	LFU        *policyPayload `json:"lfu_cache,omitempty"`
	LRUK       *lrukPayload   `json:"lruk_cache,omitempty"`
}

// MarshalJSON renders the event in the dashboard wire format. Inactive
// policy blocks are omitted entirely rather than sent as null.
func (e StepEvent) MarshalJSON() ([]byte, error) {
	p := stepPayload{
		Step:       e.Step,
		TotalSteps: e.TotalSteps,
		CurrentKey: e.Key,
	}
	if e.LRU != nil {
		p.LRU = &policyPayload{State: e.LRU.Keys, Hits: e.LRU.Hits, HitRate: e.LRU.HitRate}
	}
	if e.LFU != nil {
		p.LFU = &policyPayload{State: e.LFU.Keys, Hits: e.LFU.Hits, HitRate: e.LFU.HitRate}
	}
	if e.LRUK != nil {
		p.LRUK = &lrukPayload{
			State: lrukState{
				History:  e.LRUK.History,
				Main:     e.LRUK.Main,
				CurrentK: e.LRUK.CurrentK,
			},
			Hits:      e.LRUK.Hits,
			HitRate:   e.LRUK.HitRate,
			LastEvent: e.LRUK.LastEvent,
		}
	}
	return json.Marshal(p)
}
