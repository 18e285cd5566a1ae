package bench

import "testing"

func TestPolicyCache_LRU_AccessAdmitsOnMiss(t *testing.T) {
	// GIVEN the simulated LRU policy at capacity 1
	c := NewSimLRU(1)
	defer c.Close()

	// WHEN keys are looked up
	if _, ok := c.Get("A"); ok {
		t.Error("expected first lookup of A to miss")
	}
	if _, ok := c.Get("B"); ok {
		t.Error("expected first lookup of B to miss")
	}

	// THEN the miss admitted B and evicted A
	if v, ok := c.Get("B"); !ok || v != "B" {
		t.Errorf("expected hit on B, got (%q, %v)", v, ok)
	}
	if _, ok := c.Get("A"); ok {
		t.Error("expected A to have been evicted")
	}
}

func TestPolicyCache_LRUK_HitsOnlyAfterPromotion(t *testing.T) {
	// GIVEN the simulated LRU-K policy (K=2)
	c := NewSimLRUK(4)
	defer c.Close()

	// WHEN a key is looked up three times
	_, first := c.Get("A")
	_, second := c.Get("A")
	_, third := c.Get("A")

	// THEN only the post-promotion lookup hits
	if first || second {
		t.Errorf("expected misses before promotion, got (%v, %v)", first, second)
	}
	if !third {
		t.Error("expected hit once A is resident in the main tier")
	}
}

func TestPolicyCache_SetIsANoOp(t *testing.T) {
	// GIVEN the simulated LFU policy
	c := NewSimLFU(2)
	defer c.Close()

	// WHEN a key is written without being looked up
	c.Set("A", "A")

	// THEN the key is still absent; only Get admits
	if _, ok := c.Get("A"); ok {
		t.Error("expected Set to leave the policy untouched")
	}
}
