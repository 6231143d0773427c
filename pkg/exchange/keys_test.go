package exchange

import "testing"

func TestNewSettlementKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := NewSettlementKey()
		if key == "" {
			t.Fatal("empty key")
		}
		for _, c := range key {
			if c < '0' || c > '9' {
				t.Fatalf("key %q is not a decimal string", key)
			}
		}
		seen[key] = true
	}
	// The draw space is 1e12; 100 draws colliding would point at a broken
	// random source rather than bad luck.
	if len(seen) < 100 {
		t.Errorf("got %d distinct keys out of 100 draws", len(seen))
	}
}
