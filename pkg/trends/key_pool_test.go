package trends

import (
	"math"
	"testing"
)

func TestKeyPool_RoundRobin(t *testing.T) {
	pool := NewKeyPool("k1, k2 ,,k3")
	if pool.Size() != 3 {
		t.Fatalf("Expected 3 keys, got %d", pool.Size())
	}

	want := []string{"k1", "k2", "k3", "k1", "k2"}
	for i, w := range want {
		if got := pool.Next(); got != w {
			t.Errorf("Next() #%d = %q, want %q", i, got, w)
		}
	}
}

func TestKeyPool_EmptyAndSingle(t *testing.T) {
	if got := NewKeyPool("").Next(); got != "" {
		t.Errorf("Expected empty key from empty pool, got %q", got)
	}
	single := NewKeyPool("only")
	for i := 0; i < 3; i++ {
		if got := single.Next(); got != "only" {
			t.Errorf("Expected 'only', got %q", got)
		}
	}
}

func TestKeyPool_Overflow(t *testing.T) {
	pool := NewKeyPool("a,b,c")
	pool.current = math.MaxInt64

	for i := 0; i < 5; i++ {
		if got := pool.Next(); got == "" {
			t.Fatalf("Expected a key after counter overflow, got empty at step %d", i)
		}
	}
}
