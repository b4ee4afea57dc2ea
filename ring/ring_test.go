package ring

import (
	"sync"
	"testing"
)

func TestCapacityOneRejected(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic constructing a capacity-1 ring")
		}
	}()
	New[int](1)
}

func TestDropOldestUnderOverload(t *testing.T) {
	r := New[int](4)
	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		r.Add(v)
	}

	want := []int{3, 4, 5, 6}
	for _, w := range want {
		got, ok := r.Take()
		if !ok || got != w {
			t.Fatalf("expected %d, got %d (ok=%v)", w, got, ok)
		}
	}
	if _, ok := r.Take(); ok {
		t.Fatal("expected empty ring after draining surviving window")
	}
	if _, ok := r.Take(); ok {
		t.Fatal("expected empty ring to stay empty")
	}
}

func TestFIFOOrderingWithoutOverflow(t *testing.T) {
	r := New[string](8)
	r.Add("a")
	r.Add("b")
	r.Add("c")

	for _, w := range []string{"a", "b", "c"} {
		got, ok := r.Take()
		if !ok || got != w {
			t.Fatalf("expected %q, got %q (ok=%v)", w, got, ok)
		}
	}
}

// TestAtomicSPSCPreservesOrder hammers Add/Take from two goroutines and
// checks that whatever survives drop-oldest is still strictly increasing
// — concurrent SPSC access must never reorder or duplicate a slot.
func TestAtomicSPSCPreservesOrder(t *testing.T) {
	r := NewAtomic[int](16)
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.Add(i)
		}
	}()

	last := -1
	for {
		v, ok := r.Take()
		if ok {
			if v <= last {
				t.Fatalf("out-of-order take: got %d after %d", v, last)
			}
			last = v
			if v == n-1 {
				break
			}
		}
	}
	wg.Wait()
}

func TestAtomicCapacityOneRejected(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic constructing a capacity-1 atomic ring")
		}
	}()
	NewAtomic[int](1)
}
