package diag

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestFrameTimeAccumulates(t *testing.T) {
	f := NewFrameTime()
	f.Observe(10 * time.Millisecond)
	f.Observe(30 * time.Millisecond)
	f.Observe(20 * time.Millisecond)

	w := f.Snapshot()
	if w.Count != 3 {
		t.Fatalf("expected count 3, got %d", w.Count)
	}
	if w.Min != 10*time.Millisecond || w.Max != 30*time.Millisecond {
		t.Fatalf("unexpected min/max: %+v", w)
	}
	if w.Avg != 20*time.Millisecond {
		t.Fatalf("expected avg 20ms, got %v", w.Avg)
	}
}

func TestFrameTimeResetClearsWindow(t *testing.T) {
	f := NewFrameTime()
	f.Observe(5 * time.Millisecond)
	f.Reset()
	w := f.Snapshot()
	if w.Count != 0 {
		t.Fatalf("expected empty window after reset, got %+v", w)
	}
}

func TestCollectorExportsSnapshot(t *testing.T) {
	f := NewFrameTime()
	f.Observe(time.Millisecond)
	c := NewCollector("acquisition", f)

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("unexpected registration error: %v", err)
	}
	got, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	var sawCount bool
	for _, mf := range got {
		if mf.GetName() == "archon_frametime_count_total" {
			sawCount = true
			if mf.Metric[0].GetCounter().GetValue() != 1 {
				t.Fatalf("expected count 1, got %v", mf.Metric[0].GetCounter())
			}
		}
	}
	if !sawCount {
		t.Fatal("expected archon_frametime_count_total to be exported")
	}
}
