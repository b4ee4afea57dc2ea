package input

import "time"

// PollingGate enforces a minimum inter-emission interval.
// The first call always fires.
type PollingGate struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

// NewPollingGate constructs a gate with the given minimum interval.
func NewPollingGate(interval time.Duration) *PollingGate {
	return &PollingGate{interval: interval}
}

// Poll reports whether this call should emit, updating the last-fired
// timestamp when it does.
func (g *PollingGate) Poll(now time.Time) bool {
	if !g.fired || now.Sub(g.last) >= g.interval {
		g.last = now
		g.fired = true
		return true
	}
	return false
}
