package layout

import (
	"context"
	"time"

	"archon/ring"
	"archon/wire"
)

// BufferedLayout runs a single producer goroutine that polls a
// DeviceLayout once per tick and pushes every emitted event into an
// atomic SPSC ring, so a reader can TakeInputs without waiting on
// acquisition. Backpressure policy is drop-oldest, same as the ring
// itself.
type BufferedLayout struct {
	layout *DeviceLayout
	ring   *ring.Atomic[wire.Event]
	tick   time.Duration

	stopped chan struct{}
}

// NewBufferedLayout wraps layout with a ring buffer of the given
// capacity and a producer loop that polls every tick.
func NewBufferedLayout(l *DeviceLayout, ringCapacity int, tick time.Duration) *BufferedLayout {
	return &BufferedLayout{
		layout:  l,
		ring:    ring.NewAtomic[wire.Event](ringCapacity),
		tick:    tick,
		stopped: make(chan struct{}),
	}
}

// Run drives the collect loop until ctx is cancelled. Intended to run
// in its own goroutine; Stopped() closes once Run returns.
func (b *BufferedLayout) Run(ctx context.Context) {
	defer close(b.stopped)
	ticker := time.NewTicker(b.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, evt := range b.layout.GetInputs(now) {
				b.ring.Add(evt)
			}
		}
	}
}

// Stopped reports when Run has returned.
func (b *BufferedLayout) Stopped() <-chan struct{} { return b.stopped }

// TakeInputs drains everything currently buffered, in FIFO order. The
// batch may be empty.
func (b *BufferedLayout) TakeInputs() []wire.Event {
	var out []wire.Event
	for {
		evt, ok := b.ring.Take()
		if !ok {
			return out
		}
		out = append(out, evt)
	}
}
