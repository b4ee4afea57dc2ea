package diag

import (
	"context"
	"time"

	"archon/bus"
)

// Topic is where a Reporter publishes retained frame-time snapshots,
// one message per tracked loop name, so a host process can watch
// acquisition/transport pacing without scraping Prometheus.
var Topic = bus.T("archon", "diag", "frametime")

// Snapshot is the payload published to Topic.
type Snapshot struct {
	Loop   string
	Window Window
}

// Reporter runs a ticker loop that publishes every tracked FrameTime's
// current window as a retained bus message.
type Reporter struct {
	conn     *bus.Connection
	tracked  map[string]*FrameTime
	interval time.Duration

	stopped chan struct{}
}

// NewReporter constructs a Reporter publishing on conn every interval.
func NewReporter(conn *bus.Connection, interval time.Duration) *Reporter {
	return &Reporter{conn: conn, tracked: make(map[string]*FrameTime), interval: interval, stopped: make(chan struct{})}
}

// Track registers ft to be reported under name on every tick.
func (r *Reporter) Track(name string, ft *FrameTime) {
	r.tracked[name] = ft
}

// Run publishes a snapshot of every tracked FrameTime on each tick
// until ctx is cancelled.
func (r *Reporter) Run(ctx context.Context) {
	defer close(r.stopped)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for name, ft := range r.tracked {
				r.conn.Publish(r.conn.NewMessage(Topic, Snapshot{Loop: name, Window: ft.Snapshot()}, true))
			}
		}
	}
}

// Stopped reports when Run has returned.
func (r *Reporter) Stopped() <-chan struct{} { return r.stopped }
