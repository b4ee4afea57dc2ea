package diag

import (
	"context"
	"testing"
	"time"

	"archon/bus"
)

func TestReporterPublishesRetainedSnapshot(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("reporter")
	watcher := b.NewConnection("watcher")

	ft := NewFrameTime()
	ft.Observe(5 * time.Millisecond)

	r := NewReporter(conn, 10*time.Millisecond)
	r.Track("acquisition", ft)

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	sub := watcher.Subscribe(Topic)
	defer watcher.Unsubscribe(sub)

	select {
	case msg := <-sub.Channel():
		snap, ok := msg.Payload.(Snapshot)
		if !ok {
			t.Fatalf("unexpected payload type: %#v", msg.Payload)
		}
		if snap.Loop != "acquisition" {
			t.Fatalf("expected loop %q, got %q", "acquisition", snap.Loop)
		}
		if snap.Window.Count != 1 {
			t.Fatalf("expected count 1, got %d", snap.Window.Count)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for reported snapshot")
	}

	cancel()
	<-r.Stopped()
}
