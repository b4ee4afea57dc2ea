package link

import (
	"context"
	"sync"
	"time"

	"archon/bus"
	"archon/errcode"
	"archon/netstack"
	"archon/ring"
	"archon/status"
	"archon/wire"
	"archon/x/fmtx"
)

// Receiver owns connection status, an optional endpoint, and a
// consumer ring. listen() binds to the endpoint and decodes every
// datagram into the ring; Take() drains it.
type Receiver struct {
	stack netstack.Stack

	mu       sync.Mutex
	endpoint status.Endpoint
	status   status.Status
	bus      *bus.Connection

	consumer *ring.Atomic[wire.Event]
	stopped  chan struct{}
}

// NewReceiver constructs a receiver with the given consumer ring
// capacity. The endpoint is unset until SetEndpoint is called.
func NewReceiver(stack netstack.Stack, ringCapacity int) *Receiver {
	return &Receiver{
		stack:    stack,
		consumer: ring.NewAtomic[wire.Event](ringCapacity),
		stopped:  make(chan struct{}),
	}
}

// SetBus attaches a bus connection the Receiver publishes retained
// state updates to. Optional; a nil connection (the default) means
// state is observable only through GetStatus.
func (rx *Receiver) SetBus(conn *bus.Connection) { rx.bus = conn }

func (rx *Receiver) publishState(state string) {
	if rx.bus == nil {
		return
	}
	rx.bus.Publish(rx.bus.NewMessage(StateTopic, State{Component: "receiver", State: state}, true))
}

// SetEndpoint updates the bind endpoint. Must be called before Listen.
func (rx *Receiver) SetEndpoint(ep status.Endpoint) {
	rx.mu.Lock()
	rx.endpoint = ep
	rx.mu.Unlock()
}

// GetStatus returns the current connection state.
func (rx *Receiver) GetStatus() status.Status {
	rx.mu.Lock()
	defer rx.mu.Unlock()
	return rx.status
}

// Take pops one decoded event, non-blocking.
func (rx *Receiver) Take() (wire.Event, bool) { return rx.consumer.Take() }

// Listen binds UDP to the configured endpoint and decodes datagrams
// into the consumer ring until ctx is cancelled. It returns an error
// only when no endpoint is set or the bind fails; receive errors
// (including read timeouts) are skipped and the loop continues.
func (rx *Receiver) Listen(ctx context.Context) error {
	defer close(rx.stopped)

	rx.mu.Lock()
	ep := rx.endpoint
	rx.mu.Unlock()
	if ep.IsZero() {
		return &errcode.E{C: errcode.EndpointMissing, Op: "link.Receiver.Listen"}
	}

	pc, err := rx.stack.ListenUDP(ep.UDPAddr())
	if err != nil {
		return &errcode.E{C: errcode.SocketError, Op: "link.Receiver.Listen", Err: err}
	}
	defer pc.Close()

	rx.mu.Lock()
	rx.status.Listening = true
	rx.mu.Unlock()
	rx.publishState("running")
	defer func() {
		rx.mu.Lock()
		rx.status.Listening = false
		rx.status.Connected = false
		rx.mu.Unlock()
		rx.publishState("idle")
	}()

	buf := make([]byte, wire.UDPBuffer+1) // +1 so an oversize datagram is still distinguishable from exact-size
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		pc.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := pc.RecvFrom(buf)
		if err != nil {
			continue // read timeout or transient error; recheck ctx and retry
		}
		if n != wire.UDPBuffer {
			fmtx.Printf("link: receiver: discarding datagram of length %d\n", n)
			continue
		}

		evt, err := wire.Decode(buf[:n])
		if err != nil {
			fmtx.Printf("link: receiver: discarding malformed frame: %v\n", err)
			continue
		}

		rx.mu.Lock()
		rx.status.Connected = true
		rx.mu.Unlock()
		rx.consumer.Add(evt)
	}
}

// Stopped reports when Listen has returned.
func (rx *Receiver) Stopped() <-chan struct{} { return rx.stopped }
