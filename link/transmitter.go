// Package link implements the transmitter's send loop and the
// receiver's recv loop: the two halves that pump encoded frames
// across the UDP link once discovery has handed over an endpoint.
// Both follow a "bind, then loop forever pumping a channel" shape.
package link

import (
	"context"
	"net"
	"time"

	"archon/bus"
	"archon/errcode"
	"archon/netstack"
	"archon/status"
	"archon/wire"
	"archon/x/fmtx"
)

// InputSource is anything that can hand the transmitter a batch of
// events to send — layout.BufferedLayout satisfies this.
type InputSource interface {
	TakeInputs() []wire.Event
}

// Transmitter owns an endpoint and a UDP socket, and pumps an
// InputSource's batches onto the wire, fire-and-forget.
type Transmitter struct {
	stack    netstack.Stack
	source   InputSource
	endpoint status.Endpoint
	bus      *bus.Connection

	stopped chan struct{}
}

// NewTransmitter constructs a transmitter bound to the given
// endpoint.
func NewTransmitter(stack netstack.Stack, source InputSource, endpoint status.Endpoint) *Transmitter {
	return &Transmitter{stack: stack, source: source, endpoint: endpoint, stopped: make(chan struct{})}
}

// SetBus attaches a bus connection the Transmitter publishes retained
// state updates to. Optional; a nil connection (the default) means
// state is observable only through Stopped.
func (tx *Transmitter) SetBus(conn *bus.Connection) { tx.bus = conn }

func (tx *Transmitter) publishState(state string) {
	if tx.bus == nil {
		return
	}
	tx.bus.Publish(tx.bus.NewMessage(StateTopic, State{Component: "transmitter", State: state}, true))
}

// Run opens a UDP socket on the endpoint's local port and pumps
// TakeInputs batches onto it until ctx is cancelled. Send errors are
// logged and swallowed — UDP is best-effort and the sender never
// retries a specific event.
func (tx *Transmitter) Run(ctx context.Context, tick time.Duration) error {
	defer close(tx.stopped)

	pc, err := tx.stack.ListenUDP(&net.UDPAddr{Port: int(tx.endpoint.Port)})
	if err != nil {
		return &errcode.E{C: errcode.SocketError, Op: "link.Transmitter.Run", Err: err}
	}
	defer pc.Close()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	tx.publishState("running")
	defer tx.publishState("idle")

	dst := tx.endpoint.UDPAddr()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, evt := range tx.source.TakeInputs() {
				buf := evt.Encode()
				if err := pc.SendTo(buf[:], dst); err != nil {
					fmtx.Printf("link: transmitter: send failed: %v\n", err)
				}
			}
		}
	}
}

// Stopped reports when Run has returned.
func (tx *Transmitter) Stopped() <-chan struct{} { return tx.stopped }
