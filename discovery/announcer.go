package discovery

import (
	"context"
	"errors"
	"net"
	"time"

	"archon/bus"
	"archon/errcode"
	"archon/netstack"
	"archon/status"
	"archon/x/fmtx"

	"github.com/rs/xid"
)

// Announcer implements the transmitter-side pairing role: join the
// multicast group, bind an ephemeral UDP port, listen for the
// handshake on the advertised TCP port, and repeatedly multicast this
// device's announce frame until a receiver connects.
type Announcer struct {
	stack   netstack.Stack
	name    string
	mcAddr  *net.UDPAddr
	tcpPort uint16
	backoff time.Duration
	attempt time.Duration
	bus     *bus.Connection
}

// NewAnnouncer constructs an Announcer. tcpPort is the handshake
// listen port this device advertises in every announce frame.
func NewAnnouncer(stack netstack.Stack, name string, mcAddr *net.UDPAddr, tcpPort uint16) *Announcer {
	return &Announcer{
		stack: stack, name: name, mcAddr: mcAddr, tcpPort: tcpPort,
		backoff: time.Second,
		attempt: 5 * time.Second,
	}
}

// SetBus attaches a bus connection the Announcer publishes retained
// state updates to. Optional; a nil connection (the default) means
// state is observable only through the returned EstablishInformation.
func (a *Announcer) SetBus(conn *bus.Connection) { a.bus = conn }

func (a *Announcer) publishState(state string) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(a.bus.NewMessage(StateTopic, State{Component: "announcer", State: state}, true))
}

// Announce runs the join/announce/accept loop until a receiver
// completes the handshake or ctx is cancelled. On success it returns
// the EstablishInformation the receiver sent.
func (a *Announcer) Announce(ctx context.Context) (EstablishInformation, error) {
	mc, err := a.stack.ListenUDP(&net.UDPAddr{Port: 0})
	if err != nil {
		return EstablishInformation{}, &errcode.E{C: errcode.SocketError, Op: "discovery.Announcer.Announce", Err: err}
	}
	defer mc.Close()

	if err := a.stack.JoinMulticast(mc, a.mcAddr.IP); err != nil {
		return EstablishInformation{}, &errcode.E{C: errcode.MulticastError, Op: "discovery.Announcer.Announce", Err: err}
	}

	ln, err := a.stack.ListenTCP(&net.TCPAddr{Port: int(a.tcpPort)})
	if err != nil {
		return EstablishInformation{}, &errcode.E{C: errcode.SocketError, Op: "discovery.Announcer.Announce", Err: err}
	}
	defer ln.Close()

	frame, err := AnnounceInformation{Name: a.name, TCPPort: a.tcpPort}.Encode()
	if err != nil {
		return EstablishInformation{}, err
	}

	a.publishState("running")
	defer a.publishState("idle")

	for {
		attempt := xid.New()

		if err := mc.SendTo(frame[:], a.mcAddr); err != nil {
			fmtx.Printf("discovery: announce %s: send failed, backing off: %v\n", attempt, err)
			select {
			case <-ctx.Done():
				return EstablishInformation{}, ctx.Err()
			case <-time.After(a.backoff):
			}
			continue
		}

		acceptCtx, cancel := context.WithTimeout(ctx, a.attempt)
		conn, err := ln.AcceptContext(acceptCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return EstablishInformation{}, ctx.Err()
			}
			continue // accept timed out; re-announce
		}

		info, err := a.readEstablish(conn)
		conn.Close()
		if err != nil {
			fmtx.Printf("discovery: announce %s: malformed handshake: %v\n", attempt, err)
			continue // malformed handshake; re-announce
		}
		return info, nil
	}
}

func (a *Announcer) readEstablish(conn netstack.Conn) (EstablishInformation, error) {
	conn.SetDeadline(time.Now().Add(a.attempt))
	buf := make([]byte, MCBuffer)
	n, err := conn.Read(buf)
	if err != nil {
		return EstablishInformation{}, &errcode.E{C: classifyReadErr(err), Op: "discovery.Announcer.readEstablish", Err: err}
	}
	return DecodeEstablish(buf[:n])
}

// classifyReadErr distinguishes a deadline timeout from any other
// socket failure, so callers can tell "the peer never finished
// writing" apart from a harder connection error.
func classifyReadErr(err error) errcode.Code {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errcode.TimeoutError
	}
	return errcode.SocketError
}

// StatusEndpoint converts an EstablishInformation into the status
// package's Endpoint type, the form the transmitter's sender expects.
func StatusEndpoint(info EstablishInformation) (status.Endpoint, error) {
	return status.NewEndpoint(info.RemoteAddr, info.UDPPort)
}
