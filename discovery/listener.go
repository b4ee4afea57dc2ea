package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"archon/bus"
	"archon/errcode"
	"archon/netstack"
	"archon/x/fmtx"
)

// StateTopic is where discovery publishes retained
// {component, state} updates, so a host process can watch discovery
// progress without polling Status.
var StateTopic = bus.T("archon", "discovery", "state")

// State is the payload published to StateTopic.
type State struct {
	Component string // "announcer" or "listener"
	State     string // "idle", "running"
}

// Listener implements the receiver-side pairing role: a background
// task that binds UDP to the multicast port, joins the group, and
// records every announcing transmitter into a shared Status. State
// machine: IDLE -> RUNNING -> STOPPING -> IDLE.
type Listener struct {
	stack  netstack.Stack
	mcAddr *net.UDPAddr
	status *Status
	bus    *bus.Connection

	mu      sync.Mutex
	cancel  context.CancelFunc
	pc      netstack.PacketConn
	stopped chan struct{}
}

// NewListener constructs a Listener bound to the given Status and
// multicast address.
func NewListener(stack netstack.Stack, mcAddr *net.UDPAddr, status *Status) *Listener {
	return &Listener{stack: stack, mcAddr: mcAddr, status: status}
}

// SetBus attaches a bus connection the Listener publishes retained
// state updates to. Optional; a nil connection (the default) means
// state is observable only through Status.
func (l *Listener) SetBus(conn *bus.Connection) { l.bus = conn }

func (l *Listener) publishState(state string) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(l.bus.NewMessage(StateTopic, State{Component: "listener", State: state}, true))
}

// Start transitions IDLE -> RUNNING and spawns the background recv
// loop. Calling Start while already running is a no-op.
func (l *Listener) Start(ctx context.Context, localAddr net.IP) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.stopped = make(chan struct{})
	l.mu.Unlock()

	pc, err := l.stack.ListenUDP(&net.UDPAddr{Port: l.mcAddr.Port})
	if err != nil {
		cancel()
		return &errcode.E{C: errcode.SocketError, Op: "discovery.Listener.Start", Err: err}
	}
	if err := l.stack.JoinMulticast(pc, l.mcAddr.IP); err != nil {
		pc.Close()
		cancel()
		return &errcode.E{C: errcode.MulticastError, Op: "discovery.Listener.Start", Err: err}
	}

	l.mu.Lock()
	l.pc = pc
	l.mu.Unlock()

	l.status.clear()
	l.status.setEnabled()
	l.publishState("running")
	go l.run(runCtx, pc, localAddr)
	return nil
}

func (l *Listener) run(ctx context.Context, pc netstack.PacketConn, localAddr net.IP) {
	defer close(l.stopped)
	defer pc.Close()
	defer l.status.setDisabled()
	defer l.status.clear()
	defer l.publishState("idle")

	buf := make([]byte, MCBuffer)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pc.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, src, err := pc.RecvFrom(buf)
		if err != nil {
			continue // read timeout or transient error; loop and recheck ctx
		}

		announce, err := DecodeAnnounce(buf[:n])
		if err != nil {
			fmtx.Printf("discovery: listener: malformed announce from %v: %v\n", src, err)
			continue
		}
		l.status.push(DiscoveryInformation{
			Remote:   src.IP,
			Local:    localAddr,
			Announce: announce,
		})
	}
}

// Stop transitions RUNNING -> STOPPING -> IDLE and blocks until the
// background task has exited and cleared the peer list.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	pc := l.pc
	stopped := l.stopped
	l.cancel = nil
	l.pc = nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if pc != nil {
		pc.Close() // unblocks a RecvFrom the cancelled context can't interrupt directly
	}
	<-stopped
}

// Connect implements the receiver-side handshake completion: dial the
// transmitter's advertised TCP port and hand it the UDP port it
// should send input frames to.
func Connect(ctx context.Context, stack netstack.Stack, info DiscoveryInformation, dataPort uint16) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	addr := &net.TCPAddr{IP: info.Remote, Port: int(info.Announce.TCPPort)}
	conn, err := stack.DialTCP(ctx, addr)
	if err != nil {
		return &errcode.E{C: errcode.SocketError, Op: "discovery.Connect", Err: err}
	}
	defer conn.Close()

	frame, err := EstablishInformation{RemoteAddr: info.Local, UDPPort: dataPort}.Encode()
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	if _, err := conn.Write(frame[:]); err != nil {
		return &errcode.E{C: errcode.SocketError, Op: "discovery.Connect", Err: err}
	}
	return nil
}
