// Package netstack is the thin seam between Archon and the host's
// Wi-Fi/IP stack. On a hosted
// build it is a direct wrapper over the standard library's net
// package; on an embedded target it would instead wrap the board's
// TCP/IP stack (e.g. CYW43/lwIP), which is why discovery and link
// depend only on the interfaces below rather than on net directly.
//
// net is the standard library's own socket layer — there is no
// separate Go ecosystem UDP/TCP socket library to reach for instead,
// so this is the one package in the module that is stdlib by
// necessity rather than by default.
package netstack

import (
	"context"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

// PacketConn is the UDP collaborator: bind, send, receive, multicast
// join.
type PacketConn interface {
	SendTo(buf []byte, addr *net.UDPAddr) error
	RecvFrom(buf []byte) (n int, src *net.UDPAddr, err error)
	SetReadDeadline(t time.Time) error
	Close() error
	LocalAddr() net.Addr
}

// Listener is the TCP accept collaborator.
type Listener interface {
	AcceptContext(ctx context.Context) (Conn, error)
	Close() error
	Addr() net.Addr
}

// Conn is the TCP stream collaborator.
type Conn interface {
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	SetDeadline(t time.Time) error
	Close() error
	RemoteAddr() net.Addr
}

// Stack is the full collaborator surface discovery and link need.
type Stack interface {
	ListenUDP(addr *net.UDPAddr) (PacketConn, error)
	JoinMulticast(pc PacketConn, group net.IP) error
	ListenTCP(addr *net.TCPAddr) (Listener, error)
	DialTCP(ctx context.Context, addr *net.TCPAddr) (Conn, error)
}

// Host is a Stack backed by the standard library, for the hosted
// build (tests, Linux/macOS development receivers and transmitters).
type Host struct{}

var errNoMulticastInterface = netError("no multicast-capable interface joined the group")

type netError string

func (e netError) Error() string { return string(e) }

func (Host) ListenUDP(addr *net.UDPAddr) (PacketConn, error) {
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, err
	}
	return &hostPacketConn{conn: conn}, nil
}

// JoinMulticast joins group on every multicast-capable interface. A
// board's TCP/IP stack typically only has one usable interface, but a
// host may have several (loopback, wired, Wi-Fi); joining on all of
// them keeps this symmetric with sending, which reaches whichever
// interface the kernel's routing table picks.
func (Host) JoinMulticast(pc PacketConn, group net.IP) error {
	hp, ok := pc.(*hostPacketConn)
	if !ok {
		return nil
	}
	pconn := ipv4.NewPacketConn(hp.conn)
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}
	var joined bool
	for _, ift := range ifaces {
		if ift.Flags&net.FlagMulticast == 0 {
			continue
		}
		if err := pconn.JoinGroup(&ift, &net.UDPAddr{IP: group}); err == nil {
			joined = true
		}
	}
	if !joined {
		return &net.OpError{Op: "join-group", Err: errNoMulticastInterface}
	}
	return nil
}

func (Host) ListenTCP(addr *net.TCPAddr) (Listener, error) {
	ln, err := net.ListenTCP("tcp4", addr)
	if err != nil {
		return nil, err
	}
	return &hostListener{ln: ln}, nil
}

func (Host) DialTCP(ctx context.Context, addr *net.TCPAddr) (Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp4", addr.String())
	if err != nil {
		return nil, err
	}
	return &hostConn{conn: conn}, nil
}

type hostPacketConn struct{ conn *net.UDPConn }

func (h *hostPacketConn) SendTo(buf []byte, addr *net.UDPAddr) error {
	_, err := h.conn.WriteToUDP(buf, addr)
	return err
}

func (h *hostPacketConn) RecvFrom(buf []byte) (int, *net.UDPAddr, error) {
	return h.conn.ReadFromUDP(buf)
}

func (h *hostPacketConn) SetReadDeadline(t time.Time) error { return h.conn.SetReadDeadline(t) }
func (h *hostPacketConn) Close() error                      { return h.conn.Close() }
func (h *hostPacketConn) LocalAddr() net.Addr                { return h.conn.LocalAddr() }

type hostListener struct{ ln *net.TCPListener }

func (h *hostListener) AcceptContext(ctx context.Context) (Conn, error) {
	type result struct {
		conn *net.TCPConn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conn, err := h.ln.AcceptTCP()
		done <- result{conn, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return &hostConn{conn: r.conn}, nil
	}
}

func (h *hostListener) Close() error  { return h.ln.Close() }
func (h *hostListener) Addr() net.Addr { return h.ln.Addr() }

type hostConn struct{ conn net.Conn }

func (h *hostConn) Read(buf []byte) (int, error)    { return h.conn.Read(buf) }
func (h *hostConn) Write(buf []byte) (int, error)   { return h.conn.Write(buf) }
func (h *hostConn) SetDeadline(t time.Time) error   { return h.conn.SetDeadline(t) }
func (h *hostConn) Close() error                    { return h.conn.Close() }
func (h *hostConn) RemoteAddr() net.Addr            { return h.conn.RemoteAddr() }
