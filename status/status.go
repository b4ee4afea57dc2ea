// Package status holds the small value types shared across the
// transmitter and receiver: connection state flags and IPv4 endpoints.
package status

import (
	"fmt"
	"net"
)

// Status is a pure flag container; connected/listening are reported
// by the owning singleton, never inferred here.
type Status struct {
	Connected bool
	Listening bool
}

// Endpoint is an IPv4 address and port pair identifying a peer.
type Endpoint struct {
	IP   [4]byte
	Port uint16
}

// NewEndpoint builds an Endpoint from a net.IP (must be or map to
// 4 bytes) and a port.
func NewEndpoint(ip net.IP, port uint16) (Endpoint, error) {
	v4 := ip.To4()
	if v4 == nil {
		return Endpoint{}, fmt.Errorf("status: %v is not an IPv4 address", ip)
	}
	var e Endpoint
	copy(e.IP[:], v4)
	e.Port = port
	return e, nil
}

// UDPAddr converts the endpoint to the net-stack's address type.
func (e Endpoint) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.IP(e.IP[:]), Port: int(e.Port)}
}

// TCPAddr converts the endpoint to the net-stack's address type.
func (e Endpoint) TCPAddr() *net.TCPAddr {
	return &net.TCPAddr{IP: net.IP(e.IP[:]), Port: int(e.Port)}
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", e.IP[0], e.IP[1], e.IP[2], e.IP[3], e.Port)
}

// IsZero reports whether the endpoint was never set.
func (e Endpoint) IsZero() bool {
	return e.IP == [4]byte{} && e.Port == 0
}
