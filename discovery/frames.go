// Package discovery implements the multicast announce/listen and TCP
// handshake that let a transmitter and receiver find each other on a
// LAN with no prior configuration.
package discovery

import (
	"encoding/binary"
	"net"

	"archon/errcode"
)

// MCBuffer is the fixed size of a discovery datagram (announce or
// establish frame); both ride the same buffer size even though
// establish only uses its first 6 bytes.
const MCBuffer = 34

// nameLen is the fixed width of the ASCII name field inside an
// announce frame.
const nameLen = 32

// Default addresses, overridable via config.
const (
	DefaultMulticastAddr = "230.100.80.20"
	DefaultMulticastPort = 5000
	DefaultTCPPort       = 49586
	DefaultDataPort      = 5000
)

// AnnounceInformation is the transmitter's identity, broadcast
// periodically over multicast.
type AnnounceInformation struct {
	Name    string
	TCPPort uint16
}

// Encode serializes the announce frame: name right-padded with 0x00
// to 32 bytes, then the TCP port big-endian.
func (a AnnounceInformation) Encode() ([MCBuffer]byte, error) {
	var buf [MCBuffer]byte
	if len(a.Name) > nameLen {
		return buf, &errcode.E{C: errcode.InvalidParams, Op: "discovery.AnnounceInformation.Encode", Msg: "name exceeds 32 bytes"}
	}
	copy(buf[:nameLen], a.Name)
	binary.BigEndian.PutUint16(buf[nameLen:nameLen+2], a.TCPPort)
	return buf, nil
}

// DecodeAnnounce parses an announce frame.
func DecodeAnnounce(buf []byte) (AnnounceInformation, error) {
	if len(buf) < nameLen+2 {
		return AnnounceInformation{}, &errcode.E{C: errcode.MalformedFrame, Op: "discovery.DecodeAnnounce", Msg: "short buffer"}
	}
	name := string(buf[:nameLen])
	// Trim the 0x00 padding.
	for i, b := range buf[:nameLen] {
		if b == 0 {
			name = string(buf[:i])
			break
		}
	}
	port := binary.BigEndian.Uint16(buf[nameLen : nameLen+2])
	return AnnounceInformation{Name: name, TCPPort: port}, nil
}

// DiscoveryInformation is one transmitter the receiver has seen
// announce itself.
type DiscoveryInformation struct {
	Remote   net.IP
	Local    net.IP
	Announce AnnounceInformation
}

// EstablishInformation is what the receiver sends the transmitter
// once it has decided to pair with it: the UDP port the transmitter
// should send input frames to.
type EstablishInformation struct {
	RemoteAddr net.IP
	UDPPort    uint16
}

// Encode serializes the establish frame: remote IPv4, then UDP port
// big-endian; only the first 6 bytes of MCBuffer are meaningful.
func (e EstablishInformation) Encode() ([MCBuffer]byte, error) {
	var buf [MCBuffer]byte
	v4 := e.RemoteAddr.To4()
	if v4 == nil {
		return buf, &errcode.E{C: errcode.InvalidParams, Op: "discovery.EstablishInformation.Encode", Msg: "remote addr is not IPv4"}
	}
	copy(buf[0:4], v4)
	binary.BigEndian.PutUint16(buf[4:6], e.UDPPort)
	return buf, nil
}

// DecodeEstablish parses an establish frame.
func DecodeEstablish(buf []byte) (EstablishInformation, error) {
	if len(buf) < 6 {
		return EstablishInformation{}, &errcode.E{C: errcode.MalformedFrame, Op: "discovery.DecodeEstablish", Msg: "short buffer"}
	}
	ip := net.IPv4(buf[0], buf[1], buf[2], buf[3])
	port := binary.BigEndian.Uint16(buf[4:6])
	return EstablishInformation{RemoteAddr: ip, UDPPort: port}, nil
}
