package discovery

import (
	"net"
	"testing"
)

func TestStatusLifecycle(t *testing.T) {
	s := NewStatus()
	if s.IsRunning() {
		t.Fatal("expected a fresh status to be idle")
	}

	s.setEnabled()
	if !s.IsRunning() {
		t.Fatal("expected status to report running")
	}

	info := DiscoveryInformation{
		Remote:   net.IPv4(10, 0, 0, 1),
		Local:    net.IPv4(10, 0, 0, 2),
		Announce: AnnounceInformation{Name: "tx", TCPPort: DefaultTCPPort},
	}
	s.push(info)
	peers := s.Peers()
	if len(peers) != 1 || !peers[0].Remote.Equal(info.Remote) || peers[0].Announce != info.Announce {
		t.Fatalf("expected one pushed peer, got %+v", peers)
	}

	s.setDisabled()
	if s.IsRunning() {
		t.Fatal("expected status to report idle after setDisabled")
	}

	s.clear()
	if peers := s.Peers(); len(peers) != 0 {
		t.Fatalf("expected peer list cleared, got %+v", peers)
	}
}
