package discovery

import "sync"

// Status is the process-scoped, mutex-guarded record of discovery
// activity: every peer seen so far, and whether a listen loop is
// currently running. Mutators are package-private — only Listener
// advances this state; callers only ever observe it.
type Status struct {
	mu      sync.Mutex
	peers   []DiscoveryInformation
	running bool
}

// NewStatus constructs an empty, idle status.
func NewStatus() *Status { return &Status{} }

// Peers returns a snapshot of every peer seen since the list was last
// cleared.
func (s *Status) Peers() []DiscoveryInformation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DiscoveryInformation, len(s.peers))
	copy(out, s.peers)
	return out
}

// IsRunning reports whether a Listener is currently active.
func (s *Status) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Status) push(info DiscoveryInformation) {
	s.mu.Lock()
	s.peers = append(s.peers, info)
	s.mu.Unlock()
}

func (s *Status) setEnabled() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
}

func (s *Status) setDisabled() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Status) clear() {
	s.mu.Lock()
	s.peers = nil
	s.mu.Unlock()
}
