package link

import "archon/bus"

// StateTopic is where the transmitter and receiver loops publish
// retained {component, state} updates, so a host process can watch
// the data link come up and go down without polling either side's
// Status.
var StateTopic = bus.T("archon", "link", "state")

// State is the payload published to StateTopic.
type State struct {
	Component string // "transmitter" or "receiver"
	State     string // "idle", "running"
}
