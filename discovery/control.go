package discovery

import (
	"context"
	"net"

	"archon/bus"
	"archon/errcode"
)

// ControlTopic is where a host process can request the Listener
// start or stop its background recv loop, instead of calling Start/
// Stop directly — useful when the receiver binary hands control of
// discovery to something else on the bus (a CLI, a supervisor).
var ControlTopic = bus.T("archon", "discovery", "control")

// ControlRequest is the payload a caller publishes on ControlTopic.
type ControlRequest struct {
	Op        string // "start" or "stop"
	LocalAddr net.IP // required for "start"
}

// ControlReply is the payload the Listener replies with.
type ControlReply struct {
	OK    bool
	Error string
}

func (l *Listener) reply(m *bus.Message, ok bool, code errcode.Code) {
	if !m.CanReply() {
		return
	}
	if ok {
		l.bus.Reply(m, ControlReply{OK: true}, false)
		return
	}
	l.bus.Reply(m, ControlReply{OK: false, Error: string(code)}, false)
}

// ServeControl subscribes to ControlTopic and answers start/stop
// requests until ctx is cancelled. Requires SetBus to have been
// called first.
func (l *Listener) ServeControl(ctx context.Context) {
	if l.bus == nil {
		return
	}
	sub := l.bus.Subscribe(ControlTopic)
	defer l.bus.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			l.handleControl(ctx, msg)
		}
	}
}

func (l *Listener) handleControl(ctx context.Context, msg *bus.Message) {
	req, ok := msg.Payload.(ControlRequest)
	if !ok {
		l.reply(msg, false, errcode.InvalidParams)
		return
	}

	switch req.Op {
	case "start":
		if l.status.IsRunning() {
			l.reply(msg, false, errcode.Busy)
			return
		}
		if err := l.Start(ctx, req.LocalAddr); err != nil {
			l.reply(msg, false, errcode.Of(err))
			return
		}
		l.reply(msg, true, errcode.OK)
	case "stop":
		l.Stop()
		l.reply(msg, true, errcode.OK)
	default:
		l.reply(msg, false, errcode.Unsupported)
	}
}
