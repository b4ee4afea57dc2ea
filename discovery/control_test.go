package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"archon/bus"
	"archon/errcode"
)

func TestServeControlRejectsUnsupportedOp(t *testing.T) {
	st := NewStatus()
	l := NewListener(&fakeStack{conn: &fakePacketConn{}}, &net.UDPAddr{IP: net.ParseIP(DefaultMulticastAddr), Port: DefaultMulticastPort}, st)

	b := bus.NewBus(4)
	conn := b.NewConnection("listener")
	l.SetBus(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.ServeControl(ctx)

	caller := b.NewConnection("caller")
	req := caller.NewMessage(ControlTopic, ControlRequest{Op: "frobnicate"}, false)
	reply, err := caller.RequestWait(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error waiting for reply: %v", err)
	}
	got, ok := reply.Payload.(ControlReply)
	if !ok || got.OK || got.Error != string(errcode.Unsupported) {
		t.Fatalf("expected unsupported error reply, got %#v", reply.Payload)
	}
}

func TestServeControlRejectsStartWhenBusy(t *testing.T) {
	st := NewStatus()
	l := NewListener(&fakeStack{conn: &fakePacketConn{}}, &net.UDPAddr{IP: net.ParseIP(DefaultMulticastAddr), Port: DefaultMulticastPort}, st)

	if err := l.Start(context.Background(), net.IPv4(10, 0, 0, 1)); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer l.Stop()

	b := bus.NewBus(4)
	conn := b.NewConnection("listener")
	l.SetBus(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.ServeControl(ctx)

	caller := b.NewConnection("caller")
	req := caller.NewMessage(ControlTopic, ControlRequest{Op: "start", LocalAddr: net.IPv4(10, 0, 0, 1)}, false)
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	reply, err := caller.RequestWait(waitCtx, req)
	if err != nil {
		t.Fatalf("unexpected error waiting for reply: %v", err)
	}
	got, ok := reply.Payload.(ControlReply)
	if !ok || got.OK || got.Error != string(errcode.Busy) {
		t.Fatalf("expected busy error reply, got %#v", reply.Payload)
	}
}
