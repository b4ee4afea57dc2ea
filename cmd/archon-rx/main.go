// Command archon-rx: listens for transmitter announcements, completes
// the handshake, binds the agreed UDP endpoint, and prints decoded
// input events as they arrive.
//
// Build/flash (TinyGo, board target):
//   tinygo flash -target pico ./cmd/archon-rx
package main

import (
	"context"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"archon/bus"
	"archon/config"
	"archon/discovery"
	"archon/link"
	"archon/netstack"
	"archon/status"
	"archon/x/fmtx"
)

func main() {
	fmtx.Printf("== Archon receiver ==\n")

	cfg := config.DefaultReceiverConfig()
	stack := netstack.Host{}
	mcAddr := &net.UDPAddr{IP: net.ParseIP(cfg.MulticastAddr), Port: int(cfg.MulticastPort)}

	peers := discovery.NewStatus()
	listener := discovery.NewListener(stack, mcAddr, peers)

	localAddr, err := localIPv4()
	if err != nil {
		fmtx.Printf("archon-rx: could not determine local address: %v\n", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootBus := bus.NewBus(8)
	listener.SetBus(rootBus.NewConnection("archon-rx.listener"))
	watcher := rootBus.NewConnection("archon-rx.watcher")
	for _, topic := range []bus.Topic{discovery.StateTopic, link.StateTopic} {
		sub := watcher.Subscribe(topic)
		go func(sub *bus.Subscription) {
			for msg := range sub.Channel() {
				fmtx.Printf("archon-rx: bus: %v\n", msg.Payload)
			}
		}(sub)
	}

	if err := listener.Start(ctx, localAddr); err != nil {
		fmtx.Printf("archon-rx: listener start failed: %v\n", err)
		return
	}
	defer listener.Stop()

	fmtx.Printf("archon-rx: waiting for an announcing transmitter...\n")
	peer, err := waitForPeer(ctx, peers)
	if err != nil {
		fmtx.Printf("archon-rx: %v\n", err)
		return
	}

	if err := discovery.Connect(ctx, stack, peer, cfg.DataUDPPort); err != nil {
		fmtx.Printf("archon-rx: handshake failed: %v\n", err)
		return
	}

	endpoint, err := status.NewEndpoint(localAddr, cfg.DataUDPPort)
	if err != nil {
		fmtx.Printf("archon-rx: invalid local endpoint: %v\n", err)
		return
	}

	rx := link.NewReceiver(stack, cfg.InputBufferCapacity)
	rx.SetEndpoint(endpoint)
	rx.SetBus(rootBus.NewConnection("archon-rx.receiver"))

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return rx.Listen(gctx)
	})
	go func() {
		if err := group.Wait(); err != nil {
			fmtx.Printf("archon-rx: recv loop exited: %v\n", err)
		}
	}()

	fmtx.Printf("archon-rx: paired with %s, printing events...\n", peer.Announce.Name)
	for {
		evt, ok := rx.Take()
		if !ok {
			time.Sleep(2 * time.Millisecond)
			continue
		}
		fmtx.Printf("archon-rx: %#v\n", evt)
	}
}

func waitForPeer(ctx context.Context, st *discovery.Status) (discovery.DiscoveryInformation, error) {
	for {
		if peers := st.Peers(); len(peers) > 0 {
			return peers[0], nil
		}
		select {
		case <-ctx.Done():
			return discovery.DiscoveryInformation{}, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func localIPv4() (net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, net.InvalidAddrError("no usable IPv4 interface found")
}
