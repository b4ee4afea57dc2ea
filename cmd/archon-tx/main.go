// Command archon-tx: wires host pins into the input layout, pairs
// with a receiver over multicast discovery, then streams the layout's
// buffered events to the paired endpoint over UDP.
//
// Build/flash (TinyGo, board target):
//   tinygo flash -target pico ./cmd/archon-tx
//
// On a hosted build this drives the in-memory host pin factory
// instead of real GPIO/ADC, which is enough to exercise the full
// discovery/handshake/send pipeline without hardware.
package main

import (
	"context"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"archon/bus"
	"archon/config"
	"archon/discovery"
	"archon/hw"
	"archon/input"
	"archon/layout"
	"archon/link"
	"archon/netstack"
	"archon/x/fmtx"
)

func main() {
	fmtx.Printf("== Archon transmitter ==\n")

	cfg := config.DefaultTransmitterConfig()
	pins := hw.DefaultPinFactory()

	// ----------------------------------------------------------------------------
	// EDITABLE DEVICE WIRING
	// ----------------------------------------------------------------------------
	dpadTiming := config.DeviceConfig{ID: 0}.WithDefaults().Timing
	dpad := input.NewDPadDevice(0, [4]hw.DigitalReader{
		pins.Digital(10), // up
		pins.Digital(11), // right
		pins.Digital(12), // down
		pins.Digital(13), // left
	}, dpadTiming)

	joyTiming := config.DeviceConfig{ID: 1}.WithDefaults()
	joy := input.NewJoyStickDevice(1, pins.Analog(26), pins.Analog(27), input.TopLeft, nil, nil, joyTiming.PollingInterval)

	rotaryTiming := config.DeviceConfig{ID: 2}.WithDefaults()
	rotary := input.NewRotaryDevice(2, pins.Analog(28), nil, rotaryTiming.PollingInterval)

	buttonTiming := config.DeviceConfig{ID: 3}.WithDefaults().Timing
	button := input.NewButtonDevice(3, buttonTiming)
	buttonPin := pins.Digital(14)
	// ----------------------------------------------------------------------------

	l := layout.NewDeviceLayout(func(err error) {
		fmtx.Printf("archon-tx: device read failed: %v\n", err)
	})
	l.AddDPad(dpad)
	l.AddJoyStick(joy)
	l.AddRotary(rotary)
	l.AddButton(button, buttonPin.ReadDigital)

	buffered := layout.NewBufferedLayout(l, cfg.InputBufferCapacity, cfg.AcquisitionTick)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootBus := bus.NewBus(8)
	watcher := rootBus.NewConnection("archon-tx.watcher")
	for _, topic := range []bus.Topic{discovery.StateTopic, link.StateTopic} {
		sub := watcher.Subscribe(topic)
		go func(sub *bus.Subscription) {
			for msg := range sub.Channel() {
				fmtx.Printf("archon-tx: bus: %v\n", msg.Payload)
			}
		}(sub)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		buffered.Run(gctx)
		return nil
	})

	stack := netstack.Host{}
	mcAddr := &net.UDPAddr{IP: net.ParseIP(cfg.MulticastAddr), Port: int(cfg.MulticastPort)}

	announcer := discovery.NewAnnouncer(stack, cfg.Name, mcAddr, cfg.HandshakeTCPPort)
	announcer.SetBus(rootBus.NewConnection("archon-tx.announcer"))

	fmtx.Printf("archon-tx: announcing as %q, waiting for a receiver...\n", cfg.Name)
	establish, err := announcer.Announce(ctx)
	if err != nil {
		fmtx.Printf("archon-tx: announce failed: %v\n", err)
		return
	}

	endpoint, err := discovery.StatusEndpoint(establish)
	if err != nil {
		fmtx.Printf("archon-tx: invalid establish endpoint: %v\n", err)
		return
	}
	fmtx.Printf("archon-tx: paired with %s, streaming input...\n", endpoint)

	tx := link.NewTransmitter(stack, buffered, endpoint)
	tx.SetBus(rootBus.NewConnection("archon-tx.transmitter"))
	group.Go(func() error {
		return tx.Run(gctx, 5*time.Millisecond)
	})

	if err := group.Wait(); err != nil {
		fmtx.Printf("archon-tx: exited: %v\n", err)
	}
}
