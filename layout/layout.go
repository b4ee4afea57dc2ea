// Package layout aggregates a dynamic set of input devices into one
// poll-everything-in-order call, and bridges that call to a background
// producer feeding an atomic ring.
package layout

import (
	"time"

	"archon/input"
	"archon/wire"
)

// dpadDevice, joyStickDevice and rotaryDevice narrow the concrete
// input types down to the call shapes DeviceLayout needs, so the
// layout package doesn't have to import every device's full API.
type dpadDevice interface {
	GetInputs(now time.Time) []wire.Event
}

type buttonDevice interface {
	GetInput(now time.Time, raw bool) (wire.Event, bool)
}

type joyStickDevice interface {
	GetInput(now time.Time) (wire.Event, bool, error)
}

type rotaryDevice interface {
	GetInput(now time.Time) (wire.Event, bool, error)
}

// buttonSource pairs a ButtonDevice with the raw-read function its
// digital pin provides; DeviceLayout owns neither the pin nor the
// clock, only the call order.
type buttonSource struct {
	device buttonDevice
	read   func() (bool, error)
}

// DeviceLayout owns zero or more devices of each kind and polls them
// in the fixed kind-major order the wire protocol's consumers expect:
// DPads, then JoySticks, then Rotaries, then Buttons. Within a kind,
// insertion order.
type DeviceLayout struct {
	dpads     []dpadDevice
	joysticks []joyStickDevice
	rotaries  []rotaryDevice
	buttons   []buttonSource

	onHardwareError func(err error)
}

// NewDeviceLayout constructs an empty layout. onHardwareError, if
// non-nil, is invoked whenever a device's poll fails with a hardware
// error; the failing device's poll is skipped and the cycle continues
// with the next device.
func NewDeviceLayout(onHardwareError func(err error)) *DeviceLayout {
	return &DeviceLayout{onHardwareError: onHardwareError}
}

func (l *DeviceLayout) AddDPad(d *input.DPadDevice)         { l.dpads = append(l.dpads, d) }
func (l *DeviceLayout) AddJoyStick(d *input.JoyStickDevice)  { l.joysticks = append(l.joysticks, d) }
func (l *DeviceLayout) AddRotary(d *input.RotaryDevice)      { l.rotaries = append(l.rotaries, d) }

// AddButton appends a button device together with the raw-read
// function driving it. DPad devices already carry their own digital
// readers, but the shared ButtonDevice primitive does not, so the
// layout threads the read here.
func (l *DeviceLayout) AddButton(d *input.ButtonDevice, read func() (bool, error)) {
	l.buttons = append(l.buttons, buttonSource{device: d, read: read})
}

// GetInputs polls every device once, in kind-major/insertion-order-
// minor order, and returns every event emitted this cycle.
func (l *DeviceLayout) GetInputs(now time.Time) []wire.Event {
	var out []wire.Event

	for _, d := range l.dpads {
		out = append(out, d.GetInputs(now)...)
	}

	for _, d := range l.joysticks {
		evt, ok, err := d.GetInput(now)
		if err != nil {
			l.reportError(err)
			continue
		}
		if ok {
			out = append(out, evt)
		}
	}

	for _, d := range l.rotaries {
		evt, ok, err := d.GetInput(now)
		if err != nil {
			l.reportError(err)
			continue
		}
		if ok {
			out = append(out, evt)
		}
	}

	for _, b := range l.buttons {
		raw, err := b.read()
		if err != nil {
			l.reportError(err)
			continue
		}
		if evt, ok := b.device.GetInput(now, raw); ok {
			out = append(out, evt)
		}
	}

	return out
}

func (l *DeviceLayout) reportError(err error) {
	if l.onHardwareError != nil {
		l.onHardwareError(err)
	}
}
