package input

import (
	"time"

	"archon/errcode"
	"archon/filter"
	"archon/hw"
	"archon/wire"
)

// RotaryDevice is the single-axis counterpart of JoyStickDevice: one
// ADC channel, one filter chain, scaled to [0,10000] and gated.
type RotaryDevice struct {
	id    uint8
	pin   hw.AnalogReader
	chain []filter.Stage
	gate  *PollingGate
}

// NewRotaryDevice constructs a rotary device.
func NewRotaryDevice(id uint8, pin hw.AnalogReader, chain []filter.Stage, pollInterval time.Duration) *RotaryDevice {
	return &RotaryDevice{id: id, pin: pin, chain: chain, gate: NewPollingGate(pollInterval)}
}

// GetInput samples, filters, rescales, and gates one rotary poll.
func (r *RotaryDevice) GetInput(now time.Time) (evt wire.Event, ok bool, err error) {
	raw, err := r.pin.ReadADC()
	if err != nil {
		return nil, false, &errcode.E{C: errcode.HardwareError, Op: "input.RotaryDevice.GetInput", Err: err}
	}
	v := filter.Chain(raw, r.chain...)
	scaled := filter.ScaleU12To10000(v)
	if !r.gate.Poll(now) {
		return nil, false, nil
	}
	return wire.RotaryEvent{DeviceID: r.id, Value: scaled}, true, nil
}
