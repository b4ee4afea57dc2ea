//go:build rp2040 || rp2350

package hw

import "machine"

// rp2DigitalPin reads a machine.Pin configured as a pulled-up input,
// matching the DPad/Button wiring the board-level config describes.
type rp2DigitalPin struct{ p machine.Pin }

func (r rp2DigitalPin) ReadDigital() (bool, error) { return r.p.Get(), nil }

// rp2AnalogPin reads a machine.ADC channel, narrowed to 12 bits to
// match the filter chain's expected range.
type rp2AnalogPin struct{ a machine.ADC }

func (r rp2AnalogPin) ReadADC() (uint16, error) {
	return r.a.Get() >> 4, nil
}

// PinFactory vends RP2-backed digital/analog readers by GPIO number.
type PinFactory struct{}

func (PinFactory) Digital(n int) DigitalReader {
	p := machine.Pin(n)
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return rp2DigitalPin{p: p}
}

func (PinFactory) Analog(n int) AnalogReader {
	machine.InitADC()
	a := machine.ADC{Pin: machine.Pin(n)}
	a.Configure(machine.ADCConfig{})
	return rp2AnalogPin{a: a}
}

// DefaultPinFactory returns the board GPIO/ADC factory.
func DefaultPinFactory() PinFactory { return PinFactory{} }
