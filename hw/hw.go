// Package hw defines the narrow hardware-access surface the input
// devices poll through, so device logic stays host-testable without a
// board attached. Concrete adapters live in factories_host.go and
// factories_rp2xxx.go, a build-tag split for swapping in
// implementations backed by TinyGo's machine package on target.
package hw

import "archon/errcode"

// DigitalReader samples a single boolean GPIO line.
type DigitalReader interface {
	ReadDigital() (bool, error)
}

// AnalogReader samples a single ADC channel, returning a 12-bit sample
// (0..4095).
type AnalogReader interface {
	ReadADC() (uint16, error)
}

// StaticDigital is a DigitalReader over a fixed, in-memory value, used
// in tests and as a trivial host stand-in.
type StaticDigital struct{ Value bool }

func (s *StaticDigital) ReadDigital() (bool, error) { return s.Value, nil }

// StaticAnalog is an AnalogReader over a fixed, in-memory value.
type StaticAnalog struct{ Value uint16 }

func (s *StaticAnalog) ReadADC() (uint16, error) {
	if s.Value > 4095 {
		return 0, &errcode.E{C: errcode.HardwareError, Op: "hw.StaticAnalog.ReadADC", Msg: "sample out of 12-bit range"}
	}
	return s.Value, nil
}

// FuncDigital adapts a plain function to DigitalReader.
type FuncDigital func() (bool, error)

func (f FuncDigital) ReadDigital() (bool, error) { return f() }

// FuncAnalog adapts a plain function to AnalogReader.
type FuncAnalog func() (uint16, error)

func (f FuncAnalog) ReadADC() (uint16, error) { return f() }
