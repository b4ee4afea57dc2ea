package input

import (
	"time"

	"archon/errcode"
	"archon/filter"
	"archon/hw"
	"archon/wire"
)

// OriginCorner names which physical corner of the joystick's travel
// the raw ADC (0,0) reading corresponds to; translateOrigin inverts
// whichever axes are needed to normalize it to top-left-is-origin.
type OriginCorner uint8

const (
	TopLeft OriginCorner = iota
	TopRight
	BottomLeft
	BottomRight
)

// JoyStickDevice samples two ADC channels, normalizes origin, runs an
// independent filter chain per axis, centers, and throttles emission
// through a PollingGate.
type JoyStickDevice struct {
	id             uint8
	xPin, yPin     hw.AnalogReader
	origin         OriginCorner
	xChain, yChain []filter.Stage
	centerX        uint16
	centerY        uint16
	gate           *PollingGate
}

// NewJoyStickDevice constructs a joystick device. centerX/centerY
// default to the 12-bit midpoint (2048) until CalibrateCenter runs.
func NewJoyStickDevice(id uint8, xPin, yPin hw.AnalogReader, origin OriginCorner, xChain, yChain []filter.Stage, pollInterval time.Duration) *JoyStickDevice {
	return &JoyStickDevice{
		id: id, xPin: xPin, yPin: yPin, origin: origin,
		xChain: xChain, yChain: yChain,
		centerX: 2048, centerY: 2048,
		gate: NewPollingGate(pollInterval),
	}
}

func (j *JoyStickDevice) translateOrigin(x, y uint16) (uint16, uint16) {
	switch j.origin {
	case TopRight:
		x = 4095 - x
	case BottomLeft:
		y = 4095 - y
	case BottomRight:
		x = 4095 - x
		y = 4095 - y
	}
	return x, y
}

// sample reads both axes, translates origin, and runs the filter
// chain, returning the intermediate 12-bit (x, y) pair.
func (j *JoyStickDevice) sample() (x, y uint16, err error) {
	rawX, err := j.xPin.ReadADC()
	if err != nil {
		return 0, 0, err
	}
	rawY, err := j.yPin.ReadADC()
	if err != nil {
		return 0, 0, err
	}
	x, y = j.translateOrigin(rawX, rawY)
	x = filter.Chain(x, j.xChain...)
	y = filter.Chain(y, j.yChain...)
	return x, y, nil
}

// CalibrateCenter samples the filter chain `samples` times (default
// 5000 when samples <= 0) and sets the center from the last sample
// only, matching the source's discard-all-but-last calibration.
func (j *JoyStickDevice) CalibrateCenter(samples int) error {
	if samples <= 0 {
		samples = 5000
	}
	var x, y uint16
	for i := 0; i < samples; i++ {
		var err error
		x, y, err = j.sample()
		if err != nil {
			return &errcode.E{C: errcode.HardwareError, Op: "input.JoyStickDevice.CalibrateCenter", Err: err}
		}
	}
	j.centerX, j.centerY = x, y
	return nil
}

// GetInput samples, centers, and gates one joystick poll. ok is false
// either when the gate suppresses emission or when err is non-nil.
func (j *JoyStickDevice) GetInput(now time.Time) (evt wire.Event, ok bool, err error) {
	x, y, err := j.sample()
	if err != nil {
		return nil, false, &errcode.E{C: errcode.HardwareError, Op: "input.JoyStickDevice.GetInput", Err: err}
	}
	cx := filter.Center(x, j.centerX)
	cy := filter.Center(y, j.centerY)
	if !j.gate.Poll(now) {
		return nil, false, nil
	}
	return wire.JoyStickEvent{DeviceID: j.id, X: cx, Y: cy}, true, nil
}
