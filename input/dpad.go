package input

import (
	"time"

	"archon/hw"
	"archon/wire"
)

// DPadDevice tracks four independently-debounced directions. Each
// direction gets its own slot in the returned batch — Up, Right, Down,
// Left, in that fixed order — rather than the single shared slot the
// source implementation used, which let later directions silently
// overwrite earlier ones within the same poll.
type DPadDevice struct {
	id      uint8
	pins    [4]hw.DigitalReader
	buttons [4]*AdvancedButton
}

// NewDPadDevice constructs a DPad from four digital readers ordered
// Up, Right, Down, Left.
func NewDPadDevice(id uint8, pins [4]hw.DigitalReader, timing ButtonTiming) *DPadDevice {
	d := &DPadDevice{id: id, pins: pins}
	for i := range d.buttons {
		d.buttons[i] = NewAdvancedButton(timing)
	}
	return d
}

// GetInputs polls all four directions and returns one DPadEvent per
// direction currently pressed, Up-Right-Down-Left order. Hardware read
// failures skip that direction for this cycle; the other three are
// still polled.
func (d *DPadDevice) GetInputs(now time.Time) []wire.Event {
	var out []wire.Event
	for i, dir := range [4]wire.Direction{wire.DirUp, wire.DirRight, wire.DirDown, wire.DirLeft} {
		raw, err := d.pins[i].ReadDigital()
		if err != nil {
			continue
		}
		btn := d.buttons[i]
		btn.Poll(now, raw)
		if !btn.IsPressed() {
			continue
		}
		duration := wire.SaturateMillis(btn.PressDuration(now).Milliseconds())
		out = append(out, wire.DPadEvent{
			DeviceID:  d.id,
			Direction: dir,
			State:     wire.ButtonState{Pressed: true, Duration: duration},
		})
	}
	return out
}
