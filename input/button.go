// Package input implements the per-device acquisition state machines:
// debounced buttons, a four-way DPad, and ADC-backed joystick/rotary
// devices. Each device is driven by synchronous polling — callers
// (layout.DeviceLayout) drive one poll per cycle from a single
// goroutine rather than awaiting a suspend point per read.
package input

import (
	"time"

	"archon/wire"
)

// ButtonTiming holds the shared bounce/repeat/repeat-hold parameters
// every button-like device is configured with.
type ButtonTiming struct {
	Bounce     time.Duration
	Repeat     time.Duration
	RepeatHold time.Duration
}

// AdvancedButton debounces a raw digital read and derives is_pressed,
// on_hold and on_repeat observables from it. It holds no clock of its
// own; callers drive it with Poll(now, raw) once per cycle so tests
// can move time forward deterministically.
type AdvancedButton struct {
	timing ButtonTiming

	rawLevel    bool
	lastChange  time.Time
	haveChange  bool
	debounced   bool
	pressStart  time.Time
	inRepeat    bool
}

// NewAdvancedButton constructs a button in the released state.
func NewAdvancedButton(timing ButtonTiming) *AdvancedButton {
	return &AdvancedButton{timing: timing}
}

// Poll folds in one raw sample, updating the debounced level and the
// press-start latch. Call once per device-layout cycle.
func (b *AdvancedButton) Poll(now time.Time, raw bool) {
	if !b.haveChange || raw != b.rawLevel {
		b.rawLevel = raw
		b.lastChange = now
		b.haveChange = true
	}

	if now.Sub(b.lastChange) < b.timing.Bounce {
		return
	}

	if raw == b.debounced {
		return
	}

	b.debounced = raw
	if raw {
		b.pressStart = now
	} else {
		// Both on_hold and on_repeat fall false the instant the button
		// releases; reset the latch so the next press starts fresh.
		b.pressStart = time.Time{}
		b.inRepeat = false
	}
}

// IsPressed reports the current debounced level.
func (b *AdvancedButton) IsPressed() bool { return b.debounced }

// OnHold reports whether the current press has been held at least
// RepeatHold.
func (b *AdvancedButton) OnHold(now time.Time) bool {
	return b.debounced && !b.pressStart.IsZero() && now.Sub(b.pressStart) >= b.timing.RepeatHold
}

// OnRepeat reports whether the button has moved into its periodic
// auto-repeat phase (held past RepeatHold). It stays true for the
// remainder of the press, matching a caller that treats on_repeat as
// "currently in repeat phase" rather than a one-shot pulse per tick.
func (b *AdvancedButton) OnRepeat(now time.Time) bool {
	if b.OnHold(now) {
		b.inRepeat = true
	}
	return b.inRepeat
}

// PressDuration returns how long the button has been held, zero if
// not pressed.
func (b *AdvancedButton) PressDuration(now time.Time) time.Duration {
	if !b.debounced || b.pressStart.IsZero() {
		return 0
	}
	return now.Sub(b.pressStart)
}

// ButtonDevice wraps a single AdvancedButton and emits wire.ButtonEvent
// on each poll while pressed.
type ButtonDevice struct {
	id     uint8
	button *AdvancedButton
}

// NewButtonDevice constructs a button device with the given device id
// and timing parameters.
func NewButtonDevice(id uint8, timing ButtonTiming) *ButtonDevice {
	return &ButtonDevice{id: id, button: NewAdvancedButton(timing)}
}

// GetInput samples raw, advances the debounce state machine, and
// reports a Button event when (and only when) the button is pressed
// this cycle.
func (d *ButtonDevice) GetInput(now time.Time, raw bool) (wire.Event, bool) {
	d.button.Poll(now, raw)
	if !d.button.IsPressed() {
		return nil, false
	}
	duration := wire.SaturateMillis(d.button.PressDuration(now).Milliseconds())
	return wire.ButtonEvent{
		DeviceID: d.id,
		State:    wire.ButtonState{Pressed: true, Duration: duration},
	}, true
}
