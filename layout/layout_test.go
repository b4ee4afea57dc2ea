package layout

import (
	"context"
	"testing"
	"time"

	"archon/hw"
	"archon/input"
	"archon/wire"
)

func TestDeviceLayoutOrdersKindMajorInsertionMinor(t *testing.T) {
	timing := input.ButtonTiming{Bounce: time.Millisecond, Repeat: time.Second, RepeatHold: time.Second}

	up := &hw.StaticDigital{Value: true}
	down := &hw.StaticDigital{Value: false}
	dpad := input.NewDPadDevice(1, [4]hw.DigitalReader{up, down, down, down}, timing)

	xPin := &hw.StaticAnalog{Value: 2048}
	yPin := &hw.StaticAnalog{Value: 2048}
	joy := input.NewJoyStickDevice(2, xPin, yPin, input.TopLeft, nil, nil, time.Millisecond)

	rotPin := &hw.StaticAnalog{Value: 2048}
	rot := input.NewRotaryDevice(3, rotPin, nil, time.Millisecond)

	btnPin := &hw.StaticDigital{Value: true}
	btn := input.NewButtonDevice(4, timing)

	l := NewDeviceLayout(nil)
	l.AddDPad(dpad)
	l.AddJoyStick(joy)
	l.AddRotary(rot)
	l.AddButton(btn, btnPin.ReadDigital)

	now := time.Unix(0, 0)
	l.GetInputs(now)                      // settle debounce
	evts := l.GetInputs(now.Add(10 * time.Millisecond))

	if len(evts) == 0 {
		t.Fatal("expected at least one event")
	}
	var kinds []wire.Kind
	for _, e := range evts {
		kinds = append(kinds, e.Kind())
	}
	// DPad events (if any) must precede JoyStick/Rotary/Button events.
	sawNonDPad := false
	for _, k := range kinds {
		if k != wire.KindDPad {
			sawNonDPad = true
			continue
		}
		if sawNonDPad {
			t.Fatalf("DPad event found after a non-DPad event: %v", kinds)
		}
	}
}

func TestDeviceLayoutSkipsHardwareErrorsAndContinues(t *testing.T) {
	var reported []error
	l := NewDeviceLayout(func(err error) { reported = append(reported, err) })

	badPin := &hw.StaticAnalog{Value: 9999}
	badJoy := input.NewJoyStickDevice(1, badPin, badPin, input.TopLeft, nil, nil, time.Millisecond)
	goodPin := &hw.StaticAnalog{Value: 100}
	goodRot := input.NewRotaryDevice(2, goodPin, nil, time.Millisecond)

	l.AddJoyStick(badJoy)
	l.AddRotary(goodRot)

	evts := l.GetInputs(time.Unix(0, 0))
	if len(reported) != 1 {
		t.Fatalf("expected exactly one reported hardware error, got %d", len(reported))
	}
	if len(evts) != 1 || evts[0].Kind() != wire.KindRotary {
		t.Fatalf("expected the rotary device to still emit despite the joystick failing, got %+v", evts)
	}
}

func TestBufferedLayoutCollectsEventsFromLayout(t *testing.T) {
	timing := input.ButtonTiming{Bounce: time.Millisecond, Repeat: time.Second, RepeatHold: time.Second}
	rotPin := &hw.StaticAnalog{Value: 1000}
	rot := input.NewRotaryDevice(1, rotPin, nil, 0)

	_ = timing
	l := NewDeviceLayout(nil)
	l.AddRotary(rot)

	bl := NewBufferedLayout(l, 8, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go bl.Run(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-bl.Stopped()

	evts := bl.TakeInputs()
	if len(evts) == 0 {
		t.Fatal("expected buffered layout to have produced at least one event")
	}
}
