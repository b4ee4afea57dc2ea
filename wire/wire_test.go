package wire

import "testing"

func TestDPadRoundTrip(t *testing.T) {
	e := DPadEvent{DeviceID: 7, Direction: DirRight, State: ButtonState{Pressed: true, Duration: 120}}
	buf := e.Encode()

	want := [UDPBuffer]byte{0x07, 0x00, 0x00, 0x01, 0x01, 0x00, 0x78, 0x00}
	if buf != want {
		t.Fatalf("encode mismatch: got %v want %v", buf, want)
	}

	got, err := Decode(buf[:])
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	dp, ok := got.(DPadEvent)
	if !ok {
		t.Fatalf("decoded wrong type: %#v", got)
	}
	if dp != e {
		t.Fatalf("round-trip mismatch: got %+v want %+v", dp, e)
	}
}

func TestJoyStickRoundTrip(t *testing.T) {
	e := JoyStickEvent{DeviceID: 3, X: 0, Y: 0}
	buf := e.Encode()
	if buf[1] != 0x00 || buf[2] != 0x01 {
		t.Fatalf("unexpected type tag bytes: %v", buf[1:3])
	}
	got, err := Decode(buf[:])
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got != e {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, e)
	}
}

func TestButtonRoundTrip(t *testing.T) {
	e := ButtonEvent{DeviceID: 1, State: ButtonState{Pressed: false, Duration: 65535}}
	buf := e.Encode()
	got, err := Decode(buf[:])
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got != e {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, e)
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	e := ASCIIEvent{DeviceID: 9, Char: 'Q'}
	buf := e.Encode()
	got, err := Decode(buf[:])
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got != e {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, e)
	}
}

func TestRotaryRoundTrip(t *testing.T) {
	e := RotaryEvent{DeviceID: 2, Value: 4081}
	buf := e.Encode()
	got, err := Decode(buf[:])
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got != e {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, e)
	}
}

func TestDecodeNeverPanicsOnShortOrGarbageBuffers(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x01, 0x02},
		{0x00, 0x00, 0x07, 0, 0, 0, 0, 0}, // unsupported tag
		{0x00, 0x00, 0x00, 0x04, 0, 0, 0, 0}, // invalid DPad direction
		{0x00, 0x00, 0x00, 0x00, 0x02, 0, 0, 0}, // invalid pressed byte
	}
	for i, buf := range cases {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("case %d: Decode panicked: %v", i, r)
				}
			}()
			if _, err := Decode(buf); err == nil {
				t.Fatalf("case %d: expected an error, got nil", i)
			}
		}()
	}
}

func TestMalformedTagIsDiscarded(t *testing.T) {
	buf := make([]byte, UDPBuffer)
	buf[1], buf[2] = 0x00, 0x07
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected MalformedFrame for unsupported tag")
	}
}

func TestSaturateMillis(t *testing.T) {
	if got := SaturateMillis(70000); got != 0xFFFF {
		t.Fatalf("expected saturation to 65535, got %d", got)
	}
	if got := SaturateMillis(120); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
}
