// Package wire implements the fixed-size frame codec shared by the
// transmitter and receiver: each input event round-trips through a
// UDPBuffer-sized byte buffer, and never panics on untrusted input.
package wire

import (
	"archon/errcode"
	"encoding/binary"
)

// UDPBuffer is the fixed size of an encoded input frame. The longest
// variant (DPad) needs 7 bytes; the implementation budget asks for at
// least 8.
const UDPBuffer = 8

// Kind tags the variant carried by an Event, encoded as a big-endian
// uint16 at buf[1:3].
type Kind uint16

const (
	KindDPad Kind = iota
	KindJoyStick
	KindASCII
	KindRotary
	KindButton
)

func (k Kind) String() string {
	switch k {
	case KindDPad:
		return "DPad"
	case KindJoyStick:
		return "JoyStick"
	case KindASCII:
		return "ASCII"
	case KindRotary:
		return "Rotary"
	case KindButton:
		return "Button"
	default:
		return "Unknown"
	}
}

// Direction is a DPad's four-way tag.
type Direction uint8

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// ButtonState is the shared pressed/duration pair carried by DPad and
// Button events. Duration saturates at 65535 ms rather than wrapping.
type ButtonState struct {
	Pressed  bool
	Duration uint16
}

// SaturateMillis converts an elapsed duration in milliseconds to the
// wire's saturating u16 representation.
func SaturateMillis(ms int64) uint16 {
	if ms > 0xFFFF {
		return 0xFFFF
	}
	if ms < 0 {
		return 0
	}
	return uint16(ms)
}

// Event is the tagged union of input variants. Concrete types below
// each implement it.
type Event interface {
	ID() uint8
	Kind() Kind
	Encode() [UDPBuffer]byte
}

// Decode parses a UDPBuffer-length datagram into an Event. It never
// panics: any structural problem is reported as errcode.MalformedFrame.
func Decode(buf []byte) (Event, error) {
	if len(buf) < UDPBuffer {
		return nil, &errcode.E{C: errcode.MalformedFrame, Op: "wire.Decode", Msg: "short buffer"}
	}
	id := buf[0]
	kind := Kind(binary.BigEndian.Uint16(buf[1:3]))

	switch kind {
	case KindDPad:
		return decodeDPad(id, buf)
	case KindJoyStick:
		return decodeJoyStick(id, buf)
	case KindASCII:
		return decodeASCII(id, buf)
	case KindRotary:
		return decodeRotary(id, buf)
	case KindButton:
		return decodeButton(id, buf)
	default:
		return nil, &errcode.E{C: errcode.MalformedFrame, Op: "wire.Decode", Msg: "unsupported type tag"}
	}
}

// ---------------------------------------------------------------------
// DPad — [3] direction, [4] pressed, [5..=6] duration BE.
// ---------------------------------------------------------------------

type DPadEvent struct {
	DeviceID  uint8
	Direction Direction
	State     ButtonState
}

func (e DPadEvent) ID() uint8 { return e.DeviceID }
func (e DPadEvent) Kind() Kind { return KindDPad }

func (e DPadEvent) Encode() [UDPBuffer]byte {
	var buf [UDPBuffer]byte
	buf[0] = e.DeviceID
	binary.BigEndian.PutUint16(buf[1:3], uint16(KindDPad))
	buf[3] = uint8(e.Direction)
	buf[4] = boolByte(e.State.Pressed)
	binary.BigEndian.PutUint16(buf[5:7], e.State.Duration)
	return buf
}

func decodeDPad(id uint8, buf []byte) (Event, error) {
	dir := Direction(buf[3])
	if dir > DirLeft {
		return nil, &errcode.E{C: errcode.MalformedFrame, Op: "wire.decodeDPad", Msg: "invalid direction"}
	}
	pressed, err := byteBool(buf[4])
	if err != nil {
		return nil, err
	}
	duration := binary.BigEndian.Uint16(buf[5:7])
	return DPadEvent{DeviceID: id, Direction: dir, State: ButtonState{Pressed: pressed, Duration: duration}}, nil
}

// ---------------------------------------------------------------------
// JoyStick — [3..=4] x BE, [5..=6] y BE.
// ---------------------------------------------------------------------

type JoyStickEvent struct {
	DeviceID uint8
	X, Y     uint16
}

func (e JoyStickEvent) ID() uint8 { return e.DeviceID }
func (e JoyStickEvent) Kind() Kind { return KindJoyStick }

func (e JoyStickEvent) Encode() [UDPBuffer]byte {
	var buf [UDPBuffer]byte
	buf[0] = e.DeviceID
	binary.BigEndian.PutUint16(buf[1:3], uint16(KindJoyStick))
	binary.BigEndian.PutUint16(buf[3:5], e.X)
	binary.BigEndian.PutUint16(buf[5:7], e.Y)
	return buf
}

func decodeJoyStick(id uint8, buf []byte) (Event, error) {
	x := binary.BigEndian.Uint16(buf[3:5])
	y := binary.BigEndian.Uint16(buf[5:7])
	return JoyStickEvent{DeviceID: id, X: x, Y: y}, nil
}

// ---------------------------------------------------------------------
// ASCII — [3] codepoint.
// ---------------------------------------------------------------------

type ASCIIEvent struct {
	DeviceID uint8
	Char     rune
}

func (e ASCIIEvent) ID() uint8 { return e.DeviceID }
func (e ASCIIEvent) Kind() Kind { return KindASCII }

func (e ASCIIEvent) Encode() [UDPBuffer]byte {
	var buf [UDPBuffer]byte
	buf[0] = e.DeviceID
	binary.BigEndian.PutUint16(buf[1:3], uint16(KindASCII))
	buf[3] = byte(e.Char)
	return buf
}

func decodeASCII(id uint8, buf []byte) (Event, error) {
	b := buf[3]
	if b > 0x7F {
		return nil, &errcode.E{C: errcode.MalformedFrame, Op: "wire.decodeASCII", Msg: "invalid ascii byte"}
	}
	return ASCIIEvent{DeviceID: id, Char: rune(b)}, nil
}

// ---------------------------------------------------------------------
// Rotary — [3..=4] value BE.
// ---------------------------------------------------------------------

type RotaryEvent struct {
	DeviceID uint8
	Value    uint16
}

func (e RotaryEvent) ID() uint8 { return e.DeviceID }
func (e RotaryEvent) Kind() Kind { return KindRotary }

func (e RotaryEvent) Encode() [UDPBuffer]byte {
	var buf [UDPBuffer]byte
	buf[0] = e.DeviceID
	binary.BigEndian.PutUint16(buf[1:3], uint16(KindRotary))
	binary.BigEndian.PutUint16(buf[3:5], e.Value)
	return buf
}

func decodeRotary(id uint8, buf []byte) (Event, error) {
	v := binary.BigEndian.Uint16(buf[3:5])
	return RotaryEvent{DeviceID: id, Value: v}, nil
}

// ---------------------------------------------------------------------
// Button — [3] pressed, [4..=5] duration BE.
// ---------------------------------------------------------------------

type ButtonEvent struct {
	DeviceID uint8
	State    ButtonState
}

func (e ButtonEvent) ID() uint8 { return e.DeviceID }
func (e ButtonEvent) Kind() Kind { return KindButton }

func (e ButtonEvent) Encode() [UDPBuffer]byte {
	var buf [UDPBuffer]byte
	buf[0] = e.DeviceID
	binary.BigEndian.PutUint16(buf[1:3], uint16(KindButton))
	buf[3] = boolByte(e.State.Pressed)
	binary.BigEndian.PutUint16(buf[4:6], e.State.Duration)
	return buf
}

func decodeButton(id uint8, buf []byte) (Event, error) {
	pressed, err := byteBool(buf[3])
	if err != nil {
		return nil, err
	}
	duration := binary.BigEndian.Uint16(buf[4:6])
	return ButtonEvent{DeviceID: id, State: ButtonState{Pressed: pressed, Duration: duration}}, nil
}

// ---------------------------------------------------------------------

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &errcode.E{C: errcode.MalformedFrame, Op: "wire.byteBool", Msg: "pressed byte not 0/1"}
	}
}
