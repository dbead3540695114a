package protocol

import "errors"

// EventType identifies the type of client pointer event.
type EventType uint8

const (
	EventPointerDown   EventType = 0x01
	EventPointerMove   EventType = 0x02
	EventPointerUp     EventType = 0x03
	EventPointerCancel EventType = 0x04
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	switch et {
	case EventPointerDown:
		return "PointerDown"
	case EventPointerMove:
		return "PointerMove"
	case EventPointerUp:
		return "PointerUp"
	case EventPointerCancel:
		return "PointerCancel"
	default:
		return "Unknown"
	}
}

// Valid reports whether et is a known event type.
func (et EventType) Valid() bool {
	return et >= EventPointerDown && et <= EventPointerCancel
}

// Event errors.
var (
	ErrInvalidEventType = errors.New("protocol: invalid event type")
	ErrMissingTarget    = errors.New("protocol: event missing target")
)

// Event is one decoded pointer event from the client.
//
// Target is the row identifier the pointer sequence began on; the client
// keeps delivering the whole sequence to that row, mirroring pointer
// capture. X and Y are positions in CSS pixels relative to the viewport.
type Event struct {
	Seq    uint64
	Type   EventType
	Target string
	X      float64
	Y      float64
}

// EncodeEvent encodes an event to bytes.
func EncodeEvent(ev *Event) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(ev.Seq)
	enc.WriteByte(byte(ev.Type))
	enc.WriteString(ev.Target)
	enc.WriteFloat64(ev.X)
	enc.WriteFloat64(ev.Y)
	return enc.Bytes()
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	dec := NewDecoder(data)

	seq, err := dec.ReadUvarint()
	if err != nil {
		return nil, err
	}
	tb, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	et := EventType(tb)
	if !et.Valid() {
		return nil, ErrInvalidEventType
	}
	target, err := dec.ReadString()
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, ErrMissingTarget
	}
	x, err := dec.ReadFloat64()
	if err != nil {
		return nil, err
	}
	y, err := dec.ReadFloat64()
	if err != nil {
		return nil, err
	}

	return &Event{Seq: seq, Type: et, Target: target, X: x, Y: y}, nil
}
