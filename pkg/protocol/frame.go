package protocol

import "errors"

// FrameType identifies the type of frame carried in one WebSocket message.
type FrameType uint8

const (
	FrameEvent   FrameType = 0x01 // Client → server pointer events
	FramePatches FrameType = 0x02 // Server → client view patches
	FrameControl FrameType = 0x03 // Ping/pong and close
	FrameError   FrameType = 0x04 // Server → client error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrEmptyFrame       = errors.New("protocol: empty frame")
	ErrUnknownFrameType = errors.New("protocol: unknown frame type")
)

// Frame is one decoded WebSocket message: a type byte followed by a
// type-specific payload. The WebSocket layer provides message boundaries,
// so no length field is carried.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// EncodeFrame encodes a frame to bytes.
func EncodeFrame(ft FrameType, payload []byte) []byte {
	out := make([]byte, 0, 1+len(payload))
	out = append(out, byte(ft))
	return append(out, payload...)
}

// DecodeFrame decodes a frame from a WebSocket message. The returned
// payload aliases msg.
func DecodeFrame(msg []byte) (Frame, error) {
	if len(msg) == 0 {
		return Frame{}, ErrEmptyFrame
	}
	ft := FrameType(msg[0])
	switch ft {
	case FrameEvent, FramePatches, FrameControl, FrameError:
		return Frame{Type: ft, Payload: msg[1:]}, nil
	default:
		return Frame{}, ErrUnknownFrameType
	}
}
