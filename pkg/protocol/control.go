package protocol

import "errors"

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01
	ControlPong  ControlType = 0x02
	ControlClose ControlType = 0x03
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// CloseReason indicates why a session is being closed.
type CloseReason uint8

const (
	CloseNormal         CloseReason = 0x00
	CloseIdleTimeout    CloseReason = 0x01
	CloseServerShutdown CloseReason = 0x02
	CloseError          CloseReason = 0x03
)

// String returns the string representation of the close reason.
func (cr CloseReason) String() string {
	switch cr {
	case CloseNormal:
		return "Normal"
	case CloseIdleTimeout:
		return "IdleTimeout"
	case CloseServerShutdown:
		return "ServerShutdown"
	case CloseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ErrEmptyControl is returned when a control payload has no type byte.
var ErrEmptyControl = errors.New("protocol: empty control payload")

// EncodeControl encodes a control message. data carries the close reason
// for ControlClose and is empty otherwise.
func EncodeControl(ct ControlType, data []byte) []byte {
	out := make([]byte, 0, 1+len(data))
	out = append(out, byte(ct))
	return append(out, data...)
}

// DecodeControl decodes a control payload into its type and data.
func DecodeControl(payload []byte) (ControlType, []byte, error) {
	if len(payload) == 0 {
		return 0, nil, ErrEmptyControl
	}
	return ControlType(payload[0]), payload[1:], nil
}
