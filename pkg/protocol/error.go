package protocol

// ErrorCode identifies a server-reported error.
type ErrorCode uint16

const (
	ErrCodeUnknown      ErrorCode = 0x0000
	ErrCodeInvalidFrame ErrorCode = 0x0001
	ErrCodeInvalidEvent ErrorCode = 0x0002
	ErrCodeUnknownRow   ErrorCode = 0x0003
	ErrCodeRateLimited  ErrorCode = 0x0004
	ErrCodeServerError  ErrorCode = 0x0100
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrCodeUnknown:
		return "Unknown"
	case ErrCodeInvalidFrame:
		return "InvalidFrame"
	case ErrCodeInvalidEvent:
		return "InvalidEvent"
	case ErrCodeUnknownRow:
		return "UnknownRow"
	case ErrCodeRateLimited:
		return "RateLimited"
	case ErrCodeServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent to the client when the server rejects input.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

// EncodeErrorMessage encodes an error message to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(uint64(em.Code))
	enc.WriteString(em.Message)
	enc.WriteBool(em.Fatal)
	return enc.Bytes()
}

// DecodeErrorMessage decodes an error message from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	dec := NewDecoder(data)
	code, err := dec.ReadUvarint()
	if err != nil {
		return nil, err
	}
	msg, err := dec.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := dec.ReadBool()
	if err != nil {
		return nil, err
	}
	return &ErrorMessage{Code: ErrorCode(code), Message: msg, Fatal: fatal}, nil
}
