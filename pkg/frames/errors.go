package frames

import (
	"errors"
	"fmt"
)

var (
	ErrFrameTooShort      = errors.New("frame too short")
	ErrInvalidStartMarker = errors.New("invalid start marker")
	ErrFrameTooLong       = errors.New("declared length exceeds maximum payload size")
	ErrLengthMismatch     = errors.New("declared length does not match frame size")
)

// ChecksumError reports a frame whose trailing checksum byte does not match
// the computed checksum. The frame is discarded with no side effects; the
// link layer has no retransmission.
type ChecksumError struct {
	Want byte
	Got  byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: want 0x%02X, got 0x%02X", e.Want, e.Got)
}

// UnknownTypeError reports a frame with an unrecognized type byte. The raw
// type and payload are kept for diagnostics; the stream continues.
type UnknownTypeError struct {
	Type    byte
	Payload []byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown frame type 0x%02X (%d payload bytes)", e.Type, len(e.Payload))
}
