package frames

// Frame is one protocol unit, decoded or to be encoded. Payload excludes the
// frame type byte; the wire layout around it is produced by Encode.
type Frame interface {
	Type() Type
	Payload() []byte
}

// Correlatable is implemented by frame variants that carry a one-byte frame
// ID linking a request to its response. ID 0 means "no response requested".
type Correlatable interface {
	FrameID() uint8
	SetFrameID(id uint8)
}

// Checksum computes the API-mode checksum over the frame type and payload
// bytes: 0xFF minus the low byte of their sum.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return 0xFF - sum
}

// Encode serializes a frame into its exact wire form: start marker, 16-bit
// big-endian length (type + payload), type byte, payload, checksum. Encoding
// is total; it never emits a partial frame.
func Encode(f Frame) []byte {
	payload := f.Payload()
	length := len(payload) + 1 // + type byte

	out := make([]byte, 0, length+FrameOverhead)
	out = append(out, StartMarker, byte(length>>8), byte(length))
	out = append(out, byte(f.Type()))
	out = append(out, payload...)
	out = append(out, Checksum(out[3:]))
	return out
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
}

func getUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
