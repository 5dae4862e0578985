// Package stream reconstructs discrete protocol frames from a continuous,
// unreliable byte stream.
package stream

import (
	"bytes"
	"sync"
)

// Mode selects the framing discipline.
type Mode int

const (
	// ModeAPI expects length/checksum framed data with a start marker.
	ModeAPI Mode = iota
	// ModeTransparent expects unframed text delimited by a terminator byte.
	ModeTransparent
)

// String returns string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeAPI:
		return "API"
	case ModeTransparent:
		return "Transparent"
	default:
		return "Unknown"
	}
}

// DefaultTerminator delimits transparent-mode lines (carriage return).
const DefaultTerminator byte = 0x0D

// Framing constants shared with the frames package; duplicated here so the
// reassembler has no dependency on frame decoding.
const (
	startMarker   byte = 0x7E
	frameOverhead      = 4
	maxPayloadLen      = 0x2000
)

// Reassembler consumes raw transport bytes and yields complete candidate
// frames (API mode) or terminated lines (transparent mode). Bytes are fed
// from the read loop, but resets arrive from transport reconnect goroutines,
// so the buffer and mode are guarded by a mutex.
type Reassembler struct {
	mu         sync.Mutex
	mode       Mode
	terminator byte
	buf        bytes.Buffer
}

// NewReassembler creates a reassembler in the given mode.
func NewReassembler(mode Mode) *Reassembler {
	return &Reassembler{
		mode:       mode,
		terminator: DefaultTerminator,
	}
}

// SetMode switches the framing discipline. The pending buffer is cleared;
// bytes buffered under the old discipline cannot be reinterpreted.
func (r *Reassembler) SetMode(mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mode != r.mode {
		r.mode = mode
		r.buf.Reset()
	}
}

// Mode returns the current framing discipline.
func (r *Reassembler) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetTerminator sets the transparent-mode line terminator.
func (r *Reassembler) SetTerminator(b byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminator = b
}

// Feed appends incoming bytes and returns zero or more complete candidates
// in arrival order. In API mode a candidate is a full frame from start
// marker through checksum; leading noise before a marker is silently
// discarded. In transparent mode a candidate is a line including its
// terminator.
func (r *Reassembler) Feed(p []byte) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf.Write(p)

	if r.mode == ModeTransparent {
		return r.extractLines()
	}
	return r.extractFrames()
}

// Pending returns the number of buffered bytes not yet part of a candidate.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}

// Reset discards all buffered bytes. Called on connection loss, possibly
// from a transport reconnect goroutine while the read loop is feeding.
func (r *Reassembler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
}

func (r *Reassembler) extractFrames() [][]byte {
	var out [][]byte

	for {
		// Resynchronize: drop everything before the first start marker.
		data := r.buf.Bytes()
		i := bytes.IndexByte(data, startMarker)
		if i < 0 {
			r.buf.Reset()
			return out
		}
		if i > 0 {
			r.buf.Next(i)
			data = r.buf.Bytes()
		}

		// Need marker + 2 length bytes to know the frame size.
		if len(data) < 3 {
			return out
		}

		// The declared length is a full 16-bit quantity; compare sizes as
		// ints so frames past 255 payload bytes reassemble correctly.
		length := int(data[1])<<8 | int(data[2])
		if length > maxPayloadLen {
			// Not a plausible frame; skip this marker and resync.
			r.buf.Next(1)
			continue
		}

		total := length + frameOverhead
		if len(data) < total {
			return out
		}

		candidate := make([]byte, total)
		copy(candidate, data[:total])
		r.buf.Next(total)
		out = append(out, candidate)
	}
}

func (r *Reassembler) extractLines() [][]byte {
	var out [][]byte

	for {
		data := r.buf.Bytes()
		i := bytes.IndexByte(data, r.terminator)
		if i < 0 {
			return out
		}

		line := make([]byte, i+1)
		copy(line, data[:i+1])
		r.buf.Next(i + 1)
		out = append(out, line)
	}
}
