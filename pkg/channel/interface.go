package channel

import "context"

// ConnectionStateListener receives notifications about connection state changes
type ConnectionStateListener interface {
	// OnConnectionEstablished is called when a new connection is established
	OnConnectionEstablished()

	// OnConnectionLost is called when a connection is lost
	OnConnectionLost()
}

// Transport is the abstract duplex byte channel the engine runs over.
// Implementations deliver raw bytes; framing is not their concern — the
// stream reassembler upstream cuts frames out of whatever chunks arrive.
type Transport interface {
	// Read blocks until the transport has bytes available and returns the
	// next chunk, in arrival order. Chunk boundaries carry no meaning.
	Read(ctx context.Context) ([]byte, error)

	// Write writes bytes to the transport.
	// Must be safe for concurrent use.
	Write(ctx context.Context, data []byte) error

	// Flush blocks until buffered outbound bytes have been handed to the
	// medium. No-op for transports without an output buffer.
	Flush() error

	// Close closes the transport and unblocks any pending Read/Write.
	Close() error

	// Statistics returns transport-level statistics
	// Optional - can return zero values if not tracked
	Statistics() TransportStats

	// SetConnectionStateListener sets a listener for connection state changes
	// Optional - transports without connection state can ignore this
	SetConnectionStateListener(listener ConnectionStateListener)
}

// TransportStats provides transport-level statistics
type TransportStats struct {
	BytesSent     uint64 // Total bytes sent
	BytesReceived uint64 // Total bytes received
	WriteErrors   uint64 // Number of write errors
	ReadErrors    uint64 // Number of read errors
	Connects      uint64 // Number of connections (for connection-oriented transports)
	Disconnects   uint64 // Number of disconnections
}

// Session consumes the raw byte chunks a channel reads. One session is
// attached per channel; the radio engine implements this.
type Session interface {
	// OnChunk is called with each chunk of raw bytes, in arrival order,
	// always from the same goroutine.
	OnChunk(data []byte) error
}

// SessionWithConnectionState is an optional extension for sessions that want
// connection lifecycle notifications.
type SessionWithConnectionState interface {
	Session
	OnConnectionEstablished()
	OnConnectionLost()
}

// ChannelState represents the state of a channel
type ChannelState int

const (
	ChannelStateOpen ChannelState = iota
	ChannelStateClosed
)

// String returns string representation of ChannelState
func (s ChannelState) String() string {
	switch s {
	case ChannelStateOpen:
		return "Open"
	case ChannelStateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
