package radio

import "errors"

var (
	// ErrTimeout indicates a synchronous exchange got no matching response
	// within the configured window.
	ErrTimeout = errors.New("timed out waiting for response")

	// ErrChannelBusy indicates another synchronous exchange is in flight.
	ErrChannelBusy = errors.New("channel busy with another synchronous call")

	// ErrTransportUnavailable indicates the underlying channel cannot accept
	// writes.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrNotCorrelatable indicates a synchronous send of a frame type that
	// carries no frame ID.
	ErrNotCorrelatable = errors.New("frame type carries no frame ID")

	// ErrWrongMode indicates an operation that requires the other framing
	// mode.
	ErrWrongMode = errors.New("operation not available in current mode")
)
