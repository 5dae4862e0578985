package channel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// Default serial configuration for these radios: 9600 8N1, no flow control.
const DefaultBaudRate = 9600

// pollInterval bounds how long a blocking Read goes without checking its
// context for cancellation.
const pollInterval = 100 * time.Millisecond

// SerialTransport implements Transport over a local serial port
type SerialTransport struct {
	// Port
	port     serial.Port
	portLock sync.RWMutex

	// Configuration
	portName string
	baudRate int

	// Statistics
	stats struct {
		bytesSent     atomic.Uint64
		bytesReceived atomic.Uint64
		writeErrors   atomic.Uint64
		readErrors    atomic.Uint64
	}

	// Lifecycle
	closed atomic.Bool
}

// SerialTransportConfig configures a serial transport
type SerialTransportConfig struct {
	PortName string // e.g. "/dev/ttyUSB0" or "COM3"
	BaudRate int    // defaults to 9600
}

// NewSerialTransport opens the serial port with 8 data bits, no parity, one
// stop bit and no flow control.
func NewSerialTransport(config SerialTransportConfig) (*SerialTransport, error) {
	if config.PortName == "" {
		return nil, fmt.Errorf("port name is required")
	}
	if config.BaudRate == 0 {
		config.BaudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(config.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", config.PortName, err)
	}

	// A bounded read timeout lets Read honor context cancellation.
	if err := port.SetReadTimeout(pollInterval); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", config.PortName, err)
	}

	return &SerialTransport{
		port:     port,
		portName: config.PortName,
		baudRate: config.BaudRate,
	}, nil
}

// Read implements Transport.Read
func (st *SerialTransport) Read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 1024)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if st.closed.Load() {
			return nil, fmt.Errorf("serial port %s closed", st.portName)
		}

		st.portLock.RLock()
		port := st.port
		st.portLock.RUnlock()

		n, err := port.Read(buf)
		if err != nil {
			st.stats.readErrors.Add(1)
			return nil, fmt.Errorf("serial read on %s: %w", st.portName, err)
		}
		if n == 0 {
			// Read timeout elapsed with no bytes; check context and retry.
			continue
		}

		st.stats.bytesReceived.Add(uint64(n))

		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		return chunk, nil
	}
}

// Write implements Transport.Write
func (st *SerialTransport) Write(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if st.closed.Load() {
		return fmt.Errorf("serial port %s closed", st.portName)
	}

	st.portLock.RLock()
	defer st.portLock.RUnlock()

	n, err := st.port.Write(data)
	if err != nil {
		st.stats.writeErrors.Add(1)
		return fmt.Errorf("serial write on %s: %w", st.portName, err)
	}

	st.stats.bytesSent.Add(uint64(n))
	return nil
}

// Flush implements Transport.Flush by draining the output buffer
func (st *SerialTransport) Flush() error {
	if st.closed.Load() {
		return nil
	}

	st.portLock.RLock()
	defer st.portLock.RUnlock()
	return st.port.Drain()
}

// Close implements Transport.Close
func (st *SerialTransport) Close() error {
	if !st.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	st.portLock.Lock()
	defer st.portLock.Unlock()
	return st.port.Close()
}

// Statistics implements Transport.Statistics
func (st *SerialTransport) Statistics() TransportStats {
	return TransportStats{
		BytesSent:     st.stats.bytesSent.Load(),
		BytesReceived: st.stats.bytesReceived.Load(),
		WriteErrors:   st.stats.writeErrors.Load(),
		ReadErrors:    st.stats.readErrors.Load(),
	}
}

// SetConnectionStateListener implements Transport. A local serial port has
// no connection lifecycle, so this is a no-op.
func (st *SerialTransport) SetConnectionStateListener(listener ConnectionStateListener) {}

// PortName returns the configured port name
func (st *SerialTransport) PortName() string {
	return st.portName
}
