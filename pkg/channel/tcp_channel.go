package channel

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// TCPTransport implements Transport for TCP connections, typically a
// serial-over-TCP device server in front of the radio.
type TCPTransport struct {
	// Connection
	conn     net.Conn
	connLock sync.RWMutex

	// Configuration
	address        string
	isServer       bool
	listener       net.Listener
	reconnectDelay time.Duration
	writeTimeout   time.Duration

	// Connection state listener
	stateListener     ConnectionStateListener
	stateListenerLock sync.RWMutex

	// Statistics
	stats struct {
		bytesSent     atomic.Uint64
		bytesReceived atomic.Uint64
		writeErrors   atomic.Uint64
		readErrors    atomic.Uint64
		connects      atomic.Uint64
		disconnects   atomic.Uint64
	}

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// TCPTransportConfig configures a TCP transport
type TCPTransportConfig struct {
	Address        string        // "host:port" format
	IsServer       bool          // true = listen, false = connect
	ReconnectDelay time.Duration // Delay between reconnection attempts (client only)
	WriteTimeout   time.Duration // Write timeout (0 = no timeout)
}

// NewTCPTransport creates a new TCP transport
func NewTCPTransport(config TCPTransportConfig) (*TCPTransport, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	// Set defaults
	if config.ReconnectDelay == 0 {
		config.ReconnectDelay = 5 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	tt := &TCPTransport{
		address:        config.Address,
		isServer:       config.IsServer,
		reconnectDelay: config.ReconnectDelay,
		writeTimeout:   config.WriteTimeout,
		ctx:            ctx,
		cancel:         cancel,
	}

	// Initialize connection
	if config.IsServer {
		if err := tt.startServer(); err != nil {
			cancel()
			return nil, err
		}
	} else {
		if err := tt.connect(); err != nil {
			cancel()
			return nil, err
		}
	}

	return tt, nil
}

// startServer starts listening for incoming connections
func (tt *TCPTransport) startServer() error {
	listener, err := net.Listen("tcp", tt.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", tt.address, err)
	}

	tt.listener = listener

	// Accept connections in background
	tt.wg.Add(1)
	go tt.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (tt *TCPTransport) acceptLoop() {
	defer tt.wg.Done()

	for {
		select {
		case <-tt.ctx.Done():
			return
		default:
		}

		// Set accept deadline to allow periodic context checks
		if tcpListener, ok := tt.listener.(*net.TCPListener); ok {
			tcpListener.SetDeadline(time.Now().Add(1 * time.Second))
		}

		conn, err := tt.listener.Accept()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				// Timeout is expected, continue loop
				continue
			}
			if tt.closed.Load() {
				return
			}
			continue
		}

		// Close existing connection if any
		tt.connLock.Lock()
		hadConnection := tt.conn != nil
		if tt.conn != nil {
			tt.conn.Close()
			tt.stats.disconnects.Add(1)
		}
		tt.conn = conn
		tt.stats.connects.Add(1)
		tt.connLock.Unlock()

		if hadConnection {
			tt.notifyConnectionLost()
		}
		tt.notifyConnectionEstablished()
	}
}

// connect establishes a connection to the remote server
func (tt *TCPTransport) connect() error {
	conn, err := net.DialTimeout("tcp", tt.address, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", tt.address, err)
	}

	tt.connLock.Lock()
	tt.conn = conn
	tt.stats.connects.Add(1)
	tt.connLock.Unlock()

	tt.notifyConnectionEstablished()

	// Start reconnection handler for clients
	tt.wg.Add(1)
	go tt.reconnectLoop()

	return nil
}

// reconnectLoop handles automatic reconnection for client mode
func (tt *TCPTransport) reconnectLoop() {
	defer tt.wg.Done()

	for {
		select {
		case <-tt.ctx.Done():
			return
		case <-time.After(1 * time.Second):
			tt.connLock.RLock()
			conn := tt.conn
			tt.connLock.RUnlock()

			if conn != nil {
				continue
			}

			// Connection is dead, wait for reconnect delay
			select {
			case <-tt.ctx.Done():
				return
			case <-time.After(tt.reconnectDelay):
			}

			newConn, err := net.DialTimeout("tcp", tt.address, 10*time.Second)
			if err != nil {
				continue
			}

			tt.connLock.Lock()
			tt.conn = newConn
			tt.stats.connects.Add(1)
			tt.connLock.Unlock()

			tt.notifyConnectionEstablished()
		}
	}
}

// Read implements Transport.Read. It returns whatever bytes the connection
// delivers; frame boundaries are the reassembler's business.
func (tt *TCPTransport) Read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 1024)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tt.ctx.Done():
			return nil, fmt.Errorf("transport closed")
		default:
		}

		// Wait for connection if not available
		var conn net.Conn
		for {
			tt.connLock.RLock()
			conn = tt.conn
			tt.connLock.RUnlock()

			if conn != nil {
				break
			}

			select {
			case <-time.After(100 * time.Millisecond):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-tt.ctx.Done():
				return nil, fmt.Errorf("transport closed")
			}
		}

		// A bounded deadline keeps the loop responsive to cancellation.
		conn.SetReadDeadline(time.Now().Add(1 * time.Second))

		n, err := conn.Read(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			tt.handleReadError(err)
			continue
		}
		if n == 0 {
			continue
		}

		tt.stats.bytesReceived.Add(uint64(n))

		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		return chunk, nil
	}
}

// Write implements Transport.Write
func (tt *TCPTransport) Write(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tt.ctx.Done():
		return fmt.Errorf("transport closed")
	default:
	}

	tt.connLock.RLock()
	conn := tt.conn
	tt.connLock.RUnlock()

	if conn == nil {
		tt.stats.writeErrors.Add(1)
		return fmt.Errorf("no connection")
	}

	// Set write deadline
	if tt.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(tt.writeTimeout))
	}

	_, err := conn.Write(data)
	if err != nil {
		tt.handleWriteError(err)
		return err
	}

	tt.stats.bytesSent.Add(uint64(len(data)))
	return nil
}

// Flush implements Transport.Flush. TCP has no host-side output buffer to
// drain beyond the kernel's, so this is a no-op.
func (tt *TCPTransport) Flush() error {
	return nil
}

// Close implements Transport.Close
func (tt *TCPTransport) Close() error {
	if !tt.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	// Cancel context to stop all goroutines
	tt.cancel()

	// Close listener if server
	if tt.listener != nil {
		tt.listener.Close()
	}

	// Close connection
	tt.connLock.Lock()
	if tt.conn != nil {
		tt.conn.Close()
		tt.stats.disconnects.Add(1)
		tt.conn = nil
	}
	tt.connLock.Unlock()

	// Wait for goroutines to finish
	tt.wg.Wait()

	return nil
}

// Statistics implements Transport.Statistics
func (tt *TCPTransport) Statistics() TransportStats {
	return TransportStats{
		BytesSent:     tt.stats.bytesSent.Load(),
		BytesReceived: tt.stats.bytesReceived.Load(),
		WriteErrors:   tt.stats.writeErrors.Load(),
		ReadErrors:    tt.stats.readErrors.Load(),
		Connects:      tt.stats.connects.Load(),
		Disconnects:   tt.stats.disconnects.Load(),
	}
}

// SetConnectionStateListener sets a listener for connection state changes
func (tt *TCPTransport) SetConnectionStateListener(listener ConnectionStateListener) {
	tt.stateListenerLock.Lock()
	defer tt.stateListenerLock.Unlock()
	tt.stateListener = listener
}

// handleReadError handles read errors and manages connection state
func (tt *TCPTransport) handleReadError(err error) {
	tt.stats.readErrors.Add(1)
	tt.dropConnection()
}

// handleWriteError handles write errors and manages connection state
func (tt *TCPTransport) handleWriteError(err error) {
	tt.stats.writeErrors.Add(1)
	tt.dropConnection()
}

// dropConnection closes the current connection and notifies the listener
func (tt *TCPTransport) dropConnection() {
	tt.connLock.Lock()
	hadConnection := tt.conn != nil
	if tt.conn != nil {
		tt.conn.Close()
		tt.stats.disconnects.Add(1)
		tt.conn = nil
	}
	tt.connLock.Unlock()

	if hadConnection {
		tt.notifyConnectionLost()
	}
}

// IsConnected returns true if there is an active connection
func (tt *TCPTransport) IsConnected() bool {
	tt.connLock.RLock()
	defer tt.connLock.RUnlock()
	return tt.conn != nil
}

// notifyConnectionEstablished notifies the listener that a connection was established
func (tt *TCPTransport) notifyConnectionEstablished() {
	tt.stateListenerLock.RLock()
	listener := tt.stateListener
	tt.stateListenerLock.RUnlock()

	if listener != nil {
		listener.OnConnectionEstablished()
	}
}

// notifyConnectionLost notifies the listener that a connection was lost
func (tt *TCPTransport) notifyConnectionLost() {
	tt.stateListenerLock.RLock()
	listener := tt.stateListener
	tt.stateListenerLock.RUnlock()

	if listener != nil {
		listener.OnConnectionLost()
	}
}
