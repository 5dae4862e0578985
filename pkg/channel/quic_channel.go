package channel

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"
)

// QUICTransport implements Transport for QUIC connections, for radios
// reached through a network bridge where the serial stream is tunneled over
// a single QUIC stream.
type QUICTransport struct {
	// Connection
	connection *quic.Conn
	stream     *quic.Stream
	connLock   sync.RWMutex
	streamLock sync.RWMutex

	// Configuration
	address        string
	isServer       bool
	listener       *quic.Listener
	reconnectDelay time.Duration
	writeTimeout   time.Duration
	tlsConfig      *tls.Config

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

// QUICTransportConfig configures a QUIC transport
type QUICTransportConfig struct {
	Address        string        // "host:port" format
	IsServer       bool          // true = listen, false = connect
	ReconnectDelay time.Duration // Delay between reconnection attempts (client only)
	WriteTimeout   time.Duration // Write timeout (0 = no timeout)
	TLSConfig      *tls.Config   // Optional TLS config (if nil, will generate self-signed cert)
}

// NewQUICTransport creates a new QUIC transport
func NewQUICTransport(config QUICTransportConfig) (*QUICTransport, error) {
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

	// Generate TLS config if not provided
	tlsConfig := config.TLSConfig
	if tlsConfig == nil {
		var err error
		tlsConfig, err = generateTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to generate TLS config: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	qt := &QUICTransport{
		address:        config.Address,
		isServer:       config.IsServer,
		reconnectDelay: config.ReconnectDelay,
		writeTimeout:   config.WriteTimeout,
		tlsConfig:      tlsConfig,
		ctx:            ctx,
		cancel:         cancel,
	}

	// Initialize connection
	if config.IsServer {
		if err := qt.startServer(); err != nil {
			cancel()
			return nil, err
		}
	} else {
		if err := qt.connect(); err != nil {
			cancel()
			return nil, err
		}
	}

	return qt, nil
}

// generateTLSConfig generates a self-signed certificate for QUIC
func generateTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates:       []tls.Certificate{tlsCert},
		NextProtos:         []string{"xbee-bridge"},
		InsecureSkipVerify: true, // For self-signed certs
	}, nil
}

// startServer starts listening for incoming QUIC connections
func (qt *QUICTransport) startServer() error {
	udpAddr, err := net.ResolveUDPAddr("udp", qt.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", qt.address, err)
	}

	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", qt.address, err)
	}

	listener, err := quic.Listen(udpConn, qt.tlsConfig, nil)
	if err != nil {
		udpConn.Close()
		return fmt.Errorf("failed to create QUIC listener: %w", err)
	}

	qt.listener = listener

	// Accept connections in background
	qt.wg.Add(1)
	go qt.acceptLoop()

	return nil
}

// acceptLoop accepts incoming QUIC connections
func (qt *QUICTransport) acceptLoop() {
	defer qt.wg.Done()

	for {
		select {
		case <-qt.ctx.Done():
			return
		default:
		}

		conn, err := qt.listener.Accept(qt.ctx)
		if err != nil {
			if qt.closed.Load() {
				return
			}
			continue
		}

		// Close existing connection if any
		qt.connLock.Lock()
		hadConnection := qt.connection != nil
		if qt.connection != nil {
			qt.connection.CloseWithError(0, "new connection")
			qt.stats.disconnects.Add(1)
		}
		qt.connection = conn
		qt.stats.connects.Add(1)
		qt.connLock.Unlock()

		// Accept the first stream
		qt.wg.Add(1)
		go qt.acceptStream(conn, hadConnection)
	}
}

// acceptStream accepts a stream from the connection
func (qt *QUICTransport) acceptStream(conn *quic.Conn, hadConnection bool) {
	defer qt.wg.Done()

	stream, err := conn.AcceptStream(qt.ctx)
	if err != nil {
		return
	}

	qt.streamLock.Lock()
	if qt.stream != nil {
		qt.stream.Close()
	}
	qt.stream = stream
	qt.streamLock.Unlock()

	// Notify connection state change
	if hadConnection {
		qt.notifyConnectionLost()
	}
	qt.notifyConnectionEstablished()
}

// connect establishes a QUIC connection to the remote server
func (qt *QUICTransport) connect() error {
	udpAddr, err := net.ResolveUDPAddr("udp", "0.0.0.0:0")
	if err != nil {
		return fmt.Errorf("failed to resolve local UDP address: %w", err)
	}

	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to create UDP socket: %w", err)
	}

	// Resolve the remote address
	remoteAddr, err := net.ResolveUDPAddr("udp", qt.address)
	if err != nil {
		udpConn.Close()
		return fmt.Errorf("failed to resolve remote address %s: %w", qt.address, err)
	}

	conn, err := quic.Dial(qt.ctx, udpConn, remoteAddr, qt.tlsConfig, nil)
	if err != nil {
		udpConn.Close()
		return fmt.Errorf("failed to connect to %s: %w", qt.address, err)
	}

	// Open a stream
	stream, err := conn.OpenStreamSync(qt.ctx)
	if err != nil {
		conn.CloseWithError(0, "failed to open stream")
		return fmt.Errorf("failed to open stream: %w", err)
	}

	qt.connLock.Lock()
	qt.connection = conn
	qt.stats.connects.Add(1)
	qt.connLock.Unlock()

	qt.streamLock.Lock()
	qt.stream = stream
	qt.streamLock.Unlock()

	// Notify connection established
	qt.notifyConnectionEstablished()

	// Start reconnection handler for clients
	qt.wg.Add(1)
	go qt.reconnectLoop()

	return nil
}

// reconnectLoop handles automatic reconnection for client mode
func (qt *QUICTransport) reconnectLoop() {
	defer qt.wg.Done()

	for {
		select {
		case <-qt.ctx.Done():
			return
		case <-time.After(1 * time.Second):
			// Check if connection is alive
			qt.connLock.RLock()
			conn := qt.connection
			qt.connLock.RUnlock()

			if conn != nil && conn.Context().Err() == nil {
				continue
			}

			// Connection is dead, wait for reconnect delay
			select {
			case <-qt.ctx.Done():
				return
			case <-time.After(qt.reconnectDelay):
			}

			// Try to reconnect
			udpAddr, err := net.ResolveUDPAddr("udp", "0.0.0.0:0")
			if err != nil {
				continue
			}

			udpConn, err := net.ListenUDP("udp", udpAddr)
			if err != nil {
				continue
			}

			remoteAddr, err := net.ResolveUDPAddr("udp", qt.address)
			if err != nil {
				udpConn.Close()
				continue
			}

			newConn, err := quic.Dial(qt.ctx, udpConn, remoteAddr, qt.tlsConfig, nil)
			if err != nil {
				udpConn.Close()
				continue
			}

			stream, err := newConn.OpenStreamSync(qt.ctx)
			if err != nil {
				newConn.CloseWithError(0, "failed to open stream")
				continue
			}

			qt.connLock.Lock()
			if qt.connection != nil {
				qt.connection.CloseWithError(0, "reconnecting")
			}
			qt.connection = newConn
			qt.stats.connects.Add(1)
			qt.connLock.Unlock()

			qt.streamLock.Lock()
			if qt.stream != nil {
				qt.stream.Close()
			}
			qt.stream = stream
			qt.streamLock.Unlock()

			// Notify connection re-established
			qt.notifyConnectionEstablished()
		}
	}
}

// Read implements Transport.Read. It returns whatever bytes the stream
// delivers; frame boundaries are the reassembler's business.
func (qt *QUICTransport) Read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 1024)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-qt.ctx.Done():
			return nil, fmt.Errorf("transport closed")
		default:
		}

		// Wait for stream if not available
		var stream *quic.Stream
		for {
			qt.streamLock.RLock()
			stream = qt.stream
			qt.streamLock.RUnlock()

			if stream != nil {
				break
			}

			select {
			case <-time.After(100 * time.Millisecond):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-qt.ctx.Done():
				return nil, fmt.Errorf("transport closed")
			}
		}

		// A bounded deadline keeps the loop responsive to cancellation.
		stream.SetReadDeadline(time.Now().Add(1 * time.Second))

		n, err := stream.Read(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			qt.handleReadError(err)
			continue
		}
		if n == 0 {
			continue
		}

		qt.stats.bytesReceived.Add(uint64(n))

		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		return chunk, nil
	}
}

// Write implements Transport.Write
func (qt *QUICTransport) Write(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-qt.ctx.Done():
		return fmt.Errorf("transport closed")
	default:
	}

	qt.streamLock.RLock()
	stream := qt.stream
	qt.streamLock.RUnlock()

	if stream == nil {
		qt.stats.writeErrors.Add(1)
		return fmt.Errorf("no stream")
	}

	// Set write deadline
	if qt.writeTimeout > 0 {
		stream.SetWriteDeadline(time.Now().Add(qt.writeTimeout))
	}

	_, err := stream.Write(data)
	if err != nil {
		qt.handleWriteError(err)
		return err
	}

	qt.stats.bytesSent.Add(uint64(len(data)))
	return nil
}

// Flush implements Transport.Flush. QUIC streams have no drain primitive;
// written bytes are already queued for delivery.
func (qt *QUICTransport) Flush() error {
	return nil
}

// Close implements Transport.Close
func (qt *QUICTransport) Close() error {
	if !qt.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	// Cancel context to stop all goroutines
	qt.cancel()

	// Close listener if server
	if qt.listener != nil {
		qt.listener.Close()
	}

	// Close stream
	qt.streamLock.Lock()
	if qt.stream != nil {
		qt.stream.Close()
		qt.stream = nil
	}
	qt.streamLock.Unlock()

	// Close connection
	qt.connLock.Lock()
	if qt.connection != nil {
		qt.connection.CloseWithError(0, "transport closed")
		qt.stats.disconnects.Add(1)
		qt.connection = nil
	}
	qt.connLock.Unlock()

	// Wait for goroutines to finish
	qt.wg.Wait()

	return nil
}

// Statistics implements Transport.Statistics
func (qt *QUICTransport) Statistics() TransportStats {
	return TransportStats{
		BytesSent:     qt.stats.bytesSent.Load(),
		BytesReceived: qt.stats.bytesReceived.Load(),
		WriteErrors:   qt.stats.writeErrors.Load(),
		ReadErrors:    qt.stats.readErrors.Load(),
		Connects:      qt.stats.connects.Load(),
		Disconnects:   qt.stats.disconnects.Load(),
	}
}

// handleReadError handles read errors and manages connection state
func (qt *QUICTransport) handleReadError(err error) {
	qt.stats.readErrors.Add(1)
	qt.dropConnection("read error")
}

// handleWriteError handles write errors and manages connection state
func (qt *QUICTransport) handleWriteError(err error) {
	qt.stats.writeErrors.Add(1)
	qt.dropConnection("write error")
}

// dropConnection closes the current stream/connection and notifies the listener
func (qt *QUICTransport) dropConnection(reason string) {
	qt.streamLock.Lock()
	if qt.stream != nil {
		qt.stream.Close()
		qt.stream = nil
	}
	qt.streamLock.Unlock()

	qt.connLock.Lock()
	hadConnection := qt.connection != nil
	if qt.connection != nil {
		qt.connection.CloseWithError(0, reason)
		qt.stats.disconnects.Add(1)
		qt.connection = nil
	}
	qt.connLock.Unlock()

	// Notify connection lost
	if hadConnection {
		qt.notifyConnectionLost()
	}
}

// IsConnected returns true if there is an active connection
func (qt *QUICTransport) IsConnected() bool {
	qt.connLock.RLock()
	defer qt.connLock.RUnlock()
	return qt.connection != nil && qt.connection.Context().Err() == nil
}

// SetConnectionStateListener sets a listener for connection state changes
func (qt *QUICTransport) SetConnectionStateListener(listener ConnectionStateListener) {
	qt.stateListenerLock.Lock()
	defer qt.stateListenerLock.Unlock()
	qt.stateListener = listener
}

// notifyConnectionEstablished notifies the listener that a connection was established
func (qt *QUICTransport) notifyConnectionEstablished() {
	qt.stateListenerLock.RLock()
	listener := qt.stateListener
	qt.stateListenerLock.RUnlock()

	if listener != nil {
		listener.OnConnectionEstablished()
	}
}

// notifyConnectionLost notifies the listener that a connection was lost
func (qt *QUICTransport) notifyConnectionLost() {
	qt.stateListenerLock.RLock()
	listener := qt.stateListener
	qt.stateListenerLock.RUnlock()

	if listener != nil {
		listener.OnConnectionLost()
	}
}
