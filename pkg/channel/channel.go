// Package channel carries raw bytes between a transport and the protocol
// engine: one read loop feeding a single session, one write queue
// serializing outbound frames.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"avalon/xbee-go/internal/logger"
)

var (
	ErrChannelClosed = errors.New("channel is closed")
	ErrChannelOpen   = errors.New("channel is already open")
	ErrNoSession     = errors.New("no session attached")
)

// Channel connects a Transport to one Session
type Channel struct {
	id        string
	transport Transport
	session   Session
	stats     *Statistics
	logger    logger.Logger

	// State
	state   ChannelState
	stateMu sync.RWMutex

	// Concurrency
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Write queue for serializing writes
	writeQueue chan *writeRequest
}

// writeRequest represents a write request
type writeRequest struct {
	data []byte
	resp chan error
}

// New creates a new channel
func New(id string, transport Transport, log logger.Logger) *Channel {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Channel{
		id:         id,
		transport:  transport,
		stats:      NewStatistics(),
		logger:     log,
		state:      ChannelStateClosed,
		ctx:        ctx,
		cancel:     cancel,
		writeQueue: make(chan *writeRequest, 100),
	}
}

// ID returns the channel ID
func (c *Channel) ID() string {
	return c.id
}

// SetSession attaches the session that consumes incoming bytes. Must be
// called before Open.
func (c *Channel) SetSession(session Session) {
	c.session = session

	if s, ok := session.(SessionWithConnectionState); ok {
		c.transport.SetConnectionStateListener(connectionStateAdapter{s})
	}
}

// connectionStateAdapter forwards transport connection events to the session
type connectionStateAdapter struct {
	session SessionWithConnectionState
}

func (a connectionStateAdapter) OnConnectionEstablished() { a.session.OnConnectionEstablished() }
func (a connectionStateAdapter) OnConnectionLost()        { a.session.OnConnectionLost() }

// Open opens the channel and starts processing
func (c *Channel) Open() error {
	if c.session == nil {
		return ErrNoSession
	}

	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.state == ChannelStateOpen {
		return ErrChannelOpen
	}

	c.state = ChannelStateOpen
	c.logger.Info("Channel %s opening", c.id)

	// Start read loop
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.readLoop()
	}()

	// Start write loop
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.writeLoop()
	}()

	c.logger.Info("Channel %s opened", c.id)
	return nil
}

// Close closes the channel
func (c *Channel) Close() error {
	c.stateMu.Lock()
	if c.state == ChannelStateClosed {
		c.stateMu.Unlock()
		return nil
	}
	c.state = ChannelStateClosed
	c.stateMu.Unlock()

	c.logger.Info("Channel %s closing", c.id)

	// Cancel context to stop goroutines
	c.cancel()

	// Close transport
	if err := c.transport.Close(); err != nil {
		c.logger.Error("Error closing transport: %v", err)
	}

	// Wait for goroutines to finish
	c.wg.Wait()

	c.logger.Info("Channel %s closed", c.id)
	return nil
}

// readLoop continuously reads from the transport and hands chunks to the
// session. Decoding and state mutation happen on this goroutine; only
// connection-state events reach the session from elsewhere.
func (c *Channel) readLoop() {
	c.logger.Debug("Channel %s read loop started", c.id)
	defer c.logger.Debug("Channel %s read loop stopped", c.id)

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		data, err := c.transport.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				// Context cancelled, normal shutdown
				return
			}
			c.logger.Error("Channel %s read error: %v", c.id, err)
			continue
		}

		if len(data) == 0 {
			continue
		}

		c.stats.ChunkRx()
		c.stats.BytesRx(uint64(len(data)))

		if err := c.session.OnChunk(data); err != nil {
			c.logger.Warn("Channel %s session error: %v", c.id, err)
		}
	}
}

// writeLoop processes write requests
func (c *Channel) writeLoop() {
	c.logger.Debug("Channel %s write loop started", c.id)
	defer c.logger.Debug("Channel %s write loop stopped", c.id)

	for {
		select {
		case <-c.ctx.Done():
			// Drain remaining requests with error
			for {
				select {
				case req := <-c.writeQueue:
					req.resp <- ErrChannelClosed
				default:
					return
				}
			}

		case req := <-c.writeQueue:
			err := c.transport.Write(c.ctx, req.data)
			if err != nil {
				c.logger.Error("Channel %s write error: %v", c.id, err)
				c.stats.WriteFail()
			} else {
				c.stats.BytesTx(uint64(len(req.data)))
				if err = c.transport.Flush(); err != nil {
					c.logger.Warn("Channel %s flush error: %v", c.id, err)
					err = nil // bytes were accepted; flush failure is not fatal
				}
			}
			req.resp <- err
		}
	}
}

// Write writes data to the channel in call order. Writes against a channel
// that is not open fail immediately with ErrChannelClosed.
func (c *Channel) Write(data []byte) error {
	c.stateMu.RLock()
	if c.state != ChannelStateOpen {
		c.stateMu.RUnlock()
		return ErrChannelClosed
	}
	c.stateMu.RUnlock()

	req := &writeRequest{
		data: data,
		resp: make(chan error, 1),
	}

	select {
	case c.writeQueue <- req:
		return <-req.resp
	case <-c.ctx.Done():
		return ErrChannelClosed
	}
}

// GetStatistics returns channel statistics
func (c *Channel) GetStatistics() *Statistics {
	return c.stats
}

// GetTransportStatistics returns transport-level statistics
func (c *Channel) GetTransportStatistics() TransportStats {
	return c.transport.Statistics()
}

// State returns the current channel state
func (c *Channel) State() ChannelState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// String returns string representation of channel
func (c *Channel) String() string {
	return fmt.Sprintf("Channel{ID=%s, State=%s}", c.id, c.State())
}
