// Package radio implements the protocol engine for API-framed radio
// modules: frame correlation, addressing state, mode control and the
// dispatch of decoded traffic to application callbacks.
package radio

import (
	"errors"
	"sync"
	"time"

	"avalon/xbee-go/pkg/channel"
	"avalon/xbee-go/pkg/frames"
	"avalon/xbee-go/internal/logger"
	"avalon/xbee-go/pkg/stream"
)

// Radio drives one radio module over one channel. It implements
// channel.Session: the channel's read loop feeds raw chunks into the
// reassembler and decoded frames out to the callbacks, all on a single
// goroutine.
type Radio struct {
	config    Config
	callbacks Callbacks
	logger    logger.Logger

	channel *channel.Channel
	reasm   *stream.Reassembler
	session *session
	state   *AddressingState

	// Startup handshake outcome
	startupMu sync.RWMutex
	startup   StartupState
	hardware  HardwareFamily

	// Node identification payload decoding is delegated to the application
	ndMu     sync.RWMutex
	ndParser NodeIdentificationParser
}

// New creates a Radio on the given transport. The returned radio owns the
// channel; Open and Close manage both.
func New(config Config, callbacks Callbacks, transport channel.Transport) *Radio {
	config = config.withDefaults()
	if callbacks == nil {
		callbacks = BaseCallbacks{}
	}

	r := &Radio{
		config:    config,
		callbacks: callbacks,
		logger:    config.Logger,
		reasm:     stream.NewReassembler(config.Mode),
		session:   newSession(),
		state:     NewAddressingState(),
		startup:   StartupUnchecked,
	}
	r.reasm.SetTerminator(config.Terminator)

	r.channel = channel.New(config.ID, transport, config.Logger)
	r.channel.SetSession(r)

	return r
}

// Open opens the channel and, in API mode, runs the startup handshake. The
// handshake outcome never fails Open; a silent radio leaves the startup
// state degraded and the link usable.
func (r *Radio) Open() error {
	if err := r.channel.Open(); err != nil {
		return err
	}

	if r.Mode() == stream.ModeAPI && !r.config.SkipStartupCheck {
		r.runStartupCheck()
	}
	return nil
}

// Close closes the channel
func (r *Radio) Close() error {
	return r.channel.Close()
}

// State returns the addressing parameter cache
func (r *Radio) State() *AddressingState {
	return r.state
}

// Mode returns the current framing mode
func (r *Radio) Mode() stream.Mode {
	return r.reasm.Mode()
}

// SetMode switches the framing discipline. Partially reassembled input is
// discarded on a change; bytes buffered under the old framing are
// meaningless under the new one.
func (r *Radio) SetMode(mode stream.Mode) {
	r.reasm.SetMode(mode)
}

// StartupState returns the handshake outcome
func (r *Radio) StartupState() StartupState {
	r.startupMu.RLock()
	defer r.startupMu.RUnlock()
	return r.startup
}

// Hardware returns the hardware family reported during startup
func (r *Radio) Hardware() HardwareFamily {
	r.startupMu.RLock()
	defer r.startupMu.RUnlock()
	return r.hardware
}

func (r *Radio) setStartupState(state StartupState) {
	r.startupMu.Lock()
	r.startup = state
	r.startupMu.Unlock()

	r.logger.Info("Radio %s: startup state %s", r.config.ID, state)
	r.callbacks.OnStartupStateChanged(state)
}

func (r *Radio) setHardware(family HardwareFamily) {
	r.startupMu.Lock()
	r.hardware = family
	r.startupMu.Unlock()
}

// SetNodeIdentificationParser registers the decoder for node identification
// payloads. May be called at any time; a nil parser disables decoding.
func (r *Radio) SetNodeIdentificationParser(parser NodeIdentificationParser) {
	r.ndMu.Lock()
	r.ndParser = parser
	r.ndMu.Unlock()
}

// OnChunk implements channel.Session. It runs on the channel's read loop
// goroutine; the reassembler itself synchronizes against connection-state
// resets arriving from transport goroutines.
func (r *Radio) OnChunk(data []byte) error {
	transparent := r.Mode() == stream.ModeTransparent

	for _, candidate := range r.reasm.Feed(data) {
		if transparent {
			r.callbacks.OnRawData(candidate)
			continue
		}

		frame, err := frames.Decode(candidate)
		if err != nil {
			r.logDecodeError(err, candidate)
			continue
		}
		r.dispatch(frame)
	}
	return nil
}

// logDecodeError records a corrupt or unrecognized candidate. Unknown types
// are expected from newer firmware and logged quietly; checksum failures
// indicate line noise that survived resynchronization.
func (r *Radio) logDecodeError(err error, candidate []byte) {
	var unknown *frames.UnknownTypeError
	if errors.As(err, &unknown) {
		r.logger.Debug("Radio %s: ignoring frame type 0x%02X (%d payload bytes)",
			r.config.ID, byte(unknown.Type), len(unknown.Payload))
		return
	}

	var checksum *frames.ChecksumError
	if errors.As(err, &checksum) {
		r.logger.Warn("Radio %s: checksum mismatch, want 0x%02X got 0x%02X",
			r.config.ID, checksum.Want, checksum.Got)
		return
	}

	r.logger.Warn("Radio %s: dropping %d-byte candidate: %v", r.config.ID, len(candidate), err)
}

// dispatch routes one decoded frame
func (r *Radio) dispatch(frame frames.Frame) {
	switch f := frame.(type) {
	case *frames.ATCommandResponse:
		r.handleATCommandResponse(f)
	case *frames.ModemStatus:
		r.logger.Info("Radio %s: modem status %s", r.config.ID, f.Status)
		r.callbacks.OnModemStatus(f)
	case *frames.TransmitStatus:
		if !f.Delivered() {
			r.logger.Warn("Radio %s: transmit %d not delivered (status 0x%02X)",
				r.config.ID, f.ID, f.DeliveryStatus)
		}
		r.callbacks.OnTransmitStatus(f)
	case *frames.ReceivePacket:
		r.callbacks.OnReceivePacket(f)
	case *frames.ExplicitRxIndicator:
		r.callbacks.OnExplicitRxIndicator(f)
	case *frames.NodeIdentificationIndicator:
		r.handleNodeIdentification(f)
	case *frames.RemoteATCommandResponse:
		if !f.Ok() {
			r.logger.Warn("Radio %s: remote %s on %016X rejected: %s",
				r.config.ID, f.Command, f.Src64, f.Status)
		}
		r.callbacks.OnRemoteATCommandResponse(f)
	default:
		// Host-originated frame types echoed back are not an error on the
		// wire, just not ours to act on.
		r.logger.Debug("Radio %s: unexpected %s frame from radio", r.config.ID, frame.Type())
	}
}

// handleATCommandResponse completes the waiter, updates the addressing
// cache, then forwards to the callbacks. The cache mutates only on Ok.
func (r *Radio) handleATCommandResponse(rsp *frames.ATCommandResponse) {
	r.session.complete(rsp)

	if !rsp.Ok() {
		r.logger.Warn("Radio %s: command %s rejected: %s", r.config.ID, rsp.Command, rsp.Status)
	} else if value, changed := r.state.Apply(rsp); changed {
		r.logger.Debug("Radio %s: %s = %s", r.config.ID, rsp.Command, value)
		r.callbacks.OnParameterChanged(rsp.Command, value)
	}

	r.callbacks.OnATCommandResponse(rsp)
}

func (r *Radio) handleNodeIdentification(ind *frames.NodeIdentificationIndicator) {
	r.ndMu.RLock()
	parser := r.ndParser
	r.ndMu.RUnlock()

	if parser != nil {
		parser(ind)
	}
	r.callbacks.OnNodeIdentification(ind)
}

// OnConnectionEstablished implements channel.SessionWithConnectionState. A
// fresh connection may start mid-frame, so pending reassembly is dropped.
func (r *Radio) OnConnectionEstablished() {
	r.logger.Info("Radio %s: connection established", r.config.ID)
	r.reasm.Reset()
}

// OnConnectionLost implements channel.SessionWithConnectionState
func (r *Radio) OnConnectionLost() {
	r.logger.Warn("Radio %s: connection lost", r.config.ID)
	r.reasm.Reset()
}

// SendAsync encodes and writes a frame without waiting for a response. A
// correlatable frame gets the next frame ID before encoding, so a transmit
// status or command response can still be matched by the application.
func (r *Radio) SendAsync(f frames.Frame) error {
	if r.Mode() != stream.ModeAPI {
		return ErrWrongMode
	}

	if c, ok := f.(frames.Correlatable); ok {
		c.SetFrameID(r.session.allocID())
	}
	return r.write(frames.Encode(f))
}

// SendSync sends a correlatable frame and blocks until the matching AT
// command response arrives or the timeout elapses. Only one synchronous
// exchange may be in flight; concurrent callers fail fast with
// ErrChannelBusy.
func (r *Radio) SendSync(f frames.Frame, timeout time.Duration) (*frames.ATCommandResponse, error) {
	if r.Mode() != stream.ModeAPI {
		return nil, ErrWrongMode
	}

	c, ok := f.(frames.Correlatable)
	if !ok {
		return nil, ErrNotCorrelatable
	}

	if !r.session.syncMu.TryLock() {
		return nil, ErrChannelBusy
	}
	defer r.session.syncMu.Unlock()

	id := r.session.allocID()
	c.SetFrameID(id)

	waiter := r.session.register(id)
	defer r.session.remove(id)

	if err := r.write(frames.Encode(f)); err != nil {
		return nil, err
	}

	select {
	case rsp := <-waiter:
		return rsp, nil
	case <-time.After(timeout):
		r.logger.Warn("Radio %s: frame %d timed out after %s", r.config.ID, id, timeout)
		return nil, ErrTimeout
	}
}

// SendATCommand performs a synchronous AT command exchange with the
// configured response timeout.
func (r *Radio) SendATCommand(cmd frames.ATCommand, parameter []byte) (*frames.ATCommandResponse, error) {
	return r.SendSync(frames.NewATCommandRequest(cmd, parameter), r.config.ResponseTimeout)
}

// write pushes encoded bytes to the channel, mapping a closed channel to
// ErrTransportUnavailable.
func (r *Radio) write(data []byte) error {
	if err := r.channel.Write(data); err != nil {
		if errors.Is(err, channel.ErrChannelClosed) {
			return ErrTransportUnavailable
		}
		return err
	}
	return nil
}
