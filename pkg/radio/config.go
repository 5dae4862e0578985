package radio

import (
	"time"

	"avalon/xbee-go/pkg/frames"
	"avalon/xbee-go/internal/logger"
	"avalon/xbee-go/pkg/stream"
)

// DefaultResponseTimeout bounds synchronous command exchanges.
const DefaultResponseTimeout = 1 * time.Second

// Config configures a Radio
type Config struct {
	// ID identifies the radio in log output
	ID string

	// Mode selects the initial framing discipline. The zero value is API
	// mode.
	Mode stream.Mode

	// ResponseTimeout bounds synchronous exchanges (default 1s)
	ResponseTimeout time.Duration

	// Terminator is the line terminator used in transparent mode
	// (default 0x0D)
	Terminator byte

	// SkipStartupCheck disables the AP/HV handshake on Open. The startup
	// state then stays Unchecked.
	SkipStartupCheck bool

	// Logger for radio events (nil = no logging)
	Logger logger.Logger
}

// withDefaults returns a copy with zero values filled in
func (c Config) withDefaults() Config {
	if c.ID == "" {
		c.ID = "radio"
	}
	if c.ResponseTimeout == 0 {
		c.ResponseTimeout = DefaultResponseTimeout
	}
	if c.Terminator == 0 {
		c.Terminator = stream.DefaultTerminator
	}
	if c.Logger == nil {
		c.Logger = logger.NewNoOpLogger()
	}
	return c
}

// Callbacks receives decoded inbound traffic and engine events. All methods
// are invoked from the read loop goroutine; implementations must not block.
type Callbacks interface {
	// OnATCommandResponse is called for every local AT command response,
	// including those consumed by a synchronous waiter.
	OnATCommandResponse(rsp *frames.ATCommandResponse)

	// OnModemStatus is called for unsolicited modem status frames
	OnModemStatus(status *frames.ModemStatus)

	// OnTransmitStatus is called when the radio reports a transmit outcome
	OnTransmitStatus(status *frames.TransmitStatus)

	// OnReceivePacket is called for inbound RF data
	OnReceivePacket(pkt *frames.ReceivePacket)

	// OnExplicitRxIndicator is called for inbound RF data with explicit
	// addressing
	OnExplicitRxIndicator(pkt *frames.ExplicitRxIndicator)

	// OnNodeIdentification is called when a remote node identifies itself
	OnNodeIdentification(ind *frames.NodeIdentificationIndicator)

	// OnRemoteATCommandResponse is called for responses from remote radios
	OnRemoteATCommandResponse(rsp *frames.RemoteATCommandResponse)

	// OnRawData is called for each terminated line in transparent mode
	OnRawData(line []byte)

	// OnParameterChanged is called after an addressing parameter in the
	// local cache is updated from a successful response, once per update.
	OnParameterChanged(param frames.ATCommand, value ParamValue)

	// OnStartupStateChanged is called when the startup handshake settles
	OnStartupStateChanged(state StartupState)
}

// BaseCallbacks is a no-op Callbacks implementation for embedding, so
// applications implement only the methods they care about.
type BaseCallbacks struct{}

func (BaseCallbacks) OnATCommandResponse(rsp *frames.ATCommandResponse) {}

func (BaseCallbacks) OnModemStatus(status *frames.ModemStatus) {}

func (BaseCallbacks) OnTransmitStatus(status *frames.TransmitStatus) {}

func (BaseCallbacks) OnReceivePacket(pkt *frames.ReceivePacket) {}

func (BaseCallbacks) OnExplicitRxIndicator(pkt *frames.ExplicitRxIndicator) {}

func (BaseCallbacks) OnNodeIdentification(ind *frames.NodeIdentificationIndicator) {}

func (BaseCallbacks) OnRemoteATCommandResponse(rsp *frames.RemoteATCommandResponse) {}

func (BaseCallbacks) OnRawData(line []byte) {}

func (BaseCallbacks) OnParameterChanged(param frames.ATCommand, value ParamValue) {}

func (BaseCallbacks) OnStartupStateChanged(state StartupState) {}

// NodeIdentificationParser decodes the opaque discovery payload of a node
// identification indicator. The engine never interprets that payload itself;
// applications register a parser for the vendor/firmware layout they expect.
type NodeIdentificationParser func(ind *frames.NodeIdentificationIndicator)
