package frames

// StartMarker begins every API-mode frame on the wire.
const StartMarker byte = 0x7E

// Framing overhead: start marker + 2 length bytes + checksum.
const FrameOverhead = 4

// MaxPayloadLen bounds the declared length a frame may carry. Anything
// larger is treated as line noise that happened to look like a marker.
const MaxPayloadLen = 0x2000

// Type identifies a frame variant (the byte at offset 3 on the wire).
type Type byte

const (
	// Outbound (host to radio)
	TypeATCommand                 Type = 0x08
	TypeATCommandQueueParam       Type = 0x09
	TypeTransmitRequest           Type = 0x10
	TypeExplicitAddressingCommand Type = 0x11
	TypeRemoteATCommandRequest    Type = 0x17

	// Inbound (radio to host)
	TypeATCommandResponse           Type = 0x88
	TypeModemStatus                 Type = 0x8A
	TypeTransmitStatus              Type = 0x8B
	TypeReceivePacket               Type = 0x90
	TypeExplicitRxIndicator         Type = 0x91
	TypeNodeIdentificationIndicator Type = 0x95
	TypeRemoteATCommandResponse     Type = 0x97
)

// String returns string representation of Type
func (t Type) String() string {
	switch t {
	case TypeATCommand:
		return "ATCommand"
	case TypeATCommandQueueParam:
		return "ATCommandQueueParam"
	case TypeTransmitRequest:
		return "TransmitRequest"
	case TypeExplicitAddressingCommand:
		return "ExplicitAddressingCommand"
	case TypeRemoteATCommandRequest:
		return "RemoteATCommandRequest"
	case TypeATCommandResponse:
		return "ATCommandResponse"
	case TypeModemStatus:
		return "ModemStatus"
	case TypeTransmitStatus:
		return "TransmitStatus"
	case TypeReceivePacket:
		return "ReceivePacket"
	case TypeExplicitRxIndicator:
		return "ExplicitRxIndicator"
	case TypeNodeIdentificationIndicator:
		return "NodeIdentificationIndicator"
	case TypeRemoteATCommandResponse:
		return "RemoteATCommandResponse"
	default:
		return "Unknown"
	}
}

// CommandStatus is the status byte of an AT command response.
type CommandStatus byte

const (
	StatusOk               CommandStatus = 0x00
	StatusError            CommandStatus = 0x01
	StatusInvalidCommand   CommandStatus = 0x02
	StatusInvalidParameter CommandStatus = 0x03
	StatusTxFailure        CommandStatus = 0x04
)

// String returns string representation of CommandStatus
func (s CommandStatus) String() string {
	switch s {
	case StatusOk:
		return "OK"
	case StatusError:
		return "Error"
	case StatusInvalidCommand:
		return "Invalid Command"
	case StatusInvalidParameter:
		return "Invalid Parameter"
	case StatusTxFailure:
		return "Tx Failure"
	default:
		return "Unknown"
	}
}

// ModemStatusValue is the single payload byte of a modem status frame.
type ModemStatusValue byte

const (
	ModemHardwareReset       ModemStatusValue = 0x00
	ModemWatchdogReset       ModemStatusValue = 0x01
	ModemJoinedNetwork       ModemStatusValue = 0x02
	ModemDisassociated       ModemStatusValue = 0x03
	ModemCoordinatorStarted  ModemStatusValue = 0x06
	ModemNetworkSecurityKey  ModemStatusValue = 0x07
	ModemVoltageSupplyLimit  ModemStatusValue = 0x0D
	ModemConfigChangedInJoin ModemStatusValue = 0x11
)

// String returns string representation of ModemStatusValue
func (m ModemStatusValue) String() string {
	switch m {
	case ModemHardwareReset:
		return "Hardware reset"
	case ModemWatchdogReset:
		return "Watchdog timer reset"
	case ModemJoinedNetwork:
		return "Joined network"
	case ModemDisassociated:
		return "Disassociated"
	case ModemCoordinatorStarted:
		return "Coordinator started"
	case ModemNetworkSecurityKey:
		return "Network security key updated"
	case ModemVoltageSupplyLimit:
		return "Voltage supply limit exceeded"
	case ModemConfigChangedInJoin:
		return "Configuration changed while joining"
	default:
		return "Unknown"
	}
}

// Broadcast addressing defaults.
const (
	BroadcastAddr64 uint64 = 0x000000000000FFFF
	UnknownAddr16   uint16 = 0xFFFE
)
