package frames

// ATCommandRequest queries or sets a parameter on the local radio (0x08).
type ATCommandRequest struct {
	ID        uint8
	Command   ATCommand
	Parameter []byte
}

// NewATCommandRequest creates an AT command request. A nil parameter queries
// the current value; a non-nil parameter sets it.
func NewATCommandRequest(cmd ATCommand, parameter []byte) *ATCommandRequest {
	return &ATCommandRequest{Command: cmd, Parameter: parameter}
}

// Type returns the frame type
func (f *ATCommandRequest) Type() Type { return TypeATCommand }

// Payload returns the serialized payload (frame type byte excluded)
func (f *ATCommandRequest) Payload() []byte {
	p := make([]byte, 0, 3+len(f.Parameter))
	p = append(p, f.ID)
	p = append(p, f.Command...)
	p = append(p, f.Parameter...)
	return p
}

// FrameID returns the correlation identifier
func (f *ATCommandRequest) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *ATCommandRequest) SetFrameID(id uint8) { f.ID = id }

// ATCommandQueueParamRequest queues a parameter change without applying it
// until an AC command or applicable set follows (0x09). Same layout as 0x08.
type ATCommandQueueParamRequest struct {
	ATCommandRequest
}

// NewATCommandQueueParamRequest creates a queued AT command request.
func NewATCommandQueueParamRequest(cmd ATCommand, parameter []byte) *ATCommandQueueParamRequest {
	return &ATCommandQueueParamRequest{ATCommandRequest{Command: cmd, Parameter: parameter}}
}

// Type returns the frame type
func (f *ATCommandQueueParamRequest) Type() Type { return TypeATCommandQueueParam }

// TransmitRequest sends data to a remote node (0x10). The zero value of the
// addressing fields is not meaningful; use NewTransmitRequest for broadcast
// defaults.
type TransmitRequest struct {
	ID              uint8
	Dest64          uint64
	Dest16          uint16
	BroadcastRadius uint8
	Options         uint8
	Data            []byte
}

// NewTransmitRequest creates a transmit request addressed to the broadcast
// address. Set Dest64 for a unicast.
func NewTransmitRequest(data []byte) *TransmitRequest {
	return &TransmitRequest{
		Dest64: BroadcastAddr64,
		Dest16: UnknownAddr16,
		Data:   data,
	}
}

// Type returns the frame type
func (f *TransmitRequest) Type() Type { return TypeTransmitRequest }

// Payload returns the serialized payload (frame type byte excluded)
func (f *TransmitRequest) Payload() []byte {
	p := make([]byte, 13, 13+len(f.Data))
	p[0] = f.ID
	putUint64(p[1:9], f.Dest64)
	putUint16(p[9:11], f.Dest16)
	p[11] = f.BroadcastRadius
	p[12] = f.Options
	return append(p, f.Data...)
}

// FrameID returns the correlation identifier
func (f *TransmitRequest) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *TransmitRequest) SetFrameID(id uint8) { f.ID = id }

// ExplicitAddressingCommandRequest sends data with explicit application
// layer addressing (0x11).
type ExplicitAddressingCommandRequest struct {
	ID              uint8
	Dest64          uint64
	Dest16          uint16
	SourceEndpoint  uint8
	DestEndpoint    uint8
	ClusterID       uint16
	ProfileID       uint16
	BroadcastRadius uint8
	Options         uint8
	Data            []byte
}

// NewExplicitAddressingCommandRequest creates an explicit addressing request
// with broadcast destination defaults.
func NewExplicitAddressingCommandRequest(data []byte) *ExplicitAddressingCommandRequest {
	return &ExplicitAddressingCommandRequest{
		Dest64: BroadcastAddr64,
		Dest16: UnknownAddr16,
		Data:   data,
	}
}

// Type returns the frame type
func (f *ExplicitAddressingCommandRequest) Type() Type { return TypeExplicitAddressingCommand }

// Payload returns the serialized payload (frame type byte excluded)
func (f *ExplicitAddressingCommandRequest) Payload() []byte {
	p := make([]byte, 19, 19+len(f.Data))
	p[0] = f.ID
	putUint64(p[1:9], f.Dest64)
	putUint16(p[9:11], f.Dest16)
	p[11] = f.SourceEndpoint
	p[12] = f.DestEndpoint
	putUint16(p[13:15], f.ClusterID)
	putUint16(p[15:17], f.ProfileID)
	p[17] = f.BroadcastRadius
	p[18] = f.Options
	return append(p, f.Data...)
}

// FrameID returns the correlation identifier
func (f *ExplicitAddressingCommandRequest) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *ExplicitAddressingCommandRequest) SetFrameID(id uint8) { f.ID = id }

// RemoteATCommandOptionApplyChanges applies the change on the remote radio
// immediately instead of queueing it.
const RemoteATCommandOptionApplyChanges uint8 = 0x02

// RemoteATCommandRequest queries or sets a parameter on a remote radio (0x17).
type RemoteATCommandRequest struct {
	ID        uint8
	Dest64    uint64
	Dest16    uint16
	Options   uint8
	Command   ATCommand
	Parameter []byte
}

// NewRemoteATCommandRequest creates a remote AT command request that applies
// changes immediately.
func NewRemoteATCommandRequest(dest64 uint64, cmd ATCommand, parameter []byte) *RemoteATCommandRequest {
	return &RemoteATCommandRequest{
		Dest64:    dest64,
		Dest16:    UnknownAddr16,
		Options:   RemoteATCommandOptionApplyChanges,
		Command:   cmd,
		Parameter: parameter,
	}
}

// Type returns the frame type
func (f *RemoteATCommandRequest) Type() Type { return TypeRemoteATCommandRequest }

// Payload returns the serialized payload (frame type byte excluded)
func (f *RemoteATCommandRequest) Payload() []byte {
	p := make([]byte, 12, 14+len(f.Parameter))
	p[0] = f.ID
	putUint64(p[1:9], f.Dest64)
	putUint16(p[9:11], f.Dest16)
	p[11] = f.Options
	p = append(p, f.Command...)
	return append(p, f.Parameter...)
}

// FrameID returns the correlation identifier
func (f *RemoteATCommandRequest) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *RemoteATCommandRequest) SetFrameID(id uint8) { f.ID = id }
