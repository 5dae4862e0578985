package frames

// ATCommandResponse answers a local AT command request (0x88).
type ATCommandResponse struct {
	ID      uint8
	Command ATCommand
	Status  CommandStatus
	Data    []byte
}

// Type returns the frame type
func (f *ATCommandResponse) Type() Type { return TypeATCommandResponse }

// Payload returns the serialized payload (frame type byte excluded)
func (f *ATCommandResponse) Payload() []byte {
	p := make([]byte, 0, 4+len(f.Data))
	p = append(p, f.ID)
	p = append(p, f.Command...)
	p = append(p, byte(f.Status))
	return append(p, f.Data...)
}

// FrameID returns the correlation identifier
func (f *ATCommandResponse) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *ATCommandResponse) SetFrameID(id uint8) { f.ID = id }

// Ok reports whether the radio accepted the command.
func (f *ATCommandResponse) Ok() bool { return f.Status == StatusOk }

// ModemStatus is an unsolicited radio state notification (0x8A).
type ModemStatus struct {
	Status ModemStatusValue
}

// Type returns the frame type
func (f *ModemStatus) Type() Type { return TypeModemStatus }

// Payload returns the serialized payload (frame type byte excluded)
func (f *ModemStatus) Payload() []byte { return []byte{byte(f.Status)} }

// TransmitStatus reports the outcome of a transmit request (0x8B).
type TransmitStatus struct {
	ID              uint8
	Dest16          uint16
	RetryCount      uint8
	DeliveryStatus  uint8
	DiscoveryStatus uint8
}

// Type returns the frame type
func (f *TransmitStatus) Type() Type { return TypeTransmitStatus }

// Payload returns the serialized payload (frame type byte excluded)
func (f *TransmitStatus) Payload() []byte {
	p := make([]byte, 6)
	p[0] = f.ID
	putUint16(p[1:3], f.Dest16)
	p[3] = f.RetryCount
	p[4] = f.DeliveryStatus
	p[5] = f.DiscoveryStatus
	return p
}

// FrameID returns the correlation identifier
func (f *TransmitStatus) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *TransmitStatus) SetFrameID(id uint8) { f.ID = id }

// Delivered reports whether the radio acknowledged delivery.
func (f *TransmitStatus) Delivered() bool { return f.DeliveryStatus == 0x00 }

// ReceivePacket carries data received from a remote node (0x90).
type ReceivePacket struct {
	Src64   uint64
	Src16   uint16
	Options uint8
	Data    []byte
}

// Type returns the frame type
func (f *ReceivePacket) Type() Type { return TypeReceivePacket }

// Payload returns the serialized payload (frame type byte excluded)
func (f *ReceivePacket) Payload() []byte {
	p := make([]byte, 11, 11+len(f.Data))
	putUint64(p[0:8], f.Src64)
	putUint16(p[8:10], f.Src16)
	p[10] = f.Options
	return append(p, f.Data...)
}

// ExplicitRxIndicator carries data received with explicit application layer
// addressing (0x91).
type ExplicitRxIndicator struct {
	Src64          uint64
	Src16          uint16
	SourceEndpoint uint8
	DestEndpoint   uint8
	ClusterID      uint16
	ProfileID      uint16
	Options        uint8
	Data           []byte
}

// Type returns the frame type
func (f *ExplicitRxIndicator) Type() Type { return TypeExplicitRxIndicator }

// Payload returns the serialized payload (frame type byte excluded)
func (f *ExplicitRxIndicator) Payload() []byte {
	p := make([]byte, 17, 17+len(f.Data))
	putUint64(p[0:8], f.Src64)
	putUint16(p[8:10], f.Src16)
	p[10] = f.SourceEndpoint
	p[11] = f.DestEndpoint
	putUint16(p[12:14], f.ClusterID)
	putUint16(p[14:16], f.ProfileID)
	p[16] = f.Options
	return append(p, f.Data...)
}

// NodeIdentificationIndicator announces a node joining or identifying itself
// (0x95). Everything past the receive options is kept opaque; deep decoding
// of the discovery payload is left to a parser registered by the
// application.
type NodeIdentificationIndicator struct {
	Src64   uint64
	Src16   uint16
	Options uint8
	Raw     []byte
}

// Type returns the frame type
func (f *NodeIdentificationIndicator) Type() Type { return TypeNodeIdentificationIndicator }

// Payload returns the serialized payload (frame type byte excluded)
func (f *NodeIdentificationIndicator) Payload() []byte {
	p := make([]byte, 11, 11+len(f.Raw))
	putUint64(p[0:8], f.Src64)
	putUint16(p[8:10], f.Src16)
	p[10] = f.Options
	return append(p, f.Raw...)
}

// RemoteATCommandResponse answers a remote AT command request (0x97).
type RemoteATCommandResponse struct {
	ID      uint8
	Src64   uint64
	Src16   uint16
	Command ATCommand
	Status  CommandStatus
	Data    []byte
}

// Type returns the frame type
func (f *RemoteATCommandResponse) Type() Type { return TypeRemoteATCommandResponse }

// Payload returns the serialized payload (frame type byte excluded)
func (f *RemoteATCommandResponse) Payload() []byte {
	p := make([]byte, 11, 14+len(f.Data))
	p[0] = f.ID
	putUint64(p[1:9], f.Src64)
	putUint16(p[9:11], f.Src16)
	p = append(p, f.Command...)
	p = append(p, byte(f.Status))
	return append(p, f.Data...)
}

// FrameID returns the correlation identifier
func (f *RemoteATCommandResponse) FrameID() uint8 { return f.ID }

// SetFrameID sets the correlation identifier
func (f *RemoteATCommandResponse) SetFrameID(id uint8) { f.ID = id }

// Ok reports whether the remote radio accepted the command.
func (f *RemoteATCommandResponse) Ok() bool { return f.Status == StatusOk }
