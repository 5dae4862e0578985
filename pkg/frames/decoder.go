package frames

// Decode validates a complete candidate frame (start marker through checksum)
// and decodes it into its typed variant. A checksum mismatch returns a
// *ChecksumError and an unrecognized type byte a *UnknownTypeError; neither
// is fatal to the stream.
func Decode(candidate []byte) (Frame, error) {
	if len(candidate) < FrameOverhead+1 {
		return nil, ErrFrameTooShort
	}
	if candidate[0] != StartMarker {
		return nil, ErrInvalidStartMarker
	}

	length := int(getUint16(candidate[1:3]))
	if length > MaxPayloadLen {
		return nil, ErrFrameTooLong
	}
	if len(candidate) != length+FrameOverhead {
		return nil, ErrLengthMismatch
	}

	body := candidate[3 : len(candidate)-1] // type + payload
	want := Checksum(body)
	got := candidate[len(candidate)-1]
	if want != got {
		return nil, &ChecksumError{Want: want, Got: got}
	}

	typ := Type(body[0])
	payload := body[1:]

	switch typ {
	case TypeATCommand, TypeATCommandQueueParam:
		return decodeATCommandRequest(typ, payload)
	case TypeTransmitRequest:
		return decodeTransmitRequest(payload)
	case TypeExplicitAddressingCommand:
		return decodeExplicitAddressingCommand(payload)
	case TypeRemoteATCommandRequest:
		return decodeRemoteATCommandRequest(payload)
	case TypeATCommandResponse:
		return decodeATCommandResponse(payload)
	case TypeModemStatus:
		return decodeModemStatus(payload)
	case TypeTransmitStatus:
		return decodeTransmitStatus(payload)
	case TypeReceivePacket:
		return decodeReceivePacket(payload)
	case TypeExplicitRxIndicator:
		return decodeExplicitRxIndicator(payload)
	case TypeNodeIdentificationIndicator:
		return decodeNodeIdentificationIndicator(payload)
	case TypeRemoteATCommandResponse:
		return decodeRemoteATCommandResponse(payload)
	default:
		return nil, &UnknownTypeError{Type: byte(typ), Payload: clone(payload)}
	}
}

func decodeATCommandRequest(typ Type, p []byte) (Frame, error) {
	if len(p) < 3 {
		return nil, ErrFrameTooShort
	}
	req := ATCommandRequest{
		ID:        p[0],
		Command:   ATCommand(p[1:3]),
		Parameter: clone(p[3:]),
	}
	if typ == TypeATCommandQueueParam {
		return &ATCommandQueueParamRequest{req}, nil
	}
	return &req, nil
}

func decodeTransmitRequest(p []byte) (Frame, error) {
	if len(p) < 13 {
		return nil, ErrFrameTooShort
	}
	return &TransmitRequest{
		ID:              p[0],
		Dest64:          getUint64(p[1:9]),
		Dest16:          getUint16(p[9:11]),
		BroadcastRadius: p[11],
		Options:         p[12],
		Data:            clone(p[13:]),
	}, nil
}

func decodeExplicitAddressingCommand(p []byte) (Frame, error) {
	if len(p) < 19 {
		return nil, ErrFrameTooShort
	}
	return &ExplicitAddressingCommandRequest{
		ID:              p[0],
		Dest64:          getUint64(p[1:9]),
		Dest16:          getUint16(p[9:11]),
		SourceEndpoint:  p[11],
		DestEndpoint:    p[12],
		ClusterID:       getUint16(p[13:15]),
		ProfileID:       getUint16(p[15:17]),
		BroadcastRadius: p[17],
		Options:         p[18],
		Data:            clone(p[19:]),
	}, nil
}

func decodeRemoteATCommandRequest(p []byte) (Frame, error) {
	if len(p) < 14 {
		return nil, ErrFrameTooShort
	}
	return &RemoteATCommandRequest{
		ID:        p[0],
		Dest64:    getUint64(p[1:9]),
		Dest16:    getUint16(p[9:11]),
		Options:   p[11],
		Command:   ATCommand(p[12:14]),
		Parameter: clone(p[14:]),
	}, nil
}

func decodeATCommandResponse(p []byte) (Frame, error) {
	if len(p) < 4 {
		return nil, ErrFrameTooShort
	}
	return &ATCommandResponse{
		ID:      p[0],
		Command: ATCommand(p[1:3]),
		Status:  CommandStatus(p[3]),
		Data:    clone(p[4:]),
	}, nil
}

func decodeModemStatus(p []byte) (Frame, error) {
	if len(p) < 1 {
		return nil, ErrFrameTooShort
	}
	return &ModemStatus{Status: ModemStatusValue(p[0])}, nil
}

func decodeTransmitStatus(p []byte) (Frame, error) {
	if len(p) < 6 {
		return nil, ErrFrameTooShort
	}
	return &TransmitStatus{
		ID:              p[0],
		Dest16:          getUint16(p[1:3]),
		RetryCount:      p[3],
		DeliveryStatus:  p[4],
		DiscoveryStatus: p[5],
	}, nil
}

func decodeReceivePacket(p []byte) (Frame, error) {
	if len(p) < 11 {
		return nil, ErrFrameTooShort
	}
	return &ReceivePacket{
		Src64:   getUint64(p[0:8]),
		Src16:   getUint16(p[8:10]),
		Options: p[10],
		Data:    clone(p[11:]),
	}, nil
}

func decodeExplicitRxIndicator(p []byte) (Frame, error) {
	if len(p) < 17 {
		return nil, ErrFrameTooShort
	}
	return &ExplicitRxIndicator{
		Src64:          getUint64(p[0:8]),
		Src16:          getUint16(p[8:10]),
		SourceEndpoint: p[10],
		DestEndpoint:   p[11],
		ClusterID:      getUint16(p[12:14]),
		ProfileID:      getUint16(p[14:16]),
		Options:        p[16],
		Data:           clone(p[17:]),
	}, nil
}

func decodeNodeIdentificationIndicator(p []byte) (Frame, error) {
	if len(p) < 11 {
		return nil, ErrFrameTooShort
	}
	return &NodeIdentificationIndicator{
		Src64:   getUint64(p[0:8]),
		Src16:   getUint16(p[8:10]),
		Options: p[10],
		Raw:     clone(p[11:]),
	}, nil
}

func decodeRemoteATCommandResponse(p []byte) (Frame, error) {
	if len(p) < 14 {
		return nil, ErrFrameTooShort
	}
	return &RemoteATCommandResponse{
		ID:      p[0],
		Src64:   getUint64(p[1:9]),
		Src16:   getUint16(p[9:11]),
		Command: ATCommand(p[11:13]),
		Status:  CommandStatus(p[13]),
		Data:    clone(p[14:]),
	}, nil
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
