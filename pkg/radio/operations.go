package radio

import (
	"strconv"

	"avalon/xbee-go/pkg/frames"
	"avalon/xbee-go/pkg/stream"
)

// Broadcast sends text to every node in range
func (r *Radio) Broadcast(text string) error {
	return r.SendAsync(frames.NewTransmitRequest([]byte(text)))
}

// Unicast sends text to the node with the given 64-bit address
func (r *Radio) Unicast(dest64 uint64, text string) error {
	req := frames.NewTransmitRequest([]byte(text))
	req.Dest64 = dest64
	req.Dest16 = frames.UnknownAddr16
	return r.SendAsync(req)
}

// SendRaw writes bytes straight to the transport without framing. Only
// meaningful in transparent mode, where the radio interprets the byte stream
// itself.
func (r *Radio) SendRaw(data []byte) error {
	if r.Mode() != stream.ModeTransparent {
		return ErrWrongMode
	}
	return r.write(data)
}

// LoadAddressingProperties queries every tracked addressing parameter.
// Queries go out asynchronously in a fixed order; responses update the cache
// as they arrive and fire OnParameterChanged per parameter.
func (r *Radio) LoadAddressingProperties() error {
	for _, cmd := range frames.AddressingCommands {
		if err := r.SendAsync(frames.NewATCommandRequest(cmd, nil)); err != nil {
			return err
		}
	}
	return nil
}

// DiscoverNodes issues a node discovery. Results arrive as AT command
// responses to ND over the discovery window, one per responding node.
func (r *Radio) DiscoverNodes() error {
	return r.SendAsync(frames.NewATCommandRequest(frames.ATND, nil))
}

// setNumericParam sends a parameter set with the value rendered as decimal
// text, which the radio accepts for all numeric registers.
func (r *Radio) setNumericParam(cmd frames.ATCommand, value uint64) error {
	return r.SendAsync(frames.NewATCommandRequest(cmd, strconv.AppendUint(nil, value, 10)))
}

// SetDH sets the destination address high word
func (r *Radio) SetDH(v uint32) error { return r.setNumericParam(frames.ATDH, uint64(v)) }

// SetDL sets the destination address low word
func (r *Radio) SetDL(v uint32) error { return r.setNumericParam(frames.ATDL, uint64(v)) }

// SetMY sets the 16-bit source address
func (r *Radio) SetMY(v uint16) error { return r.setNumericParam(frames.ATMY, uint64(v)) }

// SetMP sets the 16-bit parent address
func (r *Radio) SetMP(v uint16) error { return r.setNumericParam(frames.ATMP, uint64(v)) }

// SetNC sets the remaining children count
func (r *Radio) SetNC(v uint32) error { return r.setNumericParam(frames.ATNC, uint64(v)) }

// SetSH sets the serial number high word
func (r *Radio) SetSH(v uint32) error { return r.setNumericParam(frames.ATSH, uint64(v)) }

// SetSL sets the serial number low word
func (r *Radio) SetSL(v uint32) error { return r.setNumericParam(frames.ATSL, uint64(v)) }

// SetNI sets the node identifier text
func (r *Radio) SetNI(ni string) error {
	return r.SendAsync(frames.NewATCommandRequest(frames.ATNI, []byte(ni)))
}

// SetSE sets the source endpoint
func (r *Radio) SetSE(v uint8) error { return r.setNumericParam(frames.ATSE, uint64(v)) }

// SetDE sets the destination endpoint
func (r *Radio) SetDE(v uint8) error { return r.setNumericParam(frames.ATDE, uint64(v)) }

// SetCI sets the cluster identifier
func (r *Radio) SetCI(v uint8) error { return r.setNumericParam(frames.ATCI, uint64(v)) }

// SetTO sets the transmit options
func (r *Radio) SetTO(v uint8) error { return r.setNumericParam(frames.ATTO, uint64(v)) }

// SetNP sets the maximum RF payload size
func (r *Radio) SetNP(v uint16) error { return r.setNumericParam(frames.ATNP, uint64(v)) }

// SetDD sets the device type identifier
func (r *Radio) SetDD(v uint32) error { return r.setNumericParam(frames.ATDD, uint64(v)) }

// SetCR sets the conflict report count
func (r *Radio) SetCR(v uint8) error { return r.setNumericParam(frames.ATCR, uint64(v)) }

// QueueDH stages a destination high word change without applying it. Queued
// changes take effect on the next AC or applied set.
func (r *Radio) QueueDH(v uint32) error {
	return r.SendAsync(frames.NewATCommandQueueParamRequest(frames.ATDH,
		strconv.AppendUint(nil, uint64(v), 10)))
}

// QueueDL stages a destination low word change without applying it
func (r *Radio) QueueDL(v uint32) error {
	return r.SendAsync(frames.NewATCommandQueueParamRequest(frames.ATDL,
		strconv.AppendUint(nil, uint64(v), 10)))
}

// RemoteATCommand sends an AT command to a remote radio. The response
// arrives as a RemoteATCommandResponse callback.
func (r *Radio) RemoteATCommand(dest64 uint64, cmd frames.ATCommand, parameter []byte) error {
	return r.SendAsync(frames.NewRemoteATCommandRequest(dest64, cmd, parameter))
}
