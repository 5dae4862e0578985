package radio

import (
	"fmt"
	"sync"

	"avalon/xbee-go/pkg/frames"
)

// ParamValue is the decoded value of one addressing parameter. Numeric
// parameters carry Uint; the node identifier carries Text.
type ParamValue struct {
	Uint uint32
	Text string
}

// String returns string representation of the value
func (v ParamValue) String() string {
	if v.Text != "" {
		return v.Text
	}
	return fmt.Sprintf("0x%X", v.Uint)
}

// beUint interprets the payload bytes of a response as a big-endian unsigned
// integer. Values wider than 32 bits are truncated to the low word, which
// never happens for the parameters tracked here.
func beUint(data []byte) uint32 {
	var v uint32
	for _, b := range data {
		v = v<<8 | uint32(b)
	}
	return v
}

// AddressingState caches the local radio's addressing parameters. Fields are
// mutated only from successful AT command responses; queries and sets both
// land here because the radio echoes the parameter value either way.
type AddressingState struct {
	mu sync.RWMutex

	observers map[frames.ATCommand][]func(ParamValue)

	dh, dl uint32 // destination address
	my, mp uint16 // 16-bit source and parent addresses
	nc     uint32 // remaining children
	sh, sl uint32 // serial number
	ni     string // node identifier text
	se, de uint8  // endpoints
	ci     uint8  // cluster identifier
	to     uint8  // transmit options
	np     uint16 // maximum RF payload
	dd     uint32 // device type identifier
	cr     uint8  // conflict report
}

// NewAddressingState creates an empty parameter cache
func NewAddressingState() *AddressingState {
	return &AddressingState{
		observers: make(map[frames.ATCommand][]func(ParamValue)),
	}
}

// Subscribe registers a handler invoked once per mutation of the given
// parameter, after the field is updated. Handlers run on the read loop
// goroutine and must not block.
func (a *AddressingState) Subscribe(cmd frames.ATCommand, fn func(ParamValue)) {
	a.mu.Lock()
	a.observers[cmd] = append(a.observers[cmd], fn)
	a.mu.Unlock()
}

// Apply updates the cache from an AT command response. It mutates nothing
// unless the response status is Ok and the command names a tracked
// parameter. The returned value reflects the stored field after mutation;
// subscribed handlers fire once per mutation.
func (a *AddressingState) Apply(rsp *frames.ATCommandResponse) (ParamValue, bool) {
	if !rsp.Ok() {
		return ParamValue{}, false
	}

	value, ok := a.apply(rsp)
	if !ok {
		return ParamValue{}, false
	}

	a.mu.RLock()
	handlers := a.observers[rsp.Command]
	a.mu.RUnlock()
	for _, fn := range handlers {
		fn(value)
	}

	return value, true
}

func (a *AddressingState) apply(rsp *frames.ATCommandResponse) (ParamValue, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch rsp.Command {
	case frames.ATNI:
		a.ni = string(rsp.Data)
		return ParamValue{Text: a.ni}, true
	case frames.ATDH:
		a.dh = beUint(rsp.Data)
		return ParamValue{Uint: a.dh}, true
	case frames.ATDL:
		a.dl = beUint(rsp.Data)
		return ParamValue{Uint: a.dl}, true
	case frames.ATMY:
		a.my = uint16(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.my)}, true
	case frames.ATMP:
		a.mp = uint16(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.mp)}, true
	case frames.ATNC:
		a.nc = beUint(rsp.Data)
		return ParamValue{Uint: a.nc}, true
	case frames.ATSH:
		a.sh = beUint(rsp.Data)
		return ParamValue{Uint: a.sh}, true
	case frames.ATSL:
		a.sl = beUint(rsp.Data)
		return ParamValue{Uint: a.sl}, true
	case frames.ATSE:
		a.se = uint8(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.se)}, true
	case frames.ATDE:
		a.de = uint8(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.de)}, true
	case frames.ATCI:
		a.ci = uint8(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.ci)}, true
	case frames.ATTO:
		a.to = uint8(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.to)}, true
	case frames.ATNP:
		a.np = uint16(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.np)}, true
	case frames.ATDD:
		a.dd = beUint(rsp.Data)
		return ParamValue{Uint: a.dd}, true
	case frames.ATCR:
		a.cr = uint8(beUint(rsp.Data))
		return ParamValue{Uint: uint32(a.cr)}, true
	default:
		return ParamValue{}, false
	}
}

// DH returns the destination address high word
func (a *AddressingState) DH() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.dh }

// DL returns the destination address low word
func (a *AddressingState) DL() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.dl }

// MY returns the 16-bit source address
func (a *AddressingState) MY() uint16 { a.mu.RLock(); defer a.mu.RUnlock(); return a.my }

// MP returns the 16-bit parent address
func (a *AddressingState) MP() uint16 { a.mu.RLock(); defer a.mu.RUnlock(); return a.mp }

// NC returns the number of remaining children
func (a *AddressingState) NC() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.nc }

// SH returns the serial number high word
func (a *AddressingState) SH() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.sh }

// SL returns the serial number low word
func (a *AddressingState) SL() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.sl }

// NI returns the node identifier text
func (a *AddressingState) NI() string { a.mu.RLock(); defer a.mu.RUnlock(); return a.ni }

// SE returns the source endpoint
func (a *AddressingState) SE() uint8 { a.mu.RLock(); defer a.mu.RUnlock(); return a.se }

// DE returns the destination endpoint
func (a *AddressingState) DE() uint8 { a.mu.RLock(); defer a.mu.RUnlock(); return a.de }

// CI returns the cluster identifier
func (a *AddressingState) CI() uint8 { a.mu.RLock(); defer a.mu.RUnlock(); return a.ci }

// TO returns the transmit options
func (a *AddressingState) TO() uint8 { a.mu.RLock(); defer a.mu.RUnlock(); return a.to }

// NP returns the maximum RF payload size
func (a *AddressingState) NP() uint16 { a.mu.RLock(); defer a.mu.RUnlock(); return a.np }

// DD returns the device type identifier
func (a *AddressingState) DD() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a.dd }

// CR returns the conflict report count
func (a *AddressingState) CR() uint8 { a.mu.RLock(); defer a.mu.RUnlock(); return a.cr }

// SerialNumber returns the 64-bit serial number assembled from SH and SL
func (a *AddressingState) SerialNumber() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return uint64(a.sh)<<32 | uint64(a.sl)
}

// DestinationAddress returns the 64-bit destination assembled from DH and DL
func (a *AddressingState) DestinationAddress() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return uint64(a.dh)<<32 | uint64(a.dl)
}
