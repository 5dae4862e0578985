package radio

import (
	"testing"

	"avalon/xbee-go/pkg/frames"
)

func TestBeUint(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0},
		{"one byte", []byte{0x1A}, 26},
		{"two bytes", []byte{0x12, 0x34}, 0x1234},
		{"four bytes", []byte{0x00, 0x13, 0xA2, 0x00}, 0x0013A200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := beUint(tt.data); got != tt.want {
				t.Errorf("beUint(% X) = 0x%X, want 0x%X", tt.data, got, tt.want)
			}
		})
	}
}

func TestAddressingState_ApplyAllParameters(t *testing.T) {
	a := NewAddressingState()

	apply := func(cmd frames.ATCommand, data []byte) {
		t.Helper()
		rsp := &frames.ATCommandResponse{Command: cmd, Status: frames.StatusOk, Data: data}
		if _, ok := a.Apply(rsp); !ok {
			t.Fatalf("Apply(%s) not accepted", cmd)
		}
	}

	apply(frames.ATDH, []byte{0x00, 0x13, 0xA2, 0x00})
	apply(frames.ATDL, []byte{0x40, 0xA0, 0x12, 0x34})
	apply(frames.ATMY, []byte{0xAB, 0xCD})
	apply(frames.ATMP, []byte{0xFF, 0xFE})
	apply(frames.ATNC, []byte{0x0A})
	apply(frames.ATSH, []byte{0x00, 0x13, 0xA2, 0x00})
	apply(frames.ATSL, []byte{0x41, 0x52, 0x63, 0x74})
	apply(frames.ATNI, []byte("GATEWAY"))
	apply(frames.ATSE, []byte{0xE8})
	apply(frames.ATDE, []byte{0xE8})
	apply(frames.ATCI, []byte{0x11})
	apply(frames.ATTO, []byte{0x40})
	apply(frames.ATNP, []byte{0x01, 0x00})
	apply(frames.ATDD, []byte{0x00, 0x03, 0x00, 0x00})
	apply(frames.ATCR, []byte{0x03})

	if a.DestinationAddress() != 0x0013A20040A01234 {
		t.Errorf("DestinationAddress() = 0x%016X, want 0x0013A20040A01234", a.DestinationAddress())
	}
	if a.SerialNumber() != 0x0013A20041526374 {
		t.Errorf("SerialNumber() = 0x%016X, want 0x0013A20041526374", a.SerialNumber())
	}
	if a.MY() != 0xABCD {
		t.Errorf("MY() = 0x%X, want 0xABCD", a.MY())
	}
	if a.MP() != 0xFFFE {
		t.Errorf("MP() = 0x%X, want 0xFFFE", a.MP())
	}
	if a.NC() != 10 {
		t.Errorf("NC() = %d, want 10", a.NC())
	}
	if a.NI() != "GATEWAY" {
		t.Errorf("NI() = %q, want GATEWAY", a.NI())
	}
	if a.SE() != 0xE8 || a.DE() != 0xE8 {
		t.Errorf("SE/DE = 0x%X/0x%X, want 0xE8/0xE8", a.SE(), a.DE())
	}
	if a.CI() != 0x11 || a.TO() != 0x40 || a.CR() != 3 {
		t.Errorf("CI/TO/CR = 0x%X/0x%X/%d, want 0x11/0x40/3", a.CI(), a.TO(), a.CR())
	}
	if a.NP() != 256 {
		t.Errorf("NP() = %d, want 256", a.NP())
	}
	if a.DD() != 0x00030000 {
		t.Errorf("DD() = 0x%X, want 0x00030000", a.DD())
	}
}

func TestAddressingState_SubscribeFiresPerMutation(t *testing.T) {
	a := NewAddressingState()

	var values []ParamValue
	a.Subscribe(frames.ATDH, func(v ParamValue) { values = append(values, v) })

	ok := &frames.ATCommandResponse{Command: frames.ATDH, Status: frames.StatusOk, Data: []byte{0x1A}}
	a.Apply(ok)
	a.Apply(ok) // same value again still counts as a mutation

	rejected := &frames.ATCommandResponse{Command: frames.ATDH, Status: frames.StatusError, Data: []byte{0xFF}}
	a.Apply(rejected)

	other := &frames.ATCommandResponse{Command: frames.ATDL, Status: frames.StatusOk, Data: []byte{0x01}}
	a.Apply(other)

	if len(values) != 2 {
		t.Fatalf("handler fired %d times, want 2", len(values))
	}
	for i, v := range values {
		if v.Uint != 26 {
			t.Errorf("notification %d = %v, want 26", i, v)
		}
	}
}

func TestAddressingState_UntrackedCommandIgnored(t *testing.T) {
	a := NewAddressingState()

	rsp := &frames.ATCommandResponse{Command: frames.ATHV, Status: frames.StatusOk, Data: []byte{0x17}}
	if _, ok := a.Apply(rsp); ok {
		t.Error("Apply(HV) accepted, HV is not an addressing parameter")
	}
}
