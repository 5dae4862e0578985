package frames

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

// TestChecksum tests checksum computation over type+payload bytes
func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{
			name: "Empty",
			data: nil,
			want: 0xFF,
		},
		{
			name: "NI query",
			data: []byte{0x08, 0x01, 0x4E, 0x49},
			want: 0x5F,
		},
		{
			name: "Wraps modulo 256",
			data: []byte{0xFF, 0xFF, 0x02},
			want: 0xFF - 0x00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum() = 0x%02X, want 0x%02X", got, tt.want)
			}
		})
	}
}

// TestEncode_NIQuery tests the exact wire bytes of an NI query with frame ID 1
func TestEncode_NIQuery(t *testing.T) {
	req := NewATCommandRequest(ATNI, nil)
	req.SetFrameID(0x01)

	got := Encode(req)
	want := []byte{0x7E, 0x00, 0x04, 0x08, 0x01, 0x4E, 0x49, 0x5F}

	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

// TestEncode_Layout tests length field and checksum consistency
func TestEncode_Layout(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{"AT command query", NewATCommandRequest(ATDH, nil)},
		{"AT command set", NewATCommandRequest(ATDL, []byte("1234"))},
		{"Queued AT command", NewATCommandQueueParamRequest(ATNI, []byte("NODE"))},
		{"Broadcast transmit", NewTransmitRequest([]byte("hello"))},
		{"Explicit addressing", NewExplicitAddressingCommandRequest([]byte{0xDE, 0xAD})},
		{"Remote AT command", NewRemoteATCommandRequest(0x0013A20040A12345, ATNI, nil)},
		{"Large payload", NewTransmitRequest(make([]byte, 300))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Encode(tt.frame)

			if data[0] != StartMarker {
				t.Errorf("start marker = 0x%02X, want 0x%02X", data[0], StartMarker)
			}

			length := int(data[1])<<8 | int(data[2])
			if length != len(data)-FrameOverhead {
				t.Errorf("length field = %d, want %d", length, len(data)-FrameOverhead)
			}

			if data[3] != byte(tt.frame.Type()) {
				t.Errorf("type byte = 0x%02X, want 0x%02X", data[3], byte(tt.frame.Type()))
			}

			cs := Checksum(data[3 : len(data)-1])
			if data[len(data)-1] != cs {
				t.Errorf("checksum byte = 0x%02X, want 0x%02X", data[len(data)-1], cs)
			}
		})
	}
}

// TestDecode_RoundTrip tests decode(encode(frame)) == frame for every variant
func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{
			name: "ATCommandRequest",
			frame: &ATCommandRequest{
				ID: 0x52, Command: ATDH, Parameter: []byte{0x31, 0x41},
			},
		},
		{
			name: "ATCommandQueueParamRequest",
			frame: &ATCommandQueueParamRequest{ATCommandRequest{
				ID: 0x01, Command: ATNI, Parameter: []byte("SENSOR-3"),
			}},
		},
		{
			name: "TransmitRequest",
			frame: &TransmitRequest{
				ID: 0x11, Dest64: 0x0013A20040A12345, Dest16: 0xFFFE,
				BroadcastRadius: 0x00, Options: 0x00, Data: []byte("payload"),
			},
		},
		{
			name: "ExplicitAddressingCommandRequest",
			frame: &ExplicitAddressingCommandRequest{
				ID: 0x22, Dest64: BroadcastAddr64, Dest16: UnknownAddr16,
				SourceEndpoint: 0xE8, DestEndpoint: 0xE8,
				ClusterID: 0x0011, ProfileID: 0xC105,
				BroadcastRadius: 0x00, Options: 0x00, Data: []byte{0x01},
			},
		},
		{
			name: "RemoteATCommandRequest",
			frame: &RemoteATCommandRequest{
				ID: 0x33, Dest64: 0x0013A2004052C507, Dest16: UnknownAddr16,
				Options: RemoteATCommandOptionApplyChanges,
				Command: ATDL, Parameter: []byte{0xFF, 0xFF},
			},
		},
		{
			name: "ATCommandResponse",
			frame: &ATCommandResponse{
				ID: 0x52, Command: ATDH, Status: StatusOk, Data: []byte{0x1A},
			},
		},
		{
			name:  "ModemStatus",
			frame: &ModemStatus{Status: ModemJoinedNetwork},
		},
		{
			name: "TransmitStatus",
			frame: &TransmitStatus{
				ID: 0x11, Dest16: 0x7D84, RetryCount: 2,
				DeliveryStatus: 0x00, DiscoveryStatus: 0x02,
			},
		},
		{
			name: "ReceivePacket",
			frame: &ReceivePacket{
				Src64: 0x0013A20040522BAA, Src16: 0x7D84,
				Options: 0x01, Data: []byte("RxData"),
			},
		},
		{
			name: "ExplicitRxIndicator",
			frame: &ExplicitRxIndicator{
				Src64: 0x0013A20040522BAA, Src16: 0x7D84,
				SourceEndpoint: 0xE0, DestEndpoint: 0xE0,
				ClusterID: 0x0022, ProfileID: 0xC105,
				Options: 0x01, Data: []byte{0x52, 0x78},
			},
		},
		{
			name: "NodeIdentificationIndicator",
			frame: &NodeIdentificationIndicator{
				Src64: 0x0013A20040522BAA, Src16: 0x7D84,
				Options: 0x02, Raw: []byte{0x7D, 0x84, 0x00, 0x13, 0xA2},
			},
		},
		{
			name: "RemoteATCommandResponse",
			frame: &RemoteATCommandResponse{
				ID: 0x55, Src64: 0x0013A2004052C507, Src16: 0x7D84,
				Command: ATSL, Status: StatusOk, Data: []byte{0x40, 0x52, 0xC5, 0x07},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Encode(tt.frame)

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if decoded.Type() != tt.frame.Type() {
				t.Errorf("Type() = %v, want %v", decoded.Type(), tt.frame.Type())
			}
			if !reflect.DeepEqual(decoded, tt.frame) {
				t.Errorf("Decode() = %+v, want %+v", decoded, tt.frame)
			}
		})
	}
}

// TestDecode_ChecksumMismatch tests that mutating any single byte of the
// frame body causes a checksum error
func TestDecode_ChecksumMismatch(t *testing.T) {
	req := NewATCommandRequest(ATNI, []byte("NODE"))
	req.SetFrameID(0x07)
	data := Encode(req)

	// Mutate each type/payload byte in turn.
	for i := 3; i < len(data)-1; i++ {
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[i] ^= 0x20

		_, err := Decode(mutated)

		var csErr *ChecksumError
		if !errors.As(err, &csErr) {
			t.Errorf("byte %d: Decode() error = %v, want *ChecksumError", i, err)
		}
	}
}

// TestDecode_InvalidFrames tests decoding of malformed candidates
func TestDecode_InvalidFrames(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "Too short",
			data:    []byte{0x7E, 0x00, 0x01},
			wantErr: ErrFrameTooShort,
		},
		{
			name:    "Missing start marker",
			data:    []byte{0x42, 0x00, 0x01, 0x8A, 0x75},
			wantErr: ErrInvalidStartMarker,
		},
		{
			name:    "Declared length too long",
			data:    []byte{0x7E, 0x00, 0x05, 0x8A, 0x02, 0x73},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "Declared length too short",
			data:    []byte{0x7E, 0x00, 0x01, 0x8A, 0x02, 0x73},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "Declared length implausible",
			data:    []byte{0x7E, 0xFF, 0xFF, 0x8A, 0x75},
			wantErr: ErrFrameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDecode_UnknownType tests that an unrecognized type byte is reported
// with its raw type and payload
func TestDecode_UnknownType(t *testing.T) {
	body := []byte{0xEE, 0x01, 0x02, 0x03}
	data := []byte{0x7E, 0x00, 0x04}
	data = append(data, body...)
	data = append(data, Checksum(body))

	_, err := Decode(data)

	var unknownErr *UnknownTypeError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Decode() error = %v, want *UnknownTypeError", err)
	}
	if unknownErr.Type != 0xEE {
		t.Errorf("Type = 0x%02X, want 0xEE", unknownErr.Type)
	}
	if !bytes.Equal(unknownErr.Payload, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("Payload = % X, want 01 02 03", unknownErr.Payload)
	}
}

// TestTransmitRequest_Defaults tests broadcast addressing defaults
func TestTransmitRequest_Defaults(t *testing.T) {
	req := NewTransmitRequest([]byte("x"))

	if req.Dest64 != BroadcastAddr64 {
		t.Errorf("Dest64 = 0x%016X, want broadcast", req.Dest64)
	}
	if req.Dest16 != UnknownAddr16 {
		t.Errorf("Dest16 = 0x%04X, want 0xFFFE", req.Dest16)
	}
}

// BenchmarkEncode benchmarks frame encoding
func BenchmarkEncode(b *testing.B) {
	req := NewTransmitRequest(make([]byte, 100))
	req.SetFrameID(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(req)
	}
}

// BenchmarkDecode benchmarks frame decoding
func BenchmarkDecode(b *testing.B) {
	req := NewTransmitRequest(make([]byte, 100))
	req.SetFrameID(1)
	data := Encode(req)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(data)
	}
}
