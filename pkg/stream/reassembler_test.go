package stream

import (
	"bytes"
	"testing"
)

// buildFrame assembles a valid API frame around the given body (type+payload)
func buildFrame(body []byte) []byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	out := []byte{0x7E, byte(len(body) >> 8), byte(len(body))}
	out = append(out, body...)
	return append(out, 0xFF-sum)
}

// TestFeed_SingleFrame tests extraction of one complete frame
func TestFeed_SingleFrame(t *testing.T) {
	frame := buildFrame([]byte{0x8A, 0x02})

	r := NewReassembler(ModeAPI)
	got := r.Feed(frame)

	if len(got) != 1 {
		t.Fatalf("Feed() returned %d candidates, want 1", len(got))
	}
	if !bytes.Equal(got[0], frame) {
		t.Errorf("candidate = % X, want % X", got[0], frame)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", r.Pending())
	}
}

// TestFeed_PartialReads tests that a frame split across feeds is assembled
func TestFeed_PartialReads(t *testing.T) {
	frame := buildFrame([]byte{0x88, 0x01, 0x4E, 0x49, 0x00, 0x4D})

	r := NewReassembler(ModeAPI)
	for i := 0; i < len(frame)-1; i++ {
		if got := r.Feed(frame[i : i+1]); len(got) != 0 {
			t.Fatalf("byte %d: Feed() returned %d candidates, want 0", i, len(got))
		}
	}

	got := r.Feed(frame[len(frame)-1:])
	if len(got) != 1 {
		t.Fatalf("Feed() returned %d candidates, want 1", len(got))
	}
	if !bytes.Equal(got[0], frame) {
		t.Errorf("candidate = % X, want % X", got[0], frame)
	}
}

// TestFeed_NoiseResync tests that arbitrary noise before a start marker is
// discarded and the following frame recovered
func TestFeed_NoiseResync(t *testing.T) {
	tests := []struct {
		name  string
		noise []byte
	}{
		{"Single noise byte", []byte{0x42}},
		{"Several noise bytes", []byte{0x00, 0xFF, 0x13, 0x37}},
		{"Noise ending near marker value", []byte{0x7D, 0x7F}},
	}

	frame := buildFrame([]byte{0x8A, 0x00})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReassembler(ModeAPI)

			input := append(append([]byte{}, tt.noise...), frame...)
			got := r.Feed(input)

			if len(got) != 1 {
				t.Fatalf("Feed() returned %d candidates, want 1", len(got))
			}
			if !bytes.Equal(got[0], frame) {
				t.Errorf("candidate = % X, want % X", got[0], frame)
			}
		})
	}
}

// TestFeed_TwoConcatenatedFrames tests that two back-to-back frames of
// declared lengths 4 and 6 come out as exactly two candidates, in order
func TestFeed_TwoConcatenatedFrames(t *testing.T) {
	frame1 := buildFrame([]byte{0x08, 0x01, 0x4E, 0x49})             // length 4
	frame2 := buildFrame([]byte{0x88, 0x01, 0x4E, 0x49, 0x00, 0x4D}) // length 6

	r := NewReassembler(ModeAPI)
	got := r.Feed(append(append([]byte{}, frame1...), frame2...))

	if len(got) != 2 {
		t.Fatalf("Feed() returned %d candidates, want 2", len(got))
	}
	if !bytes.Equal(got[0], frame1) {
		t.Errorf("candidate 0 = % X, want % X", got[0], frame1)
	}
	if !bytes.Equal(got[1], frame2) {
		t.Errorf("candidate 1 = % X, want % X", got[1], frame2)
	}
}

// TestFeed_LargeFrame tests frames whose declared length exceeds 255, which
// the 8-bit size comparison in older implementations mishandled
func TestFeed_LargeFrame(t *testing.T) {
	body := make([]byte, 301) // type + 300 payload bytes
	body[0] = 0x90
	for i := 1; i < len(body); i++ {
		body[i] = byte(i)
	}
	frame := buildFrame(body)

	r := NewReassembler(ModeAPI)

	// Feed in two chunks so the length check runs on a partial buffer first.
	if got := r.Feed(frame[:100]); len(got) != 0 {
		t.Fatalf("partial Feed() returned %d candidates, want 0", len(got))
	}
	got := r.Feed(frame[100:])

	if len(got) != 1 {
		t.Fatalf("Feed() returned %d candidates, want 1", len(got))
	}
	if !bytes.Equal(got[0], frame) {
		t.Errorf("candidate length = %d, want %d", len(got[0]), len(frame))
	}
}

// TestFeed_ImplausibleLength tests that a marker followed by a nonsense
// length does not wedge the buffer
func TestFeed_ImplausibleLength(t *testing.T) {
	frame := buildFrame([]byte{0x8A, 0x02})

	r := NewReassembler(ModeAPI)

	// 0x7E followed by a declared length of 0xFFFF, then a real frame.
	input := []byte{0x7E, 0xFF, 0xFF}
	input = append(input, frame...)
	got := r.Feed(input)

	if len(got) != 1 {
		t.Fatalf("Feed() returned %d candidates, want 1", len(got))
	}
	if !bytes.Equal(got[0], frame) {
		t.Errorf("candidate = % X, want % X", got[0], frame)
	}
}

// TestFeed_TransparentLines tests transparent-mode line splitting
func TestFeed_TransparentLines(t *testing.T) {
	r := NewReassembler(ModeTransparent)

	got := r.Feed([]byte("OK\rERROR\rpart"))
	if len(got) != 2 {
		t.Fatalf("Feed() returned %d lines, want 2", len(got))
	}
	if !bytes.Equal(got[0], []byte("OK\r")) {
		t.Errorf("line 0 = %q, want %q", got[0], "OK\r")
	}
	if !bytes.Equal(got[1], []byte("ERROR\r")) {
		t.Errorf("line 1 = %q, want %q", got[1], "ERROR\r")
	}

	// The unterminated remainder stays buffered until its terminator.
	if r.Pending() != 4 {
		t.Errorf("Pending() = %d, want 4", r.Pending())
	}
	got = r.Feed([]byte("ial\r"))
	if len(got) != 1 || !bytes.Equal(got[0], []byte("partial\r")) {
		t.Errorf("Feed() = %q, want [partial\\r]", got)
	}
}

// TestSetMode_ClearsBuffer tests that switching discipline drops stale bytes
func TestSetMode_ClearsBuffer(t *testing.T) {
	r := NewReassembler(ModeAPI)
	r.Feed([]byte{0x7E, 0x00}) // incomplete frame

	r.SetMode(ModeTransparent)
	if r.Pending() != 0 {
		t.Errorf("Pending() after SetMode = %d, want 0", r.Pending())
	}
}

// TestFeed_NoiseOnly tests that pure noise produces nothing and is dropped
func TestFeed_NoiseOnly(t *testing.T) {
	r := NewReassembler(ModeAPI)

	got := r.Feed([]byte{0x01, 0x02, 0x03, 0x04})
	if len(got) != 0 {
		t.Fatalf("Feed() returned %d candidates, want 0", len(got))
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 (noise discarded)", r.Pending())
	}
}

// TestFeed_ConcurrentReset tests that resets from another goroutine (a
// transport reconnect) do not corrupt the buffer mid-feed. Run with -race.
func TestFeed_ConcurrentReset(t *testing.T) {
	frame := buildFrame([]byte{0x8A, 0x02})
	r := NewReassembler(ModeAPI)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			r.Reset()
			r.Pending()
		}
	}()

	for i := 0; i < 1000; i++ {
		for _, candidate := range r.Feed(frame) {
			if !bytes.Equal(candidate, frame) {
				t.Errorf("candidate = % X, want % X", candidate, frame)
			}
		}
	}
	<-done

	// The reassembler must still work after the churn.
	r.Reset()
	if got := r.Feed(frame); len(got) != 1 {
		t.Fatalf("Feed() after concurrent resets returned %d candidates, want 1", len(got))
	}
}

// TestSetMode_ConcurrentWithFeed tests mode switches racing a feeder.
// Run with -race.
func TestSetMode_ConcurrentWithFeed(t *testing.T) {
	frame := buildFrame([]byte{0x8A, 0x02})
	r := NewReassembler(ModeAPI)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			r.SetMode(ModeTransparent)
			r.SetMode(ModeAPI)
		}
	}()

	for i := 0; i < 500; i++ {
		r.Feed(frame)
	}
	<-done
}

// BenchmarkFeed benchmarks reassembly of a steady frame stream
func BenchmarkFeed(b *testing.B) {
	frame := buildFrame(append([]byte{0x90}, make([]byte, 100)...))
	r := NewReassembler(ModeAPI)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Feed(frame)
	}
}
