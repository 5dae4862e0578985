package xbee

import (
	"context"
	"testing"

	"avalon/xbee-go/pkg/channel"
	"avalon/xbee-go/pkg/radio"
)

// idleTransport is a Transport that never produces data
type idleTransport struct{}

func (idleTransport) Read(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (idleTransport) Write(ctx context.Context, data []byte) error { return nil }

func (idleTransport) Flush() error { return nil }

func (idleTransport) Close() error { return nil }

func (idleTransport) Statistics() channel.TransportStats { return channel.TransportStats{} }

func (idleTransport) SetConnectionStateListener(listener channel.ConnectionStateListener) {}

func TestManager_AddRemoveRadio(t *testing.T) {
	m := NewManagerWithLogger(nil)

	r, err := m.AddRadio("north", radio.Config{SkipStartupCheck: true}, nil, idleTransport{})
	if err != nil {
		t.Fatalf("AddRadio() error = %v", err)
	}
	if r == nil {
		t.Fatal("AddRadio() returned nil radio")
	}
	if m.RadioCount() != 1 {
		t.Errorf("RadioCount() = %d, want 1", m.RadioCount())
	}

	if _, err := m.AddRadio("north", radio.Config{SkipStartupCheck: true}, nil, idleTransport{}); err == nil {
		t.Error("duplicate AddRadio() succeeded, want error")
	}

	got, ok := m.GetRadio("north")
	if !ok || got != r {
		t.Errorf("GetRadio(north) = %v, %v", got, ok)
	}

	if err := m.RemoveRadio("north"); err != nil {
		t.Errorf("RemoveRadio() error = %v", err)
	}
	if err := m.RemoveRadio("north"); err == nil {
		t.Error("second RemoveRadio() succeeded, want error")
	}
	if m.RadioCount() != 0 {
		t.Errorf("RadioCount() = %d, want 0", m.RadioCount())
	}
}

func TestManager_Shutdown(t *testing.T) {
	m := NewManagerWithLogger(nil)

	for _, id := range []string{"a", "b", "c"} {
		if _, err := m.AddRadio(id, radio.Config{SkipStartupCheck: true}, nil, idleTransport{}); err != nil {
			t.Fatalf("AddRadio(%s) error = %v", id, err)
		}
	}

	if err := m.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if m.RadioCount() != 0 {
		t.Errorf("RadioCount() after shutdown = %d, want 0", m.RadioCount())
	}
}
