// Package xbee is the top-level entry point: a manager that owns one or
// more radios and global logging controls. Applications that drive a single
// radio can use pkg/radio directly.
package xbee

import (
	"fmt"
	"sync"

	"avalon/xbee-go/pkg/channel"
	"avalon/xbee-go/internal/logger"
	"avalon/xbee-go/pkg/radio"
)

// Manager owns a set of radios keyed by ID, for gateways that front several
// modules at once.
type Manager struct {
	radios map[string]*radio.Radio
	mu     sync.RWMutex
	logger logger.Logger
}

// NewManager creates a manager using the package default logger
func NewManager() *Manager {
	return NewManagerWithLogger(logger.GetDefault())
}

// NewManagerWithLogger creates a manager with a custom logger
func NewManagerWithLogger(log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Manager{
		radios: make(map[string]*radio.Radio),
		logger: log,
	}
}

// AddRadio creates and opens a radio on the given transport. The config's ID
// is overridden by the manager key.
func (m *Manager) AddRadio(id string, config radio.Config, callbacks radio.Callbacks, transport channel.Transport) (*radio.Radio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.radios[id]; exists {
		return nil, fmt.Errorf("radio %s already exists", id)
	}

	config.ID = id
	if config.Logger == nil {
		config.Logger = m.logger
	}

	r := radio.New(config, callbacks, transport)
	if err := r.Open(); err != nil {
		return nil, fmt.Errorf("failed to open radio %s: %w", id, err)
	}

	m.radios[id] = r
	m.logger.Info("Manager: Added radio %s (startup %s)", id, r.StartupState())

	return r, nil
}

// RemoveRadio closes and removes a radio
func (m *Manager) RemoveRadio(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.radios[id]
	if !exists {
		return fmt.Errorf("radio %s not found", id)
	}

	if err := r.Close(); err != nil {
		m.logger.Error("Error closing radio %s: %v", id, err)
	}

	delete(m.radios, id)
	m.logger.Info("Manager: Removed radio %s", id)
	return nil
}

// GetRadio returns a radio by ID
func (m *Manager) GetRadio(id string) (*radio.Radio, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.radios[id]
	return r, exists
}

// RadioCount returns the number of managed radios
func (m *Manager) RadioCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.radios)
}

// Shutdown closes all radios
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Manager: Shutting down")

	for id, r := range m.radios {
		if err := r.Close(); err != nil {
			m.logger.Error("Error closing radio %s: %v", id, err)
		}
	}

	m.radios = make(map[string]*radio.Radio)
	m.logger.Info("Manager: Shutdown complete")
	return nil
}
