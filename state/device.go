package state

import "sync"

// DeviceState is the last state reported by the device's physical switch.
type DeviceState string

const (
	On      DeviceState = "on"
	Off     DeviceState = "off"
	Unknown DeviceState = "unknown"
)

// Known reports whether s is one of the canonical states.
func (s DeviceState) Known() bool {
	switch s {
	case On, Off, Unknown:
		return true
	}
	return false
}

func (s DeviceState) String() string {
	return string(s)
}

// Store holds the state of exactly one device.
type Store interface {
	Get() DeviceState
	Set(DeviceState)
}

// MemoryStore is a single-slot Store. It lives as long as the process does.
type MemoryStore struct {
	mu    sync.RWMutex
	state DeviceState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: Unknown}
}

func (m *MemoryStore) Get() DeviceState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == "" {
		return Unknown
	}
	return m.state
}

func (m *MemoryStore) Set(s DeviceState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
