package state

import (
	"sync"
	"testing"
)

// Mock store for checking the interface contract

type MockStore struct {
	state DeviceState
	sets  int
}

func (m *MockStore) Get() DeviceState { return m.state }

func (m *MockStore) Set(s DeviceState) {
	m.state = s
	m.sets++
}

func TestStore_Interface(t *testing.T) {
	var store Store = &MockStore{state: Unknown}

	store.Set(On)
	if store.Get() != On {
		t.Errorf("Get() = %s, expected %s", store.Get(), On)
	}

	var _ Store = NewMemoryStore()
}

func TestMemoryStoreStartsUnknown(t *testing.T) {
	store := NewMemoryStore()

	if store.Get() != Unknown {
		t.Errorf("new store Get() = %s, expected %s", store.Get(), Unknown)
	}

	// zero value behaves the same
	var zero MemoryStore
	if zero.Get() != Unknown {
		t.Errorf("zero store Get() = %s, expected %s", zero.Get(), Unknown)
	}
}

func TestMemoryStoreSetGet(t *testing.T) {
	tests := []struct {
		name  string
		input DeviceState
	}{
		{"On", On},
		{"Off", Off},
		{"Unknown", Unknown},
		{"Verbatim value", DeviceState("half-way")},
	}

	store := NewMemoryStore()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.Set(tt.input)
			if got := store.Get(); got != tt.input {
				t.Errorf("Get() = %s, expected %s", got, tt.input)
			}
			// reads don't consume the value
			if got := store.Get(); got != tt.input {
				t.Errorf("second Get() = %s, expected %s", got, tt.input)
			}
		})
	}
}

func TestDeviceStateKnown(t *testing.T) {
	tests := []struct {
		state    DeviceState
		expected bool
	}{
		{On, true},
		{Off, true},
		{Unknown, true},
		{DeviceState("ON"), false},
		{DeviceState(""), false},
		{DeviceState("dimmed"), false},
	}

	for _, tt := range tests {
		if got := tt.state.Known(); got != tt.expected {
			t.Errorf("DeviceState(%q).Known() = %v, expected %v", string(tt.state), got, tt.expected)
		}
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				store.Set(On)
			} else {
				store.Set(Off)
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Get()
		}()
	}
	wg.Wait()

	if got := store.Get(); got != On && got != Off {
		t.Errorf("after concurrent writes Get() = %s, expected on or off", got)
	}
}
