package store

import (
	"context"
	"errors"
	"sync"
)

// Backend is a durable key-value primitive. Writes must be complete when Set returns.
type Backend interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Memory is an in-process Backend. It is used by tests and by the "memory" driver.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// Failures makes the next N calls to Set fail with ErrInjected.
	Failures int
	// GetErr, if set, is returned by every Get.
	GetErr error
	// Writes counts successful calls to Set.
	Writes int
}

// ErrInjected is the error returned by Memory when Failures is positive.
var ErrInjected = errors.New("injected write failure")

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Failures > 0 {
		m.Failures--
		return ErrInjected
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.Writes++
	return nil
}

func (m *Memory) Close() error { return nil }
