package keystore

import (
	"context"
	"errors"
	"sync"
)

// CredentialKey is the slot holding the API key.
const CredentialKey = "api_key_slot"

// ErrUnsupportedKey is returned by stores that only hold specific slots.
var ErrUnsupportedKey = errors.New("unsupported key")

// Store persists string values between sessions.
type Store interface {
	// Get returns the value for key and whether it is present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

// Writes reports how many Set calls succeeded.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Credential reads the API key slot from s, returning "" when absent.
func Credential(ctx context.Context, s Store) (string, error) {
	v, ok, err := s.Get(ctx, CredentialKey)
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}
