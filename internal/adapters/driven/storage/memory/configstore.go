package memory

import (
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps configuration in a plain map. Tests use it where the
// TOML file store would drag in a real home directory.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates an empty in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: make(map[string]any)}
}

// Get retrieves a raw value and whether the key exists.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString retrieves a string value, or "" when absent or mistyped.
func (s *ConfigStore) GetString(key string) string {
	return typed[string](s, key)
}

// GetInt retrieves an int value, converting the numeric types the TOML
// store can produce. Absent or mistyped keys yield 0.
func (s *ConfigStore) GetInt(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetBool retrieves a bool value, or false when absent or mistyped.
func (s *ConfigStore) GetBool(key string) bool {
	return typed[bool](s, key)
}

// GetStringSlice retrieves a string slice, tolerating []any elements.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Set stores a value. Takes effect immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save is a no-op; the store has no backing file.
func (s *ConfigStore) Save() error { return nil }

// Load is a no-op; the store has no backing file.
func (s *ConfigStore) Load() error { return nil }

// Path identifies the store in log output.
func (s *ConfigStore) Path() string { return ":memory:" }

func typed[T any](s *ConfigStore, key string) T {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero
	}
	if t, ok := v.(T); ok {
		return t
	}
	return zero
}
