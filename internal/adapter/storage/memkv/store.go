// Package memkv provides an in-memory KeyValueStore for tests and for
// running without a platform storage backend. Contents are lost on exit.
package memkv

import (
	"sync"

	"github.com/sargamapp/sargam/internal/ports"
)

// Store is a thread-safe in-memory key-value store.
type Store struct {
	mu      sync.RWMutex
	strings map[string]string
	ints    map[string]int
	bools   map[string]bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		strings: make(map[string]string),
		ints:    make(map[string]int),
		bools:   make(map[string]bool),
	}
}

// String returns the value for key, or "" when absent.
func (s *Store) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strings[key]
}

// StringWithFallback returns the value for key, or fallback when absent.
func (s *Store) StringWithFallback(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.strings[key]; ok {
		return v
	}
	return fallback
}

// SetString stores a string value.
func (s *Store) SetString(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strings[key] = value
}

// Int returns the value for key, or 0 when absent.
func (s *Store) Int(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ints[key]
}

// SetInt stores an integer value.
func (s *Store) SetInt(key string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints[key] = value
}

// Bool returns the value for key, or false when absent.
func (s *Store) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bools[key]
}

// BoolWithFallback returns the value for key, or fallback when absent.
func (s *Store) BoolWithFallback(key string, fallback bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.bools[key]; ok {
		return v
	}
	return fallback
}

// SetBool stores a boolean value.
func (s *Store) SetBool(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bools[key] = value
}

// RemoveValue deletes a key from all typed maps.
func (s *Store) RemoveValue(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.strings, key)
	delete(s.ints, key)
	delete(s.bools, key)
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
