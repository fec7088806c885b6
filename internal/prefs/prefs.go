// Package prefs implements the key-value stores the engine reads its
// configuration from and writes every change back to.
package prefs

import (
	"strconv"
	"sync"
)

// MemoryStore keeps values in a map. It is the default store and the base of
// FileStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Int returns the value stored under key, or def when it is missing or not
// an integer.
func (s *MemoryStore) Int(key string, def int) int {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *MemoryStore) SetInt(key string, value int) {
	s.set(key, strconv.Itoa(value))
}

func (s *MemoryStore) String(key string, def string) string {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	return raw
}

func (s *MemoryStore) SetString(key string, value string) {
	s.set(key, value)
}

func (s *MemoryStore) Bool(key string, def bool) bool {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *MemoryStore) SetBool(key string, value bool) {
	s.set(key, strconv.FormatBool(value))
}

// Contains reports whether key has a value.
func (s *MemoryStore) Contains(key string) bool {
	_, ok := s.get(key)
	return ok
}

// Remove deletes key.
func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *MemoryStore) snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
