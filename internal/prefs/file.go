package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore is a MemoryStore persisted as a flat YAML mapping. Every set
// rewrites the file; the last write error is kept for Err.
type FileStore struct {
	*MemoryStore
	path string

	writeMu sync.Mutex
	err     error
}

// OpenFileStore loads path if it exists. A missing file is not an error; it
// is created on the first set.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{MemoryStore: NewMemoryStore(), path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	for k, v := range values {
		s.MemoryStore.set(k, v)
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) SetInt(key string, value int) {
	s.MemoryStore.SetInt(key, value)
	s.flush()
}

func (s *FileStore) SetString(key string, value string) {
	s.MemoryStore.SetString(key, value)
	s.flush()
}

func (s *FileStore) SetBool(key string, value bool) {
	s.MemoryStore.SetBool(key, value)
	s.flush()
}

func (s *FileStore) Remove(key string) {
	s.MemoryStore.Remove(key)
	s.flush()
}

// Err returns the error of the most recent write, if it failed.
func (s *FileStore) Err() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.err
}

// Close writes the current values one last time.
func (s *FileStore) Close() error {
	s.flush()
	return s.Err()
}

func (s *FileStore) flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.err = s.write()
}

func (s *FileStore) write() error {
	data, err := yaml.Marshal(s.snapshot())
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
