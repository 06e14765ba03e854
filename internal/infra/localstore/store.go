// Package localstore persists small key-value records to a single JSON file,
// the desktop counterpart of the browser's local storage. Values are opaque
// strings, exactly like localStorage items; records are loaded once on open
// and flushed on every write.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is a file-backed key-value store.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the store at path, creating parent directories as needed.
// A missing or corrupt file yields an empty store; local state is always
// reconstructible, so corruption is treated as "no records".
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	s := &Store{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return []byte(value), true
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = string(value)
	return s.flushLocked()
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	_ = s.flushLocked()
}

// flushLocked writes via a temp file and rename so a crash mid-write cannot
// leave a half-written state file behind.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
