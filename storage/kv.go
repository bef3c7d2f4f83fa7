// Package storage provides the small key-value store backing persisted
// client state, keyed the way browser local storage is.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is a minimal key-value store. Get reports a miss with ok=false;
// absent keys are never errors.
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}

// FileKV persists all keys in a single JSON object file.
type FileKV struct {
	path string

	mu      sync.Mutex
	entries map[string]json.RawMessage
	loaded  bool
}

// NewFileKV creates a file-backed store at path. The file is created
// lazily on first Set.
func NewFileKV(path string) (*FileKV, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	return &FileKV{path: path}, nil
}

// Get returns the stored value for key. A missing file or an unparsable
// file is treated as an empty store, not a failure.
func (s *FileKV) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, false, err
	}
	raw, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

// Set stores value under key and flushes the whole store to disk. The
// write goes through a temp file and rename so a crash never leaves a
// half-written store behind.
func (s *FileKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	s.entries[key] = json.RawMessage(value)

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if err := ensureDir(s.path); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (s *FileKV) loadLocked() error {
	if s.loaded {
		return nil
	}
	s.entries = make(map[string]json.RawMessage)
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store: %w", err)
	}
	// An unparsable store file is a cache miss for every key.
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err == nil {
		s.entries = entries
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return nil
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{entries: make(map[string][]byte)}
}

// Get returns the stored value for key.
func (s *MemKV) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores value under key.
func (s *MemKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = stored
	return nil
}
