// Package score provides high score stores for the game engine.
package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Lam1900/Snakegame/internal/engine"
)

// FileStore keeps integer values in a small JSON object on disk, keyed
// like browser local storage. Each store reads and writes one key.
type FileStore struct {
	path string
	key  string
	mu   sync.Mutex
}

var _ engine.ScoreStore = (*FileStore)(nil)

// NewFileStore returns a store for key in the JSON file at path. The file
// is created on the first Set.
func NewFileStore(path, key string) *FileStore {
	return &FileStore{path: path, key: key}
}

// Get returns the stored value, or 0 if the file or key does not exist.
func (s *FileStore) Get() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return 0, err
	}
	return values[s.key], nil
}

// Set stores score under the key, keeping other keys in the file.
func (s *FileStore) Set(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[s.key] = score
	return s.write(values)
}

func (s *FileStore) read() (map[string]int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read score file: %w", err)
	}
	values := map[string]int{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode score file %s: %w", s.path, err)
	}
	return values, nil
}

// write replaces the file atomically so a crash never leaves it truncated.
func (s *FileStore) write(values map[string]int) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".scores-*")
	if err != nil {
		return fmt.Errorf("write score file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write score file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write score file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write score file: %w", err)
	}
	return nil
}

// MemoryStore keeps the score in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	value int
}

var _ engine.ScoreStore = (*MemoryStore)(nil)

// Get returns the last value set.
func (m *MemoryStore) Get() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

// Set replaces the value.
func (m *MemoryStore) Set(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = score
	return nil
}
