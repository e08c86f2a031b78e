package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// FileStore keeps commitments in a single JSON file.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	rows   []wbs.Commitment
}

// NewFile creates a FileStore backed by path. The file is read lazily.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read commitments: %w", err)
	}

	rows, err := wbs.ParseCommitmentsJSON(data)
	if err != nil {
		return fmt.Errorf("parse commitments %s: %w", s.path, err)
	}
	s.rows = rows
	s.loaded = true
	return nil
}

func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create commitments dir: %w", err)
	}
	data, err := json.MarshalIndent(s.rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal commitments: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

// List returns the session's commitments in the order they were recorded.
// An empty sessionID returns every commitment in the file.
func (s *FileStore) List(_ context.Context, sessionID string) ([]wbs.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	var out []wbs.Commitment
	for _, c := range s.rows {
		if sessionID == "" || c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Record appends c and persists the file.
func (s *FileStore) Record(_ context.Context, c wbs.Commitment) (wbs.Commitment, error) {
	c, err := normalize(c)
	if err != nil {
		return wbs.Commitment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return wbs.Commitment{}, err
	}
	s.rows = append(s.rows, c)
	if err := s.save(); err != nil {
		s.rows = s.rows[:len(s.rows)-1]
		return wbs.Commitment{}, err
	}
	return c, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
