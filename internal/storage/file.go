package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the whole key space as one JSON document. Each commit
// rewrites the document through a temp file and a rename, so a crash leaves
// either the old or the new state on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string][]byte
}

func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string][]byte)}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		// a corrupt document must not keep the service from starting
		log.Printf("[storage] %s is malformed, starting empty: %v", path, err)
		return s, nil
	}
	for k, v := range doc {
		s.data[k] = []byte(v)
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *FileStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newStagedTx(s.data)
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	next := make(map[string][]byte, len(s.data)+len(tx.writes))
	for k, v := range s.data {
		next[k] = v
	}
	tx.apply(next)
	if err := s.flush(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *FileStore) flush(data map[string][]byte) error {
	doc := make(map[string]json.RawMessage, len(data))
	for k, v := range data {
		if !json.Valid(v) {
			return fmt.Errorf("value for %s is not valid JSON", k)
		}
		doc[k] = v
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Close() error { return nil }
