package storage

import (
	"context"
	"sync"
)

// MemStore keeps everything in process memory. Used by tests and the
// "memory" driver.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newStagedTx(s.data)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.apply(s.data)
	return nil
}

func (s *MemStore) Close() error { return nil }

// stagedTx buffers writes on top of a base map until apply.
type stagedTx struct {
	base    map[string][]byte
	writes  map[string][]byte
	deletes map[string]bool
}

func newStagedTx(base map[string][]byte) *stagedTx {
	return &stagedTx{
		base:    base,
		writes:  make(map[string][]byte),
		deletes: make(map[string]bool),
	}
}

func (t *stagedTx) Get(ctx context.Context, key string) ([]byte, error) {
	if t.deletes[key] {
		return nil, ErrNotFound
	}
	if v, ok := t.writes[key]; ok {
		return append([]byte(nil), v...), nil
	}
	if v, ok := t.base[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (t *stagedTx) Put(ctx context.Context, key string, value []byte) error {
	delete(t.deletes, key)
	t.writes[key] = append([]byte(nil), value...)
	return nil
}

func (t *stagedTx) Delete(ctx context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = true
	return nil
}

func (t *stagedTx) dirty() bool { return len(t.writes) > 0 || len(t.deletes) > 0 }

func (t *stagedTx) apply(dst map[string][]byte) {
	for k := range t.deletes {
		delete(dst, k)
	}
	for k, v := range t.writes {
		dst[k] = v
	}
}
