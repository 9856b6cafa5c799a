package fetch

import (
	"context"
	"sync"
)

// Result mirrors the {data, isLoading, error} triple a view renders from.
type Result[T any] struct {
	Data      T
	IsLoading bool
	Err       error
}

// Slot runs at most one load per key. Starting a load for a key cancels
// the one in flight, and the superseded call reports ErrSuperseded instead
// of its (stale) result.
type Slot struct {
	mu      sync.Mutex
	seq     uint64
	running map[string]slotEntry
	closed  bool
}

type slotEntry struct {
	id     uint64
	cancel context.CancelFunc
}

func NewSlot() *Slot {
	return &Slot{running: make(map[string]slotEntry)}
}

func (s *Slot) start(ctx context.Context, key string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.running[key]; ok {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	if s.closed {
		cancel()
	}
	s.seq++
	s.running[key] = slotEntry{id: s.seq, cancel: cancel}
	return ctx, s.seq
}

// finish reports whether id is still the current load for key.
func (s *Slot) finish(key string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.running[key]
	if !ok || cur.id != id {
		return false
	}
	cur.cancel()
	delete(s.running, key)
	return !s.closed
}

// Loading reports whether a load for key is in flight.
func (s *Slot) Loading(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[key]
	return ok
}

// Close cancels every in-flight load.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for k, e := range s.running {
		e.cancel()
		delete(s.running, k)
	}
}

// Load runs fn under key on slot s.
func Load[T any](ctx context.Context, s *Slot, key string, fn func(ctx context.Context) (T, error)) Result[T] {
	lctx, id := s.start(ctx, key)
	data, err := fn(lctx)
	if !s.finish(key, id) {
		var zero T
		return Result[T]{Data: zero, Err: ErrSuperseded}
	}
	if err != nil {
		var zero T
		return Result[T]{Data: zero, Err: err}
	}
	return Result[T]{Data: data}
}
