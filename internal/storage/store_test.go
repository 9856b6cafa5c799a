package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type note struct {
	Text string `json:"text"`
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := OpenFileStore(filepath.Join(t.TempDir(), "nested", "store.json"))
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	return map[string]Store{"memory": NewMemStore(), "file": fs}
}

func TestUpdate_CommitsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Update(ctx, func(tx Tx) error {
				if err := PutJSON(ctx, tx, "a", note{"one"}); err != nil {
					return err
				}
				return PutJSON(ctx, tx, "b", note{"two"})
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}

			boom := errors.New("boom")
			err = s.Update(ctx, func(tx Tx) error {
				_ = PutJSON(ctx, tx, "a", note{"changed"})
				_ = tx.Delete(ctx, "b")
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("err=%v, want boom", err)
			}

			raw, err := s.Get(ctx, "a")
			if err != nil || string(raw) != `{"text":"one"}` {
				t.Fatalf("a=%s err=%v", raw, err)
			}
			if _, err := s.Get(ctx, "b"); err != nil {
				t.Fatalf("b should survive the failed update: %v", err)
			}
		})
	}
}

func TestTx_SeesOwnWrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.Update(ctx, func(tx Tx) error {
				_ = PutJSON(ctx, tx, "k", note{"v"})
				var n note
				found, err := GetJSON(ctx, tx, "k", &n)
				if err != nil || !found || n.Text != "v" {
					t.Fatalf("found=%v n=%+v err=%v", found, n, err)
				}
				_ = tx.Delete(ctx, "k")
				found, err = GetJSON(ctx, tx, "k", &n)
				if err != nil || found {
					t.Fatalf("deleted key still visible: found=%v err=%v", found, err)
				}
				return nil
			})
			if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err=%v, want ErrNotFound", err)
			}
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, func(tx Tx) error { return PutJSON(ctx, tx, CartKey("u1"), []note{{"x"}}) }); err != nil {
		t.Fatal(err)
	}

	again, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := again.Get(ctx, CartKey("u1"))
	if err != nil || string(raw) != `[{"text":"x"}]` {
		t.Fatalf("after reopen: %s %v", raw, err)
	}
}

func TestFileStore_MalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("malformed file must fail open, got %v", err)
	}
	if _, err := s.Get(context.Background(), OrderHistoryKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	_ = s.Update(ctx, func(tx Tx) error { return tx.Put(ctx, "bad", []byte(`{"text":1}`)) })

	_ = s.Update(ctx, func(tx Tx) error {
		var n note
		found, err := GetJSON(ctx, tx, "bad", &n)
		if !found || !IsDecodeError(err) {
			t.Fatalf("found=%v err=%v, want decode error", found, err)
		}
		return nil
	})
}

func TestGetJSON_FieldDecodeError(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	_ = s.Update(ctx, func(tx Tx) error { return tx.Put(ctx, "bad", []byte(`[{"at":"yesterday"}]`)) })

	_ = s.Update(ctx, func(tx Tx) error {
		var rows []struct {
			At time.Time `json:"at"`
		}
		_, err := GetJSON(ctx, tx, "bad", &rows)
		if !IsDecodeError(err) || !errors.Is(err, ErrMalformed) {
			t.Fatalf("err=%v, want ErrMalformed", err)
		}
		return nil
	})
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	if s, err := Open(ctx, "memory", "", nil); err != nil || s == nil {
		t.Fatalf("memory: %v", err)
	}
	if _, err := Open(ctx, "postgres", "", nil); err == nil {
		t.Fatalf("postgres without pool must fail")
	}
	if _, err := Open(ctx, "redis", "", nil); err == nil {
		t.Fatalf("unknown driver must fail")
	}
}
