// Package storage is the durable key/value layer carts and order history
// are persisted to. Every write goes through Update so a group of keys
// commits together or not at all.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("key not found")
	ErrMalformed = errors.New("malformed stored value")
)

// Fixed key namespaces.
const (
	CartPrefix      = "cart:"
	OrderHistoryKey = "orderHistories"
)

func CartKey(owner string) string { return CartPrefix + owner }

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the view of the store inside Update. Writes are only visible to
// other callers once fn returns nil.
type Tx interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes key into v. It reports false when the key is absent.
func GetJSON(ctx context.Context, tx Tx, key string, v any) (bool, error) {
	raw, err := tx.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %s: %w: %w", key, ErrMalformed, err)
	}
	return true, nil
}

func PutJSON(ctx context.Context, tx Tx, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Put(ctx, key, raw)
}

// IsDecodeError reports whether err came from a malformed stored value,
// including errors raised by a field's own UnmarshalJSON.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrMalformed)
}
