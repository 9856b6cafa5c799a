package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/MikeMC777/cafe-ecom/internal/storage"
)

var (
	ErrNotFound = errors.New("order not found")
)

// loadHistory reads the order history inside tx, newest first. A malformed
// stored history is treated as empty.
func loadHistory(ctx context.Context, tx storage.Tx) ([]Order, error) {
	var hist []Order
	_, err := storage.GetJSON(ctx, tx, storage.OrderHistoryKey, &hist)
	if storage.IsDecodeError(err) {
		log.Printf("[orders] stored history is malformed, treating as empty: %v", err)
		return nil, nil
	}
	return hist, err
}

func saveHistory(ctx context.Context, tx storage.Tx, hist []Order) error {
	if hist == nil {
		hist = []Order{}
	}
	return storage.PutJSON(ctx, tx, storage.OrderHistoryKey, hist)
}

func readHistory(ctx context.Context, store storage.Store) ([]Order, error) {
	raw, err := store.Get(ctx, storage.OrderHistoryKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	var hist []Order
	if err := json.Unmarshal(raw, &hist); err != nil {
		log.Printf("[orders] stored history is malformed, treating as empty: %v", err)
		return []Order{}, nil
	}
	if hist == nil {
		hist = []Order{}
	}
	return hist, nil
}

func numberSet(hist []Order) map[string]bool {
	set := make(map[string]bool, len(hist))
	for _, o := range hist {
		set[o.NoOrder] = true
	}
	return set
}
