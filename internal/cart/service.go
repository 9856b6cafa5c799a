package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-ecom/internal/storage"
)

// View is the read model the API returns for a cart.
// swagger:model CartView
type View struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (c *Cart) View() View {
	lines := CloneLines(c.Lines)
	return View{Lines: lines, Total: c.Total(), Count: c.Count()}
}

// Service persists one cart per owner. Every mutation is a single
// read-modify-write inside the store, so a cart survives restarts.
type Service struct {
	store storage.Store
	newID func() string
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// WithIDGenerator overrides how new cart line ids are minted.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	s.newID = fn
	return s
}

// Load reads owner's cart inside tx. A malformed stored cart is treated as
// empty.
func Load(ctx context.Context, tx storage.Tx, owner string) (*Cart, error) {
	var lines []Line
	_, err := storage.GetJSON(ctx, tx, storage.CartKey(owner), &lines)
	if storage.IsDecodeError(err) {
		log.Printf("[cart] owner=%s stored cart is malformed, treating as empty: %v", owner, err)
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return &Cart{Lines: lines}, nil
}

// Save writes owner's cart inside tx.
func Save(ctx context.Context, tx storage.Tx, owner string, c *Cart) error {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return storage.PutJSON(ctx, tx, storage.CartKey(owner), lines)
}

func (s *Service) mutate(ctx context.Context, owner string, fn func(c *Cart) error) error {
	return s.store.Update(ctx, func(tx storage.Tx) error {
		c, err := Load(ctx, tx, owner)
		if err != nil {
			return err
		}
		c.newID = s.newID
		if err := fn(c); err != nil {
			return err
		}
		return Save(ctx, tx, owner, c)
	})
}

// Get returns the current cart of owner.
func (s *Service) Get(ctx context.Context, owner string) (*Cart, error) {
	raw, err := s.store.Get(ctx, storage.CartKey(owner))
	if errors.Is(err, storage.ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		log.Printf("[cart] owner=%s stored cart is malformed, treating as empty: %v", owner, err)
		return New(), nil
	}
	return &Cart{Lines: lines}, nil
}

func (s *Service) Add(ctx context.Context, owner string, item Item) (Line, error) {
	var added Line
	err := s.mutate(ctx, owner, func(c *Cart) error {
		l, err := c.Add(item)
		added = l
		return err
	})
	return added, err
}

func (s *Service) Remove(ctx context.Context, owner, cartID string) (bool, error) {
	var removed bool
	err := s.mutate(ctx, owner, func(c *Cart) error {
		removed = c.Remove(cartID)
		return nil
	})
	return removed, err
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	return s.mutate(ctx, owner, func(c *Cart) error {
		c.Clear()
		return nil
	})
}


