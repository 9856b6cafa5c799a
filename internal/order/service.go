// Package order turns a cart into an immutable order, keeps the order
// history (newest first) and lets the back office move order statuses.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/MikeMC777/cafe-ecom/internal/cart"
	"github.com/MikeMC777/cafe-ecom/internal/storage"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidShipping = errors.New("invalid shipping method")
)

// Routing keys of the events the service emits.
const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, v any) error
}

type Notifier interface {
	Notify(owner string, v any)
}

// StatusEvent is what subscribers receive when an order moves.
type StatusEvent struct {
	NoOrder string `json:"noOrder"`
	Owner   string `json:"owner"`
	Status  Status `json:"status"`
	From    Status `json:"from,omitempty"`
}

type Service struct {
	store   storage.Store
	pricing Pricing
	numbers *Numberer
	now     func() time.Time
	pub     Publisher
	notify  Notifier
}

type Option func(*Service)

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithNumberer(n *Numberer) Option { return func(s *Service) { s.numbers = n } }

// WithPublisher sends order events to a broker after each commit.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.pub = p } }

// WithNotifier pushes order events to the owner's live connections.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notify = n } }

func NewService(store storage.Store, pricing Pricing, opts ...Option) *Service {
	s := &Service{
		store:   store,
		pricing: pricing,
		numbers: NewNumberer(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Pricing() Pricing { return s.pricing }

// Quote prices owner's current cart without checking out.
func (s *Service) Quote(ctx context.Context, owner string, sh Shipping) (Totals, error) {
	if !sh.Valid() {
		return Totals{}, ErrInvalidShipping
	}
	var t Totals
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		c, err := cart.Load(ctx, tx, owner)
		if err != nil {
			return err
		}
		t = s.pricing.Quote(c.Lines, sh)
		return nil
	})
	return t, err
}

// Checkout records owner's cart as a new order and empties the cart in the
// same store transaction: either both happen or neither does.
func (s *Service) Checkout(ctx context.Context, owner string, form Form, sh Shipping) (Order, error) {
	if !sh.Valid() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidShipping, sh)
	}
	var created Order
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		c, err := cart.Load(ctx, tx, owner)
		if err != nil {
			return err
		}
		if c.Empty() {
			return ErrEmptyCart
		}
		hist, err := loadHistory(ctx, tx)
		if err != nil {
			return err
		}
		now := s.now()
		taken := numberSet(hist)
		no, err := s.numbers.Next(now, func(n string) bool { return taken[n] })
		if err != nil {
			return err
		}
		created = Build(owner, c.Lines, form, sh, s.pricing.Quote(c.Lines, sh), now, no)

		hist = append([]Order{created}, hist...)
		if err := saveHistory(ctx, tx, hist); err != nil {
			return err
		}
		c.Clear()
		return cart.Save(ctx, tx, owner, c)
	})
	if err != nil {
		return Order{}, err
	}
	log.Printf("[orders] checkout owner=%s no=%s total=%s items=%d",
		owner, created.NoOrder, created.TotalTransaction, created.ItemCount())
	s.emit(ctx, EventCreated, created.Owner, created)
	return created.Clone(), nil
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return readHistory(ctx, s.store)
}

// ListByOwner returns owner's orders, newest first, optionally only those
// in status.
func (s *Service) ListByOwner(ctx context.Context, owner string, status Status) ([]Order, error) {
	if status != "" && !slices.Contains(CustomerStages, status) {
		return nil, ErrInvalidStatus
	}
	hist, err := readHistory(ctx, s.store)
	if err != nil {
		return nil, err
	}
	out := []Order{}
	for _, o := range hist {
		if o.Owner != owner {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, noOrder string) (Order, error) {
	hist, err := readHistory(ctx, s.store)
	if err != nil {
		return Order{}, err
	}
	for _, o := range hist {
		if o.NoOrder == noOrder {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

// GetForOwner is Get restricted to owner's own orders.
func (s *Service) GetForOwner(ctx context.Context, owner, noOrder string) (Order, error) {
	o, err := s.Get(ctx, noOrder)
	if err != nil {
		return Order{}, err
	}
	if o.Owner != owner {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// UpdateStatus sets the status of an order. Any status of the set is
// accepted regardless of the current one.
func (s *Service) UpdateStatus(ctx context.Context, noOrder string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var updated Order
	var from Status
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		hist, err := loadHistory(ctx, tx)
		if err != nil {
			return err
		}
		for i := range hist {
			if hist[i].NoOrder == noOrder {
				from = hist[i].Status
				hist[i].Status = status
				updated = hist[i]
				return saveHistory(ctx, tx, hist)
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return Order{}, err
	}
	log.Printf("[orders] status no=%s %s -> %s", noOrder, from, status)
	s.emit(ctx, EventStatusChanged, updated.Owner, StatusEvent{
		NoOrder: updated.NoOrder, Owner: updated.Owner, Status: status, From: from,
	})
	return updated, nil
}

func (s *Service) emit(ctx context.Context, routingKey, owner string, v any) {
	if s.pub != nil {
		if err := s.pub.Publish(ctx, routingKey, v); err != nil {
			log.Printf("[orders] publish %s failed: %v", routingKey, err)
		}
	}
	if s.notify != nil {
		s.notify.Notify(owner, map[string]any{"event": routingKey, "payload": v})
	}
}
