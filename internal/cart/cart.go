// Package cart holds the shopping cart: lines merged by product and
// variant, totals, and the persisted per-owner cart service.
package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidItem     = errors.New("menuId is required")
)

// Cart is the in-memory state of one owner's cart.
type Cart struct {
	Lines []Line `json:"lines"`

	newID func() string
}

func New() *Cart { return &Cart{} }

func (c *Cart) id() string {
	if c.newID != nil {
		return c.newID()
	}
	return uuid.NewString()
}

// Add folds item into the line with the same menuId, size and hotIce, or
// appends a new line. A merge only grows the quantity; the existing line's
// unit price is kept.
func (c *Cart) Add(item Item) (Line, error) {
	if item.MenuID == "" {
		return Line{}, ErrInvalidItem
	}
	if item.Quantity < 1 {
		return Line{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}
	k := item.key()
	for i := range c.Lines {
		if c.Lines[i].key() == k {
			c.Lines[i].Quantity += item.Quantity
			return c.Lines[i].Clone(), nil
		}
	}
	line := Line{
		CartID:        c.id(),
		MenuID:        item.MenuID,
		Name:          item.Name,
		Image:         item.Image,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice,
		Size:          item.Size,
		HotIce:        item.HotIce,
		Quantity:      item.Quantity,
		IsFlashSale:   item.IsFlashSale,
	}
	line = line.Clone()
	c.Lines = append(c.Lines, line)
	return line.Clone(), nil
}

// Remove drops the line with cartID. Unknown ids are ignored; the return
// value reports whether a line was removed.
func (c *Cart) Remove(cartID string) bool {
	for i := range c.Lines {
		if c.Lines[i].CartID == cartID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() { c.Lines = nil }

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Total is the sum of price*quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
