package cart

import "github.com/shopspring/decimal"

// Line is one row of a cart. Name, Image and prices are copied from the
// catalog when the line is created and are not re-synced afterwards.
type Line struct {
	CartID        string           `json:"cartId"`
	MenuID        string           `json:"menuId"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Size          string           `json:"size"`
	HotIce        string           `json:"hotIce"`
	Quantity      int              `json:"quantity"`
	IsFlashSale   bool             `json:"isFlashSale"`
}

// Item is what a caller hands to Add.
// swagger:model CartItem
type Item struct {
	MenuID        string           `json:"menuId"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Size          string           `json:"size"`
	HotIce        string           `json:"hotIce"`
	Quantity      int              `json:"quantity"`
	IsFlashSale   bool             `json:"isFlashSale"`
}

// key is the merge key: lines with equal keys are folded together.
type key struct {
	menuID, size, hotIce string
}

func (l Line) key() key { return key{l.MenuID, l.Size, l.HotIce} }
func (i Item) key() key { return key{i.MenuID, i.Size, i.HotIce} }

// Subtotal is price times quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone returns a copy that shares no pointers with l.
func (l Line) Clone() Line {
	if l.OriginalPrice != nil {
		op := *l.OriginalPrice
		l.OriginalPrice = &op
	}
	return l
}

// CloneLines deep-copies a slice of lines.
func CloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
