package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-ecom/internal/filter"
)

// Product is a menu entry. Sizes and Temperatures list the variants a cart
// line may pick; an empty list means the product has no such variant.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	IsFlashSale   bool             `json:"isFlashSale"`
	Sizes         []string         `json:"sizes"`
	Temperatures  []string         `json:"temperatures"`
	Stock         int              `json:"stock"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// EffectivePrice is what a customer pays for one unit right now.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price) {
		return *p.DiscountPrice
	}
	return p.Price
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Filter filter.State `json:"filter"`
	Meta   filter.Meta  `json:"meta"`
	Items  []Product    `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required" example:"Caffe Latte"`
	Description   string   `json:"description" example:"Espresso with steamed milk"`
	Image         string   `json:"image" example:"/img/latte.png"`
	Category      string   `json:"category" binding:"required" example:"coffee"`
	Price         string   `json:"price" binding:"required" example:"25000"`
	DiscountPrice string   `json:"discountPrice" example:"20000"`
	IsFlashSale   bool     `json:"isFlashSale"`
	Sizes         []string `json:"sizes" example:"R,L,XL"`
	Temperatures  []string `json:"temperatures" example:"hot,ice"`
	Stock         int      `json:"stock" binding:"min=0" example:"10"`
}

// UpdateProductRequest payload of partial update. Nil fields are left as
// they are.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Image         *string   `json:"image"`
	Category      *string   `json:"category"`
	Price         *string   `json:"price"`
	DiscountPrice *string   `json:"discountPrice"`
	IsFlashSale   *bool     `json:"isFlashSale"`
	Sizes         *[]string `json:"sizes"`
	Temperatures  *[]string `json:"temperatures"`
	Stock         *int      `json:"stock"`
}

// Apply merges the request into p. An empty discountPrice clears the
// discount.
func (r UpdateProductRequest) Apply(p *Product) error {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Price != nil {
		d, err := decimal.NewFromString(*r.Price)
		if err != nil {
			return ErrInvalidPrice
		}
		p.Price = d
	}
	if r.DiscountPrice != nil {
		if *r.DiscountPrice == "" {
			p.DiscountPrice = nil
		} else {
			d, err := decimal.NewFromString(*r.DiscountPrice)
			if err != nil {
				return ErrInvalidPrice
			}
			p.DiscountPrice = &d
		}
	}
	if r.IsFlashSale != nil {
		p.IsFlashSale = *r.IsFlashSale
	}
	if r.Sizes != nil {
		p.Sizes = *r.Sizes
	}
	if r.Temperatures != nil {
		p.Temperatures = *r.Temperatures
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	return p.Validate()
}

// Build turns a creation request into a Product without an id.
func (r CreateProductRequest) Build() (*Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}
	p := &Product{
		Name:         r.Name,
		Description:  r.Description,
		Image:        r.Image,
		Category:     r.Category,
		Price:        price,
		IsFlashSale:  r.IsFlashSale,
		Sizes:        r.Sizes,
		Temperatures: r.Temperatures,
		Stock:        r.Stock,
	}
	if r.DiscountPrice != "" {
		d, err := decimal.NewFromString(r.DiscountPrice)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		p.DiscountPrice = &d
	}
	return p, p.Validate()
}

func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return ErrInvalidProduct
	case p.Category == "":
		return ErrInvalidProduct
	case p.Price.IsNegative():
		return ErrInvalidPrice
	case p.DiscountPrice != nil && p.DiscountPrice.IsNegative():
		return ErrInvalidPrice
	case p.Stock < 0:
		return ErrInvalidStock
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Temperatures == nil {
		p.Temperatures = []string{}
	}
	return nil
}
