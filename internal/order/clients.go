package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/cafe-ecom/internal/cart"
	"github.com/MikeMC777/cafe-ecom/internal/fetch"
	"github.com/MikeMC777/cafe-ecom/internal/userpb"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidVariant  = errors.New("invalid variant")
)

type ProductDTO struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	IsFlashSale   bool             `json:"isFlashSale"`
	Sizes         []string         `json:"sizes"`
	Temperatures  []string         `json:"temperatures"`
	Stock         int              `json:"stock"`
}

type Ext struct {
	Fetch          *fetch.Client
	User           userpb.UserDirectoryClient
	ProductBaseURL string
	// Lookups holds one product lookup per owner and menu item. A newer
	// add-to-cart for the same pair cancels the older one.
	Lookups *fetch.Slot
}

func NewExt(userAddr, productBaseURL string) (*Ext, error) {
	// connection is lazy; the first RPC dials
	conn, err := grpc.NewClient(userAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Ext{
		Fetch:          fetch.NewClient(5 * time.Second),
		User:           userpb.NewUserDirectoryClient(conn),
		ProductBaseURL: productBaseURL,
		Lookups:        fetch.NewSlot(),
	}, nil
}

func (e *Ext) FetchProduct(ctx context.Context, id string) (*ProductDTO, error) {
	var p ProductDTO
	if err := e.Fetch.Get(ctx, fmt.Sprintf("%s/products/%s", e.ProductBaseURL, id), &p); err != nil {
		if fetch.NotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (e *Ext) ValidateUser(ctx context.Context, id string) (bool, error) {
	out, err := e.User.ValidateUser(ctx, wrapperspb.String(id))
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func oneOf(v string, options []string) bool {
	if len(options) == 0 {
		return v == ""
	}
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// CartItem resolves a catalog entry into the cart payload, copying name,
// image and price as they are right now. A flash-sale product is charged
// its discount price and keeps the list price as originalPrice. A lookup
// replaced by a newer one for the same owner and item returns
// fetch.ErrSuperseded.
func (e *Ext) CartItem(ctx context.Context, owner, menuID, size, hotIce string, qty int) (cart.Item, error) {
	if e.Lookups == nil {
		p, err := e.FetchProduct(ctx, menuID)
		if err != nil {
			return cart.Item{}, err
		}
		return ItemFromProduct(p, size, hotIce, qty)
	}
	res := fetch.Load(ctx, e.Lookups, owner+":"+menuID, func(ctx context.Context) (*ProductDTO, error) {
		return e.FetchProduct(ctx, menuID)
	})
	if res.Err != nil {
		return cart.Item{}, res.Err
	}
	return ItemFromProduct(res.Data, size, hotIce, qty)
}

func ItemFromProduct(p *ProductDTO, size, hotIce string, qty int) (cart.Item, error) {
	if !oneOf(size, p.Sizes) {
		return cart.Item{}, fmt.Errorf("%w: size %q", ErrInvalidVariant, size)
	}
	if !oneOf(hotIce, p.Temperatures) {
		return cart.Item{}, fmt.Errorf("%w: hotIce %q", ErrInvalidVariant, hotIce)
	}
	item := cart.Item{
		MenuID:      p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Price:       p.Price,
		Size:        size,
		HotIce:      hotIce,
		Quantity:    qty,
		IsFlashSale: p.IsFlashSale,
	}
	if p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price) {
		orig := p.Price
		item.Price = *p.DiscountPrice
		item.OriginalPrice = &orig
	}
	return item, nil
}
