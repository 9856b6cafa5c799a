package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-ecom/internal/cart"
	"github.com/MikeMC777/cafe-ecom/internal/config"
)

type Pricing struct {
	TaxRate      decimal.Decimal
	DeliveryFees map[Shipping]decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate: decimal.RequireFromString("0.1"),
		DeliveryFees: map[Shipping]decimal.Decimal{
			ShippingDineIn:       decimal.Zero,
			ShippingPickUp:       decimal.Zero,
			ShippingDoorDelivery: decimal.NewFromInt(10000),
		},
	}
}

// PricingFrom overlays a pricing file on the defaults.
func PricingFrom(pf config.PricingFile) (Pricing, error) {
	p := DefaultPricing()
	if pf.TaxRate != "" {
		rate, err := decimal.NewFromString(pf.TaxRate)
		if err != nil {
			return p, fmt.Errorf("tax_rate: %w", err)
		}
		if rate.IsNegative() {
			return p, fmt.Errorf("tax_rate: must not be negative")
		}
		p.TaxRate = rate
	}
	for name, raw := range pf.DeliveryFees {
		sh := Shipping(name)
		if !sh.Valid() {
			return p, fmt.Errorf("delivery_fees: unknown shipping %q", name)
		}
		fee, err := decimal.NewFromString(raw)
		if err != nil {
			return p, fmt.Errorf("delivery_fees[%s]: %w", name, err)
		}
		p.DeliveryFees[sh] = fee
	}
	return p, nil
}

// Quote computes the checkout totals for lines shipped with sh.
func (p Pricing) Quote(lines []cart.Line, sh Shipping) Totals {
	orderTotal := decimal.Zero
	for _, l := range lines {
		orderTotal = orderTotal.Add(l.Subtotal())
	}
	fee := p.DeliveryFees[sh]
	tax := orderTotal.Mul(p.TaxRate).Round(2)
	return Totals{
		OrderTotal:  orderTotal,
		DeliveryFee: fee,
		Tax:         tax,
		SubTotal:    orderTotal.Add(fee).Add(tax),
	}
}
