package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-ecom/internal/cart"
)

// Status is a display field. Any member of the set can be set from any
// other; nothing enforces a workflow.
type Status string

const (
	StatusPending      Status = "Pending"
	StatusWaiting      Status = "Waiting"
	StatusOnProgress   Status = "On Progress"
	StatusDone         Status = "Done"
	StatusSendingGoods Status = "Sending Goods"
	StatusFinishOrder  Status = "Finish Order"

	// InitialStatus is what checkout stamps on a new order.
	InitialStatus = StatusOnProgress
)

// CustomerStages are the steps a customer can filter their history on.
var CustomerStages = []Status{StatusOnProgress, StatusSendingGoods, StatusFinishOrder}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusWaiting, StatusOnProgress, StatusDone, StatusSendingGoods, StatusFinishOrder:
		return true
	}
	return false
}

type Shipping string

const (
	ShippingDineIn       Shipping = "Dine In"
	ShippingDoorDelivery Shipping = "Door Delivery"
	ShippingPickUp       Shipping = "Pick Up"
)

func (s Shipping) Valid() bool {
	switch s {
	case ShippingDineIn, ShippingDoorDelivery, ShippingPickUp:
		return true
	}
	return false
}

const PaymentCash = "Cash"

// Form is the customer data captured by the checkout form.
// swagger:model CheckoutForm
type Form struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Address  string `json:"address"  binding:"required"`
	Phone    string `json:"phone"`
}

// Totals are computed once at checkout and frozen into the order.
type Totals struct {
	OrderTotal  decimal.Decimal `json:"orderTotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	SubTotal    decimal.Decimal `json:"subTotal"`
}

// Order is an immutable snapshot of a checked-out cart. Only Status may
// change afterwards, and only through the admin path.
// swagger:model Order
type Order struct {
	NoOrder       string      `json:"noOrder"`
	DateOrder     time.Time   `json:"dateOrder"`
	Owner         string      `json:"owner"`
	FullName      string      `json:"fullName"`
	Email         string      `json:"email"`
	Address       string      `json:"address"`
	Phone         string      `json:"phone,omitempty"`
	PaymentMethod string      `json:"paymentMethod"`
	Shipping      Shipping    `json:"shipping"`
	Status        Status      `json:"status"`
	ListOrders    []cart.Line `json:"listOrders"`

	OrderTotal       decimal.Decimal `json:"orderTotal"`
	DeliveryFee      decimal.Decimal `json:"deliveryFee"`
	Tax              decimal.Decimal `json:"tax"`
	TotalTransaction decimal.Decimal `json:"totalTransaction"`
}

// Build assembles a new order. lines are deep-copied so later changes to
// the cart cannot reach the order.
func Build(owner string, lines []cart.Line, form Form, shipping Shipping, totals Totals, now time.Time, number string) Order {
	return Order{
		NoOrder:          number,
		DateOrder:        now,
		Owner:            owner,
		FullName:         form.FullName,
		Email:            form.Email,
		Address:          form.Address,
		Phone:            form.Phone,
		PaymentMethod:    PaymentCash,
		Shipping:         shipping,
		Status:           InitialStatus,
		ListOrders:       cart.CloneLines(lines),
		OrderTotal:       totals.OrderTotal,
		DeliveryFee:      totals.DeliveryFee,
		Tax:              totals.Tax,
		TotalTransaction: totals.SubTotal,
	}
}

func (o Order) Clone() Order {
	o.ListOrders = cart.CloneLines(o.ListOrders)
	return o
}

// ItemCount is the number of units in the order.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.ListOrders {
		n += l.Quantity
	}
	return n
}
