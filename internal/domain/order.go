package domain

import (
	"strings"
	"time"
)

type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency defaults to NGN when s is blank.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(CurrencyNGN):
		return CurrencyNGN, nil
	case string(CurrencyUSD):
		return CurrencyUSD, nil
	default:
		return "", Invalid("unsupported currency %q", s)
	}
}

// Channel is the external handoff used to complete an order.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelCard     Channel = "card"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	case ChannelCard, "paystack":
		return ChannelCard, nil
	default:
		return "", Invalid("unsupported payment method %q", s)
	}
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status an administrator may assign, in workflow order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	v := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range OrderStatuses {
		if st == v {
			return v, nil
		}
	}
	return "", Invalid("unknown order status %q", s)
}

type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "pending"
	PaymentWhatsAppPending PaymentStatus = "whatsapp_pending"
	PaymentCompleted       PaymentStatus = "completed"
	PaymentConfirmed       PaymentStatus = "confirmed"
)

// PaymentStatusFor returns the payment status implied by an administrator
// moving an order to status. ok is false when the payment status is untouched.
func PaymentStatusFor(status OrderStatus) (PaymentStatus, bool) {
	switch status {
	case OrderConfirmed:
		return PaymentConfirmed, true
	case OrderDelivered:
		return PaymentCompleted, true
	}
	return "", false
}

// Order is a persisted purchase. Orders are never deleted.
type Order struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId"`
	Reference        string        `json:"reference"`
	Currency         Currency      `json:"currency"`
	TotalNGN         int64         `json:"totalNgn"`
	TotalUSD         int64         `json:"totalUsd"`
	DeliveryAddress  string        `json:"deliveryAddress"`
	DeliveryPhone    string        `json:"deliveryPhone"`
	DeliveryNotes    string        `json:"deliveryNotes,omitempty"`
	Channel          Channel       `json:"paymentMethod"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PaymentDate      *time.Time    `json:"paymentDate,omitempty"`
	IdempotencyKey   *string       `json:"-"`
	AuthorizationURL string        `json:"-"`
	Lines            []OrderLine   `json:"items"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`

	// Populated on administrator listings.
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// Total returns the order total in its checkout currency.
func (o Order) Total() int64 {
	if o.Currency == CurrencyUSD {
		return o.TotalUSD
	}
	return o.TotalNGN
}

// OrderLine freezes a product's name and price at order time.
type OrderLine struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId"`
	Position     int    `json:"position"`
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Unit         string `json:"unit"`
	Quantity     int    `json:"quantity"`
	UnitPriceNGN int64  `json:"unitPriceNgn"`
	UnitPriceUSD int64  `json:"unitPriceUsd"`
	SubtotalNGN  int64  `json:"subtotalNgn"`
	SubtotalUSD  int64  `json:"subtotalUsd"`
}

// LineFromCart freezes a cart line into an order line.
func LineFromCart(l CartLine) OrderLine {
	return OrderLine{
		ProductID:    l.ProductID,
		ProductName:  l.Product.Name,
		Unit:         l.Product.Unit,
		Quantity:     l.Quantity,
		UnitPriceNGN: l.Product.PriceNGN,
		UnitPriceUSD: l.Product.PriceUSD,
		SubtotalNGN:  l.Subtotal(CurrencyNGN),
		SubtotalUSD:  l.Subtotal(CurrencyUSD),
	}
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID string
	Status OrderStatus
	Search string
}
