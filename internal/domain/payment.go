package domain

import (
	"encoding/json"
	"time"
)

// PaymentTypeStoreOrder tags transactions that settle a store order.
const PaymentTypeStoreOrder = "store_order"

// PaymentTransaction records a settled card payment.
type PaymentTransaction struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Reference        string          `json:"reference"`
	Amount           int64           `json:"amount"`
	Currency         Currency        `json:"currency"`
	Status           string          `json:"status"`
	PaymentType      string          `json:"paymentType"`
	RelatedID        string          `json:"relatedId"`
	ProviderResponse json.RawMessage `json:"providerResponse,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Stats summarises the store for the administrator dashboard.
type Stats struct {
	Orders         int   `json:"orders"`
	RevenueNGN     int64 `json:"revenueNgn"`
	Products       int   `json:"products"`
	ActiveUsers    int   `json:"activeUsers"`
	SuspendedUsers int   `json:"suspendedUsers"`
}
