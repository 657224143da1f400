package domain

import "time"

// CartLine is one product in a user's cart. Quantity is always >= 1.
type CartLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subtotal returns unit price times quantity in the given currency.
func (l CartLine) Subtotal(c Currency) int64 {
	return l.Product.Price(c) * int64(l.Quantity)
}

// Cart is the set of lines owned by one user.
type Cart struct {
	UserID   string     `json:"userId"`
	Lines    []CartLine `json:"lines"`
	TotalNGN int64      `json:"totalNgn"`
	TotalUSD int64      `json:"totalUsd"`
}

// NewCart builds a Cart and computes its totals.
func NewCart(userID string, lines []CartLine) Cart {
	c := Cart{UserID: userID, Lines: lines}
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	for _, l := range lines {
		c.TotalNGN += l.Subtotal(CurrencyNGN)
		c.TotalUSD += l.Subtotal(CurrencyUSD)
	}
	return c
}
