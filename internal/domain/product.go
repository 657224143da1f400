package domain

import "time"

// DefaultCategory is assigned to products created without one.
const DefaultCategory = "eggs"

// Product is a catalog item. Prices are minor units (kobo, cents).
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	PriceNGN      int64     `json:"priceNgn"`
	PriceUSD      int64     `json:"priceUsd"`
	Unit          string    `json:"unit"`
	StockQuantity int       `json:"stockQuantity"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Price returns the unit price in the given currency.
func (p Product) Price(c Currency) int64 {
	if c == CurrencyUSD {
		return p.PriceUSD
	}
	return p.PriceNGN
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Search        string
	Category      string
	AvailableOnly bool
}

// Category is a storefront grouping with the number of products it holds.
type Category struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
}
