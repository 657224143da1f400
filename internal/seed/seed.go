package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Description string
	Category    string
	Unit        string
	PriceNGN    int64
	PriceUSD    int64
	Stock       int
}

var products = []productSeed{
	{
		Name:        "Tray of 30 Eggs",
		Description: "Fresh eggs from free-range hens, collected daily",
		Category:    "eggs",
		Unit:        "tray",
		PriceNGN:    350000,
		PriceUSD:    250,
		Stock:       120,
	},
	{
		Name:        "Half Tray of Eggs",
		Description: "Fifteen fresh eggs",
		Category:    "eggs",
		Unit:        "half tray",
		PriceNGN:    180000,
		PriceUSD:    130,
		Stock:       60,
	},
	{
		Name:        "Quail Eggs (24)",
		Description: "Small speckled quail eggs",
		Category:    "eggs",
		Unit:        "pack",
		PriceNGN:    250000,
		PriceUSD:    180,
		Stock:       30,
	},
	{
		Name:        "Dressed Broiler Chicken",
		Description: "Whole bird, cleaned and chilled",
		Category:    "poultry",
		Unit:        "bird",
		PriceNGN:    850000,
		PriceUSD:    600,
		Stock:       25,
	},
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, description, category, unit, price_ngn, price_usd, stock_quantity, is_available)
VALUES ($1, $2, $3, $4, $5, $6, $7, true)
ON CONFLICT ((lower(name))) DO UPDATE
SET description = EXCLUDED.description,
    category = EXCLUDED.category,
    unit = EXCLUDED.unit,
    price_ngn = EXCLUDED.price_ngn,
    price_usd = EXCLUDED.price_usd
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Category, p.Unit, p.PriceNGN, p.PriceUSD, p.Stock)
	return err
}
