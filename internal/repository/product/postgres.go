package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"farmstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, name, COALESCE(description, ''), category, price_ngn, price_usd, unit,
       stock_quantity, COALESCE(image_url, ''), is_available, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
  AND ($2 = '' OR category = $2)
  AND (NOT $3 OR is_available)
ORDER BY name ASC
`
	search := strings.TrimSpace(filter.Search)
	category := strings.TrimSpace(filter.Category)
	rows, err := r.pool.Query(ctx, q, search, category, filter.AvailableOnly)
	if err != nil {
		r.logger.Printf("product repo: list search=%q category=%q error=%v", search, category, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list available_only=%t count=%d", filter.AvailableOnly, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, err
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (name, description, category, price_ngn, price_usd, unit, stock_quantity, image_url, is_available)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Description, categoryOrDefault(p.Category), p.PriceNGN, p.PriceUSD,
		p.Unit, p.StockQuantity, p.ImageURL, p.IsAvailable,
	))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", created.ID, created.Name)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
UPDATE products
SET name = $2,
    description = NULLIF($3, ''),
    category = $4,
    price_ngn = $5,
    price_usd = $6,
    unit = $7,
    stock_quantity = $8,
    image_url = NULLIF($9, ''),
    is_available = $10,
    updated_at = now()
WHERE id = $1
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, categoryOrDefault(p.Category), p.PriceNGN, p.PriceUSD,
		p.Unit, p.StockQuantity, p.ImageURL, p.IsAvailable,
	))
	if err != nil {
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

// Upsert inserts or updates a product matched case-insensitively by name.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (name, description, category, price_ngn, price_usd, unit, stock_quantity, image_url, is_available)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
ON CONFLICT ((lower(name))) DO UPDATE SET
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_ngn = EXCLUDED.price_ngn,
    price_usd = EXCLUDED.price_usd,
    unit = EXCLUDED.unit,
    stock_quantity = EXCLUDED.stock_quantity,
    image_url = EXCLUDED.image_url,
    is_available = EXCLUDED.is_available,
    updated_at = now()
RETURNING ` + productColumns
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Description, categoryOrDefault(p.Category), p.PriceNGN, p.PriceUSD,
		p.Unit, p.StockQuantity, p.ImageURL, p.IsAvailable,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, fmt.Errorf("upsert product %q: %w", p.Name, err)
	}
	r.logger.Printf("product repo: upserted name=%q id=%s", res.Name, res.ID)
	return res, nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return 0, err
	}
	return n, nil
}

func categoryOrDefault(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return domain.DefaultCategory
	}
	return c
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.PriceNGN,
		&p.PriceUSD,
		&p.Unit,
		&p.StockQuantity,
		&p.ImageURL,
		&p.IsAvailable,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &p, nil
}
