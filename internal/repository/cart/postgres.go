package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"farmstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lineColumns = `c.id::text, c.user_id::text, c.product_id::text, c.quantity, c.created_at,
       p.id::text, p.name, COALESCE(p.description, ''), p.category, p.price_ngn, p.price_usd, p.unit,
       p.stock_quantity, COALESCE(p.image_url, ''), p.is_available, p.created_at`

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

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	q := `SELECT ` + lineColumns + `
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = $1
ORDER BY c.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("cart repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// AddLine adds quantity to the user's line for productID, creating it when
// absent. The resulting quantity must not exceed the product's stock.
func (r *postgresRepo) AddLine(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var stock int
	var available bool
	err = tx.QueryRow(ctx, `
SELECT stock_quantity, is_available
FROM products
WHERE id = $1
FOR SHARE
`, productID).Scan(&stock, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !available {
		return nil, domain.ErrProductUnavailable
	}

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE user_id = $1 AND product_id = $2
FOR UPDATE
`, userID, productID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	newQty := existingQty + quantity
	if newQty > stock {
		return nil, domain.ErrInsufficientStock
	}

	if lineID != "" {
		if _, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2`, newQty, lineID); err != nil {
			return nil, err
		}
	} else {
		if err := tx.QueryRow(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
RETURNING id::text
`, userID, productID, newQty).Scan(&lineID); err != nil {
			return nil, err
		}
	}

	line, err := getLine(ctx, tx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("cart repo: add user_id=%s product_id=%s quantity=%d", userID, productID, newQty)
	return line, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var stock int
	err = tx.QueryRow(ctx, `
SELECT p.stock_quantity
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.id = $1 AND c.user_id = $2
FOR UPDATE OF c
`, lineID, userID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if quantity > stock {
		return nil, domain.ErrInsufficientStock
	}
	if _, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`, quantity, lineID, userID); err != nil {
		return nil, err
	}

	line, err := getLine(ctx, tx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, userID, lineID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, lineID, userID)
	if err != nil {
		r.logger.Printf("cart repo: remove user_id=%s line_id=%s error=%v", userID, lineID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func getLine(ctx context.Context, tx pgx.Tx, userID, lineID string) (*domain.CartLine, error) {
	q := `SELECT ` + lineColumns + `
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.id = $1 AND c.user_id = $2
`
	line, err := scanLine(tx.QueryRow(ctx, q, lineID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return line, err
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var l domain.CartLine
	p := &l.Product
	if err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.ProductID,
		&l.Quantity,
		&l.CreatedAt,
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
	); err != nil {
		return nil, err
	}
	return &l, nil
}
