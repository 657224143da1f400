package category

import (
	"context"
	"io"
	"log"

	"farmstore/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *postgresRepo) List(ctx context.Context, availableOnly bool) ([]domain.Category, error) {
	const q = `
SELECT category, count(*)
FROM products
WHERE is_available OR NOT $1
GROUP BY category
ORDER BY category ASC
`
	rows, err := r.pool.Query(ctx, q, availableOnly)
	if err != nil {
		r.logger.Printf("list categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Name, &c.Products); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
