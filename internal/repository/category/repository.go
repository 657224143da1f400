package category

import (
	"context"

	"farmstore/internal/domain"
)

type Repository interface {
	// List groups products by category. availableOnly restricts the count to products on sale.
	List(ctx context.Context, availableOnly bool) ([]domain.Category, error)
}
