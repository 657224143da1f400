package cart

import (
	"context"

	"farmstore/internal/domain"
)

// Repository persists per-user cart lines. Every call is scoped to the owner.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddLine(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
}
