package order

import (
	"context"

	"farmstore/internal/domain"
)

// Repository persists orders and their frozen lines.
type Repository interface {
	// Place writes the order, its lines and clears the owner's cart in one
	// transaction. When o.IdempotencyKey matches an earlier order of the same
	// user, that order is returned with replayed set and nothing is written.
	Place(ctx context.Context, o domain.Order) (placed *domain.Order, replayed bool, err error)
	GetByReference(ctx context.Context, reference string) (*domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	// SetAuthorizationURL stores the card checkout page returned by the gateway.
	SetAuthorizationURL(ctx context.Context, reference, url string) error
	// MarkPaid records a successful card payment. It reports changed=false
	// when the order was already paid.
	MarkPaid(ctx context.Context, reference string, txn domain.PaymentTransaction) (o *domain.Order, changed bool, err error)
	Totals(ctx context.Context) (count int, revenueNGN int64, err error)
}
