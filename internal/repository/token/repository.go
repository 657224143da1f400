package token

import (
	"context"
	"time"
)

// Token is a revocable access-token record keyed by the JWT ID.
type Token struct {
	Token     string
	ProfileID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
