package profile

import (
	"context"

	"farmstore/internal/domain"
)

// Repository persists and fetches user profiles.
type Repository interface {
	Create(ctx context.Context, p domain.Profile) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, in domain.ProfileUpdate) (*domain.Profile, error)
	SetSuspended(ctx context.Context, id string, suspended bool, reason *string) (*domain.Profile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.UserFilter) ([]domain.Profile, error)
	CountByState(ctx context.Context) (active, suspended int, err error)
}
