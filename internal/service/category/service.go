package category

import (
	"context"

	"farmstore/internal/domain"
	"farmstore/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the categories shown on the storefront.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx, true)
}

// ListAll includes categories whose products are all unavailable.
func (s *Service) ListAll(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx, false)
}
