package cart

import (
	"context"
	"strings"

	"farmstore/internal/domain"
)

type Service struct {
	repo cartRepo
}

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddLine(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
}

func New(repo cartRepo) *Service {
	return &Service{repo: repo}
}

type AddInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Get returns the user's cart with computed totals.
func (s *Service) Get(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.NewCart(userID, lines), nil
}

// Lines returns the user's resolved cart lines.
func (s *Service) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

// Add puts quantity of a product in the cart, incrementing an existing line.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return domain.Cart{}, domain.Invalid("productId required")
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return domain.Cart{}, domain.Invalid("quantity must be positive")
	}
	if _, err := s.repo.AddLine(ctx, userID, productID, qty); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(ctx, userID)
}

// ChangeQuantity sets a line's quantity. Quantities below one are rejected;
// use Remove to drop a line.
func (s *Service) ChangeQuantity(ctx context.Context, userID, lineID string, quantity int) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(lineID) == "" {
		return domain.Cart{}, domain.Invalid("line id required")
	}
	if quantity < 1 {
		return domain.Cart{}, domain.Invalid("quantity must be at least 1")
	}
	if _, err := s.repo.SetQuantity(ctx, userID, lineID, quantity); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, lineID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	if err := s.repo.RemoveLine(ctx, userID, lineID); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(ctx, userID)
}
