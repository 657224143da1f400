package product

import (
	"context"
	"strings"

	"farmstore/internal/domain"
	productrepo "farmstore/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input is the editable part of a product. Prices are minor units.
type Input struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	PriceNGN      int64  `json:"priceNgn"`
	PriceUSD      int64  `json:"priceUsd"`
	Unit          string `json:"unit"`
	StockQuantity int    `json:"stockQuantity"`
	ImageURL      string `json:"imageUrl"`
	IsAvailable   *bool  `json:"isAvailable"`
}

// ListAvailable returns the store catalog ordered by name.
func (s *Service) ListAvailable(ctx context.Context, search, category string) ([]domain.Product, error) {
	return s.repo.List(ctx, domain.ProductFilter{Search: search, Category: category, AvailableOnly: true})
}

// ListAll returns every product, including hidden ones.
func (s *Service) ListAll(ctx context.Context, search string) ([]domain.Product, error) {
	return s.repo.List(ctx, domain.ProductFilter{Search: search})
}

// GetAvailable returns a product only if it is shown in the store.
func (s *Service) GetAvailable(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAvailable {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Product, error) {
	p, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("product id required")
	}
	p, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (in Input) toProduct() (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, domain.Invalid("name required")
	}
	if in.PriceNGN < 0 || in.PriceUSD < 0 {
		return domain.Product{}, domain.Invalid("prices must not be negative")
	}
	if in.StockQuantity < 0 {
		return domain.Product{}, domain.Invalid("stock quantity must not be negative")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return domain.Product{}, domain.Invalid("unit required")
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = domain.DefaultCategory
	}
	return domain.Product{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      category,
		PriceNGN:      in.PriceNGN,
		PriceUSD:      in.PriceUSD,
		Unit:          unit,
		StockQuantity: in.StockQuantity,
		ImageURL:      strings.TrimSpace(in.ImageURL),
		IsAvailable:   available,
	}, nil
}
