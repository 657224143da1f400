// Package admin aggregates dashboard figures for the back office.
package admin

import (
	"context"

	"farmstore/internal/domain"
	"golang.org/x/sync/errgroup"
)

type orderTotals interface {
	Totals(ctx context.Context) (count int, revenueNGN int64, err error)
}

type productCounter interface {
	Count(ctx context.Context) (int, error)
}

type userCounter interface {
	CountByState(ctx context.Context) (active, suspended int, err error)
}

type Service struct {
	orders   orderTotals
	products productCounter
	users    userCounter
}

func New(orders orderTotals, products productCounter, users userCounter) *Service {
	return &Service{orders: orders, products: products, users: users}
}

// Stats loads every figure concurrently and fails if any load fails.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, revenue, err := s.orders.Totals(ctx)
		st.Orders, st.RevenueNGN = n, revenue
		return err
	})
	g.Go(func() error {
		n, err := s.products.Count(ctx)
		st.Products = n
		return err
	})
	g.Go(func() error {
		active, suspended, err := s.users.CountByState(ctx)
		st.ActiveUsers, st.SuspendedUsers = active, suspended
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}
	return st, nil
}
