package reconcile

import (
	"context"
	"errors"

	"farmstore/internal/domain"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

const errTypeUnknownOrder = "UnknownOrder"

type reconciler interface {
	Reconcile(ctx context.Context, reference string) (*domain.Order, error)
}

// Activities are registered on the worker.
type Activities struct {
	Orders reconciler
}

// CheckPayment asks the gateway about reference and records the payment when
// it settled. It reports whether the order is now paid.
func (a *Activities) CheckPayment(ctx context.Context, reference string) (bool, error) {
	logger := activity.GetLogger(ctx)
	o, err := a.Orders.Reconcile(ctx, reference)
	if errors.Is(err, domain.ErrNotFound) {
		return false, temporal.NewNonRetryableApplicationError("order not found", errTypeUnknownOrder, err, reference)
	}
	if err != nil {
		return false, err
	}
	if o == nil {
		logger.Info("Payment not settled yet", "reference", reference)
		return false, nil
	}
	return o.PaymentStatus == domain.PaymentCompleted, nil
}
