// Package order serves order history to buyers, order management to
// administrators, and records card payment confirmations.
package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"farmstore/internal/channel/paystack"
	"farmstore/internal/domain"
	"farmstore/internal/session"
)

// ErrPaymentIncomplete is returned by Verify when the gateway has not
// settled the charge yet. The order stays pending.
var ErrPaymentIncomplete = errors.New("payment not completed")

// ErrGateway wraps failures talking to the payment gateway.
var ErrGateway = errors.New("payment gateway error")

type orderRepo interface {
	GetByReference(ctx context.Context, reference string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	MarkPaid(ctx context.Context, reference string, txn domain.PaymentTransaction) (*domain.Order, bool, error)
}

type gateway interface {
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
	ParseWebhook(body []byte, signature string) (*paystack.Event, error)
}

type signaler interface {
	PaymentSucceeded(ctx context.Context, reference string) error
}

type Service struct {
	repo     orderRepo
	gateway  gateway
	signaler signaler
	logger   *log.Logger
}

// New builds a Service. gw may be nil when card payments are disabled.
func New(repo orderRepo, gw gateway, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, gateway: gw, logger: logger}
}

// WithSignaler notifies a running reconciliation once a payment is recorded.
func (s *Service) WithSignaler(sig signaler) *Service {
	s.signaler = sig
	return s
}

// History returns the user's orders with their lines, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, domain.ErrUnauthenticated
	}
	return s.repo.CountByUser(ctx, userID)
}

// Get returns the order with reference when sess owns it or is an administrator.
func (s *Service) Get(ctx context.Context, sess session.Session, reference string) (*domain.Order, error) {
	if !sess.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	o, err := s.repo.GetByReference(ctx, strings.TrimSpace(reference))
	if err != nil {
		return nil, err
	}
	if o.UserID != sess.UserID() && !sess.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// List returns every order for the back office. status may be blank or "all".
func (s *Service) List(ctx context.Context, status, search string) ([]domain.Order, error) {
	filter := domain.OrderFilter{Search: strings.TrimSpace(search)}
	if st := strings.TrimSpace(status); st != "" && !strings.EqualFold(st, "all") {
		parsed, err := domain.ParseOrderStatus(st)
		if err != nil {
			return nil, err
		}
		filter.Status = parsed
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus moves an order to status. Confirming sets the payment status
// to confirmed and delivering sets it to completed.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("order id required")
	}
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order: status reference=%s status=%s payment_status=%s", o.Reference, o.Status, o.PaymentStatus)
	return o, nil
}

// Verify asks the gateway about the buyer's card order and records the
// payment when it succeeded.
func (s *Service) Verify(ctx context.Context, sess session.Session, reference string) (*domain.Order, error) {
	o, err := s.Get(ctx, sess, reference)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == domain.PaymentCompleted {
		return o, nil
	}
	if o.Channel != domain.ChannelCard {
		return nil, domain.Invalid("order %s is not a card order", o.Reference)
	}
	paid, err := s.Reconcile(ctx, o.Reference)
	if err != nil {
		return nil, err
	}
	if paid == nil {
		return o, ErrPaymentIncomplete
	}
	return paid, nil
}

// Reconcile checks the gateway for reference. It returns nil without error
// when the charge has not succeeded.
func (s *Service) Reconcile(ctx context.Context, reference string) (*domain.Order, error) {
	if s.gateway == nil {
		return nil, paystack.ErrNotConfigured
	}
	txn, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.logger.Printf("order: verify reference=%s error=%v", reference, err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if !txn.Succeeded() {
		return nil, nil
	}
	o, _, err := s.ConfirmPayment(ctx, *txn)
	return o, err
}

// ConfirmPayment records a settled charge. It is safe to call more than
// once for the same reference.
func (s *Service) ConfirmPayment(ctx context.Context, txn paystack.Transaction) (*domain.Order, bool, error) {
	if !txn.Succeeded() {
		return nil, false, domain.Invalid("transaction %s did not succeed", txn.Reference)
	}
	existing, err := s.repo.GetByReference(ctx, txn.Reference)
	if err != nil {
		return nil, false, err
	}
	// Card charges are always made in NGN for the full NGN total.
	currency := domain.Currency(strings.ToUpper(strings.TrimSpace(txn.Currency)))
	if currency != domain.CurrencyNGN {
		s.logger.Printf("order: unexpected currency reference=%s currency=%q", txn.Reference, txn.Currency)
		return nil, false, domain.Invalid("payment currency %q, expected %s", txn.Currency, domain.CurrencyNGN)
	}
	if txn.Amount <= 0 || txn.Amount < existing.TotalNGN {
		s.logger.Printf("order: short payment reference=%s amount=%d total_ngn=%d", txn.Reference, txn.Amount, existing.TotalNGN)
		return nil, false, domain.Invalid("payment amount %d below order total %d", txn.Amount, existing.TotalNGN)
	}
	o, changed, err := s.repo.MarkPaid(ctx, txn.Reference, domain.PaymentTransaction{
		UserID:           existing.UserID,
		Reference:        txn.Reference,
		Amount:           txn.Amount,
		Currency:         currency,
		Status:           string(domain.PaymentCompleted),
		PaymentType:      domain.PaymentTypeStoreOrder,
		RelatedID:        existing.ID,
		ProviderResponse: txn.Raw,
	})
	if err != nil {
		s.logger.Printf("order: mark paid reference=%s error=%v", txn.Reference, err)
		return nil, false, err
	}
	if changed {
		s.logger.Printf("order: paid reference=%s amount=%d", txn.Reference, txn.Amount)
		if s.signaler != nil {
			if err := s.signaler.PaymentSucceeded(ctx, txn.Reference); err != nil {
				s.logger.Printf("order: signal reconcile reference=%s error=%v", txn.Reference, err)
			}
		}
	}
	return o, changed, nil
}

// HandleWebhook verifies and applies a gateway notification. Events other
// than a successful charge are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.gateway == nil {
		return paystack.ErrNotConfigured
	}
	ev, err := s.gateway.ParseWebhook(body, signature)
	if err != nil {
		return err
	}
	if ev.Event != paystack.EventChargeSuccess {
		s.logger.Printf("order: ignored webhook event=%s", ev.Event)
		return nil
	}
	_, _, err = s.ConfirmPayment(ctx, ev.Data)
	return err
}
