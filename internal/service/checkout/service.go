// Package checkout turns a resolved cart into a persisted order and hands it
// off to the messaging or card channel.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"farmstore/internal/channel/paystack"
	"farmstore/internal/domain"
	"farmstore/internal/session"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const referencePrefix = "ORDER"

type orderStore interface {
	Place(ctx context.Context, o domain.Order) (*domain.Order, bool, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
	SetAuthorizationURL(ctx context.Context, reference, url string) error
}

type messenger interface {
	URL(o domain.Order) string
}

type payments interface {
	Initialize(ctx context.Context, in paystack.InitializeRequest) (*paystack.Authorization, error)
}

type watcher interface {
	Watch(ctx context.Context, reference string) error
}

type publisher interface {
	PublishOrder(o domain.Order)
}

// HandoffError reports that the order was stored but the external channel
// could not be reached. The order stays pending.
type HandoffError struct {
	Order domain.Order
	Err   error
}

func (e *HandoffError) Error() string {
	return fmt.Sprintf("order %s placed but payment handoff failed: %v", e.Order.Reference, e.Err)
}

func (e *HandoffError) Unwrap() error { return e.Err }

// Input is what the buyer submits at checkout.
type Input struct {
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryPhone   string `json:"deliveryPhone"`
	DeliveryNotes   string `json:"deliveryNotes"`
	Currency        string `json:"currency"`
	PaymentMethod   string `json:"paymentMethod"`
	IdempotencyKey  string `json:"-"`
}

// Result is the placed order plus where the buyer goes next.
type Result struct {
	Order            domain.Order   `json:"order"`
	Channel          domain.Channel `json:"paymentMethod"`
	WhatsAppURL      string         `json:"whatsappUrl,omitempty"`
	AuthorizationURL string         `json:"authorizationUrl,omitempty"`
	Replayed         bool           `json:"replayed"`
}

type Service struct {
	orders       orderStore
	messenger    messenger
	payments     payments
	watcher      watcher
	publisher    publisher
	logger       *log.Logger
	tracer       trace.Tracer
	newReference func() string
}

type Option func(*Service)

// WithWatcher starts payment reconciliation for card orders.
func WithWatcher(w watcher) Option {
	return func(s *Service) { s.watcher = w }
}

// WithPublisher announces newly placed orders.
func WithPublisher(p publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithReferenceFunc overrides order reference generation.
func WithReferenceFunc(fn func() string) Option {
	return func(s *Service) { s.newReference = fn }
}

// New builds a Service. payments may be nil, in which case the card
// channel is unavailable.
func New(orders orderStore, messenger messenger, payments payments, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Service{
		orders:       orders,
		messenger:    messenger,
		payments:     payments,
		logger:       logger,
		tracer:       otel.Tracer("farmstore/checkout"),
		newReference: NewReference,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewReference returns "ORDER-<unix-ms>-<8 hex chars>".
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", referencePrefix, time.Now().UnixMilli(), id[:8])
}

// Checkout validates the request, stores the order, its lines and the cart
// clear atomically, then hands off to the chosen channel. Nothing is written
// and no remote call is made when validation fails.
func (s *Service) Checkout(ctx context.Context, sess session.Session, lines []domain.CartLine, in Input) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Checkout")
	defer span.End()

	// A retried request finds the cart already cleared by the first one, so
	// the stored order is looked up before the cart is validated.
	earlier, err := s.earlierOrder(ctx, sess, in.IdempotencyKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup order")
		return nil, err
	}
	if earlier != nil {
		return s.replay(ctx, span, sess, earlier)
	}

	order, err := s.buildOrder(sess, lines, in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.reference", order.Reference),
		attribute.String("order.channel", string(order.Channel)),
		attribute.Int("order.lines", len(order.Lines)),
	)

	placed, replayed, err := s.orders.Place(ctx, order)
	if errors.Is(err, domain.ErrAlreadyExists) && order.IdempotencyKey != nil {
		placed, err = s.orders.GetByIdempotencyKey(ctx, order.UserID, *order.IdempotencyKey)
		replayed = true
	}
	if err != nil {
		s.logger.Printf("checkout: place order user_id=%s error=%v", order.UserID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "place order")
		return nil, err
	}
	if replayed {
		return s.replay(ctx, span, sess, placed)
	}

	s.logger.Printf("checkout: placed reference=%s user_id=%s channel=%s total_ngn=%d", placed.Reference, placed.UserID, placed.Channel, placed.TotalNGN)
	if s.publisher != nil {
		s.publisher.PublishOrder(*placed)
	}

	res := &Result{Order: *placed, Channel: placed.Channel}
	switch placed.Channel {
	case domain.ChannelWhatsApp:
		res.WhatsAppURL = s.messenger.URL(*placed)
	case domain.ChannelCard:
		if err := s.handoffCard(ctx, sess, placed, res); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "payment handoff")
			return nil, err
		}
	}
	return res, nil
}

// earlierOrder returns the order already placed under key by an eligible
// buyer, or nil when there is none.
func (s *Service) earlierOrder(ctx context.Context, sess session.Session, key string) (*domain.Order, error) {
	key = strings.TrimSpace(key)
	if key == "" || !sess.IsAuthenticated() || sess.Identity.IsSuspended {
		return nil, nil
	}
	o, err := s.orders.GetByIdempotencyKey(ctx, sess.Identity.UserID, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Printf("checkout: lookup idempotency key user_id=%s error=%v", sess.Identity.UserID, err)
		return nil, err
	}
	return o, nil
}

// replay answers a repeated checkout with the stored order. A card order that
// is still unpaid gets its payment page back, initialising the charge when
// the first attempt never reached the gateway.
func (s *Service) replay(ctx context.Context, span trace.Span, sess session.Session, placed *domain.Order) (*Result, error) {
	s.logger.Printf("checkout: replayed reference=%s user_id=%s", placed.Reference, placed.UserID)
	res := &Result{Order: *placed, Channel: placed.Channel, Replayed: true}
	switch {
	case placed.Channel == domain.ChannelWhatsApp:
		res.WhatsAppURL = s.messenger.URL(*placed)
	case placed.PaymentStatus != domain.PaymentPending:
		// Paid already.
	case placed.AuthorizationURL != "":
		res.AuthorizationURL = placed.AuthorizationURL
	default:
		if err := s.handoffCard(ctx, sess, placed, res); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "payment handoff")
			return nil, err
		}
	}
	return res, nil
}

// handoffCard initialises the Paystack charge for a stored order, records the
// checkout page on the order and starts reconciliation.
func (s *Service) handoffCard(ctx context.Context, sess session.Session, placed *domain.Order, res *Result) error {
	if s.payments == nil {
		return &HandoffError{Order: *placed, Err: paystack.ErrNotConfigured}
	}
	authz, err := s.payments.Initialize(ctx, paystack.InitializeRequest{
		Email:     sess.Identity.Email,
		Amount:    placed.TotalNGN,
		Currency:  string(domain.CurrencyNGN),
		Reference: placed.Reference,
		Metadata: map[string]string{
			"order_id": placed.ID,
			"user_id":  placed.UserID,
		},
	})
	if err != nil {
		s.logger.Printf("checkout: initialize payment reference=%s error=%v", placed.Reference, err)
		return &HandoffError{Order: *placed, Err: err}
	}
	res.AuthorizationURL = authz.AuthorizationURL
	res.Order.AuthorizationURL = authz.AuthorizationURL
	if err := s.orders.SetAuthorizationURL(ctx, placed.Reference, authz.AuthorizationURL); err != nil {
		s.logger.Printf("checkout: store authorization url reference=%s error=%v", placed.Reference, err)
	}
	if s.watcher != nil {
		if err := s.watcher.Watch(ctx, placed.Reference); err != nil {
			s.logger.Printf("checkout: start reconcile reference=%s error=%v", placed.Reference, err)
		}
	}
	return nil
}

func (s *Service) buildOrder(sess session.Session, lines []domain.CartLine, in Input) (domain.Order, error) {
	if !sess.IsAuthenticated() {
		return domain.Order{}, domain.ErrUnauthenticated
	}
	if sess.Identity.IsSuspended {
		return domain.Order{}, domain.ErrSuspended
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return domain.Order{}, domain.Invalid("delivery address required")
	}
	phone := strings.TrimSpace(in.DeliveryPhone)
	if phone == "" {
		return domain.Order{}, domain.Invalid("delivery phone required")
	}
	currency, err := domain.ParseCurrency(in.Currency)
	if err != nil {
		return domain.Order{}, err
	}
	channel, err := domain.ParseChannel(in.PaymentMethod)
	if err != nil {
		return domain.Order{}, err
	}
	if channel == domain.ChannelCard && s.payments == nil {
		return domain.Order{}, domain.Invalid("card payments are not available")
	}

	order := domain.Order{
		UserID:          sess.Identity.UserID,
		Reference:       s.newReference(),
		Currency:        currency,
		DeliveryAddress: address,
		DeliveryPhone:   phone,
		DeliveryNotes:   strings.TrimSpace(in.DeliveryNotes),
		Channel:         channel,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		Lines:           make([]domain.OrderLine, 0, len(lines)),
	}
	if channel == domain.ChannelWhatsApp {
		order.PaymentStatus = domain.PaymentWhatsAppPending
	}
	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		order.IdempotencyKey = &key
	}
	for i, l := range lines {
		if l.Quantity < 1 {
			return domain.Order{}, domain.Invalid("quantity for %q must be at least 1", l.Product.Name)
		}
		line := domain.LineFromCart(l)
		line.Position = i
		order.TotalNGN += line.SubtotalNGN
		order.TotalUSD += line.SubtotalUSD
		order.Lines = append(order.Lines, line)
	}
	return order, nil
}
