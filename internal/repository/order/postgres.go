package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"farmstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `o.id::text, o.user_id::text, o.reference, o.currency, o.total_ngn, o.total_usd,
       o.delivery_address, o.delivery_phone, COALESCE(o.delivery_notes, ''), o.payment_method,
       o.status, o.payment_status, o.payment_date, o.idempotency_key, COALESCE(o.authorization_url, ''), o.created_at, o.updated_at,
       COALESCE(p.full_name, ''), COALESCE(p.email, '')`

const orderFrom = `
FROM orders o
LEFT JOIN profiles p ON p.id = o.user_id
`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Place(ctx context.Context, o domain.Order) (*domain.Order, bool, error) {
	if len(o.Lines) == 0 {
		return nil, false, domain.ErrEmptyCart
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	if o.IdempotencyKey != nil {
		existing, err := getOne(ctx, tx, `WHERE o.user_id = $1 AND o.idempotency_key = $2`, o.UserID, *o.IdempotencyKey)
		if err == nil {
			r.logger.Printf("order repo: replay user_id=%s reference=%s", o.UserID, existing.Reference)
			return existing, true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, false, err
		}
	}

	if err := reserveStock(ctx, tx, o.Lines); err != nil {
		return nil, false, err
	}

	var notes *string
	if strings.TrimSpace(o.DeliveryNotes) != "" {
		notes = &o.DeliveryNotes
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, reference, currency, total_ngn, total_usd, delivery_address, delivery_phone,
                    delivery_notes, payment_method, status, payment_status, idempotency_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text, created_at, updated_at
`,
		o.UserID, o.Reference, string(o.Currency), o.TotalNGN, o.TotalUSD, o.DeliveryAddress, o.DeliveryPhone,
		notes, string(o.Channel), string(o.Status), string(o.PaymentStatus), o.IdempotencyKey,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, false, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert order user_id=%s error=%v", o.UserID, err)
		return nil, false, err
	}

	batch := &pgx.Batch{}
	for i := range o.Lines {
		o.Lines[i].Position = i
		l := o.Lines[i]
		batch.Queue(`
INSERT INTO order_items (order_id, position, product_id, product_name, unit, quantity,
                         unit_price_ngn, unit_price_usd, subtotal_ngn, subtotal_usd)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text
`, o.ID, l.Position, l.ProductID, l.ProductName, l.Unit, l.Quantity, l.UnitPriceNGN, l.UnitPriceUSD, l.SubtotalNGN, l.SubtotalUSD)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range o.Lines {
		if err := br.QueryRow().Scan(&o.Lines[i].ID); err != nil {
			br.Close()
			r.logger.Printf("order repo: insert line order_id=%s error=%v", o.ID, err)
			return nil, false, err
		}
		o.Lines[i].OrderID = o.ID
	}
	if err := br.Close(); err != nil {
		return nil, false, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID); err != nil {
		r.logger.Printf("order repo: clear cart user_id=%s error=%v", o.UserID, err)
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	r.logger.Printf("order repo: placed reference=%s user_id=%s lines=%d", o.Reference, o.UserID, len(o.Lines))
	return &o, false, nil
}

// reserveStock locks the ordered products and checks each quantity against
// current stock. Stock is not decremented here.
func reserveStock(ctx context.Context, tx pgx.Tx, lines []domain.OrderLine) error {
	want := make(map[string]int, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := want[l.ProductID]; !ok {
			ids = append(ids, l.ProductID)
		}
		want[l.ProductID] += l.Quantity
	}
	sort.Strings(ids)

	rows, err := tx.Query(ctx, `
SELECT id::text, stock_quantity, is_available
FROM products
WHERE id = ANY($1::uuid[])
ORDER BY id
FOR UPDATE
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	seen := 0
	for rows.Next() {
		var id string
		var stock int
		var available bool
		if err := rows.Scan(&id, &stock, &available); err != nil {
			return err
		}
		seen++
		if !available {
			return fmt.Errorf("product %s: %w", id, domain.ErrProductUnavailable)
		}
		if want[id] > stock {
			return fmt.Errorf("product %s: %w", id, domain.ErrInsufficientStock)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if seen != len(ids) {
		return fmt.Errorf("ordered product missing: %w", domain.ErrProductUnavailable)
	}
	return nil
}

func (r *postgresRepo) GetByReference(ctx context.Context, reference string) (*domain.Order, error) {
	return getOne(ctx, r.pool, `WHERE o.reference = $1`, reference)
}

func (r *postgresRepo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error) {
	return getOne(ctx, r.pool, `WHERE o.user_id = $1 AND o.idempotency_key = $2`, userID, key)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := listOrders(ctx, r.pool, `WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	where := `
WHERE ($1 = '' OR o.user_id::text = $1)
  AND ($2 = '' OR o.status = $2)
  AND ($3 = '' OR o.reference ILIKE '%' || $3 || '%' OR p.full_name ILIKE '%' || $3 || '%' OR p.email ILIKE '%' || $3 || '%')
ORDER BY o.created_at DESC
`
	orders, err := listOrders(ctx, r.pool, where, filter.UserID, string(filter.Status), strings.TrimSpace(filter.Search))
	if err != nil {
		r.logger.Printf("order repo: list status=%q error=%v", filter.Status, err)
		return nil, err
	}
	r.logger.Printf("order repo: list status=%q count=%d", filter.Status, len(orders))
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	var paymentStatus *string
	if ps, ok := domain.PaymentStatusFor(status); ok {
		v := string(ps)
		paymentStatus = &v
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $2,
    payment_status = COALESCE($3, payment_status),
    updated_at = now()
WHERE id = $1
`, id, string(status), paymentStatus)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("order repo: status id=%s status=%s", id, status)
	return getOne(ctx, r.pool, `WHERE o.id = $1`, id)
}

func (r *postgresRepo) SetAuthorizationURL(ctx context.Context, reference, url string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET authorization_url = $2,
    updated_at = now()
WHERE reference = $1
`, reference, url)
	if err != nil {
		r.logger.Printf("order repo: set authorization url reference=%s error=%v", reference, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, reference string, txn domain.PaymentTransaction) (*domain.Order, bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	var id, userID, paymentStatus string
	var totalNGN int64
	err = tx.QueryRow(ctx, `
SELECT id::text, user_id::text, payment_status, total_ngn
FROM orders
WHERE reference = $1
FOR UPDATE
`, reference).Scan(&id, &userID, &paymentStatus, &totalNGN)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, err
	}

	if domain.PaymentStatus(paymentStatus) == domain.PaymentCompleted {
		o, err := getOne(ctx, tx, `WHERE o.id = $1`, id)
		return o, false, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE orders
SET payment_status = 'completed',
    payment_date = now(),
    status = CASE WHEN status = 'pending' THEN 'processing' ELSE status END,
    updated_at = now()
WHERE id = $1
`, id); err != nil {
		return nil, false, err
	}

	amount := txn.Amount
	if amount == 0 {
		amount = totalNGN
	}
	currency := txn.Currency
	if currency == "" {
		currency = domain.CurrencyNGN
	}
	paymentType := txn.PaymentType
	if paymentType == "" {
		paymentType = domain.PaymentTypeStoreOrder
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO payment_transactions (user_id, reference, amount, currency, status, payment_type, related_id, paystack_response)
VALUES ($1, $2, $3, $4, 'completed', $5, $6, $7)
ON CONFLICT (reference) DO NOTHING
`, userID, reference, amount, string(currency), paymentType, id, []byte(txn.ProviderResponse)); err != nil {
		r.logger.Printf("order repo: insert payment reference=%s error=%v", reference, err)
		return nil, false, err
	}

	o, err := getOne(ctx, tx, `WHERE o.id = $1`, id)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	r.logger.Printf("order repo: paid reference=%s", reference)
	return o, true, nil
}

func (r *postgresRepo) Totals(ctx context.Context) (int, int64, error) {
	var count int
	var revenue int64
	err := r.pool.QueryRow(ctx, `
SELECT count(*), COALESCE(SUM(total_ngn) FILTER (WHERE status <> 'cancelled'), 0)
FROM orders
`).Scan(&count, &revenue)
	if err != nil {
		r.logger.Printf("order repo: totals error=%v", err)
		return 0, 0, err
	}
	return count, revenue, nil
}

func getOne(ctx context.Context, q querier, where string, args ...any) (*domain.Order, error) {
	orders, err := listOrders(ctx, q, where, args...)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return &orders[0], nil
}

func listOrders(ctx context.Context, q querier, where string, args ...any) ([]domain.Order, error) {
	rows, err := q.Query(ctx, `SELECT `+orderColumns+orderFrom+where, args...)
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		var currency, channel, status, paymentStatus string
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Reference,
			&currency,
			&o.TotalNGN,
			&o.TotalUSD,
			&o.DeliveryAddress,
			&o.DeliveryPhone,
			&o.DeliveryNotes,
			&channel,
			&status,
			&paymentStatus,
			&o.PaymentDate,
			&o.IdempotencyKey,
			&o.AuthorizationURL,
			&o.CreatedAt,
			&o.UpdatedAt,
			&o.CustomerName,
			&o.CustomerEmail,
		); err != nil {
			rows.Close()
			return nil, err
		}
		o.Currency = domain.Currency(currency)
		o.Channel = domain.Channel(channel)
		o.Status = domain.OrderStatus(status)
		o.PaymentStatus = domain.PaymentStatus(paymentStatus)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachLines(ctx, q, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func attachLines(ctx context.Context, q querier, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Lines = []domain.OrderLine{}
	}

	rows, err := q.Query(ctx, `
SELECT id::text, order_id::text, position, COALESCE(product_id::text, ''), product_name, unit, quantity,
       unit_price_ngn, unit_price_usd, subtotal_ngn, subtotal_usd
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, position ASC
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(
			&l.ID,
			&l.OrderID,
			&l.Position,
			&l.ProductID,
			&l.ProductName,
			&l.Unit,
			&l.Quantity,
			&l.UnitPriceNGN,
			&l.UnitPriceUSD,
			&l.SubtotalNGN,
			&l.SubtotalUSD,
		); err != nil {
			return err
		}
		i := index[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return rows.Err()
}
