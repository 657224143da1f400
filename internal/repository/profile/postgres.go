package profile

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"farmstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id::text, email, password_hash, full_name, country, role, is_suspended, suspended_reason, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	role := p.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	q := `
INSERT INTO profiles (email, password_hash, full_name, country, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + profileColumns
	return r.scanProfile(r.pool.QueryRow(ctx, q,
		strings.ToLower(p.Email),
		p.PasswordHash,
		p.FullName,
		p.Country,
		string(role),
	))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanProfile(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 LIMIT 1`
	return r.scanProfile(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Update(ctx context.Context, id string, in domain.ProfileUpdate) (*domain.Profile, error) {
	var role *string
	if in.Role != nil {
		v := string(*in.Role)
		role = &v
	}
	q := `
UPDATE profiles
SET full_name = COALESCE($2, full_name),
    country = COALESCE($3, country),
    role = COALESCE($4, role),
    updated_at = now()
WHERE id = $1
RETURNING ` + profileColumns
	p, err := r.scanProfile(r.pool.QueryRow(ctx, q, id, in.FullName, in.Country, role))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("profile repo: updated id=%s", id)
	return p, nil
}

func (r *postgresRepo) SetSuspended(ctx context.Context, id string, suspended bool, reason *string) (*domain.Profile, error) {
	q := `
UPDATE profiles
SET is_suspended = $2,
    suspended_reason = $3,
    updated_at = now()
WHERE id = $1
RETURNING ` + profileColumns
	p, err := r.scanProfile(r.pool.QueryRow(ctx, q, id, suspended, reason))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("profile repo: set suspended id=%s suspended=%t", id, suspended)
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrInUse
		}
		r.logger.Printf("profile repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("profile repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.Profile, error) {
	q := `SELECT ` + profileColumns + `
FROM profiles
WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
  AND ($2 = 'all'
       OR ($2 = 'active' AND NOT is_suspended)
       OR ($2 = 'suspended' AND is_suspended))
ORDER BY created_at DESC
`
	state := filter.State
	if state == "" {
		state = domain.UserFilterAll
	}
	rows, err := r.pool.Query(ctx, q, strings.TrimSpace(filter.Search), state)
	if err != nil {
		r.logger.Printf("profile repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Profile{}
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) CountByState(ctx context.Context) (int, int, error) {
	const q = `
SELECT count(*) FILTER (WHERE NOT is_suspended), count(*) FILTER (WHERE is_suspended)
FROM profiles
`
	var active, suspended int
	if err := r.pool.QueryRow(ctx, q).Scan(&active, &suspended); err != nil {
		r.logger.Printf("profile repo: count error=%v", err)
		return 0, 0, err
	}
	return active, suspended, nil
}

func (r *postgresRepo) scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var role string
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.Country,
		&role,
		&p.IsSuspended,
		&p.SuspendedReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("profile repo: scan error=%v", err)
		return nil, err
	}
	p.Role = domain.Role(role)
	return &p, nil
}
