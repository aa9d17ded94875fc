package user

import (
	"context"
	"errors"
	"io"
	"log"

	"puntoventa/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, name, password_hash)
VALUES ($1, $2, $3)
RETURNING id::text, email, COALESCE(name, ''), password_hash, created_at
`
	var out domain.User
	err := r.pool.QueryRow(ctx, q, u.Email, u.Name, u.PasswordHash).Scan(
		&out.ID, &out.Email, &out.Name, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, COALESCE(name, ''), password_hash, created_at
FROM users
WHERE email = $1
`
	return r.get(ctx, q, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, COALESCE(name, ''), password_hash, created_at
FROM users
WHERE id = $1
`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) get(ctx context.Context, q string, arg string) (*domain.User, error) {
	var out domain.User
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&out.ID, &out.Email, &out.Name, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get error=%v", err)
		return nil, err
	}
	return &out, nil
}
