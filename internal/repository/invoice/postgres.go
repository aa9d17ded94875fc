package invoice

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) NextNumber(ctx context.Context) (string, error) {
	var number string
	if err := r.pool.QueryRow(ctx, `SELECT next_invoice_number()`).Scan(&number); err != nil {
		return "", err
	}
	return number, nil
}
