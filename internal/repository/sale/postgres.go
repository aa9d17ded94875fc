package sale

import (
	"context"
	"errors"
	"io"
	"log"

	"puntoventa/internal/domain"
	"github.com/jackc/pgx/v5"
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

const saleColumns = `id::text, user_id::text, invoice_number, customer_name, customer_email, customer_phone, subtotal, tax, discount, total, payment_method, notes, created_at`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.ID, &s.UserID, &s.InvoiceNumber,
		&s.CustomerName, &s.CustomerEmail, &s.CustomerPhone,
		&s.Subtotal, &s.Tax, &s.Discount, &s.Total,
		&s.PaymentMethod, &s.Notes, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) InsertSale(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	q := `
INSERT INTO sales (user_id, invoice_number, customer_name, customer_email, customer_phone, subtotal, tax, discount, total, payment_method, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + saleColumns + `
`
	s, err := scanSale(r.pool.QueryRow(ctx, q,
		in.UserID, in.InvoiceNumber,
		in.CustomerName, in.CustomerEmail, in.CustomerPhone,
		in.Subtotal, in.Tax, in.Discount, in.Total,
		in.PaymentMethod, in.Notes,
	))
	if err != nil {
		r.logger.Printf("sale repo: insert invoice=%s error=%v", in.InvoiceNumber, err)
		return nil, err
	}
	r.logger.Printf("sale repo: inserted id=%s invoice=%s total=%s", s.ID, s.InvoiceNumber, s.Total)
	return s, nil
}

func (r *postgresRepo) InsertItem(ctx context.Context, in CreateItemInput) (*domain.SaleItem, error) {
	const q = `
INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price, subtotal)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, sale_id::text, product_id::text, product_name, quantity, unit_price, subtotal
`
	var item domain.SaleItem
	err := r.pool.QueryRow(ctx, q,
		in.SaleID, in.ProductID, in.ProductName, in.Quantity, in.UnitPrice, in.Subtotal,
	).Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal)
	if err != nil {
		r.logger.Printf("sale repo: insert item sale_id=%s product_id=%s error=%v", in.SaleID, in.ProductID, err)
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Sale, error) {
	q := `
SELECT ` + saleColumns + `
FROM sales
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("sale repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("sale repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	q := `
SELECT ` + saleColumns + `
FROM sales
WHERE id = $1
`
	s, err := scanSale(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("sale repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) ListItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	const q = `
SELECT id::text, sale_id::text, product_id::text, product_name, quantity, unit_price, subtotal
FROM sale_items
WHERE sale_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, saleID)
	if err != nil {
		r.logger.Printf("sale repo: list items sale_id=%s error=%v", saleID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.SaleItem
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
