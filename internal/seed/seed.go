package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Stock       int
	MinStock    int
}

// Apply inserts an admin user and sample products for manual testing. It is
// idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if err := ensureUser(ctx, pool, "admin@pos.local", "Administrador", password); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	products := []productSeed{
		{
			SKU:         "CAFE-250",
			Name:        "Café molido 250g",
			Description: "Tueste medio",
			Price:       decimal.NewFromFloat(5.50),
			Cost:        decimal.NewFromFloat(3.20),
			Stock:       40,
			MinStock:    10,
		},
		{
			SKU:         "AGUA-600",
			Name:        "Agua mineral 600ml",
			Price:       decimal.NewFromFloat(1.00),
			Cost:        decimal.NewFromFloat(0.45),
			Stock:       120,
			MinStock:    24,
		},
		{
			SKU:         "PAN-INT",
			Name:        "Pan integral",
			Price:       decimal.NewFromFloat(2.75),
			Cost:        decimal.NewFromFloat(1.60),
			Stock:       15,
			MinStock:    5,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO users (email, name, password_hash)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
`
	_, err = pool.Exec(ctx, q, email, name, string(hash))
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (sku, name, description, price, cost, stock, min_stock, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, true)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    cost = EXCLUDED.cost,
    min_stock = EXCLUDED.min_stock
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Name, p.Description, p.Price, p.Cost, p.Stock, p.MinStock)
	return err
}
