package settings

import (
	"context"
	"errors"

	"puntoventa/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const settingsColumns = `id::text, user_id::text, company_name, company_address, company_phone, company_email, tax_id, currency, logo_url, updated_at`

func scanSettings(row pgx.Row) (*domain.CompanySettings, error) {
	var s domain.CompanySettings
	err := row.Scan(
		&s.ID, &s.UserID, &s.CompanyName,
		&s.CompanyAddress, &s.CompanyPhone, &s.CompanyEmail,
		&s.TaxID, &s.Currency, &s.LogoURL, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	q := `
SELECT ` + settingsColumns + `
FROM company_settings
WHERE user_id = $1
`
	s, err := scanSettings(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, s domain.CompanySettings) (*domain.CompanySettings, error) {
	q := `
INSERT INTO company_settings (user_id, company_name, company_address, company_phone, company_email, tax_id, currency, logo_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) DO UPDATE SET
    company_name = EXCLUDED.company_name,
    company_address = EXCLUDED.company_address,
    company_phone = EXCLUDED.company_phone,
    company_email = EXCLUDED.company_email,
    tax_id = EXCLUDED.tax_id,
    currency = EXCLUDED.currency,
    logo_url = EXCLUDED.logo_url,
    updated_at = now()
RETURNING ` + settingsColumns + `
`
	return scanSettings(r.pool.QueryRow(ctx, q,
		s.UserID, s.CompanyName, s.CompanyAddress, s.CompanyPhone, s.CompanyEmail, s.TaxID, s.Currency, s.LogoURL))
}
