package settings

import (
	"context"

	"puntoventa/internal/domain"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.CompanySettings, error)
	Upsert(ctx context.Context, s domain.CompanySettings) (*domain.CompanySettings, error)
}
