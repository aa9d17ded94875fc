package product

import (
	"context"

	"puntoventa/internal/domain"
)

// ListFilter narrows the product listing. The POS view asks for active
// products only; the management view lists everything. Ordering is by name
// in both cases.
type ListFilter struct {
	ActiveOnly bool
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// UpdateStock overwrites the stock counter with an absolute value. The
	// checkout computes that value from its cart snapshot, so there is no
	// conditional decrement here.
	UpdateStock(ctx context.Context, id string, stock int) error
	// UpsertBySKU inserts or refreshes a product keyed by SKU; used by the
	// CSV importer.
	UpsertBySKU(ctx context.Context, p domain.Product) (*domain.Product, error)
}
