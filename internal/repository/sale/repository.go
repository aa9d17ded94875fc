package sale

import (
	"context"

	"puntoventa/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateSaleInput struct {
	UserID        string
	InvoiceNumber string
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Notes         *string
}

type CreateItemInput struct {
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type Repository interface {
	InsertSale(ctx context.Context, in CreateSaleInput) (*domain.Sale, error)
	InsertItem(ctx context.Context, in CreateItemInput) (*domain.SaleItem, error)
	List(ctx context.Context) ([]domain.Sale, error)
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	ListItems(ctx context.Context, saleID string) ([]domain.SaleItem, error)
}
