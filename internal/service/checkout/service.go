package checkout

import (
	"context"
	"errors"
	"io"
	"log"

	"puntoventa/internal/domain"
	salerepo "puntoventa/internal/repository/sale"
	"github.com/shopspring/decimal"
)

type saleRepo interface {
	InsertSale(ctx context.Context, in salerepo.CreateSaleInput) (*domain.Sale, error)
	InsertItem(ctx context.Context, in salerepo.CreateItemInput) (*domain.SaleItem, error)
}

type stockWriter interface {
	UpdateStock(ctx context.Context, id string, stock int) error
}

type invoiceRepo interface {
	NextNumber(ctx context.Context) (string, error)
}

// Service runs the sale commit sequence: invoice number, sale row, then per
// line a sale item insert followed by a stock write, strictly in cart order.
type Service struct {
	sales    saleRepo
	products stockWriter
	invoices invoiceRepo
	logger   *log.Logger
}

func New(sales saleRepo, products stockWriter, invoices invoiceRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{sales: sales, products: products, invoices: invoices, logger: logger}
}

// Meta carries the checkout form fields. Tax and Discount are already parsed
// amounts; Validate rejects anything the commit must not see.
type Meta struct {
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	PaymentMethod string          `json:"paymentMethod"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Notes         string          `json:"notes"`
}

func (m Meta) Validate() error {
	if !domain.ValidPaymentMethod(m.PaymentMethod) {
		return errors.New("invalid payment method")
	}
	if m.Tax.IsNegative() {
		return errors.New("tax must not be negative")
	}
	if m.Discount.IsNegative() {
		return errors.New("discount must not be negative")
	}
	return nil
}

// Result is the outcome of a fully committed sale.
type Result struct {
	Sale  *domain.Sale      `json:"sale"`
	Items []domain.SaleItem `json:"items"`
}

// Commit writes the cart as a sale. The identity is an explicit parameter;
// there is no ambient session lookup. Steps before the sale insert leave no
// state behind on failure. Once the per-line loop starts, a failure aborts
// the loop and earlier writes stay in place; there is no compensating
// rollback. Callers retry a failed commit in full, which draws a fresh
// invoice number.
func (s *Service) Commit(ctx context.Context, user *domain.User, lines []domain.CartLine, meta Meta) (*Result, error) {
	if user == nil || user.ID == "" {
		return nil, ErrUnauthenticated
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	invoiceNumber, err := s.invoices.NextNumber(ctx)
	if err != nil {
		return nil, &InvoiceNumberError{Err: err}
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	// Total is not clamped; a discount above subtotal+tax goes through as a
	// negative total.
	total := subtotal.Add(meta.Tax).Sub(meta.Discount)

	sale, err := s.sales.InsertSale(ctx, salerepo.CreateSaleInput{
		UserID:        user.ID,
		InvoiceNumber: invoiceNumber,
		CustomerName:  optional(meta.CustomerName),
		CustomerEmail: optional(meta.CustomerEmail),
		CustomerPhone: optional(meta.CustomerPhone),
		Subtotal:      subtotal,
		Tax:           meta.Tax,
		Discount:      meta.Discount,
		Total:         total,
		PaymentMethod: meta.PaymentMethod,
		Notes:         optional(meta.Notes),
	})
	if err != nil {
		s.logger.Printf("checkout: sale insert invoice=%s error=%v", invoiceNumber, err)
		return nil, &SaleInsertError{Err: err}
	}

	items := make([]domain.SaleItem, 0, len(lines))
	for i, line := range lines {
		item, err := s.sales.InsertItem(ctx, salerepo.CreateItemInput{
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
			Subtotal:    line.Subtotal(),
		})
		if err != nil {
			s.logger.Printf("checkout: item insert invoice=%s line=%d product=%s error=%v", invoiceNumber, i, line.ProductID, err)
			return nil, &SaleItemInsertError{Line: i, ProductID: line.ProductID, Err: err}
		}
		items = append(items, *item)

		// The new stock comes from the cart's snapshot, not a re-read.
		if err := s.products.UpdateStock(ctx, line.ProductID, line.Stock-line.Quantity); err != nil {
			s.logger.Printf("checkout: stock update invoice=%s line=%d product=%s error=%v", invoiceNumber, i, line.ProductID, err)
			return nil, &StockUpdateError{Line: i, ProductID: line.ProductID, Err: err}
		}
	}

	s.logger.Printf("checkout: committed invoice=%s sale_id=%s lines=%d total=%s", invoiceNumber, sale.ID, len(items), sale.Total)
	return &Result{Sale: sale, Items: items}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
