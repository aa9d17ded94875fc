package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentOther    = "other"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

// Sale is a committed transaction. Immutable once written.
type Sale struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  *string         `json:"customerName,omitempty"`
	CustomerEmail *string         `json:"customerEmail,omitempty"`
	CustomerPhone *string         `json:"customerPhone,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SaleItem is one line of a committed sale. ProductName and UnitPrice are
// denormalized from the cart snapshot at commit time.
type SaleItem struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"saleId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
