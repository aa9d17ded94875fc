package domain

import "github.com/shopspring/decimal"

// CartLine is one product selection in an uncommitted cart. Name, Price and
// Stock are snapshots taken when the line was added; the stock snapshot bounds
// the quantity and is the value the checkout decrements against.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
