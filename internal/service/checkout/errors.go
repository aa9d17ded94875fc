package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no operator identity was supplied; nothing
	// was written.
	ErrUnauthenticated = errors.New("no authenticated user")
	// ErrEmptyCart means there was nothing to commit.
	ErrEmptyCart = errors.New("cart is empty, nothing to commit")
)

// InvoiceNumberError wraps a failure to obtain an invoice number. No writes
// have happened; the commit is safe to retry.
type InvoiceNumberError struct {
	Err error
}

func (e *InvoiceNumberError) Error() string {
	return fmt.Sprintf("invoice number unavailable: %v", e.Err)
}

func (e *InvoiceNumberError) Unwrap() error { return e.Err }

// SaleInsertError wraps a failed sale row insert. No other entity was
// mutated; the commit is safe to retry.
type SaleInsertError struct {
	Err error
}

func (e *SaleInsertError) Error() string {
	return fmt.Sprintf("sale insert failed: %v", e.Err)
}

func (e *SaleInsertError) Unwrap() error { return e.Err }

// SaleItemInsertError reports a failed item insert for one cart line. The
// sale row and writes from earlier lines remain in place.
type SaleItemInsertError struct {
	Line      int
	ProductID string
	Err       error
}

func (e *SaleItemInsertError) Error() string {
	return fmt.Sprintf("sale item insert failed for line %d (product %s): %v", e.Line, e.ProductID, e.Err)
}

func (e *SaleItemInsertError) Unwrap() error { return e.Err }

// StockUpdateError reports a failed stock write for one cart line. The line's
// sale item was already inserted and remains in place, as do writes from
// earlier lines.
type StockUpdateError struct {
	Line      int
	ProductID string
	Err       error
}

func (e *StockUpdateError) Error() string {
	return fmt.Sprintf("stock update failed for line %d (product %s): %v", e.Line, e.ProductID, e.Err)
}

func (e *StockUpdateError) Unwrap() error { return e.Err }
