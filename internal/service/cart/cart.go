package cart

import (
	"errors"
	"sync"

	"puntoventa/internal/domain"
	"github.com/shopspring/decimal"
)

// Advisory warnings. They block a single cart mutation and are shown to the
// operator; they never abort a larger flow.
var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("not enough stock available")
)

// Cart is the in-memory, uncommitted selection for one POS session. Lines are
// unique by product and keep insertion order. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the product in the cart. A product with zero stock is
// rejected with ErrOutOfStock. Incrementing an existing line past the
// product's stock is rejected with ErrInsufficientStock and leaves the cart
// unchanged. The line snapshot (name, price, stock) is taken on first add.
func (c *Cart) Add(p domain.Product) error {
	if p.Stock == 0 {
		return ErrOutOfStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != p.ID {
			continue
		}
		if c.lines[i].Quantity+1 > p.Stock {
			return ErrInsufficientStock
		}
		c.lines[i].Quantity++
		return nil
	}

	c.lines = append(c.lines, domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Quantity:  1,
	})
	return nil
}

// SetQuantity replaces a line's quantity. Zero removes the line. A quantity
// above the line's stock snapshot is rejected with ErrInsufficientStock.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity == 0 {
		c.Remove(productID)
		return nil
	}
	if quantity < 0 {
		return errors.New("quantity must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity > c.lines[i].Stock {
			return ErrInsufficientStock
		}
		c.lines[i].Quantity = quantity
		return nil
	}
	return domain.ErrNotFound
}

// Remove deletes the line for the product; no-op when absent.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Subtotal is the sum of price times quantity over all lines, recomputed on
// every call.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of lines in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
