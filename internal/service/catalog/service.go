package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"puntoventa/internal/domain"
	productrepo "puntoventa/internal/repository/product"
	"github.com/shopspring/decimal"
)

// Service fronts the product repository with a full-replacement cache: every
// Refresh swaps the whole list, there is no incremental sync. The POS screen
// serves cart adds from the cached snapshot.
type Service struct {
	repo productrepo.Repository

	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]domain.Product
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo, byID: make(map[string]domain.Product)}
}

// Refresh fetches the product list (active only for the POS view, everything
// for management), ordered by name, and replaces the cache with it.
func (s *Service) Refresh(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	list, err := s.repo.List(ctx, productrepo.ListFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.products = list
	s.byID = byID
	s.mu.Unlock()

	return list, nil
}

// FindByID looks a product up in the cached snapshot.
func (s *Service) FindByID(id string) (*domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

// Search filters the cached snapshot by a case-insensitive substring over
// name and SKU, the way the POS search box does.
func (s *Service) Search(term string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]domain.Product, len(s.products))
		copy(out, s.products)
		return out
	}

	var out []domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term) {
			out = append(out, p)
		}
	}
	return out
}

// CreateInput carries the product form fields.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	Cost        string `json:"cost"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"minStock"`
	ImageURL    string `json:"imageUrl"`
	Active      bool   `json:"active"`
}

func (in CreateInput) toProduct() (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, errors.New("name required")
	}
	price, err := parseAmount(in.Price)
	if err != nil {
		return domain.Product{}, errors.New("invalid price")
	}
	cost, err := parseAmount(in.Cost)
	if err != nil {
		return domain.Product{}, errors.New("invalid cost")
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return domain.Product{}, errors.New("stock must not be negative")
	}
	return domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		SKU:         strings.TrimSpace(in.SKU),
		Price:       price,
		Cost:        cost,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Active:      in.Active,
	}, nil
}

// Create validates the form input and inserts the product.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

// Update validates the form input and overwrites the product.
func (s *Service) Update(ctx context.Context, id string, in CreateInput) (*domain.Product, error) {
	p, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, p)
}

// Delete removes the product.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// parseAmount turns a free-text currency field into a decimal. Empty means
// zero; malformed or negative input is rejected before it reaches a write.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("negative amount")
	}
	return d, nil
}
