package sales

import (
	"context"
	"strings"

	"puntoventa/internal/domain"
	salerepo "puntoventa/internal/repository/sale"
)

// Service is the read side of the ledger: list, drill-down, and the rows the
// exporters render. Filtering happens here, over the fetched list, matching
// the history screen's search box.
type Service struct {
	repo salerepo.Repository
}

func New(repo salerepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns sales newest first, optionally filtered by a case-insensitive
// substring over invoice number and customer name.
func (s *Service) List(ctx context.Context, search string) ([]domain.Sale, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return list, nil
	}

	var out []domain.Sale
	for _, sale := range list {
		if strings.Contains(strings.ToLower(sale.InvoiceNumber), search) {
			out = append(out, sale)
			continue
		}
		if sale.CustomerName != nil && strings.Contains(strings.ToLower(*sale.CustomerName), search) {
			out = append(out, sale)
		}
	}
	return out, nil
}

// Detail is a sale joined with its items.
type Detail struct {
	Sale  domain.Sale       `json:"sale"`
	Items []domain.SaleItem `json:"items"`
}

// Get fetches one sale and its items.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Sale: *sale, Items: items}, nil
}
