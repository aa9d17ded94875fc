package settings

import (
	"context"
	"errors"
	"strings"

	"puntoventa/internal/domain"
	settingsrepo "puntoventa/internal/repository/settings"
)

type Service struct {
	repo settingsrepo.Repository
}

func New(repo settingsrepo.Repository) *Service {
	return &Service{repo: repo}
}

// SaveInput mirrors the company settings form.
type SaveInput struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyEmail   string `json:"companyEmail"`
	TaxID          string `json:"taxId"`
	Currency       string `json:"currency"`
	LogoURL        string `json:"logoUrl"`
}

// Get returns the settings row for the user, or ErrNotFound when the form was
// never saved.
func (s *Service) Get(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Save upserts the user's settings row.
func (s *Service) Save(ctx context.Context, userID string, in SaveInput) (*domain.CompanySettings, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, errors.New("company name required")
	}
	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = "USD"
	}

	return s.repo.Upsert(ctx, domain.CompanySettings{
		UserID:         userID,
		CompanyName:    name,
		CompanyAddress: optional(in.CompanyAddress),
		CompanyPhone:   optional(in.CompanyPhone),
		CompanyEmail:   optional(in.CompanyEmail),
		TaxID:          optional(in.TaxID),
		Currency:       currency,
		LogoURL:        optional(in.LogoURL),
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
