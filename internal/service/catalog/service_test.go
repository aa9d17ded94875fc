package catalog

import (
	"context"
	"errors"
	"testing"

	"puntoventa/internal/domain"
	productrepo "puntoventa/internal/repository/product"
)

type stubProductRepo struct {
	products   []domain.Product
	listErr    error
	lastFilter productrepo.ListFilter
	created    *domain.Product
	updated    *domain.Product
	deletedID  string
}

func (s *stubProductRepo) List(_ context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "created-id"
	s.created = &p
	return &p, nil
}

func (s *stubProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.updated = &p
	return &p, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return nil
}

func (s *stubProductRepo) UpdateStock(context.Context, string, int) error { return nil }

func (s *stubProductRepo) UpsertBySKU(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func TestRefreshReplacesCache(t *testing.T) {
	repo := &stubProductRepo{products: []domain.Product{
		{ID: "p1", Name: "Agua"},
		{ID: "p2", Name: "Café"},
	}}
	svc := New(repo)

	list, err := svc.Refresh(context.Background(), true)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !repo.lastFilter.ActiveOnly {
		t.Fatalf("expected active-only filter")
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}

	if _, ok := svc.FindByID("p1"); !ok {
		t.Fatalf("expected p1 in cache")
	}

	// A second refresh with a shorter list drops the stale entry.
	repo.products = []domain.Product{{ID: "p2", Name: "Café"}}
	if _, err := svc.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, ok := svc.FindByID("p1"); ok {
		t.Fatalf("expected p1 to be gone after refresh")
	}
}

func TestRefreshErrorKeepsCache(t *testing.T) {
	repo := &stubProductRepo{products: []domain.Product{{ID: "p1", Name: "Agua"}}}
	svc := New(repo)
	if _, err := svc.Refresh(context.Background(), true); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	repo.listErr = errors.New("db down")
	if _, err := svc.Refresh(context.Background(), true); err == nil {
		t.Fatalf("expected refresh error")
	}
	if _, ok := svc.FindByID("p1"); !ok {
		t.Fatalf("failed refresh must keep the previous snapshot")
	}
}

func TestSearch(t *testing.T) {
	repo := &stubProductRepo{products: []domain.Product{
		{ID: "p1", Name: "Café molido", SKU: "CAFE-250"},
		{ID: "p2", Name: "Agua mineral", SKU: "AGUA-600"},
		{ID: "p3", Name: "Pan integral", SKU: "PAN-INT"},
	}}
	svc := New(repo)
	if _, err := svc.Refresh(context.Background(), true); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got := svc.Search(""); len(got) != 3 {
		t.Fatalf("empty term must return everything, got %d", len(got))
	}
	if got := svc.Search("agua"); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("expected name match for p2, got %+v", got)
	}
	if got := svc.Search("pan-int"); len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("expected sku match for p3, got %+v", got)
	}
	if got := svc.Search("CAFE"); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("search must be case-insensitive, got %+v", got)
	}
	if got := svc.Search("nothing"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	repo := &stubProductRepo{}
	svc := New(repo)

	if _, err := svc.Create(context.Background(), CreateInput{Name: "  "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Agua", Price: "abc"}); err == nil {
		t.Fatalf("expected error for malformed price")
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Agua", Price: "-1"}); err == nil {
		t.Fatalf("expected error for negative price")
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Agua", Stock: -1}); err == nil {
		t.Fatalf("expected error for negative stock")
	}
	if repo.created != nil {
		t.Fatalf("invalid input must not reach the repository")
	}
}

func TestCreateParsesAmounts(t *testing.T) {
	repo := &stubProductRepo{}
	svc := New(repo)

	p, err := svc.Create(context.Background(), CreateInput{
		Name:  " Agua mineral ",
		Price: "1.50",
		Cost:  "",
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Agua mineral" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Price.StringFixed(2) != "1.50" {
		t.Fatalf("expected price 1.50, got %s", p.Price)
	}
	if !p.Cost.IsZero() {
		t.Fatalf("empty cost must parse as zero, got %s", p.Cost)
	}
}

func TestUpdateSetsID(t *testing.T) {
	repo := &stubProductRepo{}
	svc := New(repo)

	if _, err := svc.Update(context.Background(), "p7", CreateInput{Name: "Agua", Price: "1.00"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updated == nil || repo.updated.ID != "p7" {
		t.Fatalf("expected update for p7, got %+v", repo.updated)
	}
}

func TestDelete(t *testing.T) {
	repo := &stubProductRepo{}
	svc := New(repo)
	if err := svc.Delete(context.Background(), "p9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deletedID != "p9" {
		t.Fatalf("expected delete for p9, got %q", repo.deletedID)
	}
}
