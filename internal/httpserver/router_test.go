package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"puntoventa/internal/domain"
	"puntoventa/internal/service/auth"
	"puntoventa/internal/service/cart"
	"puntoventa/internal/service/catalog"
	"puntoventa/internal/service/checkout"
	"puntoventa/internal/service/sales"
	"puntoventa/internal/service/settings"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubAuth struct {
	user *domain.User
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	if s.user != nil && email == s.user.Email && password == "secret123" {
		return s.user, "test-token", nil
	}
	return nil, "", auth.ErrInvalidCredentials
}

func (s *stubAuth) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	if s.user != nil && token == "test-token" {
		return s.user, nil
	}
	return nil, auth.ErrInvalidToken
}

func (s *stubAuth) Logout(context.Context, string) {}

func (s *stubAuth) AccessTTLSeconds() int { return 3600 }

type stubCatalog struct {
	products   []domain.Product
	refreshErr error
	refreshes  int
}

func (s *stubCatalog) Refresh(context.Context, bool) ([]domain.Product, error) {
	s.refreshes++
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.products, nil
}

func (s *stubCatalog) FindByID(id string) (*domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

func (s *stubCatalog) Search(string) []domain.Product { return s.products }

func (s *stubCatalog) Create(_ context.Context, in catalog.CreateInput) (*domain.Product, error) {
	return &domain.Product{ID: "new", Name: in.Name}, nil
}

func (s *stubCatalog) Update(_ context.Context, id string, in catalog.CreateInput) (*domain.Product, error) {
	return &domain.Product{ID: id, Name: in.Name}, nil
}

func (s *stubCatalog) Delete(context.Context, string) error { return nil }

type stubCheckout struct {
	err      error
	result   *checkout.Result
	gotLines []domain.CartLine
	gotUser  *domain.User
}

func (s *stubCheckout) Commit(_ context.Context, user *domain.User, lines []domain.CartLine, _ checkout.Meta) (*checkout.Result, error) {
	s.gotUser = user
	s.gotLines = lines
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubSales struct {
	sales []domain.Sale
}

func (s *stubSales) List(context.Context, string) ([]domain.Sale, error) {
	return s.sales, nil
}

func (s *stubSales) Get(_ context.Context, id string) (*sales.Detail, error) {
	for _, sale := range s.sales {
		if sale.ID == id {
			return &sales.Detail{Sale: sale}, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubSettings struct {
	stored *domain.CompanySettings
}

func (s *stubSettings) Get(_ context.Context, userID string) (*domain.CompanySettings, error) {
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubSettings) Save(_ context.Context, userID string, in settings.SaveInput) (*domain.CompanySettings, error) {
	s.stored = &domain.CompanySettings{UserID: userID, CompanyName: in.CompanyName}
	return s.stored, nil
}

type fixture struct {
	router   *gin.Engine
	auth     *stubAuth
	catalog  *stubCatalog
	carts    *cart.Store
	checkout *stubCheckout
	sales    *stubSales
	settings *stubSettings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		auth:     &stubAuth{user: &domain.User{ID: "u1", Email: "admin@pos.local", Name: "Admin"}},
		catalog:  &stubCatalog{},
		carts:    cart.NewStore(),
		checkout: &stubCheckout{},
		sales:    &stubSales{},
		settings: &stubSettings{},
	}

	logger := log.New(io.Discard, "", 0)
	router, err := buildRouter(logger, nil, Deps{
		Auth:     f.auth,
		Catalog:  f.catalog,
		Carts:    f.carts,
		Checkout: f.checkout,
		Sales:    f.sales,
		Settings: f.settings,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	f.router = router
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer test-token")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/login", `{"email":"admin@pos.local","password":"secret123"}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["accessToken"] != "test-token" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = f.do(t, http.MethodPost, "/auth/login", `{"email":"admin@pos.local","password":"wrong"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/products", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec2 := httptest.NewRecorder()
	f.router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec2.Code)
	}
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)
	f.catalog.products = []domain.Product{{ID: "p1", Name: "Agua"}}

	rec := f.do(t, http.MethodGet, "/api/products?active=true", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.catalog.refreshes != 1 {
		t.Fatalf("expected a refresh, got %d", f.catalog.refreshes)
	}
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)
	f.catalog.products = []domain.Product{
		{ID: "p1", Name: "Agua", Price: decimal.RequireFromString("1.00"), Stock: 2},
		{ID: "p0", Name: "Agotado", Stock: 0},
	}

	rec := f.do(t, http.MethodPost, "/api/pos/carts", "", true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	cartID, _ := decodeBody(t, rec)["id"].(string)
	if cartID == "" {
		t.Fatalf("expected a cart id")
	}

	rec = f.do(t, http.MethodPost, "/api/pos/carts/"+cartID+"/items", `{"productId":"p1"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/pos/carts/"+cartID+"/items", `{"productId":"p0"}`, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("out of stock: expected 409, got %d", rec.Code)
	}
	if _, ok := decodeBody(t, rec)["warning"]; !ok {
		t.Fatalf("expected a warning body")
	}

	rec = f.do(t, http.MethodPut, "/api/pos/carts/"+cartID+"/items/p1", `{"quantity":5}`, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("over stock: expected 409, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/pos/carts/"+cartID+"/items/p1", `{"quantity":2}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("set quantity: expected 200, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/pos/carts/"+cartID, "", true)
	body := decodeBody(t, rec)
	lines, _ := body["lines"].([]any)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %v", body)
	}

	rec = f.do(t, http.MethodPost, "/api/pos/carts/unknown/items", `{"productId":"p1"}`, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown cart: expected 404, got %d", rec.Code)
	}
}

func checkoutFixture(t *testing.T) (*fixture, string) {
	t.Helper()
	f := newFixture(t)
	f.catalog.products = []domain.Product{
		{ID: "p1", Name: "Agua", Price: decimal.RequireFromString("1.00"), Stock: 5},
	}
	rec := f.do(t, http.MethodPost, "/api/pos/carts", "", true)
	cartID, _ := decodeBody(t, rec)["id"].(string)
	rec = f.do(t, http.MethodPost, "/api/pos/carts/"+cartID+"/items", `{"productId":"p1"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: %d", rec.Code)
	}
	return f, cartID
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	f, cartID := checkoutFixture(t)
	f.checkout.result = &checkout.Result{Sale: &domain.Sale{ID: "s1", InvoiceNumber: "INV-000001"}}

	rec := f.do(t, http.MethodPost, "/api/pos/carts/"+cartID+"/checkout", `{"paymentMethod":"cash"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.checkout.gotUser == nil || f.checkout.gotUser.ID != "u1" {
		t.Fatalf("expected the authenticated user to be passed, got %+v", f.checkout.gotUser)
	}
	if len(f.checkout.gotLines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(f.checkout.gotLines))
	}

	sessionCart, ok := f.carts.Get(cartID)
	if !ok || sessionCart.Len() != 0 {
		t.Fatalf("expected the cart to be cleared after success")
	}
	// The catalog is refreshed so the POS screen sees new stock.
	if f.catalog.refreshes != 1 {
		t.Fatalf("expected a catalog refresh, got %d", f.catalog.refreshes)
	}
}

func TestCheckoutPartialFailureKeepsCart(t *testing.T) {
	f, cartID := checkoutFixture(t)
	f.checkout.err = &checkout.SaleItemInsertError{Line: 1, ProductID: "p2", Err: errors.New("boom")}

	rec := f.do(t, http.MethodPost, "/api/pos/carts/"+cartID+"/checkout", `{"paymentMethod":"cash"}`, true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["line"] != float64(1) || body["productId"] != "p2" {
		t.Fatalf("expected the failing line in the body, got %v", body)
	}

	sessionCart, _ := f.carts.Get(cartID)
	if sessionCart.Len() != 1 {
		t.Fatalf("failed checkout must keep the cart for retry")
	}
}

func TestCheckoutStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", checkout.ErrUnauthenticated, http.StatusUnauthorized},
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest},
		{"invoice number", &checkout.InvoiceNumberError{Err: errors.New("boom")}, http.StatusBadGateway},
		{"sale insert", &checkout.SaleInsertError{Err: errors.New("boom")}, http.StatusBadGateway},
		{"stock update", &checkout.StockUpdateError{Line: 0, ProductID: "p1", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"validation", errors.New("invalid payment method"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, cartID := checkoutFixture(t)
			f.checkout.err = tc.err
			rec := f.do(t, http.MethodPost, "/api/pos/carts/"+cartID+"/checkout", `{"paymentMethod":"cash"}`, true)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSalesExport(t *testing.T) {
	f := newFixture(t)
	f.sales.sales = []domain.Sale{{
		ID:            "s1",
		InvoiceNumber: "INV-000001",
		Total:         decimal.RequireFromString("21.00"),
		PaymentMethod: domain.PaymentCash,
	}}

	rec := f.do(t, http.MethodGet, "/api/sales/export?format=csv", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "ventas_") {
		t.Fatalf("unexpected disposition %s", cd)
	}
	if !strings.Contains(rec.Body.String(), "INV-000001") {
		t.Fatalf("expected the invoice in the export body")
	}

	rec = f.do(t, http.MethodGet, "/api/sales/export?format=pdf", "", true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestGetSale(t *testing.T) {
	f := newFixture(t)
	f.sales.sales = []domain.Sale{{ID: "s1", InvoiceNumber: "INV-000001"}}

	rec := f.do(t, http.MethodGet, "/api/sales/s1", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/api/sales/missing", "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/settings", "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before save, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/settings", `{"companyName":"Mi Tienda"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/settings", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after save, got %d", rec.Code)
	}
}
