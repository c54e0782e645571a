package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/gosales/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gosales/internal/adapter/http/middleware"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/auth"
	"github.com/iho/gosales/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"client":"Acme","currency":"S/","invoice_date":"2024-03-01","total":"118"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_AuthGuardsWrites(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.AuthHandler = handler.NewAuthHandler(jwtManager)
	}))

	viewer, err := jwtManager.Generate(&domain.Operator{ID: "op-1", Role: domain.RoleViewer})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	// Unauthenticated requests are rejected.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Viewers may read.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for viewer read, got %d", rec.Code)
	}

	// Viewers may not write.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sales/s1", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer write, got %d", rec.Code)
	}

	// Health stays public.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public /health, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.AuthHandler = handler.NewAuthHandler(jwtManager)
	}))

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/sales/",
		"POST /api/v1/sales/",
		"POST /api/v1/sales/reorder",
		"POST /api/v1/sales/import",
		"GET /api/v1/sales/export",
		"GET /api/v1/sales/{id}",
		"PUT /api/v1/sales/{id}",
		"DELETE /api/v1/sales/{id}",
		"GET /api/v1/reports/currency",
		"GET /api/v1/reports/areas",
		"GET /api/v1/reports/clients",
		"GET /api/v1/reports/monthly",
		"GET /api/v1/reports/compare",
		"GET /api/v1/exchange-rate/",
		"POST /api/v1/exchange-rate/refresh",
		"GET /api/v1/ledger/status",
		"GET /api/v1/clients/",
		"POST /api/v1/inventory/",
		"GET /api/v1/auth/me",
		"POST /api/v1/auth/tokens",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	ledger := &stubLedger{}
	reports := &stubReports{}

	cfg := RouterConfig{
		SaleHandler:      handler.NewSaleHandler(&stubSaleService{}, ledger, reports),
		ReportHandler:    handler.NewReportHandler(reports),
		ExchangeHandler:  handler.NewExchangeHandler(&stubRates{}),
		ClientHandler:    handler.NewClientHandler(&stubClientService{}),
		InventoryHandler: handler.NewInventoryHandler(&stubInventoryService{}),
		LedgerHandler:    handler.NewLedgerHandler(ledger),
		HealthHandler:    handler.NewHealthHandler(nil, nil, nil),
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubSaleService struct{}

func (stubSaleService) CreateSale(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error) {
	return &domain.Sale{ID: "s1", SaleFields: fields}, nil
}

func (stubSaleService) UpdateSale(ctx context.Context, id string, fields domain.SaleFields) (*domain.Sale, error) {
	return &domain.Sale{ID: id, SaleFields: fields}, nil
}

func (stubSaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return &domain.Sale{ID: id}, nil
}

func (stubSaleService) DeleteSale(ctx context.Context, id string) error {
	return nil
}

func (stubSaleService) ImportSales(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error) {
	return &usecase.ImportResult{}, nil
}

type stubLedger struct{}

func (stubLedger) Reorder(ctx context.Context, activeID, overID string) error { return nil }
func (stubLedger) Order() []string                                            { return []string{} }
func (stubLedger) Status() usecase.LedgerStatus                               { return usecase.LedgerStatus{Snapshots: 1} }

type stubReports struct{}

func (stubReports) ListSales(filter domain.Filter) *usecase.SalesView { return &usecase.SalesView{} }
func (stubReports) FilteredSales(filter domain.Filter) []*domain.Sale { return nil }
func (stubReports) CurrencyTotals(filter domain.Filter) domain.CurrencySummary {
	return domain.CurrencySummary{}
}
func (stubReports) AreaTotals(filter domain.Filter, convert bool) domain.GroupSummary {
	return domain.GroupSummary{}
}
func (stubReports) ClientTotals(filter domain.Filter, convert bool) domain.GroupSummary {
	return domain.GroupSummary{}
}
func (stubReports) MonthlyTotals(year int, convert bool) domain.GroupSummary {
	return domain.GroupSummary{}
}
func (stubReports) CompareYears(yearA, yearB int, by domain.GroupBy, convert bool) (*domain.Comparison, error) {
	return &domain.Comparison{YearA: yearA, YearB: yearB, GroupBy: by}, nil
}

type stubRates struct{}

func (stubRates) Current() *domain.ExchangeRate    { return nil }
func (stubRates) Refresh(ctx context.Context) bool { return false }

type stubClientService struct{}

func (stubClientService) CreateClient(ctx context.Context, input usecase.ClientInput) (*domain.Client, error) {
	return &domain.Client{ID: "c1"}, nil
}

func (stubClientService) UpdateClient(ctx context.Context, id string, input usecase.ClientInput) (*domain.Client, error) {
	return &domain.Client{ID: id}, nil
}

func (stubClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return &domain.Client{ID: id}, nil
}

func (stubClientService) DeleteClient(ctx context.Context, id string) error { return nil }

func (stubClientService) ListClients(ctx context.Context, input usecase.ListInput) ([]*domain.Client, error) {
	return []*domain.Client{}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) CreateItem(ctx context.Context, input usecase.InventoryInput) (*domain.InventoryItem, error) {
	return &domain.InventoryItem{ID: "i1"}, nil
}

func (stubInventoryService) UpdateItem(ctx context.Context, id string, input usecase.InventoryInput) (*domain.InventoryItem, error) {
	return &domain.InventoryItem{ID: id}, nil
}

func (stubInventoryService) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return &domain.InventoryItem{ID: id}, nil
}

func (stubInventoryService) DeleteItem(ctx context.Context, id string) error { return nil }

func (stubInventoryService) ListItems(ctx context.Context, input usecase.ListInput) ([]*domain.InventoryItem, error) {
	return []*domain.InventoryItem{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
