package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/adapter/sheet"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

type saleServiceStub struct {
	createFn func(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error)
	updateFn func(ctx context.Context, id string, fields domain.SaleFields) (*domain.Sale, error)
	getFn    func(ctx context.Context, id string) (*domain.Sale, error)
	deleteFn func(ctx context.Context, id string) error
	importFn func(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error)
}

func (s *saleServiceStub) CreateSale(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error) {
	return s.createFn(ctx, fields)
}

func (s *saleServiceStub) UpdateSale(ctx context.Context, id string, fields domain.SaleFields) (*domain.Sale, error) {
	return s.updateFn(ctx, id, fields)
}

func (s *saleServiceStub) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.getFn(ctx, id)
}

func (s *saleServiceStub) DeleteSale(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *saleServiceStub) ImportSales(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error) {
	return s.importFn(ctx, rows)
}

type ordererStub struct {
	reorderFn func(ctx context.Context, activeID, overID string) error
	order     []string
}

func (s *ordererStub) Reorder(ctx context.Context, activeID, overID string) error {
	return s.reorderFn(ctx, activeID, overID)
}

func (s *ordererStub) Order() []string { return s.order }

type reporterStub struct {
	sales    []*domain.Sale
	captured domain.Filter
}

func (s *reporterStub) ListSales(filter domain.Filter) *usecase.SalesView {
	s.captured = filter
	rows := make([]usecase.SaleRow, len(s.sales))
	for i, sale := range s.sales {
		rows[i] = usecase.SaleRow{Sale: sale}
	}
	return &usecase.SalesView{Rows: rows, Total: len(s.sales)}
}

func (s *reporterStub) FilteredSales(filter domain.Filter) []*domain.Sale {
	s.captured = filter
	return s.sales
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func exampleSale(id string) *domain.Sale {
	return &domain.Sale{
		ID: id,
		SaleFields: domain.SaleFields{
			Client:      "Acme",
			Area:        "Legal",
			Currency:    domain.CurrencyLocal,
			InvoiceDate: civil.Date{Year: 2024, Month: 3, Day: 1},
			Subtotal:    decimal.NewFromInt(100),
			Tax:         decimal.NewFromInt(18),
			Total:       decimal.NewFromInt(118),
		},
	}
}

func TestSaleHandler_Create_Success(t *testing.T) {
	var captured domain.SaleFields
	h := NewSaleHandler(&saleServiceStub{
		createFn: func(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error) {
			captured = fields
			return &domain.Sale{ID: "s1", SaleFields: fields}, nil
		},
	}, nil, nil)

	body := `{"client":" Acme ","currency":"$","invoice_date":45352,"term_days":30,"total":"150.25"}`
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Client != "Acme" || captured.Currency != domain.CurrencyForeign {
		t.Fatalf("unexpected fields %+v", captured)
	}
	if captured.InvoiceDate != (civil.Date{Year: 2024, Month: 3, Day: 1}) {
		t.Fatalf("expected serial to parse as 2024-03-01, got %s", captured.InvoiceDate)
	}
	if captured.TermDays == nil || *captured.TermDays != 30 {
		t.Fatalf("expected term 30, got %v", captured.TermDays)
	}

	var resp dto.SaleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "s1" || !resp.Total.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSaleHandler_Create_InvalidDate(t *testing.T) {
	h := NewSaleHandler(&saleServiceStub{
		createFn: func(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error) {
			t.Fatal("CreateSale should not be called for an invalid date")
			return nil, nil
		},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"client":"Acme","invoice_date":"soon"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSaleHandler_Create_InvalidJSON(t *testing.T) {
	h := NewSaleHandler(&saleServiceStub{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSaleHandler_Get_NotFound(t *testing.T) {
	h := NewSaleHandler(&saleServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Sale, error) {
			return nil, domain.ErrSaleNotFound
		},
	}, nil, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/sales/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSaleHandler_Update_PassesID(t *testing.T) {
	var gotID string
	h := NewSaleHandler(&saleServiceStub{
		updateFn: func(ctx context.Context, id string, fields domain.SaleFields) (*domain.Sale, error) {
			gotID = id
			return &domain.Sale{ID: id, SaleFields: fields}, nil
		},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/sales/s9", strings.NewReader(`{"client":"Acme","invoice_date":"2024-01-31"}`))
	req = withURLParam(req, "id", "s9")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "s9" {
		t.Fatalf("expected id s9, got %s", gotID)
	}
}

func TestSaleHandler_Delete(t *testing.T) {
	deleted := ""
	h := NewSaleHandler(&saleServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}, nil, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/sales/s1", nil), "id", "s1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "s1" {
		t.Fatalf("expected s1 to be deleted, got %q", deleted)
	}
}

func TestSaleHandler_List_UsesFilter(t *testing.T) {
	reporter := &reporterStub{sales: []*domain.Sale{exampleSale("s1"), exampleSale("s2")}}
	h := NewSaleHandler(nil, nil, reporter)

	req := httptest.NewRequest(http.MethodGet, "/sales?year=2024&q=acme", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reporter.captured.Year != 2024 || reporter.captured.Search != "acme" {
		t.Fatalf("unexpected filter %+v", reporter.captured)
	}

	var resp dto.ListSalesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sales) != 2 || resp.Sales[0].ID != "s1" {
		t.Fatalf("unexpected sales %+v", resp.Sales)
	}
}

func TestSaleHandler_Reorder(t *testing.T) {
	ledger := &ordererStub{
		reorderFn: func(ctx context.Context, activeID, overID string) error {
			if activeID != "c" || overID != "a" {
				t.Fatalf("unexpected move %s over %s", activeID, overID)
			}
			return nil
		},
		order: []string{"c", "a", "b"},
	}
	h := NewSaleHandler(nil, ledger, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales/reorder", strings.NewReader(`{"active_id":"c","over_id":"a"}`))
	rec := httptest.NewRecorder()

	h.Reorder(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.ReorderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if strings.Join(resp.Order, ",") != "c,a,b" {
		t.Fatalf("unexpected order %v", resp.Order)
	}
}

func TestSaleHandler_Reorder_PartialWriteFailure(t *testing.T) {
	ledger := &ordererStub{
		reorderFn: func(ctx context.Context, activeID, overID string) error {
			return &usecase.PositionWriteError{Failed: []string{"b"}, Total: 3}
		},
	}
	h := NewSaleHandler(nil, ledger, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales/reorder", strings.NewReader(`{"active_id":"c","over_id":"a"}`))
	rec := httptest.NewRecorder()

	h.Reorder(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Failed) != 1 || resp.Failed[0] != "b" {
		t.Fatalf("expected failed ids [b], got %v", resp.Failed)
	}
}

func TestSaleHandler_Reorder_SurvivesClientCancel(t *testing.T) {
	ledger := &ordererStub{
		reorderFn: func(ctx context.Context, activeID, overID string) error {
			if ctx.Err() != nil {
				t.Fatalf("reorder context cancelled with request: %v", ctx.Err())
			}
			return nil
		},
		order: []string{"c", "a", "b"},
	}
	h := NewSaleHandler(nil, ledger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/sales/reorder", strings.NewReader(`{"active_id":"c","over_id":"a"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.Reorder(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSaleHandler_Reorder_MissingActive(t *testing.T) {
	h := NewSaleHandler(nil, &ordererStub{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales/reorder", strings.NewReader(`{"over_id":"a"}`))
	rec := httptest.NewRecorder()

	h.Reorder(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func importCSV(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := sheet.WriteCSV(&buf, []*domain.Sale{exampleSale("s1"), exampleSale("s2")}); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return buf.String()
}

func TestSaleHandler_Import_CSVBody(t *testing.T) {
	var got []domain.SaleFields
	h := NewSaleHandler(&saleServiceStub{
		importFn: func(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error) {
			got = rows
			return &usecase.ImportResult{Created: []*domain.Sale{{ID: "n1"}, {ID: "n2"}}}, nil
		},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales/import", strings.NewReader(importCSV(t)))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(got) != 2 || got[0].Client != "Acme" {
		t.Fatalf("unexpected rows %+v", got)
	}
}

func TestSaleHandler_Import_MultipartPartialFailure(t *testing.T) {
	h := NewSaleHandler(&saleServiceStub{
		importFn: func(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error) {
			return &usecase.ImportResult{
				Created: []*domain.Sale{{ID: "n1"}},
				Failed:  []usecase.ImportFailure{{Row: 2, Err: errors.New("db error")}},
			}, nil
		},
	}, nil, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "ventas.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	fmt.Fprint(part, importCSV(t))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sales/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Created) != 1 || len(resp.Failed) != 1 || resp.Failed[0].Row != 2 {
		t.Fatalf("unexpected import response %+v", resp)
	}
}

func TestSaleHandler_Import_UnsupportedFormat(t *testing.T) {
	h := NewSaleHandler(&saleServiceStub{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales/import?format=ods", strings.NewReader("data"))
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestSaleHandler_Import_Empty(t *testing.T) {
	h := NewSaleHandler(&saleServiceStub{
		importFn: func(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error) {
			return nil, domain.ErrEmptyImport
		},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sales/import?format=csv", strings.NewReader(strings.Join(sheet.Headers[:], ",")+"\n"))
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestSaleHandler_Export(t *testing.T) {
	reporter := &reporterStub{sales: []*domain.Sale{exampleSale("s1")}}
	h := NewSaleHandler(nil, nil, reporter)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"csv", contentTypeCSV, "Client,"},
		{"pdf", contentTypePDF, "%PDF-"},
		{"", contentTypeXLSX, "PK"},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/sales/export?year=2024&format="+tt.format, nil)
			rec := httptest.NewRecorder()

			h.Export(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("expected content type %s, got %s", tt.contentType, got)
			}
			if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment") {
				t.Fatalf("expected attachment disposition, got %q", rec.Header().Get("Content-Disposition"))
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Fatalf("expected body to start with %q", tt.prefix)
			}
		})
	}

	if reporter.captured.Year != 2024 {
		t.Fatalf("expected year filter to reach the reporter, got %+v", reporter.captured)
	}
}

func TestSaleHandler_Export_UnknownFormat(t *testing.T) {
	h := NewSaleHandler(nil, nil, &reporterStub{})

	req := httptest.NewRequest(http.MethodGet, "/sales/export?format=doc", nil)
	rec := httptest.NewRecorder()

	h.Export(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExportTitle(t *testing.T) {
	tests := []struct {
		filter domain.Filter
		want   string
	}{
		{domain.Filter{}, "Sales"},
		{domain.Filter{Year: 2024}, "Sales 2024"},
		{domain.Filter{Year: 2024, Month: 3}, "Sales March 2024"},
		{domain.Filter{Search: " acme "}, `Sales matching "acme"`},
	}
	for _, tt := range tests {
		if got := exportTitle(tt.filter); got != tt.want {
			t.Fatalf("exportTitle(%+v) = %q, want %q", tt.filter, got, tt.want)
		}
	}
}
