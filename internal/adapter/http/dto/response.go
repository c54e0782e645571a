package dto

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Failed  []string `json:"failed,omitempty"`
}

// StatusResponse is the payment status of a sale at request time.
type StatusResponse struct {
	Category          domain.StatusCategory `json:"category"`
	Label             string                `json:"label"`
	DueDate           *civil.Date           `json:"due_date,omitempty"`
	RemainingDays     float64               `json:"remaining_days"`
	RemainingFraction float64               `json:"remaining_fraction"`
}

// StatusFromDomain converts a payment status to response.
func StatusFromDomain(s domain.PaymentStatus) StatusResponse {
	return StatusResponse{
		Category:          s.Category,
		Label:             s.Label,
		DueDate:           s.DueDate,
		RemainingDays:     s.Remaining.Hours() / 24,
		RemainingFraction: s.RemainingFraction(),
	}
}

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID               string              `json:"id"`
	Client           string              `json:"client"`
	Area             string              `json:"area"`
	Service          string              `json:"service"`
	Currency         domain.Currency     `json:"currency"`
	ReceiptNumber    string              `json:"receipt_number"`
	ServiceMonth     string              `json:"service_month"`
	InvoiceDate      civil.Date          `json:"invoice_date"`
	TermDays         *int                `json:"term_days"`
	ReceivablePaidOn *civil.Date         `json:"receivable_paid_on"`
	ReceivablePaid   decimal.NullDecimal `json:"receivable_paid"`
	DeductionPaidOn  *civil.Date         `json:"deduction_paid_on"`
	DeductionPaid    decimal.NullDecimal `json:"deduction_paid"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Tax              decimal.Decimal     `json:"tax"`
	Total            decimal.Decimal     `json:"total"`
	TotalMismatch    *decimal.Decimal    `json:"total_mismatch,omitempty"`
	Position         *int                `json:"position"`
	Status           *StatusResponse     `json:"status,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// SaleFromDomain converts domain sale to response.
func SaleFromDomain(s *domain.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:               s.ID,
		Client:           s.Client,
		Area:             s.Area,
		Service:          s.Service,
		Currency:         s.Currency,
		ReceiptNumber:    s.ReceiptNumber,
		ServiceMonth:     s.ServiceMonth,
		InvoiceDate:      s.InvoiceDate,
		TermDays:         s.TermDays,
		ReceivablePaidOn: s.ReceivablePaidOn,
		ReceivablePaid:   s.ReceivablePaid,
		DeductionPaidOn:  s.DeductionPaidOn,
		DeductionPaid:    s.DeductionPaid,
		Subtotal:         s.Subtotal,
		Tax:              s.Tax,
		Total:            s.Total,
		Position:         s.Position,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if m := s.TotalMismatch(); !m.IsZero() {
		resp.TotalMismatch = &m
	}
	return resp
}

// SaleRowFromUseCase converts a sale with its status to response.
func SaleRowFromUseCase(row usecase.SaleRow) *SaleResponse {
	resp := SaleFromDomain(row.Sale)
	status := StatusFromDomain(row.Status)
	resp.Status = &status
	return resp
}

// CurrencySummaryResponse represents currency totals.
type CurrencySummaryResponse struct {
	Local          decimal.Decimal     `json:"local"`
	Foreign        decimal.Decimal     `json:"foreign"`
	LocalRounded   decimal.Decimal     `json:"local_rounded"`
	ForeignRounded decimal.Decimal     `json:"foreign_rounded"`
	Rate           decimal.NullDecimal `json:"rate"`
	ForeignInLocal decimal.NullDecimal `json:"foreign_in_local"`
	CombinedLocal  decimal.NullDecimal `json:"combined_local"`
	LocalCount     int                 `json:"local_count"`
	ForeignCount   int                 `json:"foreign_count"`
	Unclassified   int                 `json:"unclassified"`
}

// CurrencySummaryFromDomain converts currency totals to response.
func CurrencySummaryFromDomain(s domain.CurrencySummary) CurrencySummaryResponse {
	return CurrencySummaryResponse{
		Local:          s.Local,
		Foreign:        s.Foreign,
		LocalRounded:   s.LocalRounded,
		ForeignRounded: s.ForeignRounded,
		Rate:           s.Rate,
		ForeignInLocal: s.ForeignInLocal,
		CombinedLocal:  s.CombinedLocal,
		LocalCount:     s.LocalCount,
		ForeignCount:   s.ForeignCount,
		Unclassified:   s.Unclassified,
	}
}

// ListSalesResponse represents the filtered sales table.
type ListSalesResponse struct {
	Sales   []*SaleResponse         `json:"sales"`
	Summary CurrencySummaryResponse `json:"summary"`
	Count   int                     `json:"count"`
	Total   int                     `json:"total"`
}

// SalesViewFromUseCase converts the sales view to response.
func SalesViewFromUseCase(v *usecase.SalesView) *ListSalesResponse {
	sales := make([]*SaleResponse, len(v.Rows))
	for i, row := range v.Rows {
		sales[i] = SaleRowFromUseCase(row)
	}
	return &ListSalesResponse{
		Sales:   sales,
		Summary: CurrencySummaryFromDomain(v.Summary),
		Count:   len(sales),
		Total:   v.Total,
	}
}

// GroupTotalResponse is one group of an aggregate.
type GroupTotalResponse struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GroupSummaryResponse represents grouped totals.
type GroupSummaryResponse struct {
	Groups       []GroupTotalResponse `json:"groups"`
	Available    bool                 `json:"available"`
	Converted    bool                 `json:"converted"`
	Unclassified int                  `json:"unclassified"`
}

// GroupSummaryFromDomain converts grouped totals to response.
func GroupSummaryFromDomain(g domain.GroupSummary) *GroupSummaryResponse {
	groups := make([]GroupTotalResponse, len(g.Groups))
	for i, gt := range g.Groups {
		groups[i] = GroupTotalResponse{Key: gt.Key, Total: gt.Total, Count: gt.Count}
	}
	return &GroupSummaryResponse{
		Groups:       groups,
		Available:    g.Available,
		Converted:    g.Converted,
		Unclassified: g.Unclassified,
	}
}

// ComparisonRowResponse is one key of a year comparison.
type ComparisonRowResponse struct {
	Key   string          `json:"key"`
	A     decimal.Decimal `json:"a"`
	B     decimal.Decimal `json:"b"`
	Delta decimal.Decimal `json:"delta"`
}

// ComparisonResponse represents a year-over-year table.
type ComparisonResponse struct {
	YearA     int                     `json:"year_a"`
	YearB     int                     `json:"year_b"`
	GroupBy   domain.GroupBy          `json:"group_by"`
	Rows      []ComparisonRowResponse `json:"rows"`
	TotalA    decimal.Decimal         `json:"total_a"`
	TotalB    decimal.Decimal         `json:"total_b"`
	Available bool                    `json:"available"`
}

// ComparisonFromDomain converts a comparison to response.
func ComparisonFromDomain(c *domain.Comparison) *ComparisonResponse {
	rows := make([]ComparisonRowResponse, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = ComparisonRowResponse{Key: r.Key, A: r.A, B: r.B, Delta: r.Delta}
	}
	return &ComparisonResponse{
		YearA:     c.YearA,
		YearB:     c.YearB,
		GroupBy:   c.GroupBy,
		Rows:      rows,
		TotalA:    c.TotalA,
		TotalB:    c.TotalB,
		Available: c.Available,
	}
}

// ExchangeRateResponse represents the current exchange rate.
type ExchangeRateResponse struct {
	Available bool                `json:"available"`
	Sell      decimal.NullDecimal `json:"sell"`
	Buy       decimal.NullDecimal `json:"buy"`
	FetchedAt *time.Time          `json:"fetched_at,omitempty"`
}

// ExchangeRateFromDomain converts a rate to response. A nil rate is reported
// as unavailable.
func ExchangeRateFromDomain(r *domain.ExchangeRate) *ExchangeRateResponse {
	if r == nil {
		return &ExchangeRateResponse{}
	}
	resp := &ExchangeRateResponse{
		Available: true,
		Sell:      decimal.NewNullDecimal(r.Sell),
	}
	if !r.Buy.IsZero() {
		resp.Buy = decimal.NewNullDecimal(r.Buy)
	}
	if !r.FetchedAt.IsZero() {
		fetched := r.FetchedAt
		resp.FetchedAt = &fetched
	}
	return resp
}

// ReorderResponse carries the optimistic order after a move.
type ReorderResponse struct {
	Order []string `json:"order"`
}

// ImportFailureResponse is a row that could not be stored.
type ImportFailureResponse struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResponse summarizes a bulk import.
type ImportResponse struct {
	Created []string                `json:"created"`
	Failed  []ImportFailureResponse `json:"failed,omitempty"`
}

// ImportFromUseCase converts an import result to response.
func ImportFromUseCase(r *usecase.ImportResult) *ImportResponse {
	resp := &ImportResponse{Created: make([]string, len(r.Created))}
	for i, s := range r.Created {
		resp.Created[i] = s.ID
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, ImportFailureResponse{Row: f.Row, Error: f.Err.Error()})
	}
	return resp
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	TaxID        string    `json:"tax_id"`
	Phone        string    `json:"phone"`
	Industry     string    `json:"industry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClientFromDomain converts domain client to response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:           c.ID,
		BusinessName: c.BusinessName,
		TaxID:        c.TaxID,
		Phone:        c.Phone,
		Industry:     c.Industry,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// InventoryResponse represents an inventory item in API responses.
type InventoryResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   domain.Currency `json:"currency"`
	StockValue decimal.Decimal `json:"stock_value"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// InventoryFromDomain converts domain inventory item to response.
func InventoryFromDomain(item *domain.InventoryItem) *InventoryResponse {
	return &InventoryResponse{
		ID:         item.ID,
		Name:       item.Name,
		SKU:        item.SKU,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		Currency:   item.Currency,
		StockValue: item.StockValue(),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// InventoryListFromDomain converts domain inventory items to responses.
func InventoryListFromDomain(items []*domain.InventoryItem) []*InventoryResponse {
	result := make([]*InventoryResponse, len(items))
	for i, item := range items {
		result[i] = InventoryFromDomain(item)
	}
	return result
}

// ListResponse wraps a page of items.
type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// OperatorResponse represents the authenticated operator.
type OperatorResponse struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}
