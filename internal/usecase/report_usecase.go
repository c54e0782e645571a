package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
)

// SalesSource provides the current sales in display order.
type SalesSource interface {
	Sales() []*domain.Sale
}

// RateProvider exposes the last known selling rate, nil while unavailable.
type RateProvider interface {
	SellRate() *decimal.Decimal
}

// ReportUseCase derives filtered views and aggregates from the live ledger.
// Every call recomputes from the current state; nothing is cached.
type ReportUseCase struct {
	source SalesSource
	rates  RateProvider
	now    func() time.Time
}

// NewReportUseCase creates a new ReportUseCase. rates may be nil.
func NewReportUseCase(source SalesSource, rates RateProvider) *ReportUseCase {
	return &ReportUseCase{source: source, rates: rates, now: time.Now}
}

// WithClock overrides the clock used for payment status.
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// SaleRow is a sale with its status evaluated at query time.
type SaleRow struct {
	Sale   *domain.Sale
	Status domain.PaymentStatus
}

// SalesView is the filtered ledger table.
type SalesView struct {
	Rows    []SaleRow
	Summary domain.CurrencySummary
	Total   int
}

// ListSales returns the sales passing filter in display order with their
// payment status and currency summary.
func (uc *ReportUseCase) ListSales(filter domain.Filter) *SalesView {
	all := uc.source.Sales()
	filtered := domain.FilterSales(all, filter)
	now := uc.now()

	rows := make([]SaleRow, len(filtered))
	for i, s := range filtered {
		rows[i] = SaleRow{Sale: s, Status: s.Status(now)}
	}

	return &SalesView{
		Rows:    rows,
		Summary: domain.CurrencyTotals(filtered, uc.rate()),
		Total:   len(all),
	}
}

// FilteredSales returns the sales passing filter without status evaluation.
func (uc *ReportUseCase) FilteredSales(filter domain.Filter) []*domain.Sale {
	return domain.FilterSales(uc.source.Sales(), filter)
}

// CurrencyTotals aggregates the filtered sales by currency.
func (uc *ReportUseCase) CurrencyTotals(filter domain.Filter) domain.CurrencySummary {
	return domain.CurrencyTotals(uc.FilteredSales(filter), uc.rate())
}

// AreaTotals aggregates the filtered sales by area.
func (uc *ReportUseCase) AreaTotals(filter domain.Filter, convert bool) domain.GroupSummary {
	return domain.AreaTotals(uc.FilteredSales(filter), uc.options(convert))
}

// ClientTotals aggregates the filtered sales by client.
func (uc *ReportUseCase) ClientTotals(filter domain.Filter, convert bool) domain.GroupSummary {
	return domain.ClientTotals(uc.FilteredSales(filter), uc.options(convert))
}

// MonthlyTotals aggregates a year by month.
func (uc *ReportUseCase) MonthlyTotals(year int, convert bool) domain.GroupSummary {
	return domain.MonthlyTotals(uc.source.Sales(), year, uc.options(convert))
}

// CompareYears builds a year-over-year table.
func (uc *ReportUseCase) CompareYears(yearA, yearB int, by domain.GroupBy, convert bool) (*domain.Comparison, error) {
	return domain.CompareYears(uc.source.Sales(), yearA, yearB, by, uc.options(convert))
}

func (uc *ReportUseCase) options(convert bool) domain.AggregateOptions {
	return domain.AggregateOptions{Convert: convert, Rate: uc.rate()}
}

func (uc *ReportUseCase) rate() *decimal.Decimal {
	if uc.rates == nil {
		return nil
	}
	return uc.rates.SellRate()
}
