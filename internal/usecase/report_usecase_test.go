package usecase_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

type staticSource []*domain.Sale

func (s staticSource) Sales() []*domain.Sale { return s }

type staticRate struct{ rate *decimal.Decimal }

func (r staticRate) SellRate() *decimal.Decimal { return r.rate }

func reportSale(id, client, area string, cur domain.Currency, date civil.Date, total int64) *domain.Sale {
	return &domain.Sale{
		ID: id,
		SaleFields: domain.SaleFields{
			Client:      client,
			Area:        area,
			Currency:    cur,
			InvoiceDate: date,
			TermDays:    domain.IntPtr(30),
			Total:       decimal.NewFromInt(total),
		},
	}
}

func reportFixture() staticSource {
	return staticSource{
		reportSale("1", "Acme", "Audit", domain.CurrencyLocal, civil.Date{Year: 2024, Month: 3, Day: 1}, 1000),
		reportSale("2", "Globex", "Tax", domain.CurrencyForeign, civil.Date{Year: 2024, Month: 3, Day: 20}, 200),
		reportSale("3", "Acme", "", domain.CurrencyLocal, civil.Date{Year: 2024, Month: 4, Day: 2}, 300),
		reportSale("4", "Initech", "Audit", domain.CurrencyLocal, civil.Date{Year: 2023, Month: 3, Day: 5}, 500),
	}
}

func TestReportUseCase_ListSales(t *testing.T) {
	now := time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)
	uc := usecase.NewReportUseCase(reportFixture(), nil).WithClock(func() time.Time { return now })

	view := uc.ListSales(domain.Filter{Year: 2024, Month: time.March})

	require.Len(t, view.Rows, 2)
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, "1", view.Rows[0].Sale.ID)
	// due 2024-03-31, five and a half days left of a 30 day window
	assert.Equal(t, domain.StatusDueSoon, view.Rows[0].Status.Category)
	assert.Equal(t, domain.StatusOnTrack, view.Rows[1].Status.Category)

	assert.True(t, view.Summary.Local.Equal(decimal.NewFromInt(1000)))
	assert.True(t, view.Summary.Foreign.Equal(decimal.NewFromInt(200)))
	assert.False(t, view.Summary.CombinedLocal.Valid)
}

func TestReportUseCase_SearchIgnoresPeriod(t *testing.T) {
	uc := usecase.NewReportUseCase(reportFixture(), nil)

	got := uc.FilteredSales(domain.Filter{Year: 2024, Month: time.March, Search: "  ACME "})

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestReportUseCase_CurrencyTotalsWithRate(t *testing.T) {
	rate := decimal.RequireFromString("3.75")
	uc := usecase.NewReportUseCase(reportFixture(), staticRate{rate: &rate})

	sum := uc.CurrencyTotals(domain.Filter{Year: 2024})

	assert.True(t, sum.Local.Equal(decimal.NewFromInt(1300)))
	require.True(t, sum.ForeignInLocal.Valid)
	assert.True(t, sum.ForeignInLocal.Decimal.Equal(decimal.NewFromInt(750)))
	assert.True(t, sum.CombinedLocal.Decimal.Equal(decimal.NewFromInt(2050)))
}

func TestReportUseCase_AreaTotals(t *testing.T) {
	uc := usecase.NewReportUseCase(reportFixture(), nil)

	got := uc.AreaTotals(domain.Filter{Year: 2024}, false).Map()

	assert.Len(t, got, 3)
	assert.True(t, got["Audit"].Equal(decimal.NewFromInt(1000)))
	assert.True(t, got["Tax"].Equal(decimal.NewFromInt(200)))
	assert.True(t, got[domain.UnspecifiedArea].Equal(decimal.NewFromInt(300)))
}

func TestReportUseCase_CompareYears(t *testing.T) {
	uc := usecase.NewReportUseCase(reportFixture(), nil)

	_, err := uc.CompareYears(2024, 2024, domain.GroupByArea, false)
	assert.ErrorIs(t, err, domain.ErrInvalidComparison)

	cmp, err := uc.CompareYears(2023, 2024, domain.GroupByArea, false)
	require.NoError(t, err)
	assert.Equal(t, 2023, cmp.YearA)
	assert.NotEmpty(t, cmp.Rows)
}
