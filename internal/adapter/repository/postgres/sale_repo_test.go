package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/postgres/generated"
)

func fastRetrier() *Retrier {
	return NewRetrierWithConfig(testRetrierConfig(3))
}

func TestSaleRepository_UpdatePosition(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE sales SET position").
		WithArgs("s1", pgtype.Int4{Int32: 3, Valid: true}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := newSaleRepository(pool, fastRetrier())
	require.NoError(t, repo.UpdatePosition(context.Background(), "s1", 3))
	assertExpectations(t, pool)
}

func TestSaleRepository_UpdatePositionRetriesDeadlock(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE sales SET position").
		WithArgs("s1", pgtype.Int4{Int32: 0, Valid: true}).
		WillReturnError(&pgconn.PgError{Code: pgErrDeadlock})
	pool.ExpectExec("UPDATE sales SET position").
		WithArgs("s1", pgtype.Int4{Int32: 0, Valid: true}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := newSaleRepository(pool, fastRetrier())
	require.NoError(t, repo.UpdatePosition(context.Background(), "s1", 0))
	assertExpectations(t, pool)
}

func TestSaleRepository_UpdatePositionMissingRow(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE sales SET position").
		WithArgs("gone", pgtype.Int4{Int32: 1, Valid: true}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newSaleRepository(pool, fastRetrier())
	err := repo.UpdatePosition(context.Background(), "gone", 1)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	assertExpectations(t, pool)
}

func TestSaleRepository_UpdateMissingRow(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE sales").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newSaleRepository(pool, nil)
	err := repo.Update(context.Background(), "gone", domain.SaleFields{
		Currency:    domain.CurrencyLocal,
		InvoiceDate: civil.Date{Year: 2024, Month: 1, Day: 5},
	}, time.Now())
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestSaleRepository_Delete(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("DELETE FROM sales").WithArgs("s1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	pool.ExpectExec("DELETE FROM sales").WithArgs("s1").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := newSaleRepository(pool, nil)
	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "s1"), domain.ErrSaleNotFound)
	assertExpectations(t, pool)
}

func TestSaleRepository_GetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM sales WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	repo := newSaleRepository(pool, nil)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestSaleRepository_ListError(t *testing.T) {
	pool := newMockPool(t)
	dbErr := errors.New("connection refused")
	pool.ExpectQuery("FROM sales").WillReturnError(dbErr)

	repo := newSaleRepository(pool, nil)
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, dbErr)
}

func TestSaleRepository_Create(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("INSERT INTO sales").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := newSaleRepository(pool, nil)
	err := repo.Create(context.Background(), &domain.Sale{
		ID: "s1",
		SaleFields: domain.SaleFields{
			Client:      "Acme",
			Currency:    domain.CurrencyForeign,
			InvoiceDate: civil.Date{Year: 2024, Month: 2, Day: 29},
			Total:       decimal.RequireFromString("118.00"),
		},
		Position: domain.IntPtr(4),
	})
	require.NoError(t, err)
	assertExpectations(t, pool)
}

func TestRowToSale(t *testing.T) {
	paidOn := civil.Date{Year: 2024, Month: 4, Day: 10}
	row := generated.Sale{
		ID:               "s1",
		Client:           "Acme",
		Currency:         "$",
		InvoiceDate:      dateToPgDate(civil.Date{Year: 2024, Month: 3, Day: 1}),
		TermDays:         intPtrToInt4(domain.IntPtr(0)),
		ReceivablePaidOn: datePtrToPgDate(&paidOn),
		ReceivablePaid:   decimalToNumeric(decimal.RequireFromString("100.50")),
		Subtotal:         decimalToNumeric(decimal.RequireFromString("100")),
		Tax:              decimalToNumeric(decimal.RequireFromString("18")),
		Total:            decimalToNumeric(decimal.RequireFromString("118")),
		CreatedAt:        timeToPgTimestamptz(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
	}

	s := rowToSale(row)

	assert.Equal(t, domain.CurrencyForeign, s.Currency)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 1}, s.InvoiceDate)
	require.NotNil(t, s.TermDays)
	assert.Equal(t, 0, *s.TermDays)
	assert.Nil(t, s.Position)
	assert.Nil(t, s.DeductionPaidOn)
	assert.False(t, s.DeductionPaid.Valid)
	require.NotNil(t, s.ReceivablePaidOn)
	assert.Equal(t, paidOn, *s.ReceivablePaidOn)
	assert.True(t, s.ReceivablePaid.Decimal.Equal(decimal.RequireFromString("100.5")))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(118)))
}

func TestNumericRoundTrip(t *testing.T) {
	for _, v := range []string{"0", "1.5", "-42.75", "1000000000000", "0.01"} {
		d := decimal.RequireFromString(v)
		assert.True(t, numericToDecimal(decimalToNumeric(d)).Equal(d), v)
	}
	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
	assert.False(t, numericToNullDecimal(pgtype.Numeric{}).Valid)
}

func TestClientRepository_GetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM clients WHERE id").WithArgs("c1").WillReturnError(pgx.ErrNoRows)

	repo := newClientRepository(pool)
	_, err := repo.GetByID(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientRepository_UpdateMissingRow(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE clients").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newClientRepository(pool)
	err := repo.Update(context.Background(), &domain.Client{ID: "c1"})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestInventoryRepository_DeleteMissingRow(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("DELETE FROM inventory_items").WithArgs("i1").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := newInventoryRepository(pool)
	assert.ErrorIs(t, repo.Delete(context.Background(), "i1"), domain.ErrInventoryNotFound)
}
