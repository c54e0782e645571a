package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/postgres/generated"
)

// SaleRepository implements usecase.SaleRepository.
type SaleRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(pool *pgxpool.Pool, retrier *Retrier) *SaleRepository {
	return newSaleRepository(pool, retrier)
}

func newSaleRepository(db generated.DBTX, retrier *Retrier) *SaleRepository {
	if retrier == nil {
		retrier = NewRetrier()
	}
	return &SaleRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// Create inserts a new sale.
func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	f := sale.SaleFields
	return r.queries.CreateSale(ctx, generated.CreateSaleParams{
		ID:               sale.ID,
		Client:           f.Client,
		Area:             f.Area,
		Service:          f.Service,
		Currency:         string(f.Currency),
		ReceiptNumber:    f.ReceiptNumber,
		ServiceMonth:     f.ServiceMonth,
		InvoiceDate:      dateToPgDate(f.InvoiceDate),
		TermDays:         intPtrToInt4(f.TermDays),
		ReceivablePaidOn: datePtrToPgDate(f.ReceivablePaidOn),
		ReceivablePaid:   nullDecimalToNumeric(f.ReceivablePaid),
		DeductionPaidOn:  datePtrToPgDate(f.DeductionPaidOn),
		DeductionPaid:    nullDecimalToNumeric(f.DeductionPaid),
		Subtotal:         decimalToNumeric(f.Subtotal),
		Tax:              decimalToNumeric(f.Tax),
		Total:            decimalToNumeric(f.Total),
		Position:         intPtrToInt4(sale.Position),
		CreatedAt:        timeToPgTimestamptz(sale.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(sale.UpdatedAt),
	})
}

// Update overwrites the editable fields of a sale. The position column is
// not touched.
func (r *SaleRepository) Update(ctx context.Context, id string, f domain.SaleFields, updatedAt time.Time) error {
	n, err := r.queries.UpdateSaleFields(ctx, generated.UpdateSaleFieldsParams{
		ID:               id,
		Client:           f.Client,
		Area:             f.Area,
		Service:          f.Service,
		Currency:         string(f.Currency),
		ReceiptNumber:    f.ReceiptNumber,
		ServiceMonth:     f.ServiceMonth,
		InvoiceDate:      dateToPgDate(f.InvoiceDate),
		TermDays:         intPtrToInt4(f.TermDays),
		ReceivablePaidOn: datePtrToPgDate(f.ReceivablePaidOn),
		ReceivablePaid:   nullDecimalToNumeric(f.ReceivablePaid),
		DeductionPaidOn:  datePtrToPgDate(f.DeductionPaidOn),
		DeductionPaid:    nullDecimalToNumeric(f.DeductionPaid),
		Subtotal:         decimalToNumeric(f.Subtotal),
		Tax:              decimalToNumeric(f.Tax),
		Total:            decimalToNumeric(f.Total),
		UpdatedAt:        timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// UpdatePosition writes one sale's display position, retrying on lock
// conflicts.
func (r *SaleRepository) UpdatePosition(ctx context.Context, id string, position int) error {
	return r.retrier.Retry(ctx, "update_position", func() error {
		n, err := r.queries.UpdateSalePosition(ctx, generated.UpdateSalePositionParams{
			ID:       id,
			Position: intPtrToInt4(&position),
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrSaleNotFound
		}
		return nil
	})
}

// Delete removes a sale.
func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteSale(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// GetByID retrieves a sale by ID.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	row, err := r.queries.GetSaleByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSaleNotFound
		}

		return nil, err
	}

	return rowToSale(row), nil
}

// List returns every sale in storage order.
func (r *SaleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	rows, err := r.queries.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	sales := make([]*domain.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, rowToSale(row))
	}

	return sales, nil
}

func rowToSale(row generated.Sale) *domain.Sale {
	return &domain.Sale{
		ID: row.ID,
		SaleFields: domain.SaleFields{
			Client:           row.Client,
			Area:             row.Area,
			Service:          row.Service,
			Currency:         domain.Currency(row.Currency),
			ReceiptNumber:    row.ReceiptNumber,
			ServiceMonth:     row.ServiceMonth,
			InvoiceDate:      pgDateToDate(row.InvoiceDate),
			TermDays:         int4ToIntPtr(row.TermDays),
			ReceivablePaidOn: pgDateToDatePtr(row.ReceivablePaidOn),
			ReceivablePaid:   numericToNullDecimal(row.ReceivablePaid),
			DeductionPaidOn:  pgDateToDatePtr(row.DeductionPaidOn),
			DeductionPaid:    numericToNullDecimal(row.DeductionPaid),
			Subtotal:         numericToDecimal(row.Subtotal),
			Tax:              numericToDecimal(row.Tax),
			Total:            numericToDecimal(row.Total),
		},
		Position:  int4ToIntPtr(row.Position),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
