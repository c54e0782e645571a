package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/gosales/internal/domain"
)

// LedgerState exposes what sale creation needs to know about the live ledger.
type LedgerState interface {
	Count() int
	MaxPosition() int
}

// SaleUseCase handles sale mutations.
type SaleUseCase struct {
	saleRepo    SaleRepository
	ledger      LedgerState
	idGen       IDGenerator
	concurrency int
}

// NewSaleUseCase creates a new SaleUseCase.
func NewSaleUseCase(saleRepo SaleRepository, ledger LedgerState, idGen IDGenerator) *SaleUseCase {
	return &SaleUseCase{
		saleRepo:    saleRepo,
		ledger:      ledger,
		idGen:       idGen,
		concurrency: DefaultWriteConcurrency,
	}
}

// WithConcurrency bounds concurrent writes during an import.
func (uc *SaleUseCase) WithConcurrency(n int) *SaleUseCase {
	if n > 0 {
		uc.concurrency = n
	}
	return uc
}

// CreateSale validates and stores a new sale. It is placed at the end of the
// display order by using the current count as its position.
func (uc *SaleUseCase) CreateSale(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error) {
	if err := domain.ValidateSaleFields(fields); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := &domain.Sale{
		ID:         uc.idGen.Generate(),
		SaleFields: fields,
		Position:   domain.IntPtr(uc.ledger.Count()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// UpdateSale overwrites the editable fields of a sale. Position is untouched.
func (uc *SaleUseCase) UpdateSale(ctx context.Context, id string, fields domain.SaleFields) (*domain.Sale, error) {
	if err := domain.ValidateSaleFields(fields); err != nil {
		return nil, err
	}

	if err := uc.saleRepo.Update(ctx, id, fields, time.Now().UTC()); err != nil {
		return nil, err
	}

	return uc.saleRepo.GetByID(ctx, id)
}

// GetSale retrieves a sale by ID.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return uc.saleRepo.GetByID(ctx, id)
}

// DeleteSale removes a sale.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, id string) error {
	return uc.saleRepo.Delete(ctx, id)
}

// ImportFailure records a row that could not be stored.
type ImportFailure struct {
	Row int
	Err error
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Created []*domain.Sale
	Failed  []ImportFailure
}

// ImportSales stores parsed rows as new sales with sequential positions after
// the current maximum. Rows are written independently and concurrently; a
// failed row does not stop the others. An empty import is rejected before
// any write.
func (uc *SaleUseCase) ImportSales(ctx context.Context, rows []domain.SaleFields) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyImport
	}

	now := time.Now().UTC()
	start := uc.ledger.MaxPosition() + 1
	sales := make([]*domain.Sale, len(rows))
	for i, fields := range rows {
		sales[i] = &domain.Sale{
			ID:         uc.idGen.Generate(),
			SaleFields: fields,
			Position:   domain.IntPtr(start + i),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	var (
		mu     sync.Mutex
		result = &ImportResult{}
		ok     = make([]bool, len(sales))
	)

	g := new(errgroup.Group)
	g.SetLimit(uc.concurrency)
	for i, sale := range sales {
		g.Go(func() error {
			if err := uc.saleRepo.Create(ctx, sale); err != nil {
				mu.Lock()
				result.Failed = append(result.Failed, ImportFailure{Row: i + 1, Err: err})
				mu.Unlock()
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i, sale := range sales {
		if ok[i] {
			result.Created = append(result.Created, sale)
		}
	}
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Row < result.Failed[j].Row
	})
	return result, nil
}
