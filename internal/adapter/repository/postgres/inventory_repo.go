package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/postgres/generated"
)

// InventoryRepository implements usecase.InventoryRepository.
type InventoryRepository struct {
	queries *generated.Queries
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return newInventoryRepository(pool)
}

func newInventoryRepository(db generated.DBTX) *InventoryRepository {
	return &InventoryRepository{queries: generated.New(db)}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.queries.CreateInventoryItem(ctx, generated.CreateInventoryItemParams{
		ID:        item.ID,
		Name:      item.Name,
		Sku:       item.SKU,
		Quantity:  item.Quantity,
		UnitPrice: decimalToNumeric(item.UnitPrice),
		Currency:  string(item.Currency),
		CreatedAt: timeToPgTimestamptz(item.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(item.UpdatedAt),
	})
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	n, err := r.queries.UpdateInventoryItem(ctx, generated.UpdateInventoryItemParams{
		ID:        item.ID,
		Name:      item.Name,
		Sku:       item.SKU,
		Quantity:  item.Quantity,
		UnitPrice: decimalToNumeric(item.UnitPrice),
		Currency:  string(item.Currency),
		UpdatedAt: timeToPgTimestamptz(item.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteInventoryItem(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	row, err := r.queries.GetInventoryItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, err
	}
	return rowToInventoryItem(row), nil
}

func (r *InventoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.InventoryItem, error) {
	rows, err := r.queries.ListInventoryItems(ctx, generated.ListInventoryItemsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	items := make([]*domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToInventoryItem(row))
	}
	return items, nil
}

func rowToInventoryItem(row generated.InventoryItem) *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:        row.ID,
		Name:      row.Name,
		SKU:       row.Sku,
		Quantity:  row.Quantity,
		UnitPrice: numericToDecimal(row.UnitPrice),
		Currency:  domain.Currency(row.Currency),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
