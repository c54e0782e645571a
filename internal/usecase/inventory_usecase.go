package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
)

// InventoryUseCase handles inventory business logic.
type InventoryUseCase struct {
	inventoryRepo InventoryRepository
	idGen         IDGenerator
}

// NewInventoryUseCase creates a new InventoryUseCase.
func NewInventoryUseCase(inventoryRepo InventoryRepository, idGen IDGenerator) *InventoryUseCase {
	return &InventoryUseCase{
		inventoryRepo: inventoryRepo,
		idGen:         idGen,
	}
}

// InventoryInput represents input for creating or updating an item.
type InventoryInput struct {
	Name      string
	SKU       string
	Quantity  int64
	UnitPrice decimal.Decimal
	Currency  domain.Currency
}

// CreateItem creates a new inventory item.
func (uc *InventoryUseCase) CreateItem(ctx context.Context, input InventoryInput) (*domain.InventoryItem, error) {
	now := time.Now().UTC()

	item := &domain.InventoryItem{
		ID:        uc.idGen.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.apply(item)

	if err := domain.ValidateInventoryItem(item); err != nil {
		return nil, err
	}

	if err := uc.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem replaces the editable fields of an item.
func (uc *InventoryUseCase) UpdateItem(ctx context.Context, id string, input InventoryInput) (*domain.InventoryItem, error) {
	item, err := uc.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(item)
	item.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateInventoryItem(item); err != nil {
		return nil, err
	}

	if err := uc.inventoryRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetItem retrieves an item by ID.
func (uc *InventoryUseCase) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return uc.inventoryRepo.GetByID(ctx, id)
}

// DeleteItem removes an item.
func (uc *InventoryUseCase) DeleteItem(ctx context.Context, id string) error {
	return uc.inventoryRepo.Delete(ctx, id)
}

// ListItems lists inventory items with pagination.
func (uc *InventoryUseCase) ListItems(ctx context.Context, input ListInput) ([]*domain.InventoryItem, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.inventoryRepo.List(ctx, limit, offset)
}

func (in InventoryInput) apply(item *domain.InventoryItem) {
	item.Name = strings.TrimSpace(in.Name)
	item.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	item.Currency = in.Currency
	if item.Currency == "" {
		item.Currency = domain.CurrencyLocal
	}
}
