package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a customer the business invoices.
type Client struct {
	ID           string
	BusinessName string
	TaxID        string
	Phone        string
	Industry     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InventoryItem is a stock-keeping unit on hand.
type InventoryItem struct {
	ID        string
	Name      string
	SKU       string
	Quantity  int64
	UnitPrice decimal.Decimal
	Currency  Currency
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockValue returns quantity times unit price.
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
