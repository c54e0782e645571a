package domain

import "errors"

var (
	// Sale errors
	ErrSaleNotFound   = errors.New("sale not found")
	ErrInvalidSale    = errors.New("invalid sale")
	ErrEmptyImport    = errors.New("import contains no rows")
	ErrPositionWrite  = errors.New("failed to persist sale positions")
	ErrLedgerClosed   = errors.New("sales ledger is closed")
	ErrSaleNotInOrder = errors.New("sale is not part of the current order")

	// Report errors
	ErrInvalidComparison = errors.New("comparison requires two different years")
	ErrRateUnavailable   = errors.New("exchange rate not available")

	// Client and inventory errors
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidClient     = errors.New("invalid client")
	ErrInventoryNotFound = errors.New("inventory item not found")
	ErrInvalidInventory  = errors.New("invalid inventory item")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
