package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTextLength = 255
	MaxTermDays   = 3650
	MaxAmount     = "1000000000000" // 1 trillion
)

var taxIDRegex = regexp.MustCompile(`^[0-9]{8,11}$`)

// ValidateSaleFields validates operator input for a sale before it reaches the
// store.
func ValidateSaleFields(f SaleFields) error {
	required := []struct {
		name  string
		value string
	}{
		{"client", f.Client},
		{"service", f.Service},
		{"receipt number", f.ReceiptNumber},
		{"service month", f.ServiceMonth},
	}
	for _, r := range required {
		if err := validateText(r.name, r.value, true); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSale, err)
		}
	}
	if err := validateText("area", f.Area, false); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSale, err)
	}

	if !f.Currency.IsKnown() {
		return fmt.Errorf("%w: currency %q must be %q or %q", ErrInvalidSale, f.Currency, CurrencyLocal, CurrencyForeign)
	}

	if !f.InvoiceDate.IsValid() {
		return fmt.Errorf("%w: invoice date is required", ErrInvalidSale)
	}

	if f.TermDays != nil && (*f.TermDays < 0 || *f.TermDays > MaxTermDays) {
		return fmt.Errorf("%w: payment term must be between 0 and %d days", ErrInvalidSale, MaxTermDays)
	}

	amounts := []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"subtotal", decimal.NewNullDecimal(f.Subtotal)},
		{"tax", decimal.NewNullDecimal(f.Tax)},
		{"total", decimal.NewNullDecimal(f.Total)},
		{"receivable amount", f.ReceivablePaid},
		{"deduction amount", f.DeductionPaid},
	}
	for _, a := range amounts {
		if err := ValidateAmount(a.value); err != nil {
			return fmt.Errorf("%w: %s %s", ErrInvalidSale, a.name, err)
		}
	}

	return nil
}

// ValidateAmount rejects negative or oversized amounts. Null amounts are valid.
func ValidateAmount(amount decimal.NullDecimal) error {
	if !amount.Valid {
		return nil
	}
	if amount.Decimal.IsNegative() {
		return errors.New("must not be negative")
	}
	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.Decimal.GreaterThan(maxAmount) {
		return fmt.Errorf("exceeds maximum of %s", MaxAmount)
	}
	return nil
}

// ValidateClient validates a client record.
func ValidateClient(c *Client) error {
	for _, r := range []struct{ name, value string }{
		{"business name", c.BusinessName},
		{"phone", c.Phone},
		{"industry", c.Industry},
	} {
		if err := validateText(r.name, r.value, true); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidClient, err)
		}
	}
	if !taxIDRegex.MatchString(strings.TrimSpace(c.TaxID)) {
		return fmt.Errorf("%w: tax id must have 8 to 11 digits", ErrInvalidClient)
	}
	return nil
}

// ValidateInventoryItem validates an inventory item.
func ValidateInventoryItem(item *InventoryItem) error {
	if err := validateText("name", item.Name, true); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInventory, err)
	}
	if err := validateText("sku", item.SKU, true); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInventory, err)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInventory)
	}
	if err := ValidateAmount(decimal.NewNullDecimal(item.UnitPrice)); err != nil {
		return fmt.Errorf("%w: unit price %s", ErrInvalidInventory, err)
	}
	if !item.Currency.IsKnown() {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidInventory, item.Currency)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

func validateText(name, value string, required bool) error {
	value = strings.TrimSpace(value)
	if required && value == "" {
		return fmt.Errorf("%s is required", name)
	}
	if len(value) > MaxTextLength {
		return fmt.Errorf("%s exceeds %d characters", name, MaxTextLength)
	}
	return nil
}
