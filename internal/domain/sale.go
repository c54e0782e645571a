package domain

import (
	"math"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Currency is the marker a sale is invoiced in.
type Currency string

const (
	// CurrencyLocal is the local currency marker (soles).
	CurrencyLocal Currency = "S/"
	// CurrencyForeign is the foreign currency marker (US dollars).
	CurrencyForeign Currency = "$"
)

// IsKnown reports whether c is one of the two recognized markers.
func (c Currency) IsKnown() bool {
	return c == CurrencyLocal || c == CurrencyForeign
}

// Sale is one row of the sales ledger.
type Sale struct {
	ID string
	SaleFields

	// Position only encodes manual display order. Nil means the record was
	// never assigned one and sorts last.
	Position *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleFields holds the operator-editable attributes of a sale.
type SaleFields struct {
	Client        string
	Area          string
	Service       string
	Currency      Currency
	ReceiptNumber string
	ServiceMonth  string
	InvoiceDate   civil.Date

	// TermDays is nil when no payment term was entered. An explicit zero
	// means the sale is already paid.
	TermDays *int

	ReceivablePaidOn *civil.Date
	ReceivablePaid   decimal.NullDecimal
	DeductionPaidOn  *civil.Date
	DeductionPaid    decimal.NullDecimal

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// SortKey returns the position used for ordering.
func (s *Sale) SortKey() int {
	if s.Position == nil {
		return math.MaxInt
	}
	return *s.Position
}

// Status computes the payment status of the sale at now.
func (s *Sale) Status(now time.Time) PaymentStatus {
	return PaymentStatusAt(s.InvoiceDate, s.TermDays, now)
}

// TotalMismatch returns subtotal+tax-total. Total is operator-entered and is
// never corrected; callers may surface a non-zero result as a warning.
func (s *SaleFields) TotalMismatch() decimal.Decimal {
	return s.Subtotal.Add(s.Tax).Sub(s.Total)
}

// Clone returns a copy of the sale that shares no pointers with s.
func (s *Sale) Clone() *Sale {
	c := *s
	if s.Position != nil {
		p := *s.Position
		c.Position = &p
	}
	if s.TermDays != nil {
		d := *s.TermDays
		c.TermDays = &d
	}
	if s.ReceivablePaidOn != nil {
		d := *s.ReceivablePaidOn
		c.ReceivablePaidOn = &d
	}
	if s.DeductionPaidOn != nil {
		d := *s.DeductionPaidOn
		c.DeductionPaidOn = &d
	}
	return &c
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
