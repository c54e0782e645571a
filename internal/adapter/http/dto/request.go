package dto

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

// SaleRequest represents a request to create or edit a sale. Dates accept
// ISO strings or spreadsheet serial numbers.
type SaleRequest struct {
	Client           string              `json:"client"`
	Area             string              `json:"area"`
	Service          string              `json:"service"`
	Currency         string              `json:"currency"`
	ReceiptNumber    string              `json:"receipt_number"`
	ServiceMonth     string              `json:"service_month"`
	InvoiceDate      any                 `json:"invoice_date"`
	TermDays         *int                `json:"term_days"`
	ReceivablePaidOn any                 `json:"receivable_paid_on,omitempty"`
	ReceivablePaid   decimal.NullDecimal `json:"receivable_paid"`
	DeductionPaidOn  any                 `json:"deduction_paid_on,omitempty"`
	DeductionPaid    decimal.NullDecimal `json:"deduction_paid"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Tax              decimal.Decimal     `json:"tax"`
	Total            decimal.Decimal     `json:"total"`
}

// ToFields converts the request to sale fields. Dates are parsed strictly;
// an unparseable date is an invalid sale rather than today.
func (r *SaleRequest) ToFields() (domain.SaleFields, error) {
	invoice, ok := domain.ParseDate(r.InvoiceDate)
	if !ok {
		return domain.SaleFields{}, fmt.Errorf("%w: invoice date %v is not a date", domain.ErrInvalidSale, r.InvoiceDate)
	}
	receivableOn, err := optionalDate("receivable payment date", r.ReceivablePaidOn)
	if err != nil {
		return domain.SaleFields{}, err
	}
	deductionOn, err := optionalDate("deduction payment date", r.DeductionPaidOn)
	if err != nil {
		return domain.SaleFields{}, err
	}

	return domain.SaleFields{
		Client:           strings.TrimSpace(r.Client),
		Area:             strings.TrimSpace(r.Area),
		Service:          strings.TrimSpace(r.Service),
		Currency:         domain.Currency(strings.TrimSpace(r.Currency)),
		ReceiptNumber:    strings.TrimSpace(r.ReceiptNumber),
		ServiceMonth:     strings.TrimSpace(r.ServiceMonth),
		InvoiceDate:      invoice,
		TermDays:         r.TermDays,
		ReceivablePaidOn: receivableOn,
		ReceivablePaid:   r.ReceivablePaid,
		DeductionPaidOn:  deductionOn,
		DeductionPaid:    r.DeductionPaid,
		Subtotal:         r.Subtotal,
		Tax:              r.Tax,
		Total:            r.Total,
	}, nil
}

func optionalDate(name string, raw any) (*civil.Date, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, ok := domain.ParseDate(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s %v is not a date", domain.ErrInvalidSale, name, raw)
	}
	return &d, nil
}

// ReorderRequest moves ActiveID to the slot currently held by OverID.
type ReorderRequest struct {
	ActiveID string `json:"active_id"`
	OverID   string `json:"over_id"`
}

// ClientRequest represents a request to create or edit a client.
type ClientRequest struct {
	BusinessName string `json:"business_name"`
	TaxID        string `json:"tax_id"`
	Phone        string `json:"phone"`
	Industry     string `json:"industry"`
}

// ToUseCaseInput converts to use case input.
func (r *ClientRequest) ToUseCaseInput() usecase.ClientInput {
	return usecase.ClientInput{
		BusinessName: r.BusinessName,
		TaxID:        r.TaxID,
		Phone:        r.Phone,
		Industry:     r.Industry,
	}
}

// InventoryRequest represents a request to create or edit an inventory item.
type InventoryRequest struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *InventoryRequest) ToUseCaseInput() usecase.InventoryInput {
	return usecase.InventoryInput{
		Name:      r.Name,
		SKU:       r.SKU,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Currency:  domain.Currency(r.Currency),
	}
}
