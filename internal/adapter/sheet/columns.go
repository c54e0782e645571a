// Package sheet converts sales to and from spreadsheet, CSV and PDF files.
package sheet

import (
	"strings"
)

type column int

const (
	colClient column = iota
	colArea
	colService
	colCurrency
	colReceipt
	colServiceMonth
	colInvoiceDate
	colTermDays
	colReceivablePaidOn
	colReceivablePaid
	colDeductionPaidOn
	colDeductionPaid
	colSubtotal
	colTax
	colTotal
	columnCount
)

// Headers is the column set written on export and expected on import.
var Headers = [columnCount]string{
	"Client",
	"Area",
	"Service",
	"Currency",
	"Receipt No.",
	"Service Month",
	"Invoice Date",
	"Payment Term (days)",
	"AR payment date",
	"AR amount",
	"Deduction payment date",
	"Deduction amount",
	"Subtotal",
	"Tax",
	"Total",
}

// Labels used by the legacy spreadsheets, matched in addition to Headers.
var headerAliases = map[string]column{
	"cliente":          colClient,
	"área":             colArea,
	"servicio":         colService,
	"moneda":           colCurrency,
	"n° comprobante":   colReceipt,
	"nro comprobante":  colReceipt,
	"mes de servicio":  colServiceMonth,
	"fecha factura":    colInvoiceDate,
	"plazo de pago":    colTermDays,
	"pago cta. cte":    colReceivablePaidOn,
	"abono cta. cte":   colReceivablePaid,
	"pago cta. detrac": colDeductionPaidOn,
	"igv cta. detrac":  colDeductionPaid,
	"igv":              colTax,
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func lookupColumn(header string) (column, bool) {
	key := normalizeHeader(header)
	if key == "" {
		return 0, false
	}
	for i, h := range Headers {
		if normalizeHeader(h) == key {
			return column(i), true
		}
	}
	c, ok := headerAliases[key]
	return c, ok
}

// columnIndex maps each known column to its index in a header row. Columns
// that are absent map to -1.
func columnIndex(header []string) ([columnCount]int, bool) {
	var idx [columnCount]int
	for i := range idx {
		idx[i] = -1
	}
	found := false
	for i, h := range header {
		c, ok := lookupColumn(h)
		if !ok || idx[c] >= 0 {
			continue
		}
		idx[c] = i
		found = true
	}
	return idx, found
}
