package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/gosales/internal/domain"
)

// ErrNoHeader is returned when a file has no row with a recognized column.
var ErrNoHeader = errors.New("no recognized header row")

// ParseXLSX reads sale rows from the first worksheet of an XLSX workbook.
// Cells are read raw so that dates arrive as spreadsheet serials.
func ParseXLSX(r io.Reader) ([]domain.SaleFields, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return parseRows(rows, time.Now())
}

// ParseCSV reads sale rows from comma separated text with a header row.
func ParseCSV(r io.Reader) ([]domain.SaleFields, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return parseRows(rows, time.Now())
}

// parseRows maps data rows by the first row that names a known column.
// Malformed cells fall back to zero or empty values instead of failing the
// row, and blank rows are skipped.
func parseRows(rows [][]string, now time.Time) ([]domain.SaleFields, error) {
	start := -1
	var idx [columnCount]int
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		var ok bool
		if idx, ok = columnIndex(row); ok {
			start = i + 1
		}
		break
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	var out []domain.SaleFields
	for _, row := range rows[start:] {
		if isBlank(row) {
			continue
		}
		out = append(out, parseRow(row, idx, now))
	}
	return out, nil
}

func parseRow(row []string, idx [columnCount]int, now time.Time) domain.SaleFields {
	cell := func(c column) string {
		i := idx[c]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return domain.SaleFields{
		Client:           cell(colClient),
		Area:             cell(colArea),
		Service:          cell(colService),
		Currency:         domain.Currency(cell(colCurrency)),
		ReceiptNumber:    cell(colReceipt),
		ServiceMonth:     cell(colServiceMonth),
		InvoiceDate:      domain.NormalizeDate(dateValue(cell(colInvoiceDate)), now),
		TermDays:         parseTerm(cell(colTermDays)),
		ReceivablePaidOn: parseOptionalDate(cell(colReceivablePaidOn)),
		ReceivablePaid:   decimal.NewNullDecimal(parseAmount(cell(colReceivablePaid))),
		DeductionPaidOn:  parseOptionalDate(cell(colDeductionPaidOn)),
		DeductionPaid:    decimal.NewNullDecimal(parseAmount(cell(colDeductionPaid))),
		Subtotal:         parseAmount(cell(colSubtotal)),
		Tax:              parseAmount(cell(colTax)),
		Total:            parseAmount(cell(colTotal)),
	}
}

// dateValue turns numeric text into a serial so the normalizer treats it as
// a spreadsheet date rather than an unparseable string.
func dateValue(s string) any {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseOptionalDate(s string) *civil.Date {
	d, ok := domain.ParseDate(dateValue(s))
	if !ok {
		return nil
	}
	return &d
}

// parseTerm keeps a blank term absent, since zero means paid.
func parseTerm(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return domain.IntPtr(int(f))
}

var amountReplacer = strings.NewReplacer(
	string(domain.CurrencyLocal), "",
	string(domain.CurrencyForeign), "",
	",", "",
	" ", "",
)

func parseAmount(s string) decimal.Decimal {
	s = amountReplacer.Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
