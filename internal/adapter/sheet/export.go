package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/gosales/internal/domain"
)

const xlsxSheet = "Sales"

var (
	dateFormat = "yyyy-mm-dd"

	dateColumns   = []column{colInvoiceDate, colReceivablePaidOn, colDeductionPaidOn}
	amountColumns = []column{colReceivablePaid, colDeductionPaid, colSubtotal, colTax, colTotal}

	// Widths in millimetres for a landscape A4 page with 10mm margins.
	pdfWidths = [columnCount]float64{28, 20, 30, 10, 18, 18, 17, 12, 17, 18, 17, 18, 18, 16, 20}
)

// WriteXLSX renders sales as a workbook with a styled header row.
func WriteXLSX(w io.Writer, sales []*domain.Sale) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(s)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := styleWorkbook(f, len(sales)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func styleWorkbook(f *excelize.File, rows int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(int(columnCount))
	if err := f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, 16); err != nil {
		return err
	}
	if err := f.SetPanes(xlsxSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if rows == 0 {
		return nil
	}

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	apply := func(cols []column, style int) error {
		for _, c := range cols {
			name, _ := excelize.ColumnNumberToName(int(c) + 1)
			if err := f.SetCellStyle(xlsxSheet, name+"2", name+strconv.Itoa(rows+1), style); err != nil {
				return err
			}
		}
		return nil
	}
	if err := apply(dateColumns, dateStyle); err != nil {
		return err
	}
	return apply(amountColumns, amountStyle)
}

// xlsxRow writes dates as serials and amounts as numbers so the workbook
// reads back through ParseXLSX unchanged.
func xlsxRow(s *domain.Sale) []any {
	row := make([]any, columnCount)
	row[colClient] = s.Client
	row[colArea] = s.Area
	row[colService] = s.Service
	row[colCurrency] = string(s.Currency)
	row[colReceipt] = s.ReceiptNumber
	row[colServiceMonth] = s.ServiceMonth
	row[colInvoiceDate] = serialOrNil(&s.InvoiceDate)
	row[colTermDays] = nil
	if s.TermDays != nil {
		row[colTermDays] = *s.TermDays
	}
	row[colReceivablePaidOn] = serialOrNil(s.ReceivablePaidOn)
	row[colReceivablePaid] = nullAmount(s.ReceivablePaid)
	row[colDeductionPaidOn] = serialOrNil(s.DeductionPaidOn)
	row[colDeductionPaid] = nullAmount(s.DeductionPaid)
	row[colSubtotal] = s.Subtotal.InexactFloat64()
	row[colTax] = s.Tax.InexactFloat64()
	row[colTotal] = s.Total.InexactFloat64()
	return row
}

func serialOrNil(d *civil.Date) any {
	if d == nil || !d.IsValid() {
		return nil
	}
	return domain.DateToSerial(*d)
}

func nullAmount(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

// WriteCSV renders sales as comma separated text with ISO dates.
func WriteCSV(w io.Writer, sales []*domain.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers[:]); err != nil {
		return err
	}
	for _, s := range sales {
		row := textRow(s)
		if err := cw.Write(row[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func textRow(s *domain.Sale) [columnCount]string {
	var row [columnCount]string
	row[colClient] = s.Client
	row[colArea] = s.Area
	row[colService] = s.Service
	row[colCurrency] = string(s.Currency)
	row[colReceipt] = s.ReceiptNumber
	row[colServiceMonth] = s.ServiceMonth
	row[colInvoiceDate] = dateText(&s.InvoiceDate)
	if s.TermDays != nil {
		row[colTermDays] = strconv.Itoa(*s.TermDays)
	}
	row[colReceivablePaidOn] = dateText(s.ReceivablePaidOn)
	row[colReceivablePaid] = nullAmountText(s.ReceivablePaid)
	row[colDeductionPaidOn] = dateText(s.DeductionPaidOn)
	row[colDeductionPaid] = nullAmountText(s.DeductionPaid)
	row[colSubtotal] = s.Subtotal.StringFixed(2)
	row[colTax] = s.Tax.StringFixed(2)
	row[colTotal] = s.Total.StringFixed(2)
	return row
}

func dateText(d *civil.Date) string {
	if d == nil || !d.IsValid() {
		return ""
	}
	return d.String()
}

func nullAmountText(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// WritePDF renders sales as a paginated landscape table. The title and the
// column header are repeated on every page.
func WritePDF(w io.Writer, sales []*domain.Sale, title string) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(31, 78, 120)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range Headers {
			pdf.CellFormat(pdfWidths[i], 7, tr(fitText(pdf, h, pdfWidths[i])), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 7)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	for i, s := range sales {
		row := textRow(s)
		fill := i%2 == 1
		pdf.SetFillColor(238, 242, 247)
		for c, text := range row {
			align := "L"
			if isNumeric(column(c)) {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[c], 6, tr(fitText(pdf, text, pdfWidths[c])), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func isNumeric(c column) bool {
	if c == colTermDays {
		return true
	}
	for _, a := range amountColumns {
		if a == c {
			return true
		}
	}
	return false
}

// fitText shortens s until it fits in width with a small padding.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
