package handler

import (
	"net/http"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/domain"
)

// ReportService defines the aggregates needed by ReportHandler.
type ReportService interface {
	CurrencyTotals(filter domain.Filter) domain.CurrencySummary
	AreaTotals(filter domain.Filter, convert bool) domain.GroupSummary
	ClientTotals(filter domain.Filter, convert bool) domain.GroupSummary
	MonthlyTotals(year int, convert bool) domain.GroupSummary
	CompareYears(yearA, yearB int, by domain.GroupBy, convert bool) (*domain.Comparison, error)
}

// ReportHandler serves aggregates over the live ledger.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Currency returns totals per currency for the filtered sales.
func (h *ReportHandler) Currency(w http.ResponseWriter, r *http.Request) {
	summary := h.reportUC.CurrencyTotals(parseFilter(r))
	writeJSON(w, http.StatusOK, dto.CurrencySummaryFromDomain(summary))
}

// Areas returns totals per area. convert=true expresses them in local
// currency.
func (h *ReportHandler) Areas(w http.ResponseWriter, r *http.Request) {
	summary := h.reportUC.AreaTotals(parseFilter(r), parseBoolQuery(r, "convert"))
	writeJSON(w, http.StatusOK, dto.GroupSummaryFromDomain(summary))
}

// Clients returns totals per client.
func (h *ReportHandler) Clients(w http.ResponseWriter, r *http.Request) {
	summary := h.reportUC.ClientTotals(parseFilter(r), parseBoolQuery(r, "convert"))
	writeJSON(w, http.StatusOK, dto.GroupSummaryFromDomain(summary))
}

// Monthly returns twelve monthly totals of a year.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", 0)
	if year == 0 {
		writeError(w, http.StatusBadRequest, "missing year", "")
		return
	}

	summary := h.reportUC.MonthlyTotals(year, parseBoolQuery(r, "convert"))
	writeJSON(w, http.StatusOK, dto.GroupSummaryFromDomain(summary))
}

// Compare returns a side-by-side table of years a and b grouped by area or
// month.
func (h *ReportHandler) Compare(w http.ResponseWriter, r *http.Request) {
	by := domain.GroupBy(r.URL.Query().Get("by"))

	cmp, err := h.reportUC.CompareYears(
		parseIntQuery(r, "a", 0),
		parseIntQuery(r, "b", 0),
		by,
		parseBoolQuery(r, "convert"),
	)
	if err != nil {
		writeDomainError(w, "invalid comparison", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ComparisonFromDomain(cmp))
}
