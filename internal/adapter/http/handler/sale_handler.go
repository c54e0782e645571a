package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/adapter/sheet"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

const (
	maxImportBytes = 20 << 20

	formatXLSX = "xlsx"
	formatCSV  = "csv"
	formatPDF  = "pdf"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
	contentTypePDF  = "application/pdf"
)

// SaleService defines the sale mutations needed by SaleHandler.
type SaleService interface {
	CreateSale(ctx context.Context, fields domain.SaleFields) (*domain.Sale, error)
	UpdateSale(ctx context.Context, id string, fields domain.SaleFields) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	ImportSales(ctx context.Context, rows []domain.SaleFields) (*usecase.ImportResult, error)
}

// SaleOrderer moves sales within the display order.
type SaleOrderer interface {
	Reorder(ctx context.Context, activeID, overID string) error
	Order() []string
}

// SaleReporter reads the live ledger.
type SaleReporter interface {
	ListSales(filter domain.Filter) *usecase.SalesView
	FilteredSales(filter domain.Filter) []*domain.Sale
}

// SaleHandler handles sale-related HTTP requests.
type SaleHandler struct {
	saleUC   SaleService
	ledger   SaleOrderer
	reporter SaleReporter
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleUC SaleService, ledger SaleOrderer, reporter SaleReporter) *SaleHandler {
	return &SaleHandler{saleUC: saleUC, ledger: ledger, reporter: reporter}
}

// List returns the sales matching year, month and q in display order.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	view := h.reporter.ListSales(parseFilter(r))
	writeJSON(w, http.StatusOK, dto.SalesViewFromUseCase(view))
}

// Create creates a new sale at the end of the display order.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeSale(w, r)
	if !ok {
		return
	}

	sale, err := h.saleUC.CreateSale(r.Context(), fields)
	if err != nil {
		writeDomainError(w, "failed to create sale", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SaleFromDomain(sale))
}

// Get retrieves a sale by ID.
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	sale, err := h.saleUC.GetSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get sale", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// Update overwrites the editable fields of a sale.
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	fields, ok := decodeSale(w, r)
	if !ok {
		return
	}

	sale, err := h.saleUC.UpdateSale(r.Context(), id, fields)
	if err != nil {
		writeDomainError(w, "failed to update sale", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// Delete removes a sale.
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	if err := h.saleUC.DeleteSale(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete sale", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder moves one sale to another's slot. The new order is applied before
// the positions are stored; a partial write failure still returns it.
func (h *SaleHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.ActiveID == "" {
		writeError(w, http.StatusBadRequest, "missing active_id", "")
		return
	}

	// Position writes outlive a dropped client connection.
	if err := h.ledger.Reorder(context.WithoutCancel(r.Context()), req.ActiveID, req.OverID); err != nil {
		writeDomainError(w, "failed to reorder sales", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReorderResponse{Order: h.ledger.Order()})
}

// Import creates sales from an uploaded XLSX or CSV file. The body is either
// the raw file or a multipart form with a "file" field.
func (h *SaleHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	data, format, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}

	var rows []domain.SaleFields
	switch format {
	case formatXLSX:
		rows, err = sheet.ParseXLSX(bytes.NewReader(data))
	case formatCSV:
		rows, err = sheet.ParseCSV(bytes.NewReader(data))
	default:
		writeError(w, http.StatusUnsupportedMediaType, "unsupported import format", "use xlsx or csv")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse import", err.Error())
		return
	}

	result, err := h.saleUC.ImportSales(r.Context(), rows)
	if err != nil {
		writeDomainError(w, "failed to import sales", err)
		return
	}

	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, dto.ImportFromUseCase(result))
}

// Export renders the filtered sales as xlsx, pdf or csv.
func (h *SaleHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = formatXLSX
	}

	filter := parseFilter(r)
	sales := h.reporter.FilteredSales(filter)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case formatXLSX:
		contentType = contentTypeXLSX
		err = sheet.WriteXLSX(&buf, sales)
	case formatCSV:
		contentType = contentTypeCSV
		err = sheet.WriteCSV(&buf, sales)
	case formatPDF:
		contentType = contentTypePDF
		err = sheet.WritePDF(&buf, sales, exportTitle(filter))
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format", "use xlsx, pdf or csv")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export sales", err.Error())
		return
	}

	filename := fmt.Sprintf("sales-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func decodeSale(w http.ResponseWriter, r *http.Request) (domain.SaleFields, bool) {
	var req dto.SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return domain.SaleFields{}, false
	}

	fields, err := req.ToFields()
	if err != nil {
		writeDomainError(w, "invalid sale", err)
		return domain.SaleFields{}, false
	}
	return fields, true
}

// readUpload returns the uploaded bytes and their format, taken from the
// format query parameter, the file name or the content type.
func readUpload(r *http.Request) ([]byte, string, error) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var body io.Reader = r.Body
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file field: %w", err)
		}
		defer file.Close()
		body = file
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
		}
	}

	if format == "" {
		switch mediaType {
		case contentTypeXLSX:
			format = formatXLSX
		case contentTypeCSV, "application/csv", "text/plain":
			format = formatCSV
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty upload")
	}
	return data, format, nil
}

func exportTitle(f domain.Filter) string {
	switch {
	case strings.TrimSpace(f.Search) != "":
		return fmt.Sprintf("Sales matching %q", strings.TrimSpace(f.Search))
	case f.Year != 0 && f.Month != 0:
		return fmt.Sprintf("Sales %s %d", f.Month, f.Year)
	case f.Year != 0:
		return fmt.Sprintf("Sales %d", f.Year)
	default:
		return "Sales"
	}
}
