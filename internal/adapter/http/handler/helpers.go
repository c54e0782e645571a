package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapped from it. Partial
// position write failures carry the ids that did not persist.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{Error: message, Message: err.Error()}

	var pwErr *usecase.PositionWriteError
	if errors.As(err, &pwErr) {
		resp.Failed = pwErr.Failed
	}

	writeJSON(w, mapDomainError(err), resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrInventoryNotFound),
		errors.Is(err, domain.ErrSaleNotInOrder):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSale),
		errors.Is(err, domain.ErrInvalidClient),
		errors.Is(err, domain.ErrInvalidInventory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidComparison),
		errors.Is(err, domain.ErrEmptyImport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPositionWrite):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrLedgerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseBoolQuery parses a boolean query parameter, false when absent.
func parseBoolQuery(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

// parseFilter reads year, month and q. Out of range months mean all months.
func parseFilter(r *http.Request) domain.Filter {
	month := parseIntQuery(r, "month", 0)
	if month < 0 || month > 12 {
		month = 0
	}
	return domain.Filter{
		Year:   parseIntQuery(r, "year", 0),
		Month:  time.Month(month),
		Search: r.URL.Query().Get("q"),
	}
}

// parseListInput reads limit and offset.
func parseListInput(r *http.Request) usecase.ListInput {
	return usecase.ListInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}
}
