package handler

import (
	"context"
	"net/http"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/domain"
)

// RateService exposes the polled exchange rate.
type RateService interface {
	Current() *domain.ExchangeRate
	Refresh(ctx context.Context) bool
}

// ExchangeHandler serves the current exchange rate.
type ExchangeHandler struct {
	rates RateService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(rates RateService) *ExchangeHandler {
	return &ExchangeHandler{rates: rates}
}

// Get returns the last known rate. An unknown rate is not an error; the
// response reports it as unavailable.
func (h *ExchangeHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ExchangeRateFromDomain(h.rates.Current()))
}

// Refresh fetches the rate now instead of waiting for the next poll.
func (h *ExchangeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.rates.Refresh(r.Context()) {
		writeJSON(w, http.StatusBadGateway, dto.ExchangeRateFromDomain(h.rates.Current()))
		return
	}
	writeJSON(w, http.StatusOK, dto.ExchangeRateFromDomain(h.rates.Current()))
}
