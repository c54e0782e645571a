package handler

import (
	"net/http"
	"time"

	"github.com/iho/gosales/internal/usecase"
)

// LedgerStatusProvider reports the sync state of the live ledger.
type LedgerStatusProvider interface {
	Status() usecase.LedgerStatus
	Order() []string
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledger LedgerStatusProvider
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger LedgerStatusProvider) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Status reports how many snapshots were applied and whether a reorder is
// still waiting for the store to confirm it.
func (h *LedgerHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ledger.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshots":       st.Snapshots,
		"sales":           st.Sales,
		"pending_reorder": st.PendingReorder,
		"closed":          st.Closed,
		"checked_at":      st.CheckedAt.Format(time.RFC3339),
	})
}

// Order returns the current display order of sale IDs.
func (h *LedgerHandler) Order(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"order": h.ledger.Order()})
}
