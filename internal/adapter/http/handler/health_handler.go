package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gosales/internal/usecase"
)

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LedgerStatusReader reports whether the live ledger has synced.
type LedgerStatusReader interface {
	Status() usecase.LedgerStatus
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool        Pinger
	redisClient *redis.Client
	ledger      LedgerStatusReader
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool Pinger, redisClient *redis.Client, ledger LedgerStatusReader) *HealthHandler {
	return &HealthHandler{
		pool:        pool,
		redisClient: redisClient,
		ledger:      ledger,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 once the stores answer and the ledger has applied
// its first snapshot.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.pool != nil {
		if err := h.pool.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "postgres unhealthy", err.Error())
			return
		}
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
			return
		}
	}

	if h.ledger != nil {
		st := h.ledger.Status()
		if st.Closed || st.Snapshots == 0 {
			writeError(w, http.StatusServiceUnavailable, "ledger not synced", "")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"postgres": "ok",
		"redis":    "ok",
		"ledger":   "ok",
	})
}
