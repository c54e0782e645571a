package usecase

import (
	"context"
	"time"

	"github.com/iho/gosales/internal/domain"
)

// SaleRepository defines data access for sales. Every method touches a single
// record; there are no multi-record transactions.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	Update(ctx context.Context, id string, fields domain.SaleFields, updatedAt time.Time) error
	UpdatePosition(ctx context.Context, id string, position int) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context) ([]*domain.Sale, error)
}

// SnapshotHandler receives the full current sales collection.
type SnapshotHandler func(ctx context.Context, sales []*domain.Sale)

// SaleFeed delivers a full snapshot on subscribe and after every change.
type SaleFeed interface {
	// Subscribe registers fn and returns a function that tears the
	// subscription down. The returned function is safe to call more than once.
	Subscribe(ctx context.Context, fn SnapshotHandler) (func(), error)
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)
}

// InventoryRepository defines data access for inventory items.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	List(ctx context.Context, limit, offset int) ([]*domain.InventoryItem, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// RateSource fetches the current exchange rate.
type RateSource interface {
	FetchRate(ctx context.Context) (*domain.ExchangeRate, error)
}

// RateCache keeps the last known exchange rate across restarts.
type RateCache interface {
	GetRate(ctx context.Context) (*domain.ExchangeRate, error)
	SetRate(ctx context.Context, rate *domain.ExchangeRate, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Observer receives operational signals from the use cases.
type Observer interface {
	SnapshotApplied(size, unclassified int)
	PositionWritesFailed(reason string, count int)
	RateFetched(success bool)
}

type nopObserver struct{}

func (nopObserver) SnapshotApplied(int, int)         {}
func (nopObserver) PositionWritesFailed(string, int) {}
func (nopObserver) RateFetched(bool)                 {}
