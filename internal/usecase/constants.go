package usecase

import "time"

const (
	// DefaultWriteConcurrency bounds concurrent single-record writes issued by
	// reorders, position backfills and imports.
	DefaultWriteConcurrency = 16

	// DefaultRateInterval is how often the exchange rate is refetched.
	DefaultRateInterval = time.Hour

	// DefaultRateCacheTTL is how long a fetched rate stays in the cache.
	DefaultRateCacheTTL = 2 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Write reasons reported to the Observer.
	reasonReorder  = "reorder"
	reasonBackfill = "backfill"
)
