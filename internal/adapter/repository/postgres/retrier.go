package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Lock conflict codes worth another attempt. Position writes touch one row
// each but race with concurrent reorders and the change trigger.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
)

// RetrierConfig tunes the backoff applied to position writes.
type RetrierConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Logger          zerolog.Logger
}

// DefaultRetrierConfig returns the settings used by the server.
func DefaultRetrierConfig() RetrierConfig {
	return RetrierConfig{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxElapsedTime:  10 * time.Second,
		Logger:          zerolog.Nop(),
	}
}

// Retrier re-runs single-row writes that lost a lock conflict. Any other
// error is returned after the first attempt.
type Retrier struct {
	cfg RetrierConfig
}

// NewRetrier creates a Retrier with DefaultRetrierConfig.
func NewRetrier() *Retrier {
	return NewRetrierWithConfig(DefaultRetrierConfig())
}

// NewRetrierWithConfig creates a Retrier from cfg.
func NewRetrierWithConfig(cfg RetrierConfig) *Retrier {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Retrier{cfg: cfg}
}

// Retry runs fn until it succeeds, fails permanently, or the retry budget
// runs out. op names the write in log lines.
func (r *Retrier) Retry(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.cfg.MaxRetries)), ctx)

	attempt := func() error {
		err := fn()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.cfg.Logger.Warn().Err(err).Str("op", op).Dur("wait", wait).Msg("lock conflict, retrying")
	}

	return backoff.RetryNotify(attempt, policy, notify)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable:
		return true
	}
	return false
}
