package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetrierConfig(maxRetries int) RetrierConfig {
	cfg := DefaultRetrierConfig()
	cfg.MaxRetries = maxRetries
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = 2 * time.Millisecond
	cfg.MaxElapsedTime = 100 * time.Millisecond
	return cfg
}

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	var logs bytes.Buffer
	cfg := testRetrierConfig(2)
	cfg.Logger = zerolog.New(&logs)
	r := NewRetrierWithConfig(cfg)

	attempts := 0
	err := r.Retry(context.Background(), "update_position", func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, logs.String(), `"op":"update_position"`)
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := NewRetrierWithConfig(testRetrierConfig(3))
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), "update_position", func() error {
		attempts++
		return permanentErr
	})

	assert.ErrorIs(t, err, permanentErr)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, true},
		{"serialization", &pgconn.PgError{Code: pgErrSerializationFailure}, true},
		{"lock not available", &pgconn.PgError{Code: pgErrLockNotAvailable}, true},
		{"wrapped deadlock", fmt.Errorf("write: %w", &pgconn.PgError{Code: pgErrDeadlock}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("other"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := NewRetrierWithConfig(testRetrierConfig(2))

	attempts := 0
	err := r.Retry(context.Background(), "update_position", func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrSerializationFailure}
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrierStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRetrierWithConfig(testRetrierConfig(5))
	attempts := 0
	err := r.Retry(ctx, "update_position", func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	require.Error(t, err)
	assert.LessOrEqual(t, attempts, 1)
}
