package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/usecase"
)

// SalesChannel is the notification channel fed by the sales trigger.
const SalesChannel = "sales_changed"

const (
	defaultCoalesceWindow = 100 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
)

// listenConn is the subset of *pgx.Conn the feed needs.
type listenConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type saleLister interface {
	List(ctx context.Context) ([]*domain.Sale, error)
}

// FeedConfig configures a SaleFeed.
type FeedConfig struct {
	DatabaseURL string
	Logger      zerolog.Logger
	// CoalesceWindow is how long to keep draining notifications after the
	// first one before loading a snapshot.
	CoalesceWindow time.Duration
	MaxBackoff     time.Duration
}

// SaleFeed implements usecase.SaleFeed with LISTEN/NOTIFY on a dedicated
// connection. Every delivery is a full snapshot of the sales table.
type SaleFeed struct {
	lister   saleLister
	connect  func(ctx context.Context) (listenConn, error)
	logger   zerolog.Logger
	coalesce time.Duration

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewSaleFeed creates a feed that reads snapshots through repo.
func NewSaleFeed(repo *SaleRepository, cfg FeedConfig) *SaleFeed {
	url := cfg.DatabaseURL
	return newSaleFeed(repo, func(ctx context.Context) (listenConn, error) {
		conn, err := pgx.Connect(ctx, url)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, cfg)
}

func newSaleFeed(lister saleLister, connect func(ctx context.Context) (listenConn, error), cfg FeedConfig) *SaleFeed {
	if cfg.CoalesceWindow <= 0 {
		cfg.CoalesceWindow = defaultCoalesceWindow
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	return &SaleFeed{
		lister:         lister,
		connect:        connect,
		logger:         cfg.Logger.With().Str("component", "sale-feed").Logger(),
		coalesce:       cfg.CoalesceWindow,
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     cfg.MaxBackoff,
	}
}

// Subscribe starts listening, delivers the current snapshot to fn before
// returning, then delivers a new snapshot after every burst of changes and
// after every reconnect. The subscription ends when ctx is done or the
// returned function is called.
func (f *SaleFeed) Subscribe(ctx context.Context, fn usecase.SnapshotHandler) (func(), error) {
	conn, err := f.listen(ctx)
	if err != nil {
		return nil, err
	}

	if err := f.deliver(ctx, fn); err != nil {
		_ = conn.Close(context.Background())
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.run(subCtx, conn, fn)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

func (f *SaleFeed) listen(ctx context.Context) (listenConn, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+SalesChannel); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("failed to listen on %s: %w", SalesChannel, err)
	}
	return conn, nil
}

func (f *SaleFeed) deliver(ctx context.Context, fn usecase.SnapshotHandler) error {
	sales, err := f.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sales snapshot: %w", err)
	}
	fn(ctx, sales)
	return nil
}

func (f *SaleFeed) run(ctx context.Context, conn listenConn, fn usecase.SnapshotHandler) {
	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()

	for {
		_, err := conn.WaitForNotification(ctx)
		if err == nil {
			f.drain(ctx, conn)
			if err := f.deliver(ctx, fn); err != nil && ctx.Err() == nil {
				f.logger.Error().Err(err).Msg("snapshot after change failed")
			}
			continue
		}
		if ctx.Err() != nil {
			return
		}

		f.logger.Warn().Err(err).Msg("sales listener lost, reconnecting")
		_ = conn.Close(context.Background())
		conn = nil

		conn, err = f.reconnect(ctx)
		if err != nil {
			return
		}
		// Changes made while disconnected were not notified.
		if err := f.deliver(ctx, fn); err != nil && ctx.Err() == nil {
			f.logger.Error().Err(err).Msg("snapshot after reconnect failed")
		}
	}
}

// drain consumes notifications that arrive within the coalesce window so a
// burst of writes, such as a reorder, yields a single snapshot.
func (f *SaleFeed) drain(ctx context.Context, conn listenConn) {
	for {
		waitCtx, cancel := context.WithTimeout(ctx, f.coalesce)
		_, err := conn.WaitForNotification(waitCtx)
		cancel()
		if err != nil {
			return
		}
	}
}

func (f *SaleFeed) reconnect(ctx context.Context) (listenConn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initialBackoff
	b.MaxInterval = f.maxBackoff
	b.MaxElapsedTime = 0

	attempt := 0
	conn, err := backoff.RetryWithData(func() (listenConn, error) {
		attempt++
		c, err := f.listen(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			f.logger.Warn().Err(err).Int("attempt", attempt).Msg("sales listener reconnect failed")
			return nil, err
		}
		return c, nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			f.logger.Error().Err(err).Msg("giving up on sales listener")
		}
		return nil, err
	}

	f.logger.Info().Int("attempts", attempt).Msg("sales listener reconnected")
	return conn, nil
}
