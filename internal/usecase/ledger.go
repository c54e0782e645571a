package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gosales/internal/domain"
)

// PositionWriteError reports position writes that did not reach the store.
// The optimistic order is kept; the next snapshot reflects what was stored.
type PositionWriteError struct {
	Failed []string
	Total  int
}

func (e *PositionWriteError) Error() string {
	return fmt.Sprintf("%d of %d position writes failed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}

func (e *PositionWriteError) Unwrap() error {
	return domain.ErrPositionWrite
}

// LedgerConfig holds the dependencies of a SalesLedger.
type LedgerConfig struct {
	Repo     SaleRepository
	Feed     SaleFeed
	Logger   zerolog.Logger
	Observer Observer
	// WriteConcurrency bounds concurrent position writes.
	WriteConcurrency int
}

// SalesLedger is the live view model of the sales collection. It keeps the
// order committed by the last snapshot and an optimistic overlay set by
// Reorder, which the next snapshot replaces.
type SalesLedger struct {
	repo        SaleRepository
	feed        SaleFeed
	logger      zerolog.Logger
	observer    Observer
	concurrency int

	mu          sync.RWMutex
	reconciler  *OrderReconciler
	sales       map[string]*domain.Sale
	committed   []string
	pending     []string
	snapshots   int
	closed      bool
	unsubscribe func()

	writes   sync.WaitGroup
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewSalesLedger creates a SalesLedger. Call Open to start receiving snapshots.
func NewSalesLedger(cfg LedgerConfig) *SalesLedger {
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.WriteConcurrency <= 0 {
		cfg.WriteConcurrency = DefaultWriteConcurrency
	}
	bgCtx, cancel := context.WithCancel(context.Background())

	return &SalesLedger{
		repo:        cfg.Repo,
		feed:        cfg.Feed,
		logger:      cfg.Logger.With().Str("component", "sales-ledger").Logger(),
		observer:    cfg.Observer,
		concurrency: cfg.WriteConcurrency,
		reconciler:  NewOrderReconciler(),
		sales:       make(map[string]*domain.Sale),
		bgCtx:       bgCtx,
		bgCancel:    cancel,
	}
}

// Open subscribes to the sale feed.
func (l *SalesLedger) Open(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return domain.ErrLedgerClosed
	}
	l.mu.Unlock()

	unsubscribe, err := l.feed.Subscribe(ctx, l.ApplySnapshot)
	if err != nil {
		return fmt.Errorf("failed to subscribe to sales feed: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		unsubscribe()
		return domain.ErrLedgerClosed
	}
	l.unsubscribe = unsubscribe
	return nil
}

// Close tears down the subscription and waits for in-flight writes until ctx
// is done. Snapshots delivered after Close are ignored.
func (l *SalesLedger) Close(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	done := make(chan struct{})
	go func() {
		l.writes.Wait()
		close(done)
	}()

	defer l.bgCancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplySnapshot replaces the ledger state with a full snapshot and discards
// any optimistic order. Missing positions found in the first snapshot are
// persisted in the background.
func (l *SalesLedger) ApplySnapshot(_ context.Context, snapshot []*domain.Sale) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Debug().Int("size", len(snapshot)).Msg("ignoring snapshot after close")
		return
	}

	rec := l.reconciler.Reconcile(snapshot)

	sales := make(map[string]*domain.Sale, len(rec.Sales))
	unclassified := 0
	for _, s := range rec.Sales {
		sales[s.ID] = s
		if !s.Currency.IsKnown() {
			unclassified++
		}
	}
	l.sales = sales
	l.committed = rec.Order
	l.pending = nil
	l.snapshots++
	if len(rec.Backfill) > 0 {
		l.writes.Add(1)
	}
	l.mu.Unlock()

	l.observer.SnapshotApplied(len(rec.Order), unclassified)
	if unclassified > 0 {
		l.logger.Warn().Int("count", unclassified).Msg("sales with unrecognized currency excluded from currency totals")
	}

	if len(rec.Backfill) > 0 {
		l.logger.Info().Int("count", len(rec.Backfill)).Msg("backfilling missing sale positions")
		go func() {
			defer l.writes.Done()
			l.persistPositions(l.bgCtx, rec.Backfill, reasonBackfill)
		}()
	}
}

// Reorder moves activeID to the slot of overID. The new order is visible
// immediately; positions for every sale are then written concurrently. A
// failed write returns a *PositionWriteError and does not roll back.
func (l *SalesLedger) Reorder(ctx context.Context, activeID, overID string) error {
	if overID == "" || overID == activeID {
		return nil
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return domain.ErrLedgerClosed
	}
	next, moved := MoveID(l.orderLocked(), activeID, overID)
	if !moved {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrSaleNotInOrder, activeID, overID)
	}
	l.pending = next
	l.writes.Add(1)
	l.mu.Unlock()
	defer l.writes.Done()

	writes := PositionsFor(next)
	if failed := l.persistPositions(ctx, writes, reasonReorder); len(failed) > 0 {
		return &PositionWriteError{Failed: failed, Total: len(writes)}
	}
	return nil
}

func (l *SalesLedger) persistPositions(ctx context.Context, writes []PositionWrite, reason string) []string {
	var (
		mu     sync.Mutex
		failed []string
	)

	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for _, w := range writes {
		g.Go(func() error {
			if err := l.repo.UpdatePosition(ctx, w.ID, w.Position); err != nil {
				l.logger.Error().Err(err).
					Str("sale_id", w.ID).
					Int("position", w.Position).
					Str("reason", reason).
					Msg("failed to persist sale position")
				mu.Lock()
				failed = append(failed, w.ID)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		l.observer.PositionWritesFailed(reason, len(failed))
	}
	return failed
}

// Sales returns copies of all sales in display order.
func (l *SalesLedger) Sales() []*domain.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	order := l.orderLocked()
	out := make([]*domain.Sale, 0, len(order))
	for _, id := range order {
		if s, ok := l.sales[id]; ok {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Order returns the display order of sale IDs.
func (l *SalesLedger) Order() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.orderLocked()...)
}

// Get returns a copy of one sale from the current state.
func (l *SalesLedger) Get(id string) (*domain.Sale, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sales[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Count returns the number of known sales.
func (l *SalesLedger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sales)
}

// MaxPosition returns the highest known position, or -1 when there is none.
func (l *SalesLedger) MaxPosition() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	maxPos := -1
	for _, s := range l.sales {
		if s.Position != nil && *s.Position > maxPos {
			maxPos = *s.Position
		}
	}
	if l.pending != nil && len(l.pending)-1 > maxPos {
		maxPos = len(l.pending) - 1
	}
	return maxPos
}

// LedgerStatus describes the ledger's synchronization state.
type LedgerStatus struct {
	Snapshots      int
	Sales          int
	PendingReorder bool
	Closed         bool
	CheckedAt      time.Time
}

// Status reports how many snapshots were applied and whether an optimistic
// reorder is awaiting confirmation.
func (l *SalesLedger) Status() LedgerStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LedgerStatus{
		Snapshots:      l.snapshots,
		Sales:          len(l.sales),
		PendingReorder: l.pending != nil,
		Closed:         l.closed,
		CheckedAt:      time.Now().UTC(),
	}
}

func (l *SalesLedger) orderLocked() []string {
	if l.pending != nil {
		return l.pending
	}
	return l.committed
}
