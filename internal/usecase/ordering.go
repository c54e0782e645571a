package usecase

import (
	"slices"

	"github.com/iho/gosales/internal/domain"
)

// PositionWrite is a pending persistence of a sale's display position.
type PositionWrite struct {
	ID       string
	Position int
}

// Reconciliation is the result of ordering one snapshot.
type Reconciliation struct {
	// Sales are copies of the snapshot records sorted for display.
	Sales []*domain.Sale
	Order []string
	// Backfill lists positions assigned locally to records that had none.
	// It is only populated for the first snapshot.
	Backfill []PositionWrite
}

// OrderReconciler derives display order from stored positions. It is not safe
// for concurrent use; SalesLedger serializes access.
type OrderReconciler struct {
	initialized bool
}

// NewOrderReconciler creates an OrderReconciler that will backfill missing
// positions on its first snapshot.
func NewOrderReconciler() *OrderReconciler {
	return &OrderReconciler{}
}

// Reconcile orders a snapshot by position, ties keeping arrival order.
// Records without a position sort last. Reconciling an unchanged snapshot
// again yields the same order.
func (r *OrderReconciler) Reconcile(snapshot []*domain.Sale) Reconciliation {
	sales := make([]*domain.Sale, len(snapshot))
	for i, s := range snapshot {
		sales[i] = s.Clone()
	}

	var backfill []PositionWrite
	if !r.initialized {
		r.initialized = true
		backfill = assignMissingPositions(sales)
	}

	slices.SortStableFunc(sales, func(a, b *domain.Sale) int {
		ka, kb := a.SortKey(), b.SortKey()
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})

	order := make([]string, len(sales))
	for i, s := range sales {
		order[i] = s.ID
	}

	return Reconciliation{Sales: sales, Order: order, Backfill: backfill}
}

// assignMissingPositions gives records without a position sequential
// positions after the current maximum, in arrival order.
func assignMissingPositions(sales []*domain.Sale) []PositionWrite {
	next := 0
	for _, s := range sales {
		if s.Position != nil && *s.Position >= next {
			next = *s.Position + 1
		}
	}

	var writes []PositionWrite
	for _, s := range sales {
		if s.Position != nil {
			continue
		}
		s.Position = domain.IntPtr(next)
		writes = append(writes, PositionWrite{ID: s.ID, Position: next})
		next++
	}
	return writes
}

// MoveID relocates activeID to the slot currently held by overID, shifting
// the elements in between. It reports false, returning order unchanged, when
// overID is empty, equals activeID, or either is not in order.
func MoveID(order []string, activeID, overID string) ([]string, bool) {
	if overID == "" || overID == activeID {
		return order, false
	}
	from := slices.Index(order, activeID)
	to := slices.Index(order, overID)
	if from < 0 || to < 0 {
		return order, false
	}

	next := make([]string, 0, len(order))
	next = append(next, order[:from]...)
	next = append(next, order[from+1:]...)
	next = slices.Insert(next, to, activeID)
	return next, true
}

// PositionsFor returns one write per id assigning its index as position.
func PositionsFor(order []string) []PositionWrite {
	writes := make([]PositionWrite, len(order))
	for i, id := range order {
		writes[i] = PositionWrite{ID: id, Position: i}
	}
	return writes
}
