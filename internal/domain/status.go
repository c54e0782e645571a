package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// StatusCategory classifies a sale's payment state.
type StatusCategory string

const (
	StatusPaid        StatusCategory = "paid"
	StatusOverdue     StatusCategory = "overdue"
	StatusDueSoon     StatusCategory = "due_soon"
	StatusOnTrack     StatusCategory = "on_track"
	StatusUnscheduled StatusCategory = "unscheduled"
)

var statusLabels = map[StatusCategory]string{
	StatusPaid:        "Paid",
	StatusOverdue:     "Overdue",
	StatusDueSoon:     "Due soon",
	StatusOnTrack:     "On track",
	StatusUnscheduled: "No payment term",
}

// Label returns the display label of the category.
func (c StatusCategory) Label() string {
	return statusLabels[c]
}

// PaymentStatus is the derived payment state of a sale at a point in time.
// Remaining and Window are zero for Paid and Unscheduled.
type PaymentStatus struct {
	Category  StatusCategory
	Label     string
	DueDate   *civil.Date
	Remaining time.Duration
	Window    time.Duration
}

// PaymentStatusAt derives the payment status of an invoice issued on invoice
// with the given term. Only an explicit zero term means paid; a nil term is
// reported as unscheduled. The result depends on now and must not be cached.
func PaymentStatusAt(invoice civil.Date, termDays *int, now time.Time) PaymentStatus {
	if termDays == nil {
		return newStatus(StatusUnscheduled)
	}
	if *termDays == 0 {
		return newStatus(StatusPaid)
	}

	due := invoice.AddDays(*termDays)
	dueAt := due.In(now.Location())
	window := dueAt.Sub(invoice.In(now.Location()))
	remaining := dueAt.Sub(now)

	var category StatusCategory
	switch {
	case remaining < 0:
		category = StatusOverdue
	case remaining < window/2:
		category = StatusDueSoon
	default:
		category = StatusOnTrack
	}

	st := newStatus(category)
	st.DueDate = &due
	st.Remaining = remaining
	st.Window = window
	return st
}

// RemainingFraction returns Remaining/Window, or 0 when there is no window.
func (s PaymentStatus) RemainingFraction() float64 {
	if s.Window <= 0 {
		return 0
	}
	return float64(s.Remaining) / float64(s.Window)
}

func newStatus(c StatusCategory) PaymentStatus {
	return PaymentStatus{Category: c, Label: c.Label()}
}
