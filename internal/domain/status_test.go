package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestPaymentStatusAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)
	tenDaysAgo := civil.DateOf(now).AddDays(-10)

	tests := []struct {
		name    string
		invoice civil.Date
		term    *int
		want    StatusCategory
	}{
		{"explicit zero term is paid", tenDaysAgo, IntPtr(0), StatusPaid},
		{"zero term is paid even for old invoices", civil.Date{Year: 2001, Month: time.January, Day: 1}, IntPtr(0), StatusPaid},
		{"absent term is unscheduled", tenDaysAgo, nil, StatusUnscheduled},
		{"two thirds of window left is on track", tenDaysAgo, IntPtr(30), StatusOnTrack},
		{"due five days ago is overdue", tenDaysAgo, IntPtr(5), StatusOverdue},
		{"less than half of window left is due soon", tenDaysAgo, IntPtr(15), StatusDueSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentStatusAt(tt.invoice, tt.term, now)
			if got.Category != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Category)
			}
			if got.Label != tt.want.Label() {
				t.Fatalf("expected label %q, got %q", tt.want.Label(), got.Label)
			}
		})
	}
}

func TestPaymentStatusAt_Boundaries(t *testing.T) {
	t.Parallel()

	invoice := civil.Date{Year: 2025, Month: time.January, Day: 1}
	start := invoice.In(time.UTC)
	term := IntPtr(10)

	// Half of the ten day window elapses exactly at day five.
	if got := PaymentStatusAt(invoice, term, start.Add(5*24*time.Hour)); got.Category != StatusOnTrack {
		t.Fatalf("at 50%% elapsed expected on track, got %s", got.Category)
	}
	if got := PaymentStatusAt(invoice, term, start.Add(5*24*time.Hour+time.Nanosecond)); got.Category != StatusDueSoon {
		t.Fatalf("just past 50%% elapsed expected due soon, got %s", got.Category)
	}

	due := start.Add(10 * 24 * time.Hour)
	if got := PaymentStatusAt(invoice, term, due); got.Category != StatusDueSoon {
		t.Fatalf("at due date expected due soon, got %s", got.Category)
	}
	if got := PaymentStatusAt(invoice, term, due.Add(time.Nanosecond)); got.Category != StatusOverdue {
		t.Fatalf("after due date expected overdue, got %s", got.Category)
	}
}

func TestPaymentStatusAt_RemainingSignal(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	invoice := civil.DateOf(now).AddDays(-10)

	st := PaymentStatusAt(invoice, IntPtr(30), now)

	if st.Remaining != 20*24*time.Hour {
		t.Fatalf("expected 20 days remaining, got %s", st.Remaining)
	}
	if st.Window != 30*24*time.Hour {
		t.Fatalf("expected 30 day window, got %s", st.Window)
	}
	if st.DueDate == nil || *st.DueDate != invoice.AddDays(30) {
		t.Fatalf("unexpected due date %v", st.DueDate)
	}
	if f := st.RemainingFraction(); f < 0.66 || f > 0.67 {
		t.Fatalf("expected remaining fraction near 0.66, got %f", f)
	}
}

func TestSale_StatusChangesWithClock(t *testing.T) {
	t.Parallel()

	sale := &Sale{SaleFields: SaleFields{
		InvoiceDate: civil.Date{Year: 2025, Month: time.March, Day: 1},
		TermDays:    IntPtr(30),
	}}

	early := sale.Status(time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC))
	late := sale.Status(time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC))

	if early.Category != StatusOnTrack || late.Category != StatusOverdue {
		t.Fatalf("expected on track then overdue, got %s then %s", early.Category, late.Category)
	}
}
