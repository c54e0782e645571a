package domain

import (
	"strings"
	"time"
)

// Filter selects sales by invoice period or by free text.
type Filter struct {
	// Year of the invoice date. Zero matches any year.
	Year int
	// Month of the invoice date, 1-12. Zero matches every month.
	Month time.Month
	// Search, when non-blank, replaces the period predicates entirely.
	Search string
}

// Matches reports whether s passes the filter.
func (f Filter) Matches(s *Sale) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		return matchesText(s, strings.ToLower(q))
	}
	if f.Year != 0 && s.InvoiceDate.Year != f.Year {
		return false
	}
	if f.Month != 0 && s.InvoiceDate.Month != f.Month {
		return false
	}
	return true
}

// FilterSales returns the sales passing f, preserving their order.
func FilterSales(sales []*Sale, f Filter) []*Sale {
	out := make([]*Sale, 0, len(sales))
	for _, s := range sales {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func matchesText(s *Sale, q string) bool {
	for _, field := range []string{s.Client, s.Area, s.Service, s.ReceiptNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
