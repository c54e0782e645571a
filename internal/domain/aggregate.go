package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel group keys for records with a blank grouping field.
const (
	UnspecifiedArea = "Unspecified"
	UnnamedClient   = "Unnamed"
)

// ExchangeRate is the foreign-to-local conversion rate.
type ExchangeRate struct {
	Sell      decimal.Decimal
	Buy       decimal.Decimal
	FetchedAt time.Time
}

// CurrencySummary partitions totals by currency marker.
type CurrencySummary struct {
	Local          decimal.Decimal
	Foreign        decimal.Decimal
	LocalRounded   decimal.Decimal
	ForeignRounded decimal.Decimal

	// ForeignInLocal and CombinedLocal are invalid while no rate is known.
	Rate           decimal.NullDecimal
	ForeignInLocal decimal.NullDecimal
	CombinedLocal  decimal.NullDecimal

	LocalCount   int
	ForeignCount int
	// Unclassified counts records whose currency is neither marker. They are
	// excluded from both partitions.
	Unclassified int
}

// CurrencyTotals sums Total per currency marker. rate may be nil.
func CurrencyTotals(sales []*Sale, rate *decimal.Decimal) CurrencySummary {
	var sum CurrencySummary
	for _, s := range sales {
		switch s.Currency {
		case CurrencyLocal:
			sum.Local = sum.Local.Add(s.Total)
			sum.LocalCount++
		case CurrencyForeign:
			sum.Foreign = sum.Foreign.Add(s.Total)
			sum.ForeignCount++
		default:
			sum.Unclassified++
		}
	}
	sum.LocalRounded = sum.Local.Round(0)
	sum.ForeignRounded = sum.Foreign.Round(0)

	if rate != nil {
		converted := sum.Foreign.Mul(*rate)
		sum.Rate = decimal.NewNullDecimal(*rate)
		sum.ForeignInLocal = decimal.NewNullDecimal(converted.Round(2))
		sum.CombinedLocal = decimal.NewNullDecimal(sum.Local.Add(converted).Round(2))
	}
	return sum
}

// AggregateOptions controls currency conversion for grouped totals.
type AggregateOptions struct {
	// Convert expresses foreign-currency totals in local currency. Without
	// it, totals are summed as entered regardless of currency.
	Convert bool
	Rate    *decimal.Decimal
}

func (o AggregateOptions) amount(s *Sale) (decimal.Decimal, bool) {
	if !o.Convert {
		return s.Total, true
	}
	switch s.Currency {
	case CurrencyLocal:
		return s.Total, true
	case CurrencyForeign:
		return s.Total.Mul(*o.Rate), true
	default:
		return decimal.Zero, false
	}
}

func (o AggregateOptions) available() bool {
	return !o.Convert || o.Rate != nil
}

// GroupTotal is the sum of one group.
type GroupTotal struct {
	Key   string
	Total decimal.Decimal
	Count int
}

// GroupSummary holds grouped totals sorted by key. When Available is false a
// conversion was requested without a rate and Groups is empty.
type GroupSummary struct {
	Groups       []GroupTotal
	Available    bool
	Converted    bool
	Unclassified int
}

// Map returns the group totals keyed by group.
func (g GroupSummary) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(g.Groups))
	for _, gt := range g.Groups {
		m[gt.Key] = gt.Total
	}
	return m
}

// AreaTotals sums Total by business area.
func AreaTotals(sales []*Sale, opts AggregateOptions) GroupSummary {
	return groupTotals(sales, opts, func(s *Sale) string {
		return keyOr(s.Area, UnspecifiedArea)
	})
}

// ClientTotals sums Total by client.
func ClientTotals(sales []*Sale, opts AggregateOptions) GroupSummary {
	return groupTotals(sales, opts, func(s *Sale) string {
		return keyOr(s.Client, UnnamedClient)
	})
}

func groupTotals(sales []*Sale, opts AggregateOptions, key func(*Sale) string) GroupSummary {
	summary := GroupSummary{Available: opts.available(), Converted: opts.Convert}
	if !summary.Available {
		return summary
	}

	idx := make(map[string]int)
	for _, s := range sales {
		amount, ok := opts.amount(s)
		if !ok {
			summary.Unclassified++
			continue
		}
		k := key(s)
		i, seen := idx[k]
		if !seen {
			i = len(summary.Groups)
			idx[k] = i
			summary.Groups = append(summary.Groups, GroupTotal{Key: k})
		}
		summary.Groups[i].Total = summary.Groups[i].Total.Add(amount)
		summary.Groups[i].Count++
	}

	sort.Slice(summary.Groups, func(i, j int) bool {
		return summary.Groups[i].Key < summary.Groups[j].Key
	})
	return summary
}

// MonthlyTotals returns twelve buckets with the totals of each month of year.
func MonthlyTotals(sales []*Sale, year int, opts AggregateOptions) GroupSummary {
	summary := GroupSummary{Available: opts.available(), Converted: opts.Convert}
	if !summary.Available {
		return summary
	}
	summary.Groups = make([]GroupTotal, 12)
	for m := time.January; m <= time.December; m++ {
		summary.Groups[m-1].Key = m.String()
	}
	for _, s := range sales {
		if s.InvoiceDate.Year != year {
			continue
		}
		amount, ok := opts.amount(s)
		if !ok {
			summary.Unclassified++
			continue
		}
		g := &summary.Groups[s.InvoiceDate.Month-1]
		g.Total = g.Total.Add(amount)
		g.Count++
	}
	return summary
}

// GroupBy selects the row key of a year comparison.
type GroupBy string

const (
	GroupByArea  GroupBy = "area"
	GroupByMonth GroupBy = "month"
)

// ComparisonRow holds the sums of one key for both compared years.
type ComparisonRow struct {
	Key   string
	A     decimal.Decimal
	B     decimal.Decimal
	Delta decimal.Decimal
}

// Comparison is a side-by-side table of two years.
type Comparison struct {
	YearA     int
	YearB     int
	GroupBy   GroupBy
	Rows      []ComparisonRow
	TotalA    decimal.Decimal
	TotalB    decimal.Decimal
	Available bool
}

// CompareYears builds a year-over-year table. It returns
// ErrInvalidComparison when either year is unset or both are equal.
func CompareYears(sales []*Sale, yearA, yearB int, by GroupBy, opts AggregateOptions) (*Comparison, error) {
	if yearA == 0 || yearB == 0 || yearA == yearB {
		return nil, ErrInvalidComparison
	}
	if by != GroupByMonth {
		by = GroupByArea
	}

	cmp := &Comparison{YearA: yearA, YearB: yearB, GroupBy: by, Available: opts.available()}
	if !cmp.Available {
		return cmp, nil
	}

	var a, b GroupSummary
	if by == GroupByMonth {
		a = MonthlyTotals(sales, yearA, opts)
		b = MonthlyTotals(sales, yearB, opts)
	} else {
		a = AreaTotals(FilterSales(sales, Filter{Year: yearA}), opts)
		b = AreaTotals(FilterSales(sales, Filter{Year: yearB}), opts)
	}

	rows := make(map[string]*ComparisonRow)
	var keys []string
	add := func(groups []GroupTotal, set func(*ComparisonRow, decimal.Decimal)) {
		for _, g := range groups {
			row, ok := rows[g.Key]
			if !ok {
				row = &ComparisonRow{Key: g.Key}
				rows[g.Key] = row
				keys = append(keys, g.Key)
			}
			set(row, g.Total)
		}
	}
	add(a.Groups, func(r *ComparisonRow, v decimal.Decimal) { r.A = v })
	add(b.Groups, func(r *ComparisonRow, v decimal.Decimal) { r.B = v })

	if by == GroupByArea {
		sort.Strings(keys)
	}
	for _, k := range keys {
		row := rows[k]
		row.Delta = row.B.Sub(row.A)
		cmp.TotalA = cmp.TotalA.Add(row.A)
		cmp.TotalB = cmp.TotalB.Add(row.B)
		cmp.Rows = append(cmp.Rows, *row)
	}
	return cmp, nil
}

func keyOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
