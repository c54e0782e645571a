package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// SpreadsheetEpoch is day zero of spreadsheet serial dates. Using 1899-12-30
// rather than 1900-01-01 absorbs the fictitious 1900-02-29 that spreadsheets
// count, so serials after February 1900 round-trip unchanged.
var SpreadsheetEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// Dater is implemented by store timestamp types that can convert themselves
// to a point in time.
type Dater interface {
	ToDate() time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// NormalizeDate converts a spreadsheet serial, a date string or a timestamp
// into a calendar date. Absent or unparseable input yields the date of now.
func NormalizeDate(raw any, now time.Time) civil.Date {
	if d, ok := ParseDate(raw); ok {
		return d
	}
	return civil.DateOf(now)
}

// ParseDate is the strict form of NormalizeDate.
func ParseDate(raw any) (civil.Date, bool) {
	switch v := raw.(type) {
	case nil:
		return civil.Date{}, false
	case civil.Date:
		return v, v.IsValid()
	case *civil.Date:
		if v == nil {
			return civil.Date{}, false
		}
		return *v, v.IsValid()
	case time.Time:
		if v.IsZero() {
			return civil.Date{}, false
		}
		return civil.DateOf(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return civil.Date{}, false
		}
		return civil.DateOf(*v), true
	case Dater:
		return civil.DateOf(v.ToDate()), true
	case int:
		return SerialToDate(float64(v))
	case int64:
		return SerialToDate(float64(v))
	case float64:
		return SerialToDate(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return civil.Date{}, false
		}
		return SerialToDate(f)
	case string:
		return parseDateString(v)
	default:
		return civil.Date{}, false
	}
}

// SerialToDate converts a spreadsheet serial day count to a date. The
// fractional (time of day) part is dropped.
func SerialToDate(serial float64) (civil.Date, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || math.Abs(serial) > 3e6 {
		return civil.Date{}, false
	}
	return SpreadsheetEpoch.AddDays(int(math.Trunc(serial))), true
}

// DateToSerial is the inverse of SerialToDate.
func DateToSerial(d civil.Date) int {
	return d.DaysSince(SpreadsheetEpoch)
}

func parseDateString(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}
