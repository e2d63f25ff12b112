package rainfall

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Record is one day of observed rainfall.
// Date is always UTC midnight; RainfallMM is never negative.
type Record struct {
	Date       time.Time
	RainfallMM decimal.Decimal
}

// Day returns the UTC midnight of the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateToDay drops the clock part of t, keeping its calendar date.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return Day(year, month, day)
}

// ParseDate parses a "2006-01-02" date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DaysBetween counts calendar days in the inclusive range [start, end].
// Returns 0 when end is before start.
func DaysBetween(start, end time.Time) int {
	start, end = TruncateToDay(start), TruncateToDay(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
