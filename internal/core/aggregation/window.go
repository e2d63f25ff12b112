package aggregation

import (
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
)

// Granularity is the calendar bucket size of an aggregation.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Valid reports whether g is one of the supported bucket sizes.
func (g Granularity) Valid() bool {
	switch g {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// ParseGranularity accepts full names in any case and the D/W/M/Y shorthands.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "yearly", "year", "annual", "y":
		return Yearly, nil
	}
	return "", rainfall.Errorf(rainfall.ErrInvalidParameter,
		"unsupported granularity %q (must be daily, weekly, monthly or yearly)", s)
}

// Period is one calendar bucket. End is inclusive.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// PeriodFor returns the bucket containing date.
// Weeks start on Monday and are labeled by that Monday.
func PeriodFor(date time.Time, g Granularity) (Period, error) {
	day := rainfall.TruncateToDay(date)
	year, month, _ := day.Date()

	switch g {
	case Daily:
		return Period{Start: day, End: day, Label: day.Format(rainfall.DateLayout)}, nil
	case Weekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Start: start, End: start.AddDate(0, 0, 6), Label: start.Format(rainfall.DateLayout)}, nil
	case Monthly:
		start := rainfall.Day(year, month, 1)
		return Period{Start: start, End: start.AddDate(0, 1, -1), Label: start.Format("2006-01")}, nil
	case Yearly:
		start := rainfall.Day(year, time.January, 1)
		return Period{Start: start, End: rainfall.Day(year, time.December, 31), Label: fmt.Sprintf("%04d", year)}, nil
	}
	return Period{}, rainfall.Errorf(rainfall.ErrInvalidParameter, "unsupported granularity %q", g)
}

// YearRange returns the inclusive range covering one calendar year.
func YearRange(year int) (start, end time.Time) {
	return rainfall.Day(year, time.January, 1), rainfall.Day(year, time.December, 31)
}
