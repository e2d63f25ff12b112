package rainfall

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Series is an immutable, date-ordered collection of daily records.
// Missing days are simply absent: a gap is never stored as zero.
type Series struct {
	records []Record
	index   map[time.Time]int
}

// NewSeries validates and sorts a copy of records.
// Duplicate dates and negative amounts are rejected with ErrInvalidSeries.
func NewSeries(records []Record) (*Series, error) {
	sorted := make([]Record, len(records))
	for i, r := range records {
		if r.RainfallMM.IsNegative() {
			return nil, Errorf(ErrInvalidSeries, "negative rainfall %s on %s", r.RainfallMM, r.Date.Format(DateLayout))
		}
		sorted[i] = Record{Date: TruncateToDay(r.Date), RainfallMM: r.RainfallMM}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	index := make(map[time.Time]int, len(sorted))
	for i, r := range sorted {
		if _, dup := index[r.Date]; dup {
			return nil, Errorf(ErrInvalidSeries, "duplicate record for %s", r.Date.Format(DateLayout))
		}
		index[r.Date] = i
	}

	return &Series{records: sorted, index: index}, nil
}

// Len returns the number of recorded days.
func (s *Series) Len() int {
	return len(s.records)
}

// Records returns a copy of every record in date order.
func (s *Series) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Bounds returns the first and last recorded dates.
func (s *Series) Bounds() (first, last time.Time, ok bool) {
	if len(s.records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.records[0].Date, s.records[len(s.records)-1].Date, true
}

// Lookup returns the rainfall recorded on date, if any.
func (s *Series) Lookup(date time.Time) (decimal.Decimal, bool) {
	i, ok := s.index[TruncateToDay(date)]
	if !ok {
		return decimal.Zero, false
	}
	return s.records[i].RainfallMM, true
}

// Between returns a copy of the records dated within [start, end].
func (s *Series) Between(start, end time.Time) []Record {
	start, end = TruncateToDay(start), TruncateToDay(end)
	if end.Before(start) {
		return nil
	}
	lo := sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Date.Before(start)
	})
	hi := sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Date.After(end)
	})
	if lo >= hi {
		return nil
	}
	out := make([]Record, hi-lo)
	copy(out, s.records[lo:hi])
	return out
}

// Year returns the records of one calendar year.
func (s *Series) Year(year int) []Record {
	return s.Between(Day(year, time.January, 1), Day(year, time.December, 31))
}

// Years lists the calendar years holding at least one record, ascending.
func (s *Series) Years() []int {
	var years []int
	for _, r := range s.records {
		y := r.Date.Year()
		if len(years) == 0 || years[len(years)-1] != y {
			years = append(years, y)
		}
	}
	return years
}
