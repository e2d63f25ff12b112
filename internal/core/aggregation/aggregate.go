package aggregation

import (
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
)

// Aggregate buckets the records of series within the inclusive range [start, end].
//
// Buckets are clipped to the range and emitted in chronological order. A bucket
// appears as soon as it holds one recorded day (a recorded zero counts); buckets
// made only of missing days are omitted. The summary is computed from the raw
// records of the range, not from the buckets.
func Aggregate(series *rainfall.Series, start, end time.Time, g Granularity) (Result, error) {
	start, end = rainfall.TruncateToDay(start), rainfall.TruncateToDay(end)
	if start.After(end) {
		return Result{}, rainfall.Errorf(rainfall.ErrInvalidRange,
			"start %s is after end %s", start.Format(rainfall.DateLayout), end.Format(rainfall.DateLayout))
	}
	if !g.Valid() {
		return Result{}, rainfall.Errorf(rainfall.ErrInvalidParameter, "unsupported granularity %q", g)
	}

	records := series.Between(start, end)

	periods, err := bucketize(records, start, end, g)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Granularity: g,
		Periods:     periods,
		Summary:     summarize(records, start, end),
	}, nil
}

// periodState folds the readings of one bucket.
type periodState struct {
	period Period
	total  decimal.Decimal
	peak   decimal.Decimal
	peakAt time.Time
	days   int
}

func (p *periodState) add(r rainfall.Record) {
	if p.days == 0 {
		p.total = Operators[OpSum].Initial(r.RainfallMM)
		p.peak = Operators[OpMax].Initial(r.RainfallMM)
		p.peakAt = r.Date
		p.days = 1
		return
	}
	p.total = Operators[OpSum].Apply(p.total, r.RainfallMM)
	// strictly greater only: ties keep the earliest date
	if next := Operators[OpMax].Apply(p.peak, r.RainfallMM); next.GreaterThan(p.peak) {
		p.peak = next
		p.peakAt = r.Date
	}
	p.days++
}

func (p *periodState) value() PeriodAggregate {
	return PeriodAggregate{
		Label:        p.period.Label,
		PeriodStart:  p.period.Start,
		PeriodEnd:    p.period.End,
		TotalMM:      p.total,
		MeanDailyMM:  MeanOf(p.total, p.days),
		PeakDay:      p.peakAt,
		PeakMM:       p.peak,
		DaysWithData: p.days,
		DaysInPeriod: rainfall.DaysBetween(p.period.Start, p.period.End),
	}
}

// bucketize relies on records being sorted: a bucket is closed as soon as
// a record falls into a later one.
func bucketize(records []rainfall.Record, start, end time.Time, g Granularity) ([]PeriodAggregate, error) {
	periods := make([]PeriodAggregate, 0)
	var current *periodState

	for _, r := range records {
		p, err := PeriodFor(r.Date, g)
		if err != nil {
			return nil, err
		}
		p = clip(p, start, end)

		if current == nil || !current.period.Start.Equal(p.Start) {
			if current != nil {
				periods = append(periods, current.value())
			}
			current = &periodState{period: p}
		}
		current.add(r)
	}
	if current != nil {
		periods = append(periods, current.value())
	}
	return periods, nil
}

func clip(p Period, start, end time.Time) Period {
	if p.Start.Before(start) {
		p.Start = start
	}
	if p.End.After(end) {
		p.End = end
	}
	return p
}

func summarize(records []rainfall.Record, start, end time.Time) Summary {
	s := Summary{
		Start:          start,
		End:            end,
		TotalMM:        decimal.Zero,
		MeanDailyMM:    decimal.Zero,
		MeanRecordedMM: decimal.Zero,
		MinDailyMM:     decimal.Zero,
		StdDevDailyMM:  decimal.Zero,
		PeakMM:         decimal.Zero,
		DaysInRange:    rainfall.DaysBetween(start, end),
	}
	if len(records) == 0 {
		return s
	}

	sum, lo, hi := Operators[OpSum], Operators[OpMin], Operators[OpMax]
	values := make([]decimal.Decimal, 0, len(records))
	peakAt := records[0].Date

	for i, r := range records {
		values = append(values, r.RainfallMM)
		if r.RainfallMM.IsPositive() {
			s.RainyDays++
		}
		if i == 0 {
			s.TotalMM = sum.Initial(r.RainfallMM)
			s.MinDailyMM = lo.Initial(r.RainfallMM)
			s.PeakMM = hi.Initial(r.RainfallMM)
			continue
		}
		s.TotalMM = sum.Apply(s.TotalMM, r.RainfallMM)
		s.MinDailyMM = lo.Apply(s.MinDailyMM, r.RainfallMM)
		if next := hi.Apply(s.PeakMM, r.RainfallMM); next.GreaterThan(s.PeakMM) {
			s.PeakMM = next
			peakAt = r.Date
		}
	}

	s.DaysWithData = len(records)
	// the range mean spreads the total over every calendar day, gaps included
	s.MeanDailyMM = MeanOf(s.TotalMM, s.DaysInRange)
	s.MeanRecordedMM = MeanOf(s.TotalMM, s.DaysWithData)
	s.StdDevDailyMM = StdDevOf(values)
	s.PeakDay = &peakAt
	return s
}
