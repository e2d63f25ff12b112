// Package climatology computes day-of-year rainfall normals and the
// deviation of a focal year from them.
package climatology

import (
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/aggregation"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
)

// MaxDayOfYear is the last day-of-year position; only leap years reach it.
const MaxDayOfYear = 366

// DayNormal is the climatological mean of one day-of-year.
type DayNormal struct {
	MeanMM    decimal.Decimal `json:"mean_mm"`
	YearsUsed int             `json:"years_used"`
}

// Profile maps day-of-year to its normal. Days no reference year recorded
// are absent from Days and have an undefined mean.
type Profile struct {
	FocalYear      int               `json:"focal_year"`
	ExcludeFocal   bool              `json:"exclude_focal"`
	ReferenceYears []int             `json:"reference_years"`
	Days           map[int]DayNormal `json:"-"`
}

// Mean returns the normal of day-of-year doy, if defined.
func (p *Profile) Mean(doy int) (decimal.Decimal, bool) {
	n, ok := p.Days[doy]
	if !ok {
		return decimal.Zero, false
	}
	return n.MeanMM, true
}

// Point is one day-of-year of a profile in sequence form; MeanMM is nil when undefined.
type Point struct {
	DayOfYear int              `json:"day_of_year"`
	MeanMM    *decimal.Decimal `json:"mean_mm"`
	YearsUsed int              `json:"years_used"`
}

// Points lists every day-of-year from 1 to 366 in order.
func (p *Profile) Points() []Point {
	points := make([]Point, 0, MaxDayOfYear)
	for doy := 1; doy <= MaxDayOfYear; doy++ {
		pt := Point{DayOfYear: doy}
		if n, ok := p.Days[doy]; ok {
			mean := n.MeanMM
			pt.MeanMM = &mean
			pt.YearsUsed = n.YearsUsed
		}
		points = append(points, pt)
	}
	return points
}

type accumulator struct {
	total decimal.Decimal
	years int
}

// Compute builds the day-of-year profile from every year of the series,
// leaving out focalYear when excludeFocal is set.
//
// Each day's mean divides by the number of reference years that recorded that
// day, so a year with a gap does not pull the mean toward zero.
func Compute(series *rainfall.Series, focalYear int, excludeFocal bool) (*Profile, error) {
	var reference []int
	for _, y := range series.Years() {
		if excludeFocal && y == focalYear {
			continue
		}
		reference = append(reference, y)
	}
	if len(reference) == 0 {
		return nil, rainfall.Errorf(rainfall.ErrEmptyClimatology,
			"no reference years available for focal year %d", focalYear)
	}

	sum := aggregation.Operators[aggregation.OpSum]
	acc := make(map[int]*accumulator, MaxDayOfYear)
	for _, y := range reference {
		for _, r := range series.Year(y) {
			doy := r.Date.YearDay()
			a, ok := acc[doy]
			if !ok {
				acc[doy] = &accumulator{total: sum.Initial(r.RainfallMM), years: 1}
				continue
			}
			a.total = sum.Apply(a.total, r.RainfallMM)
			a.years++
		}
	}

	days := make(map[int]DayNormal, len(acc))
	for doy, a := range acc {
		days[doy] = DayNormal{MeanMM: aggregation.MeanOf(a.total, a.years), YearsUsed: a.years}
	}

	return &Profile{
		FocalYear:      focalYear,
		ExcludeFocal:   excludeFocal,
		ReferenceYears: reference,
		Days:           days,
	}, nil
}

// Anomaly is one focal-year day compared with its normal.
// ClimatologyMM and AnomalyMM are nil when the normal is undefined.
type Anomaly struct {
	Date          time.Time        `json:"date"`
	DayOfYear     int              `json:"day_of_year"`
	ActualMM      decimal.Decimal  `json:"actual_mm"`
	ClimatologyMM *decimal.Decimal `json:"climatology_mm"`
	AnomalyMM     *decimal.Decimal `json:"anomaly_mm"`
}

// Anomalies returns actual minus normal for every recorded day of focalYear.
// Positive values are wetter than normal.
func Anomalies(series *rainfall.Series, profile *Profile, focalYear int) ([]Anomaly, error) {
	records := series.Year(focalYear)
	if len(records) == 0 {
		return nil, rainfall.Errorf(rainfall.ErrOutOfRange, "no data for year %d", focalYear)
	}

	out := make([]Anomaly, 0, len(records))
	for _, r := range records {
		doy := r.Date.YearDay()
		a := Anomaly{Date: r.Date, DayOfYear: doy, ActualMM: r.RainfallMM}
		if mean, ok := profile.Mean(doy); ok {
			diff := r.RainfallMM.Sub(mean)
			a.ClimatologyMM = &mean
			a.AnomalyMM = &diff
		}
		out = append(out, a)
	}
	return out, nil
}
