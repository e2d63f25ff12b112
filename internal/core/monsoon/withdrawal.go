// Package monsoon estimates the monsoon withdrawal date of a year from the
// first sufficiently long spell of dry days.
package monsoon

import (
	"strings"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
)

// Params configures one withdrawal scan.
type Params struct {
	Year           int
	StartDate      time.Time
	DryThresholdMM decimal.Decimal // a day is dry when rainfall <= threshold
	RequiredDryRun int             // consecutive dry days needed
}

// Estimate echoes the scan parameters along with the result.
// EstimatedWithdrawalDate is nil when no qualifying run exists.
type Estimate struct {
	Year                    int             `json:"year"`
	StartDate               time.Time       `json:"start_date"`
	DryThresholdMM          decimal.Decimal `json:"dry_threshold_mm"`
	RequiredDryRun          int             `json:"required_dry_run"`
	EstimatedWithdrawalDate *time.Time      `json:"estimated_withdrawal_date"`
}

// Validate checks the scan parameters that do not depend on data.
func (p Params) Validate() error {
	if p.RequiredDryRun <= 0 {
		return rainfall.Errorf(rainfall.ErrInvalidParameter, "required dry run must be > 0, got %d", p.RequiredDryRun)
	}
	if p.DryThresholdMM.IsNegative() {
		return rainfall.Errorf(rainfall.ErrInvalidParameter, "dry threshold must be >= 0, got %s", p.DryThresholdMM)
	}
	return nil
}

// EstimateWithdrawal scans the year forward from StartDate, one calendar day
// at a time, for the first run of RequiredDryRun consecutive dry days and
// reports the first day of that run.
//
// A missing day is not dry: it resets the current run.
func EstimateWithdrawal(series *rainfall.Series, p Params) (Estimate, error) {
	if err := p.Validate(); err != nil {
		return Estimate{}, err
	}

	start := rainfall.TruncateToDay(p.StartDate)
	est := Estimate{
		Year:           p.Year,
		StartDate:      start,
		DryThresholdMM: p.DryThresholdMM,
		RequiredDryRun: p.RequiredDryRun,
	}

	records := series.Year(p.Year)
	if len(records) == 0 {
		return Estimate{}, rainfall.Errorf(rainfall.ErrOutOfRange, "no data for year %d", p.Year)
	}
	first, last := records[0].Date, records[len(records)-1].Date
	if start.Before(first) || start.After(last) {
		return Estimate{}, rainfall.Errorf(rainfall.ErrOutOfRange,
			"start date %s is outside the data of %d (%s to %s)",
			start.Format(rainfall.DateLayout), p.Year,
			first.Format(rainfall.DateLayout), last.Format(rainfall.DateLayout))
	}

	run := 0
	var runStart time.Time
	for day := start; !day.After(last); day = day.AddDate(0, 0, 1) {
		v, ok := series.Lookup(day)
		if !ok || v.GreaterThan(p.DryThresholdMM) {
			run = 0
			continue
		}
		if run == 0 {
			runStart = day
		}
		run++
		if run == p.RequiredDryRun {
			withdrawal := runStart
			est.EstimatedWithdrawalDate = &withdrawal
			return est, nil
		}
	}
	return est, nil
}

// YearResult is one row of a multi-year withdrawal table.
// Skipped carries the reason a year could not be scanned.
type YearResult struct {
	Estimate
	Skipped string `json:"skipped,omitempty"`
}

// EstimateAll runs EstimateWithdrawal for every year of the series, starting
// each scan on the same month and day. Years whose start falls outside their
// data are reported as skipped rather than failing the whole table.
func EstimateAll(series *rainfall.Series, month time.Month, day int, threshold decimal.Decimal, run int) ([]YearResult, error) {
	template := Params{DryThresholdMM: threshold, RequiredDryRun: run}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	years := series.Years()
	results := make([]YearResult, 0, len(years))
	for _, y := range years {
		p := template
		p.Year = y
		p.StartDate = rainfall.Day(y, month, day)

		est, err := EstimateWithdrawal(series, p)
		if err != nil {
			results = append(results, YearResult{
				Estimate: Estimate{
					Year:           y,
					StartDate:      p.StartDate,
					DryThresholdMM: threshold,
					RequiredDryRun: run,
				},
				Skipped: err.Error(),
			})
			continue
		}
		results = append(results, YearResult{Estimate: est})
	}
	return results, nil
}

// ParseMonthDay parses an "MM-DD" season start such as "09-01".
// February 29 is accepted; in common years it rolls over to March 1.
func ParseMonthDay(s string) (time.Month, int, error) {
	t, err := time.Parse("01-02", strings.TrimSpace(s))
	if err != nil {
		if leap, lerr := time.Parse("2006-01-02", "2000-"+strings.TrimSpace(s)); lerr == nil {
			return leap.Month(), leap.Day(), nil
		}
		return 0, 0, rainfall.Errorf(rainfall.ErrInvalidParameter, "month-day %q must be MM-DD", s)
	}
	return t.Month(), t.Day(), nil
}
