package aggregation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported reduce operators.
const (
	OpSum = "sum"
	OpMin = "min"
	OpMax = "max"
)

// PeriodAggregate is the rainfall summary of one bucket, clipped to the queried range.
type PeriodAggregate struct {
	Label        string          `json:"label"`
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"` // inclusive
	TotalMM      decimal.Decimal `json:"total_mm"`
	MeanDailyMM  decimal.Decimal `json:"mean_daily_mm"` // over days with data
	PeakDay      time.Time       `json:"peak_day"`
	PeakMM       decimal.Decimal `json:"peak_mm"`
	DaysWithData int             `json:"days_with_data"`
	DaysInPeriod int             `json:"days_in_period"`
}

// Summary holds the KPIs of the whole selected range.
// PeakDay is nil when the range holds no records.
type Summary struct {
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	TotalMM        decimal.Decimal `json:"total_mm"`
	MeanDailyMM    decimal.Decimal `json:"mean_daily_mm"` // total / days in range
	MeanRecordedMM decimal.Decimal `json:"mean_recorded_day_mm"`
	MinDailyMM     decimal.Decimal `json:"min_daily_mm"`
	StdDevDailyMM  decimal.Decimal `json:"std_dev_daily_mm"`
	PeakDay        *time.Time      `json:"peak_day"`
	PeakMM         decimal.Decimal `json:"peak_mm"`
	RainyDays      int             `json:"rainy_days"`
	DaysWithData   int             `json:"days_with_data"`
	DaysInRange    int             `json:"days_in_range"`
}

// Result is the output of Aggregate: ordered periods plus range KPIs.
type Result struct {
	Granularity Granularity       `json:"granularity"`
	Periods     []PeriodAggregate `json:"periods"`
	Summary     Summary           `json:"summary"`
}
