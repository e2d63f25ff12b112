package dashboard

import (
	"github.com/aevon-lab/rainfall-explorer/internal/core/aggregation"
	"github.com/aevon-lab/rainfall-explorer/internal/core/climatology"
	"github.com/aevon-lab/rainfall-explorer/internal/core/monsoon"
	"github.com/aevon-lab/rainfall-explorer/internal/ingestion"
)

// AggregateQuery selects a date range either by start/end or by year.
// Omitted bounds default to the dataset bounds.
type AggregateQuery struct {
	Start       string `form:"start"`
	End         string `form:"end"`
	Year        int    `form:"year"`
	Granularity string `form:"granularity"`
}

// WithdrawalQuery configures one withdrawal estimate. Year or Start is required;
// the other and any omitted heuristic parameter fall back to configured defaults.
type WithdrawalQuery struct {
	Year        int    `form:"year"`
	Start       string `form:"start"`
	ThresholdMM string `form:"threshold_mm"`
	DryDays     int    `form:"dry_days"`
}

// WithdrawalsQuery configures the per-year withdrawal table.
type WithdrawalsQuery struct {
	StartMonthDay string `form:"start_month_day"`
	ThresholdMM   string `form:"threshold_mm"`
	DryDays       int    `form:"dry_days"`
}

// ClimatologyQuery selects the focal year. ExcludeFocal nil means the configured default.
type ClimatologyQuery struct {
	Year         int   `form:"year" binding:"required"`
	ExcludeFocal *bool `form:"exclude_focal"`
}

// DatasetRef identifies the snapshot a response was computed from.
type DatasetRef struct {
	Station        ingestion.Station `json:"station"`
	DatasetVersion string            `json:"dataset_version"`
}

type AggregateResponse struct {
	DatasetRef
	aggregation.Result
}

type WithdrawalResponse struct {
	DatasetRef
	monsoon.Estimate
}

type WithdrawalsResponse struct {
	DatasetRef
	StartMonthDay  string               `json:"start_month_day"`
	DryThresholdMM string               `json:"dry_threshold_mm"`
	RequiredDryRun int                  `json:"required_dry_run"`
	Years          []monsoon.YearResult `json:"years"`
}

type ClimatologyResponse struct {
	DatasetRef
	FocalYear      int                 `json:"focal_year"`
	ExcludeFocal   bool                `json:"exclude_focal"`
	ReferenceYears []int               `json:"reference_years"`
	Points         []climatology.Point `json:"points"`
}

type AnomaliesResponse struct {
	DatasetRef
	FocalYear      int                   `json:"focal_year"`
	ExcludeFocal   bool                  `json:"exclude_focal"`
	ReferenceYears []int                 `json:"reference_years"`
	Anomalies      []climatology.Anomaly `json:"anomalies"`
}
