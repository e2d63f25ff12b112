package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/aggregation"
	"github.com/aevon-lab/rainfall-explorer/internal/core/climatology"
	"github.com/aevon-lab/rainfall-explorer/internal/core/config"
	"github.com/aevon-lab/rainfall-explorer/internal/core/monsoon"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/aevon-lab/rainfall-explorer/internal/ingestion"
	"github.com/aevon-lab/rainfall-explorer/internal/observability"
	"github.com/shopspring/decimal"
)

// SnapshotSource yields the active dataset snapshot.
type SnapshotSource interface {
	Current() (*ingestion.Snapshot, error)
}

// Defaults fill in query parameters the caller leaves out.
type Defaults struct {
	Granularity    aggregation.Granularity
	StartMonth     time.Month
	StartDay       int
	DryThresholdMM decimal.Decimal
	DryRunDays     int
	ExcludeFocal   bool
}

// DefaultsFromConfig resolves query defaults from validated configuration.
func DefaultsFromConfig(cfg *config.Config) (Defaults, error) {
	g, err := aggregation.ParseGranularity(cfg.Aggregation.DefaultGranularity)
	if err != nil {
		return Defaults{}, err
	}
	month, day, err := cfg.Monsoon.StartMonthAndDay()
	if err != nil {
		return Defaults{}, err
	}
	threshold, err := cfg.Monsoon.Threshold()
	if err != nil {
		return Defaults{}, fmt.Errorf("monsoon threshold: %w", err)
	}
	return Defaults{
		Granularity:    g,
		StartMonth:     month,
		StartDay:       day,
		DryThresholdMM: threshold,
		DryRunDays:     cfg.Monsoon.DryRunDays,
		ExcludeFocal:   cfg.Climatology.ExcludeFocal,
	}, nil
}

// Service answers dashboard queries against the active snapshot. Every
// query reads exactly one snapshot, so a reload mid-request is invisible.
type Service struct {
	snapshots SnapshotSource
	defaults  Defaults
	cache     *ProfileCache
	metrics   *observability.Metrics
}

func NewService(snapshots SnapshotSource, defaults Defaults, cache *ProfileCache, metrics *observability.Metrics) *Service {
	if snapshots == nil {
		panic("dashboard: snapshot source must not be nil")
	}
	if cache == nil {
		cache = NewProfileCache(0)
	}
	if !defaults.Granularity.Valid() {
		defaults.Granularity = aggregation.Monthly
	}
	return &Service{snapshots: snapshots, defaults: defaults, cache: cache, metrics: metrics}
}

func invalidParamf(format string, args ...interface{}) error {
	return rainfall.Errorf(rainfall.ErrInvalidParameter, format, args...)
}

func refOf(snap *ingestion.Snapshot) DatasetRef {
	return DatasetRef{Station: snap.Station, DatasetVersion: snap.Version.String()}
}

// QueryAggregates buckets the selected range at the requested granularity.
func (s *Service) QueryAggregates(q AggregateQuery) (*AggregateResponse, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	g := s.defaults.Granularity
	if strings.TrimSpace(q.Granularity) != "" {
		if g, err = aggregation.ParseGranularity(q.Granularity); err != nil {
			return nil, err
		}
	}

	start, end, err := s.resolveRange(snap.Series, q)
	if err != nil {
		return nil, err
	}

	result, err := aggregation.Aggregate(snap.Series, start, end, g)
	if err != nil {
		return nil, err
	}
	return &AggregateResponse{DatasetRef: refOf(snap), Result: result}, nil
}

func (s *Service) resolveRange(series *rainfall.Series, q AggregateQuery) (time.Time, time.Time, error) {
	if q.Year != 0 {
		if q.Start != "" || q.End != "" {
			return time.Time{}, time.Time{}, invalidParamf("year cannot be combined with start or end")
		}
		start, end := aggregation.YearRange(q.Year)
		return start, end, nil
	}

	first, last, ok := series.Bounds()
	start, end := first, last
	if q.Start != "" {
		d, err := rainfall.ParseDate(q.Start)
		if err != nil {
			return time.Time{}, time.Time{}, invalidParamf("start %q must be YYYY-MM-DD", q.Start)
		}
		start = d
	}
	if q.End != "" {
		d, err := rainfall.ParseDate(q.End)
		if err != nil {
			return time.Time{}, time.Time{}, invalidParamf("end %q must be YYYY-MM-DD", q.End)
		}
		end = d
	}
	if !ok && (q.Start == "" || q.End == "") {
		return time.Time{}, time.Time{}, rainfall.Errorf(rainfall.ErrOutOfRange, "dataset has no records to default the range from")
	}
	return start, end, nil
}

func (s *Service) heuristic(thresholdMM string, dryDays int) (decimal.Decimal, int, error) {
	threshold := s.defaults.DryThresholdMM
	if strings.TrimSpace(thresholdMM) != "" {
		t, err := decimal.NewFromString(strings.TrimSpace(thresholdMM))
		if err != nil {
			return decimal.Zero, 0, invalidParamf("threshold_mm %q is not a number", thresholdMM)
		}
		threshold = t
	}
	run := s.defaults.DryRunDays
	if dryDays != 0 {
		run = dryDays
	}
	return threshold, run, nil
}

// EstimateWithdrawal estimates one year's monsoon withdrawal date.
func (s *Service) EstimateWithdrawal(q WithdrawalQuery) (*WithdrawalResponse, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	threshold, run, err := s.heuristic(q.ThresholdMM, q.DryDays)
	if err != nil {
		return nil, err
	}

	p := monsoon.Params{Year: q.Year, DryThresholdMM: threshold, RequiredDryRun: run}
	switch {
	case q.Start != "":
		start, err := rainfall.ParseDate(q.Start)
		if err != nil {
			return nil, invalidParamf("start %q must be YYYY-MM-DD", q.Start)
		}
		p.StartDate = start
		if p.Year == 0 {
			p.Year = start.Year()
		}
	case q.Year != 0:
		p.StartDate = rainfall.Day(q.Year, s.defaults.StartMonth, s.defaults.StartDay)
	default:
		return nil, invalidParamf("year or start is required")
	}

	est, err := monsoon.EstimateWithdrawal(snap.Series, p)
	if err != nil {
		return nil, err
	}
	return &WithdrawalResponse{DatasetRef: refOf(snap), Estimate: est}, nil
}

// WithdrawalHistory estimates the withdrawal date of every year in the dataset.
func (s *Service) WithdrawalHistory(q WithdrawalsQuery) (*WithdrawalsResponse, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	threshold, run, err := s.heuristic(q.ThresholdMM, q.DryDays)
	if err != nil {
		return nil, err
	}
	month, day := s.defaults.StartMonth, s.defaults.StartDay
	if strings.TrimSpace(q.StartMonthDay) != "" {
		if month, day, err = monsoon.ParseMonthDay(q.StartMonthDay); err != nil {
			return nil, err
		}
	}

	years, err := monsoon.EstimateAll(snap.Series, month, day, threshold, run)
	if err != nil {
		return nil, err
	}
	return &WithdrawalsResponse{
		DatasetRef:     refOf(snap),
		StartMonthDay:  fmt.Sprintf("%02d-%02d", int(month), day),
		DryThresholdMM: threshold.String(),
		RequiredDryRun: run,
		Years:          years,
	}, nil
}

func (s *Service) profile(snap *ingestion.Snapshot, q ClimatologyQuery) (*climatology.Profile, error) {
	exclude := s.defaults.ExcludeFocal
	if q.ExcludeFocal != nil {
		exclude = *q.ExcludeFocal
	}

	key := profileKey{version: snap.Version, focalYear: q.Year, excludeFocal: exclude}
	if p := s.cache.Get(key); p != nil {
		s.metrics.CacheLookup(true)
		return p, nil
	}
	s.metrics.CacheLookup(false)

	p, err := climatology.Compute(snap.Series, q.Year, exclude)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, p)
	return p, nil
}

// Climatology returns the day-of-year normals for a focal year.
func (s *Service) Climatology(q ClimatologyQuery) (*ClimatologyResponse, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	p, err := s.profile(snap, q)
	if err != nil {
		return nil, err
	}
	return &ClimatologyResponse{
		DatasetRef:     refOf(snap),
		FocalYear:      p.FocalYear,
		ExcludeFocal:   p.ExcludeFocal,
		ReferenceYears: p.ReferenceYears,
		Points:         p.Points(),
	}, nil
}

// Anomalies compares each recorded day of the focal year with its normal.
func (s *Service) Anomalies(q ClimatologyQuery) (*AnomaliesResponse, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	p, err := s.profile(snap, q)
	if err != nil {
		return nil, err
	}
	anomalies, err := climatology.Anomalies(snap.Series, p, q.Year)
	if err != nil {
		return nil, err
	}
	return &AnomaliesResponse{
		DatasetRef:     refOf(snap),
		FocalYear:      p.FocalYear,
		ExcludeFocal:   p.ExcludeFocal,
		ReferenceYears: p.ReferenceYears,
		Anomalies:      anomalies,
	}, nil
}
