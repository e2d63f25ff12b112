package monsoon

import (
	"testing"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mm(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seriesOf(t *testing.T, start time.Time, values ...string) *rainfall.Series {
	t.Helper()
	records := make([]rainfall.Record, 0, len(values))
	for i, v := range values {
		if v == "" {
			continue // gap
		}
		records = append(records, rainfall.Record{Date: start.AddDate(0, 0, i), RainfallMM: mm(v)})
	}
	s, err := rainfall.NewSeries(records)
	require.NoError(t, err)
	return s
}

func TestEstimateWithdrawal_ReportsFirstDayOfRun(t *testing.T) {
	series := seriesOf(t, rainfall.Day(2020, 6, 10), "2", "0", "1", "0", "0")

	est, err := EstimateWithdrawal(series, Params{
		Year:           2020,
		StartDate:      rainfall.Day(2020, 6, 10),
		DryThresholdMM: mm("1"),
		RequiredDryRun: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, est.EstimatedWithdrawalDate)
	require.Equal(t, rainfall.Day(2020, 6, 12), *est.EstimatedWithdrawalDate)
	require.Equal(t, 2020, est.Year)
	require.Equal(t, 3, est.RequiredDryRun)
	require.True(t, mm("1").Equal(est.DryThresholdMM))
}

func TestEstimateWithdrawal_ThresholdIsInclusive(t *testing.T) {
	series := seriesOf(t, rainfall.Day(2020, 9, 1), "2.5", "2.5")

	est, err := EstimateWithdrawal(series, Params{
		Year:           2020,
		StartDate:      rainfall.Day(2020, 9, 1),
		DryThresholdMM: mm("2.5"),
		RequiredDryRun: 2,
	})
	require.NoError(t, err)
	require.Equal(t, rainfall.Day(2020, 9, 1), *est.EstimatedWithdrawalDate)
}

func TestEstimateWithdrawal_NoQualifyingRun(t *testing.T) {
	series := seriesOf(t, rainfall.Day(2020, 9, 1), "0", "0", "5", "0", "0")

	est, err := EstimateWithdrawal(series, Params{
		Year:           2020,
		StartDate:      rainfall.Day(2020, 9, 1),
		DryThresholdMM: mm("1"),
		RequiredDryRun: 3,
	})
	require.NoError(t, err)
	require.Nil(t, est.EstimatedWithdrawalDate)
}

func TestEstimateWithdrawal_GapResetsRun(t *testing.T) {
	// 09-03 is missing: the two dry days before it do not count.
	series := seriesOf(t, rainfall.Day(2020, 9, 1), "0", "0", "", "0", "0", "0")

	est, err := EstimateWithdrawal(series, Params{
		Year:           2020,
		StartDate:      rainfall.Day(2020, 9, 1),
		DryThresholdMM: mm("0"),
		RequiredDryRun: 3,
	})
	require.NoError(t, err)
	require.Equal(t, rainfall.Day(2020, 9, 4), *est.EstimatedWithdrawalDate)
}

func TestEstimateWithdrawal_IgnoresDaysBeforeStart(t *testing.T) {
	series := seriesOf(t, rainfall.Day(2020, 9, 1), "0", "0", "0", "9", "0", "0", "0")

	est, err := EstimateWithdrawal(series, Params{
		Year:           2020,
		StartDate:      rainfall.Day(2020, 9, 2),
		DryThresholdMM: mm("1"),
		RequiredDryRun: 3,
	})
	require.NoError(t, err)
	require.Equal(t, rainfall.Day(2020, 9, 5), *est.EstimatedWithdrawalDate)
}

func TestEstimateWithdrawal_RunDaysAreAllDry(t *testing.T) {
	values := []string{"4", "0.5", "3", "0", "0.2", "1", "0", "7", "0", "0", "0", "0"}
	start := rainfall.Day(2021, 9, 20)
	series := seriesOf(t, start, values...)
	threshold := mm("1")

	for k := 1; k <= 4; k++ {
		est, err := EstimateWithdrawal(series, Params{Year: 2021, StartDate: start, DryThresholdMM: threshold, RequiredDryRun: k})
		require.NoError(t, err)
		require.NotNil(t, est.EstimatedWithdrawalDate, "k=%d", k)

		d := *est.EstimatedWithdrawalDate
		for i := 0; i < k; i++ {
			v, ok := series.Lookup(d.AddDate(0, 0, i))
			require.True(t, ok)
			require.True(t, v.LessThanOrEqual(threshold), "k=%d day %d not dry", k, i)
		}
	}
}

func TestEstimateWithdrawal_Errors(t *testing.T) {
	series := seriesOf(t, rainfall.Day(2020, 6, 10), "2", "0", "1")

	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:    "zero run length",
			params:  Params{Year: 2020, StartDate: rainfall.Day(2020, 6, 10), DryThresholdMM: mm("1"), RequiredDryRun: 0},
			wantErr: rainfall.ErrInvalidParameter,
		},
		{
			name:    "negative threshold",
			params:  Params{Year: 2020, StartDate: rainfall.Day(2020, 6, 10), DryThresholdMM: mm("-0.1"), RequiredDryRun: 2},
			wantErr: rainfall.ErrInvalidParameter,
		},
		{
			name:    "year without data",
			params:  Params{Year: 2019, StartDate: rainfall.Day(2019, 6, 10), DryThresholdMM: mm("1"), RequiredDryRun: 2},
			wantErr: rainfall.ErrOutOfRange,
		},
		{
			name:    "start before data",
			params:  Params{Year: 2020, StartDate: rainfall.Day(2020, 6, 1), DryThresholdMM: mm("1"), RequiredDryRun: 2},
			wantErr: rainfall.ErrOutOfRange,
		},
		{
			name:    "start after data",
			params:  Params{Year: 2020, StartDate: rainfall.Day(2020, 6, 13), DryThresholdMM: mm("1"), RequiredDryRun: 2},
			wantErr: rainfall.ErrOutOfRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EstimateWithdrawal(series, tc.params)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEstimateAll(t *testing.T) {
	var records []rainfall.Record
	add := func(start time.Time, values ...string) {
		for i, v := range values {
			records = append(records, rainfall.Record{Date: start.AddDate(0, 0, i), RainfallMM: mm(v)})
		}
	}
	add(rainfall.Day(2019, 9, 1), "5", "0", "0", "0")
	add(rainfall.Day(2020, 9, 1), "5", "5", "5", "5")
	add(rainfall.Day(2021, 10, 1), "0", "0", "0")
	series, err := rainfall.NewSeries(records)
	require.NoError(t, err)

	results, err := EstimateAll(series, time.September, 1, mm("1"), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, rainfall.Day(2019, 9, 2), *results[0].EstimatedWithdrawalDate)
	require.Empty(t, results[0].Skipped)

	require.Nil(t, results[1].EstimatedWithdrawalDate)
	require.Empty(t, results[1].Skipped)

	require.Equal(t, 2021, results[2].Year)
	require.NotEmpty(t, results[2].Skipped)

	_, err = EstimateAll(series, time.September, 1, mm("1"), 0)
	require.ErrorIs(t, err, rainfall.ErrInvalidParameter)
}
