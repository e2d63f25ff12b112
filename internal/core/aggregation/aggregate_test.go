package aggregation

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

func newSeries(t *testing.T, records ...rainfall.Record) *rainfall.Series {
	t.Helper()
	s, err := rainfall.NewSeries(records)
	require.NoError(t, err)
	return s
}

func rec(y int, m time.Month, d int, v string) rainfall.Record {
	return rainfall.Record{Date: rainfall.Day(y, m, d), RainfallMM: mm(v)}
}

// fullYears builds complete daily data where each year totals yearTotal,
// all of it falling on January 1st.
func fullYears(t *testing.T, yearTotal string, years ...int) *rainfall.Series {
	t.Helper()
	var records []rainfall.Record
	for _, y := range years {
		for d := rainfall.Day(y, 1, 1); d.Year() == y; d = d.AddDate(0, 0, 1) {
			v := "0"
			if d.YearDay() == 1 {
				v = yearTotal
			}
			records = append(records, rainfall.Record{Date: d, RainfallMM: mm(v)})
		}
	}
	return newSeries(t, records...)
}

func TestAggregate_YearlyTwoYears(t *testing.T) {
	series := fullYears(t, "1000", 2021, 2022)

	res, err := Aggregate(series, rainfall.Day(2021, 1, 1), rainfall.Day(2022, 12, 31), Yearly)
	require.NoError(t, err)
	require.Len(t, res.Periods, 2)
	require.Equal(t, "2021", res.Periods[0].Label)
	require.Equal(t, "2022", res.Periods[1].Label)
	require.True(t, mm("1000").Equal(res.Periods[0].TotalMM))
	require.True(t, mm("1000").Equal(res.Periods[1].TotalMM))

	require.True(t, mm("2000").Equal(res.Summary.TotalMM))
	require.Equal(t, 730, res.Summary.DaysInRange)
	require.Equal(t, 730, res.Summary.DaysWithData)
	require.True(t, MeanOf(mm("2000"), 730).Equal(res.Summary.MeanDailyMM))
	require.Equal(t, 2, res.Summary.RainyDays)
	require.NotNil(t, res.Summary.PeakDay)
	require.Equal(t, rainfall.Day(2021, 1, 1), *res.Summary.PeakDay)
}

func TestAggregate_SummaryTotalMatchesPeriods(t *testing.T) {
	series := newSeries(t,
		rec(2020, 5, 30, "1.5"),
		rec(2020, 5, 31, "0"),
		rec(2020, 6, 1, "12.25"),
		rec(2020, 6, 3, "4"),
		rec(2020, 6, 9, "0.75"),
		rec(2020, 7, 20, "30"),
		rec(2020, 8, 2, "2.2"),
	)

	for _, g := range []Granularity{Daily, Weekly, Monthly, Yearly} {
		t.Run(string(g), func(t *testing.T) {
			res, err := Aggregate(series, rainfall.Day(2020, 5, 31), rainfall.Day(2020, 7, 31), g)
			require.NoError(t, err)

			sum := decimal.Zero
			for _, p := range res.Periods {
				sum = sum.Add(p.TotalMM)
			}
			require.True(t, res.Summary.TotalMM.Equal(sum), "summary=%s periods=%s", res.Summary.TotalMM, sum)
			require.True(t, mm("47").Equal(res.Summary.TotalMM))
		})
	}
}

func TestAggregate_WeeklyClipsToRange(t *testing.T) {
	// 2020-06-10 is a Wednesday; its week runs 06-08..06-14.
	series := newSeries(t,
		rec(2020, 6, 9, "100"),
		rec(2020, 6, 10, "2"),
		rec(2020, 6, 14, "3"),
		rec(2020, 6, 15, "4"),
		rec(2020, 6, 16, "100"),
	)

	res, err := Aggregate(series, rainfall.Day(2020, 6, 10), rainfall.Day(2020, 6, 15), Weekly)
	require.NoError(t, err)
	require.Len(t, res.Periods, 2)

	first := res.Periods[0]
	require.Equal(t, "2020-06-08", first.Label)
	require.Equal(t, rainfall.Day(2020, 6, 10), first.PeriodStart)
	require.Equal(t, rainfall.Day(2020, 6, 14), first.PeriodEnd)
	require.Equal(t, 5, first.DaysInPeriod)
	require.Equal(t, 2, first.DaysWithData)
	require.True(t, mm("5").Equal(first.TotalMM))

	second := res.Periods[1]
	require.Equal(t, "2020-06-15", second.Label)
	require.Equal(t, rainfall.Day(2020, 6, 15), second.PeriodEnd)
	require.Equal(t, 1, second.DaysInPeriod)
	require.True(t, mm("4").Equal(second.TotalMM))
}

func TestAggregate_MissingBucketsOmittedZeroBucketsKept(t *testing.T) {
	series := newSeries(t,
		rec(2020, 1, 15, "10"),
		rec(2020, 3, 1, "0"),
	)

	res, err := Aggregate(series, rainfall.Day(2020, 1, 1), rainfall.Day(2020, 3, 31), Monthly)
	require.NoError(t, err)
	require.Len(t, res.Periods, 2)
	require.Equal(t, "2020-01", res.Periods[0].Label)
	require.Equal(t, "2020-03", res.Periods[1].Label)
	require.True(t, res.Periods[1].TotalMM.IsZero())
	require.Equal(t, 1, res.Periods[1].DaysWithData)
	require.Equal(t, 31, res.Periods[1].DaysInPeriod)
}

func TestAggregate_PeakTieKeepsEarliest(t *testing.T) {
	series := newSeries(t,
		rec(2020, 7, 1, "8"),
		rec(2020, 7, 2, "20"),
		rec(2020, 7, 3, "20"),
		rec(2020, 7, 4, "3"),
	)

	res, err := Aggregate(series, rainfall.Day(2020, 7, 1), rainfall.Day(2020, 7, 31), Monthly)
	require.NoError(t, err)
	require.Len(t, res.Periods, 1)
	require.Equal(t, rainfall.Day(2020, 7, 2), res.Periods[0].PeakDay)
	require.True(t, mm("20").Equal(res.Periods[0].PeakMM))
	require.True(t, mm("12.75").Equal(res.Periods[0].MeanDailyMM))

	require.Equal(t, rainfall.Day(2020, 7, 2), *res.Summary.PeakDay)
	require.True(t, mm("3").Equal(res.Summary.MinDailyMM))
}

func TestAggregate_EmptyRange(t *testing.T) {
	series := newSeries(t, rec(2020, 1, 1, "5"))

	res, err := Aggregate(series, rainfall.Day(2021, 1, 1), rainfall.Day(2021, 1, 31), Daily)
	require.NoError(t, err)
	require.Empty(t, res.Periods)
	require.NotNil(t, res.Periods)
	require.True(t, res.Summary.TotalMM.IsZero())
	require.True(t, res.Summary.MeanDailyMM.IsZero())
	require.Nil(t, res.Summary.PeakDay)
	require.Equal(t, 0, res.Summary.DaysWithData)
	require.Equal(t, 31, res.Summary.DaysInRange)
}

func TestAggregate_SummaryMeanSpansGaps(t *testing.T) {
	series := newSeries(t,
		rec(2020, 6, 1, "10"),
		rec(2020, 6, 10, "10"),
	)

	res, err := Aggregate(series, rainfall.Day(2020, 6, 1), rainfall.Day(2020, 6, 10), Daily)
	require.NoError(t, err)
	require.True(t, mm("20").Equal(res.Summary.TotalMM))
	require.Equal(t, 10, res.Summary.DaysInRange)
	require.Equal(t, 2, res.Summary.DaysWithData)
	require.True(t, mm("2").Equal(res.Summary.MeanDailyMM), "got %s", res.Summary.MeanDailyMM)
	require.True(t, mm("10").Equal(res.Summary.MeanRecordedMM), "got %s", res.Summary.MeanRecordedMM)
}

func TestAggregate_Errors(t *testing.T) {
	series := newSeries(t, rec(2020, 1, 1, "5"))

	_, err := Aggregate(series, rainfall.Day(2020, 2, 1), rainfall.Day(2020, 1, 1), Daily)
	require.ErrorIs(t, err, rainfall.ErrInvalidRange)

	_, err = Aggregate(series, rainfall.Day(2020, 1, 1), rainfall.Day(2020, 2, 1), Granularity("hourly"))
	require.ErrorIs(t, err, rainfall.ErrInvalidParameter)
}

func TestAggregate_SingleDayRange(t *testing.T) {
	series := newSeries(t, rec(2020, 1, 1, "5"), rec(2020, 1, 2, "6"))

	res, err := Aggregate(series, rainfall.Day(2020, 1, 2), rainfall.Day(2020, 1, 2), Daily)
	require.NoError(t, err)
	require.Len(t, res.Periods, 1)
	require.True(t, mm("6").Equal(res.Summary.TotalMM))
	require.True(t, res.Summary.StdDevDailyMM.IsZero())
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(2024)
	require.Equal(t, rainfall.Day(2024, 1, 1), start)
	require.Equal(t, rainfall.Day(2024, 12, 31), end)
	require.Equal(t, 366, rainfall.DaysBetween(start, end))
}
