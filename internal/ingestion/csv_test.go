package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var defaultOpts = CSVOptions{
	DateLayouts:   []string{"2006-01-02", "02-01-2006"},
	MissingValues: []string{"", "NA"},
}

func TestParseCSV_SecondColumnByDefault(t *testing.T) {
	input := "date,rainfall,humidity\n" +
		"2020-06-10,2.5,80\n" +
		"2020-06-11,0,75\n"

	series, stats, err := ParseCSV(strings.NewReader(input), defaultOpts)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	require.Equal(t, ParseStats{Rows: 2, Records: 2}, stats)

	v, ok := series.Lookup(rainfall.Day(2020, 6, 10))
	require.True(t, ok)
	require.True(t, decimal.RequireFromString("2.5").Equal(v))
}

func TestParseCSV_NamedColumnAndAlternateLayout(t *testing.T) {
	input := "Date,humidity,Rain_MM\n" +
		"10-06-2020,80,4.25\n"

	series, _, err := ParseCSV(strings.NewReader(input), CSVOptions{
		ValueColumn: "rain_mm",
		DateLayouts: defaultOpts.DateLayouts,
	})
	require.NoError(t, err)

	v, ok := series.Lookup(rainfall.Day(2020, 6, 10))
	require.True(t, ok)
	require.Equal(t, "4.25", v.String())
}

func TestParseCSV_MissingTokensAreGapsNotZero(t *testing.T) {
	input := "date,rain\n" +
		"2020-06-10,1\n" +
		"2020-06-11,NA\n" +
		"2020-06-12,\n" +
		"2020-06-13,na\n" +
		"2020-06-14,3\n"

	series, stats, err := ParseCSV(strings.NewReader(input), defaultOpts)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	require.Equal(t, 3, stats.Missing)

	_, ok := series.Lookup(rainfall.Day(2020, 6, 11))
	require.False(t, ok)
}

func TestParseCSV_UnorderedRowsAreSorted(t *testing.T) {
	input := "date,rain\n2020-06-12,1\n2020-06-10,2\n"

	series, _, err := ParseCSV(strings.NewReader(input), defaultOpts)
	require.NoError(t, err)
	first, last, ok := series.Bounds()
	require.True(t, ok)
	require.Equal(t, rainfall.Day(2020, 6, 10), first)
	require.Equal(t, rainfall.Day(2020, 6, 12), last)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    CSVOptions
		wantErr error
		msg     string
	}{
		{name: "empty", input: "", opts: defaultOpts, wantErr: ErrMalformedCSV, msg: "empty input"},
		{name: "single column", input: "date\n2020-01-01\n", opts: defaultOpts, wantErr: ErrMalformedCSV, msg: "need a date column"},
		{name: "unknown column", input: "date,rain\n", opts: CSVOptions{ValueColumn: "precip"}, wantErr: ErrMalformedCSV, msg: "not found"},
		{name: "bad date", input: "date,rain\n2020/13/01,1\n", opts: defaultOpts, wantErr: ErrMalformedCSV, msg: "line 2"},
		{name: "bad value", input: "date,rain\n2020-01-01,lots\n", opts: defaultOpts, wantErr: ErrMalformedCSV, msg: "invalid rainfall value"},
		{name: "short row", input: "date,x,rain\n2020-01-01,1\n", opts: CSVOptions{ValueColumn: "rain"}, wantErr: ErrMalformedCSV, msg: "columns"},
		{name: "negative", input: "date,rain\n2020-01-01,-1\n", opts: defaultOpts, wantErr: rainfall.ErrInvalidSeries},
		{name: "duplicate", input: "date,rain\n2020-01-01,1\n2020-01-01,2\n", opts: defaultOpts, wantErr: rainfall.ErrInvalidSeries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCSV(strings.NewReader(tt.input), tt.opts)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.msg != "" {
				require.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}
