package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
)

var ErrMalformedCSV = errors.New("malformed rainfall csv")

// CSVOptions controls how a rainfall CSV is read.
// The first column always holds the date.
type CSVOptions struct {
	ValueColumn   string   // header of the rainfall column; empty means the second column
	DateLayouts   []string // tried in order
	MissingValues []string // cells treated as gaps, compared case-insensitively
}

// ParseStats describes what ParseCSV did with the input rows.
type ParseStats struct {
	Rows    int `json:"rows"`
	Records int `json:"records"`
	Missing int `json:"missing"`
}

// ParseCSV reads a header row followed by one row per day and builds a series.
// Rows whose value is a missing token are gaps, not zeros.
func ParseCSV(r io.Reader, opts CSVOptions) (*rainfall.Series, ParseStats, error) {
	var stats ParseStats
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = []string{rainfall.DateLayout}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: empty input", ErrMalformedCSV)
		}
		return nil, stats, fmt.Errorf("%w: read header: %v", ErrMalformedCSV, err)
	}
	valueIdx, err := valueColumnIndex(header, opts.ValueColumn)
	if err != nil {
		return nil, stats, err
	}

	var records []rainfall.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		stats.Rows++
		line, _ := reader.FieldPos(0)

		if len(row) <= valueIdx {
			return nil, stats, fmt.Errorf("%w: line %d has %d columns, want at least %d",
				ErrMalformedCSV, line, len(row), valueIdx+1)
		}

		date, err := parseDate(strings.TrimSpace(row[0]), opts.DateLayouts)
		if err != nil {
			return nil, stats, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}

		cell := strings.TrimSpace(row[valueIdx])
		if isMissing(cell, opts.MissingValues) {
			stats.Missing++
			continue
		}
		amount, err := decimal.NewFromString(cell)
		if err != nil {
			return nil, stats, fmt.Errorf("%w: line %d: invalid rainfall value %q", ErrMalformedCSV, line, cell)
		}
		records = append(records, rainfall.Record{Date: date, RainfallMM: amount})
	}

	series, err := rainfall.NewSeries(records)
	if err != nil {
		return nil, stats, err
	}
	stats.Records = series.Len()
	return series, stats, nil
}

func valueColumnIndex(header []string, name string) (int, error) {
	if len(header) < 2 {
		return 0, fmt.Errorf("%w: need a date column and a rainfall column, got %d columns", ErrMalformedCSV, len(header))
	}
	if name == "" {
		return 1, nil
	}
	for i, h := range header {
		if i == 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: value column %q not found in header %v", ErrMalformedCSV, name, header)
}

func parseDate(s string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return rainfall.TruncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func isMissing(cell string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.EqualFold(cell, tok) {
			return true
		}
	}
	return false
}
