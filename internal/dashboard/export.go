package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aevon-lab/rainfall-explorer/internal/core/aggregation"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
)

var exportHeader = []string{
	"label", "period_start", "period_end", "total_mm", "mean_daily_mm",
	"peak_day", "peak_mm", "days_with_data", "days_in_period",
}

// WriteCSV writes one row per period of result.
func WriteCSV(w io.Writer, result aggregation.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range result.Periods {
		row := []string{
			p.Label,
			p.PeriodStart.Format(rainfall.DateLayout),
			p.PeriodEnd.Format(rainfall.DateLayout),
			p.TotalMM.String(),
			p.MeanDailyMM.String(),
			p.PeakDay.Format(rainfall.DateLayout),
			p.PeakMM.String(),
			strconv.Itoa(p.DaysWithData),
			strconv.Itoa(p.DaysInPeriod),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", p.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportFilename names the download after its granularity and range.
func exportFilename(result aggregation.Result) string {
	return fmt.Sprintf("rainfall_%s_%s_%s.csv",
		result.Granularity,
		result.Summary.Start.Format(rainfall.DateLayout),
		result.Summary.End.Format(rainfall.DateLayout))
}
