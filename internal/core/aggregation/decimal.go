package aggregation

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// stdDevPlaces bounds the float round-trip noise of the dispersion KPI.
const stdDevPlaces = 4

// MeanOf divides total by n using decimal division.
// Returns decimal.Zero when n is not positive.
func MeanOf(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

// StdDevOf returns the sample standard deviation of values.
// Fewer than two values have no spread and yield decimal.Zero.
func StdDevOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = v.InexactFloat64()
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(sd).Round(stdDevPlaces)
}
