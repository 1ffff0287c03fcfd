// Package stats implements the statistical layer of the experiment: guarded
// descriptive aggregates, the two-arm Welch comparison, ROI monetization,
// and the recommendation report.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Fewer than two observations means dispersion is unmeasurable and is
// reported as 0, never NaN.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd := stat.StdDev(values, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// Variance returns the sample variance (n-1 denominator), with the same
// zero-dispersion guard as StdDev.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	v := stat.Variance(values, nil)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Sum returns the total of values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Tail returns the last n values (or all of them when fewer exist).
func Tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
