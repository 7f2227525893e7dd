// Package telemetry collects per-tick engine state and writes it out as
// CSV rows and JSON snapshots for the host layer.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ConditionStats summarizes a distribution of per-node condition fractions.
type ConditionStats struct {
	Mean float64
	P10  float64
	P50  float64
	P90  float64
}

// ComputeConditionStats returns mean and percentiles for the sample.
// An empty sample yields all zeros.
func ComputeConditionStats(values []float64) ConditionStats {
	if len(values) == 0 {
		return ConditionStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return ConditionStats{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.1, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}
