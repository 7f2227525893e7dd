package telemetry

import (
	"math"
	"testing"
)

func TestComputeConditionStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	got := ComputeConditionStats(values)

	if math.Abs(got.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", got.Mean)
	}
	if got.P10 > got.P50 || got.P50 > got.P90 {
		t.Errorf("percentiles out of order: %+v", got)
	}
	if got.P10 < 0.1 || got.P90 > 1.0 {
		t.Errorf("percentiles outside the sample range: %+v", got)
	}
}

func TestComputeConditionStatsDoesNotMutateInput(t *testing.T) {
	values := []float64{0.9, 0.1, 0.5}
	ComputeConditionStats(values)
	if values[0] != 0.9 || values[1] != 0.1 || values[2] != 0.5 {
		t.Errorf("input mutated: %v", values)
	}
}

func TestComputeConditionStatsEmpty(t *testing.T) {
	got := ComputeConditionStats(nil)
	if got.Mean != 0 || got.P10 != 0 || got.P50 != 0 || got.P90 != 0 {
		t.Errorf("empty sample should yield zeros: %+v", got)
	}
}

func TestComputeConditionStatsSingle(t *testing.T) {
	got := ComputeConditionStats([]float64{0.42})
	if got.Mean != 0.42 || got.P50 != 0.42 {
		t.Errorf("single sample: %+v", got)
	}
}
