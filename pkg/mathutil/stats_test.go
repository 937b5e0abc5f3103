package mathutil

import (
	"math"
	"testing"
)

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(values); got != 5 {
		t.Errorf("Mean() = %v, expected 5", got)
	}
	if got := StdDev(values); math.Abs(got-2) > 1e-9 {
		t.Errorf("StdDev() = %v, expected 2", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, expected 0", got)
	}
	if got := StdDev([]float64{3, 3, 3}); got != 0 {
		t.Errorf("StdDev(constant) = %v, expected 0", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{"Minimum", 0, 10},
		{"Median", 50, 30},
		{"Maximum", 100, 50},
		{"Interpolated", 10, 14},
		{"Upper quartile", 75, 40},
		{"Out of range clamps", 150, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(sorted, tt.p); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Percentile(%v) = %v, expected %v", tt.p, got, tt.expected)
			}
		})
	}

	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("Percentile(nil) = %v, expected 0", got)
	}
}

func TestSortedCopyAndMinMax(t *testing.T) {
	values := []float64{3, 1, 2}
	sorted := SortedCopy(values)

	if sorted[0] != 1 || sorted[2] != 3 {
		t.Errorf("SortedCopy() = %v, expected ascending order", sorted)
	}
	if values[0] != 3 {
		t.Errorf("SortedCopy() mutated its input: %v", values)
	}

	lo, hi := MinMax(values)
	if lo != 1 || hi != 3 {
		t.Errorf("MinMax() = (%v, %v), expected (1, 3)", lo, hi)
	}
}
