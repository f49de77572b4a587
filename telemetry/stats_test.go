package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	d := Summarize([]float64{4, 2, 8, 6})

	if math.Abs(d.Mean-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", d.Mean)
	}
	// Sample std of {2,4,6,8} is sqrt(20/3).
	if math.Abs(d.Std-math.Sqrt(20.0/3.0)) > 1e-9 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(20.0/3.0))
	}
	if math.Abs(d.P50-5) > 1e-9 {
		t.Errorf("p50 = %v, want 5", d.P50)
	}
	if d.Max != 8 {
		t.Errorf("max = %v, want 8", d.Max)
	}
}

func TestSummarizeSmall(t *testing.T) {
	if d := Summarize(nil); d != (Distribution{}) {
		t.Errorf("empty sample should be zero, got %+v", d)
	}

	d := Summarize([]float64{3})
	if d.Mean != 3 || d.Std != 0 || d.P10 != 3 || d.Max != 3 {
		t.Errorf("single sample = %+v", d)
	}
}

func TestSummarizeLeavesInputUnsorted(t *testing.T) {
	in := []float64{3, 1, 2}
	Summarize(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input was modified: %v", in)
	}
}
