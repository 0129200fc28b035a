package testutil

import (
	"math"
	"testing"
)

func TestRequireNearlyEqual(t *testing.T) {
	RequireNearlyEqual(t, "value", 1.0, 1.05, 0.1)
}

func TestRequireFinite(t *testing.T) {
	RequireFinite(t, []float64{0, 1, -1, math.MaxFloat64})
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want int
	}{
		{name: "empty", data: nil, want: -1},
		{name: "single", data: []float64{3}, want: 0},
		{name: "middle", data: []float64{1, 5, 2}, want: 1},
		{name: "tie keeps first", data: []float64{1, 4, 2, 4}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArgMax(tt.data); got != tt.want {
				t.Fatalf("ArgMax() = %d, want %d", got, tt.want)
			}
		})
	}
}
