package benchmark

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestPerformanceScore(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		overall  float64
		expected float64
	}{
		{"baseline run scores 1000", 100.0, 1000.0},
		{"faster run scores higher", 20.345, 4915.21},
		{"slower run scores lower", 400.0, 250.0},
		{"sub-second run", 0.5, 200000.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score := PerformanceScore(floatPtr(tc.overall), policy)
			if score == nil {
				t.Fatalf("PerformanceScore(%v) = nil, want %v", tc.overall, tc.expected)
			}
			if *score != tc.expected {
				t.Fatalf("PerformanceScore(%v) = %v, want %v", tc.overall, *score, tc.expected)
			}
		})
	}
}

func TestPerformanceScore_InvalidInput(t *testing.T) {
	policy := DefaultPolicy()

	for _, overall := range []*float64{nil, floatPtr(0), floatPtr(-5)} {
		if got := PerformanceScore(overall, policy); got != nil {
			t.Fatalf("PerformanceScore(%v) = %v, want nil", overall, *got)
		}
	}
}

func TestThroughput(t *testing.T) {
	policy := DefaultPolicy()

	for _, phase1 := range []float64{12.345, 1.0, 300.0} {
		got := Throughput(floatPtr(phase1), policy)
		if got == nil {
			t.Fatalf("Throughput(%v) = nil", phase1)
		}
		want := int64(math.Pow(2, float64(policy.KeyBits)) / phase1)
		if *got != want {
			t.Fatalf("Throughput(%v) = %v, want %v", phase1, *got, want)
		}
	}

	if got := Throughput(floatPtr(1.0), policy); *got != 1<<28 {
		t.Fatalf("Throughput(1.0) = %v, want %v", *got, 1<<28)
	}
}

func TestThroughput_InvalidInput(t *testing.T) {
	policy := DefaultPolicy()

	for _, phase1 := range []*float64{nil, floatPtr(0), floatPtr(-1)} {
		if got := Throughput(phase1, policy); got != nil {
			t.Fatalf("Throughput(%v) = %v, want nil", phase1, *got)
		}
	}
}
