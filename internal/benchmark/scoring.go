package benchmark

import (
	"math"
)

// PerformanceScore normalizes an overall wall time against the
// baseline run: score = baseline / t * 1000, rounded to two decimals.
// A shorter run scores higher. Absent or non-positive input yields nil.
func PerformanceScore(overallWallTime *float64, policy Policy) *float64 {
	if overallWallTime == nil || *overallWallTime <= 0 {
		return nil
	}
	score := math.Round(policy.BaselineSeconds / *overallWallTime * 1000 * 100) / 100
	return &score
}

// Throughput derives keys searched per second from the phase 1 wall
// time: floor(2^keyBits / t). Absent or non-positive input yields nil.
func Throughput(phase1WallTime *float64, policy Policy) *int64 {
	if phase1WallTime == nil || *phase1WallTime <= 0 {
		return nil
	}
	keySpace := math.Pow(2, float64(policy.KeyBits))
	throughput := int64(keySpace / *phase1WallTime)
	return &throughput
}
