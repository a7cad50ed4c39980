package utils

import "math"

// NormalizeL2 scales x in place to unit length and returns its original
// length. A zero vector is left as is.
func NormalizeL2(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return 0
	}
	norm := math.Sqrt(sum)
	inv := float32(1 / norm)
	for i := range x {
		x[i] *= inv
	}
	return norm
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
