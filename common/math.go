package common

import "math"

// Epsilon is the tolerance used when comparing world-space floats.
const Epsilon = 1e-6

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ApproxZero(v, eps float64) bool {
	return math.Abs(v) <= eps
}

// FloorDiv returns floor(v / size) as an int.
func FloorDiv(v, size float64) int {
	return int(math.Floor(v / size))
}
