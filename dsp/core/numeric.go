package core

import "math"

const defaultEpsilon = 1e-12

// TwoPi is 2π, the radians per cycle used by every phase computation.
const TwoPi = 2 * math.Pi

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps, using a relative
// comparison once either magnitude exceeds one.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// PowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func PowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// IsBinary reports whether v is exactly 0 or 1. It accepts both bit values
// and digital baseband samples.
func IsBinary[T ~uint8 | ~float64](v T) bool {
	return v == 0 || v == 1
}
