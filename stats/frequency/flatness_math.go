//go:build !fastmath

package frequency

import "math"

// mathLog computes ln(x) using standard library math.
func mathLog(x float64) float64 {
	return math.Log(x)
}

// mathExp computes e^x using standard library math.
func mathExp(x float64) float64 {
	return math.Exp(x)
}
