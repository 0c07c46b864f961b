//go:build fastmath

package frequency

import "github.com/meko-christian/algo-approx"

// mathLog computes ln(x) using fast approximation. Flatness sums one log
// per bin, so large FFTs spend most of their time here.
func mathLog(x float64) float64 {
	return approx.FastLog(x)
}

// mathExp computes e^x using fast approximation.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}
