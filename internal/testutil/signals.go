package testutil

import "math"

// DeterministicSine generates amplitude·sin(2π·f·n/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Constant returns a slice of length n filled with value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Bits parses a string of '0' and '1' into a bit slice. Any other
// character is skipped, so "0100 0001" is accepted.
func Bits(pattern string) []uint8 {
	out := make([]uint8, 0, len(pattern))
	for _, c := range pattern {
		switch c {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		}
	}
	return out
}
