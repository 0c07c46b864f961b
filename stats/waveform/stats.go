// Package waveform computes time-domain figures of generated waveforms:
// level statistics, zero crossings and a crossing-based frequency estimate.
package waveform

import (
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Stats holds time-domain statistics of one sample sequence.
type Stats struct {
	Length        int     `json:"length"`
	DC            float64 `json:"dc"` // mean
	RMS           float64 `json:"rms"`
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Peak          float64 `json:"peak"`         // max(|max|, |min|)
	PeakDB        float64 `json:"peak_db"`      // 20*log10(peak)
	CrestFactor   float64 `json:"crest_factor"` // peak / RMS (linear)
	Energy        float64 `json:"energy"`       // sum of squares
	ZeroCrossings int     `json:"zero_crossings"`
}

// Calculate computes all statistics.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{PeakDB: math.Inf(-1)}
	}

	maxVal, minVal := signal[0], signal[0]
	for _, x := range signal[1:] {
		if x > maxVal {
			maxVal = x
		}

		if x < minVal {
			minVal = x
		}
	}

	nf := float64(n)
	energy := vecmath.DotProduct(signal, signal)
	rms := math.Sqrt(energy / nf)
	peak := Peak(signal)

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:        n,
		DC:            vecmath.Sum(signal) / nf,
		RMS:           rms,
		Max:           maxVal,
		Min:           minVal,
		Peak:          peak,
		PeakDB:        core.PowerToDB(peak * peak),
		CrestFactor:   crest,
		Energy:        energy,
		ZeroCrossings: ZeroCrossings(signal),
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.MaxAbs(signal)
}

// ZeroCrossings returns the number of zero crossings in the signal.
// A crossing is counted when consecutive samples have opposite signs, so a
// sample that is exactly zero does not start or end a crossing.
func ZeroCrossings(signal []float64) int {
	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}

// CrossingPositions returns the fractional sample positions of all zero
// crossings, linearly interpolated between the two samples that straddle
// zero. Unlike ZeroCrossings, an exact zero counts as non-negative here, so
// a sinusoid sampled right on its node is not missed.
func CrossingPositions(signal []float64) []float64 {
	var out []float64
	for i := 1; i < len(signal); i++ {
		a, b := signal[i-1], signal[i]
		if (a < 0) != (b < 0) {
			out = append(out, float64(i-1)+a/(a-b))
		}
	}

	return out
}

// ZeroCrossingFrequency estimates the dominant frequency of a sinusoidal
// signal from the spacing of its zero crossings: a sinusoid crosses zero
// twice per period. Returns 0 when fewer than two crossings are found or
// sampleRate is not positive.
func ZeroCrossingFrequency(signal []float64, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	pos := CrossingPositions(signal)
	if len(pos) < 2 {
		return 0
	}

	span := (pos[len(pos)-1] - pos[0]) / sampleRate
	if span <= 0 {
		return 0
	}

	return float64(len(pos)-1) / (2 * span)
}
