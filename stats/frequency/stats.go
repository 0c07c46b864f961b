// Package frequency describes the shape of a power spectrum: where its
// energy is centred and how widely it is spread. For a modulated waveform the
// centroid sits near the carrier and the spread grows with the sidebands.
package frequency

import (
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/spectrum"
)

// DefaultRolloff is the energy fraction used by Describe for Shape.Rolloff.
const DefaultRolloff = 0.85

// Shape holds power-weighted spectral shape descriptors.
type Shape struct {
	Centroid float64 `json:"centroid_hz"` // Σ f·P / Σ P
	Spread   float64 `json:"spread_hz"`   // standard deviation around the centroid
	Flatness float64 `json:"flatness"`    // geometric / arithmetic mean of P, 0..1
	Rolloff  float64 `json:"rolloff_hz"`  // frequency below which DefaultRolloff of P lies
}

// Describe computes all descriptors of ps. A silent spectrum yields the
// zero Shape.
func Describe(ps spectrum.Spectrum) Shape {
	total := 0.0
	for _, p := range ps.Power {
		total += p
	}
	if total == 0 || len(ps.Power) < 2 {
		return Shape{}
	}

	c := centroid(ps, total)
	return Shape{
		Centroid: c,
		Spread:   spread(ps, c, total),
		Flatness: Flatness(ps.Power),
		Rolloff:  rolloff(ps, DefaultRolloff, total),
	}
}

// Centroid returns the power-weighted mean frequency of ps in Hz.
func Centroid(ps spectrum.Spectrum) float64 {
	total := 0.0
	for _, p := range ps.Power {
		total += p
	}
	if total == 0 {
		return 0
	}
	return centroid(ps, total)
}

func centroid(ps spectrum.Spectrum, total float64) float64 {
	weighted := 0.0
	for k, p := range ps.Power {
		weighted += ps.Frequency(k) * p
	}
	return weighted / total
}

func spread(ps spectrum.Spectrum, c, total float64) float64 {
	variance := 0.0
	for k, p := range ps.Power {
		d := ps.Frequency(k) - c
		variance += d * d * p
	}
	return math.Sqrt(variance / total)
}

// Flatness returns the Wiener entropy of power bins 1..N-1 (DC excluded).
// It is 1 for a perfectly flat spectrum and 0 when any bin is empty.
func Flatness(power []float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	sumLin := 0.0
	sumLog := 0.0
	for _, p := range power[1:] {
		if p <= 0 {
			return 0
		}
		sumLin += p
		sumLog += mathLog(p)
	}

	bins := float64(n - 1)
	// The geometric mean never exceeds the arithmetic one, but rounding
	// (and the fastmath approximations) can push the ratio past 1.
	return core.Clamp(mathExp(sumLog/bins)/(sumLin/bins), 0, 1)
}

// Rolloff returns the frequency below which fraction (0..1) of the power of
// ps lies.
func Rolloff(ps spectrum.Spectrum, fraction float64) float64 {
	total := 0.0
	for _, p := range ps.Power {
		total += p
	}
	if total == 0 {
		return 0
	}
	return rolloff(ps, fraction, total)
}

func rolloff(ps spectrum.Spectrum, fraction, total float64) float64 {
	threshold := fraction * total
	acc := 0.0
	for k, p := range ps.Power {
		acc += p
		if acc >= threshold {
			return ps.Frequency(k)
		}
	}
	return ps.Frequency(len(ps.Power) - 1)
}
