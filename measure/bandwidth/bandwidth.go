// Package bandwidth measures the occupied bandwidth of a generated waveform
// from its power spectrum, so the textbook estimates (2·fm for AM, Carson's
// rule for FM) can be checked against the actual signal.
package bandwidth

import (
	"fmt"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/spectrum"
	"github.com/cwbudde/algo-modulation/dsp/window"
	"github.com/cwbudde/algo-modulation/stats/frequency"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultFraction = 0.99
	defaultMinFFT   = 4096
)

// Config holds occupied-bandwidth parameters.
type Config struct {
	// Fraction of the total power that must lie between the edges.
	Fraction float64

	// Window is the analysis window. The zero value is rectangular; use
	// DefaultConfig for Hann.
	Window window.Type

	// MinFFTSize zero-pads short signals for finer bin spacing.
	MinFFTSize int
}

// Result holds one measurement.
type Result struct {
	PeakFrequency     float64 `json:"peak_frequency_hz"`
	PeakAmplitude     float64 `json:"peak_amplitude"`
	LowerEdge         float64 `json:"lower_edge_hz"`
	UpperEdge         float64 `json:"upper_edge_hz"`
	OccupiedBandwidth float64 `json:"occupied_bandwidth_hz"`
	TotalPower        float64 `json:"total_power"`
	BinWidth          float64 `json:"bin_width_hz"`

	Shape frequency.Shape `json:"shape"`
}

// DefaultConfig returns the 99% occupied bandwidth with a Hann window.
func DefaultConfig() Config {
	return Config{
		Fraction:   defaultFraction,
		Window:     window.TypeHann,
		MinFFTSize: defaultMinFFT,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.Fraction == 0 {
		cfg.Fraction = defaultFraction
	}
	if cfg.MinFFTSize <= 0 {
		cfg.MinFFTSize = defaultMinFFT
	}
	return cfg
}

// Measure computes the occupied bandwidth of samples taken at sampleRate.
//
// The edges are the frequencies below and above which (1-Fraction)/2 of the
// total power lies. A silent signal fails with core.ErrNumericEdge.
func Measure(samples []float64, sampleRate float64, cfg Config) (Result, error) {
	cfg = normalizeConfig(cfg)
	if cfg.Fraction <= 0 || cfg.Fraction >= 1 {
		return Result{}, fmt.Errorf("bandwidth fraction must be in (0, 1): %f: %w", cfg.Fraction, core.ErrInvalidParameter)
	}

	ps, err := spectrum.Analyze(samples, sampleRate,
		spectrum.WithWindow(cfg.Window),
		spectrum.WithMinFFTSize(cfg.MinFFTSize))
	if err != nil {
		return Result{}, err
	}

	return FromSpectrum(ps, cfg.Fraction)
}

// FromSpectrum evaluates the occupied bandwidth of an already computed
// power spectrum.
func FromSpectrum(ps spectrum.Spectrum, fraction float64) (Result, error) {
	if fraction <= 0 || fraction >= 1 {
		return Result{}, fmt.Errorf("bandwidth fraction must be in (0, 1): %f: %w", fraction, core.ErrInvalidParameter)
	}

	total := vecmath.Sum(ps.Power)
	if total == 0 {
		return Result{}, fmt.Errorf("bandwidth of a silent signal: %w", core.ErrNumericEdge)
	}

	tail := total * (1 - fraction) / 2
	lower := edgeFromBelow(ps.Power, tail)
	upper := edgeFromAbove(ps.Power, tail)

	peak := ps.PeakBin()
	res := Result{
		PeakFrequency: ps.Frequency(peak),
		LowerEdge:     ps.Frequency(lower),
		UpperEdge:     ps.Frequency(upper),
		TotalPower:    total,
		BinWidth:      ps.BinWidth(),
		Shape:         frequency.Describe(ps),
	}
	res.OccupiedBandwidth = res.UpperEdge - res.LowerEdge
	if amp := ps.Amplitude(); amp != nil {
		res.PeakAmplitude = amp[peak]
	}
	return res, nil
}

// edgeFromBelow returns the first bin at which the cumulative power exceeds
// tail.
func edgeFromBelow(power []float64, tail float64) int {
	var acc float64
	for k, p := range power {
		acc += p
		if acc > tail {
			return k
		}
	}
	return len(power) - 1
}

func edgeFromAbove(power []float64, tail float64) int {
	var acc float64
	for k := len(power) - 1; k >= 0; k-- {
		acc += power[k]
		if acc > tail {
			return k
		}
	}
	return 0
}
