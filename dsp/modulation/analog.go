package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
)

// analogSources builds the carrier and baseband shared by the analog
// modulators.
func analogSources(g *signal.Generator, s Scheme, p Params) (carrier, message []float64, err error) {
	if err := p.Validate(s); err != nil {
		return nil, nil, err
	}
	carrier, err = g.Carrier(p.CarrierFreq, p.CarrierAmp)
	if err != nil {
		return nil, nil, err
	}
	message, err = g.Baseband(p.MessageFreq, p.MessageAmp)
	if err != nil {
		return nil, nil, err
	}
	return carrier, message, nil
}

func analogWaveform(g *signal.Generator, s Scheme, p Params, modulated, carrier, message []float64) (Waveform, error) {
	metrics, err := Derive(s, p, g.Grid(), 0)
	if err != nil {
		return Waveform{}, err
	}
	return Waveform{
		Scheme:    s,
		Grid:      g.Grid(),
		Time:      g.Time(),
		Modulated: modulated,
		Carrier:   carrier,
		Message:   message,
		Metrics:   metrics,
	}, nil
}

// AM generates double-sideband full-carrier amplitude modulation
//
//	s(t) = Ac·(1 + μ·m(t)/Am)·sin(2π·fc·t)
//
// The baseband is normalized to unit amplitude, so μ alone sets the depth and
// Am only affects the displayed message. Am = 0 fails with core.ErrNumericEdge.
// μ > 1 is generated as requested and reported through Metrics.Overmodulated.
func AM(g *signal.Generator, p Params) (Waveform, error) {
	carrier, message, err := analogSources(g, SchemeAM, p)
	if err != nil {
		return Waveform{}, err
	}
	if p.MessageAmp == 0 {
		return Waveform{}, fmt.Errorf("am message amplitude is zero: %w", core.ErrNumericEdge)
	}

	unit, err := g.Sine(p.CarrierFreq, 1)
	if err != nil {
		return Waveform{}, err
	}

	envelope := make([]float64, len(message))
	for i, m := range message {
		envelope[i] = p.CarrierAmp * (1 + p.Index*m/p.MessageAmp)
	}

	out := make([]float64, len(unit))
	vecmath.MulBlock(out, envelope, unit)

	return analogWaveform(g, SchemeAM, p, out, carrier, message)
}

// FM generates frequency modulation
//
//	s(t) = Ac·sin(2π·fc·t + 2π·kf·∫₀ᵗ m(τ)dτ)
//
// The integral is the running sum of baseband samples up to and including
// the current one, times the grid step. This first-order rule overestimates
// the integral by about Δt·m(t), so coarse grids drift slightly; it is kept
// as is so results are reproducible.
func FM(g *signal.Generator, p Params) (Waveform, error) {
	carrier, message, err := analogSources(g, SchemeFM, p)
	if err != nil {
		return Waveform{}, err
	}

	phase := g.Phase(p.CarrierFreq)
	dt := g.Grid().Step()
	k := core.TwoPi * p.Index

	out := make([]float64, len(message))
	var integral float64
	for i, m := range message {
		integral += m
		out[i] = p.CarrierAmp * math.Sin(phase[i]+k*integral*dt)
	}

	return analogWaveform(g, SchemeFM, p, out, carrier, message)
}

// PM generates phase modulation
//
//	s(t) = Ac·sin(2π·fc·t + kp·m(t))
func PM(g *signal.Generator, p Params) (Waveform, error) {
	carrier, message, err := analogSources(g, SchemePM, p)
	if err != nil {
		return Waveform{}, err
	}

	phase := g.Phase(p.CarrierFreq)
	out := make([]float64, len(message))
	for i, m := range message {
		out[i] = p.CarrierAmp * math.Sin(phase[i]+p.Index*m)
	}

	return analogWaveform(g, SchemePM, p, out, carrier, message)
}
