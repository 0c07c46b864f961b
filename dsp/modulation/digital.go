package modulation

import (
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
)

// digitalSources validates p and expands bits into the keying signal.
func digitalSources(g *signal.Generator, s Scheme, p Params, bits []uint8) (carrier, keying []float64, err error) {
	if err := p.Validate(s); err != nil {
		return nil, nil, err
	}
	keying, err = g.Digital(bits)
	if err != nil {
		return nil, nil, err
	}
	carrier, err = g.Carrier(p.CarrierFreq, p.CarrierAmp)
	if err != nil {
		return nil, nil, err
	}
	return carrier, keying, nil
}

func digitalWaveform(g *signal.Generator, s Scheme, p Params, bits []uint8, modulated, carrier, keying []float64) (Waveform, error) {
	metrics, err := Derive(s, p, g.Grid(), len(bits))
	if err != nil {
		return Waveform{}, err
	}
	return Waveform{
		Scheme:    s,
		Grid:      g.Grid(),
		Time:      g.Time(),
		Modulated: modulated,
		Carrier:   carrier,
		Message:   keying,
		Bits:      append([]uint8(nil), bits...),
		BitString: signal.BitString(bits),
		Metrics:   metrics,
	}, nil
}

// ASK generates on-off keying: the carrier where the bit is 1, exact zeros
// where it is 0.
func ASK(g *signal.Generator, p Params, bits []uint8) (Waveform, error) {
	carrier, keying, err := digitalSources(g, SchemeASK, p, bits)
	if err != nil {
		return Waveform{}, err
	}

	out := make([]float64, len(carrier))
	vecmath.MulBlock(out, keying, carrier)

	return digitalWaveform(g, SchemeASK, p, bits, out, carrier, keying)
}

// PSK generates binary phase-shift keying
//
//	s(t) = Ac·cos(2π·fc·t + π·d(t))
//
// The cosine reference differs from the sine carrier by a quarter period;
// bit 1 is the exact inversion of bit 0 at any instant.
func PSK(g *signal.Generator, p Params, bits []uint8) (Waveform, error) {
	carrier, keying, err := digitalSources(g, SchemePSK, p, bits)
	if err != nil {
		return Waveform{}, err
	}

	phase := g.Phase(p.CarrierFreq)
	out := make([]float64, len(phase))
	for i, ph := range phase {
		out[i] = p.CarrierAmp * math.Cos(ph+math.Pi*keying[i])
	}

	return digitalWaveform(g, SchemePSK, p, bits, out, carrier, keying)
}

// FSK generates binary frequency-shift keying with tones fc ∓ Δf/2
//
//	s(t) = Ac·sin(2π·f(t)·t),  f(t) = f1 + (f2-f1)·d(t)
//
// The phase is evaluated from t = 0 for whichever tone is active, so it
// jumps at bit boundaries (discontinuous-phase FSK).
func FSK(g *signal.Generator, p Params, bits []uint8) (Waveform, error) {
	carrier, keying, err := digitalSources(g, SchemeFSK, p, bits)
	if err != nil {
		return Waveform{}, err
	}

	f1, f2 := p.FSKTones()
	ts := g.Time()
	out := make([]float64, len(ts))
	for i, t := range ts {
		f := f1 + (f2-f1)*keying[i]
		out[i] = p.CarrierAmp * math.Sin(core.TwoPi*f*t)
	}

	return digitalWaveform(g, SchemeFSK, p, bits, out, carrier, keying)
}
