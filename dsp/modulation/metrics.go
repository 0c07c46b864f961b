package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
)

// Metrics holds the textbook figures shown next to a waveform.
type Metrics struct {
	// Bandwidth is 2·fm for AM and the Carson estimate 2·(Δf+fm) for FM.
	Bandwidth float64 `json:"bandwidth_hz,omitempty"`

	// ModulationIndex is μ for AM and β = Δf/fm for FM.
	ModulationIndex float64 `json:"modulation_index,omitempty"`

	// Overmodulated is set for AM when μ > 1.
	Overmodulated bool `json:"overmodulated,omitempty"`

	// FrequencyDeviation is kf·Am for FM and the tone spacing for FSK.
	FrequencyDeviation float64 `json:"frequency_deviation_hz,omitempty"`

	// PhaseDeviation is the peak phase swing kp·Am for PM, in radians.
	PhaseDeviation float64 `json:"phase_deviation_rad,omitempty"`

	BitCount    int     `json:"bit_count,omitempty"`
	BitRate     float64 `json:"bit_rate_bps,omitempty"`
	BitDuration float64 `json:"bit_duration_s,omitempty"`

	SpaceFreq float64 `json:"space_freq_hz,omitempty"` // FSK tone for bit 0
	MarkFreq  float64 `json:"mark_freq_hz,omitempty"`  // FSK tone for bit 1
}

// AMBandwidth returns the double-sideband bandwidth 2·fm.
func AMBandwidth(fm float64) float64 {
	return 2 * fm
}

// FMDeviation returns the peak frequency deviation kf·Am.
func FMDeviation(kf, am float64) float64 {
	return kf * am
}

// FMIndex returns β = kf·Am/fm.
func FMIndex(kf, am, fm float64) (float64, error) {
	if fm == 0 {
		return 0, fmt.Errorf("fm modulation index needs message frequency != 0: %w", core.ErrNumericEdge)
	}
	return FMDeviation(kf, am) / fm, nil
}

// CarsonBandwidth returns 2·(Δf + fm).
func CarsonBandwidth(kf, am, fm float64) float64 {
	return 2 * (FMDeviation(kf, am) + fm)
}

// PMPhaseDeviation returns the peak phase deviation kp·Am in radians.
func PMPhaseDeviation(kp, am float64) float64 {
	return kp * am
}

// BitRate returns bits per second over a grid of the given duration.
func BitRate(bitCount int, duration float64) (float64, error) {
	if duration <= 0 {
		return 0, fmt.Errorf("bit rate duration must be > 0: %f: %w", duration, core.ErrInvalidParameter)
	}
	return float64(bitCount) / duration, nil
}

// Derive computes the metrics of scheme s. bitCount is ignored for analog
// schemes.
func Derive(s Scheme, p Params, grid core.TimeGrid, bitCount int) (Metrics, error) {
	if err := p.Validate(s); err != nil {
		return Metrics{}, err
	}

	var m Metrics
	switch s {
	case SchemeAM:
		m.Bandwidth = AMBandwidth(p.MessageFreq)
		m.ModulationIndex = p.Index
		m.Overmodulated = p.Index > 1
	case SchemeFM:
		beta, err := FMIndex(p.Index, p.MessageAmp, p.MessageFreq)
		if err != nil {
			return Metrics{}, err
		}
		m.FrequencyDeviation = FMDeviation(p.Index, p.MessageAmp)
		m.ModulationIndex = beta
		m.Bandwidth = CarsonBandwidth(p.Index, p.MessageAmp, p.MessageFreq)
	case SchemePM:
		m.PhaseDeviation = PMPhaseDeviation(p.Index, p.MessageAmp)
	case SchemeASK, SchemePSK, SchemeFSK:
		if bitCount <= 0 {
			return Metrics{}, fmt.Errorf("bit count must be > 0: %d: %w", bitCount, core.ErrInvalidParameter)
		}
		rate, err := BitRate(bitCount, grid.Duration)
		if err != nil {
			return Metrics{}, err
		}
		m.BitCount = bitCount
		m.BitRate = rate
		m.BitDuration = grid.Duration / float64(bitCount)
		if s == SchemeFSK {
			m.FrequencyDeviation = p.FSKDeviation()
			m.SpaceFreq, m.MarkFreq = p.FSKTones()
		}
	}
	if err := m.requireFinite(); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

func (m Metrics) requireFinite() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"bandwidth", m.Bandwidth},
		{"modulation index", m.ModulationIndex},
		{"frequency deviation", m.FrequencyDeviation},
		{"phase deviation", m.PhaseDeviation},
		{"bit rate", m.BitRate},
		{"bit duration", m.BitDuration},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s overflows: %v: %w", f.name, f.v, core.ErrNumericEdge)
		}
	}
	return nil
}
