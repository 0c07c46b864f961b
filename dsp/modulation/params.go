package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
)

// DefaultFSKDeviation is the tone spacing Δf used when Params.Deviation is 0.
const DefaultFSKDeviation = 5.0

// Params holds every tunable of the six schemes. Fields a scheme does not
// use are ignored.
type Params struct {
	CarrierFreq float64 `json:"carrier_freq" yaml:"carrier_freq"` // fc, Hz
	CarrierAmp  float64 `json:"carrier_amp" yaml:"carrier_amp"`   // Ac
	MessageFreq float64 `json:"message_freq" yaml:"message_freq"` // fm, Hz (analog)
	MessageAmp  float64 `json:"message_amp" yaml:"message_amp"`   // Am (analog)

	// Index is μ for AM, kf (Hz per unit amplitude) for FM and kp
	// (rad per unit amplitude) for PM.
	Index float64 `json:"index" yaml:"index"`

	// Deviation is the FSK tone spacing Δf in Hz. Zero selects DefaultFSKDeviation.
	Deviation float64 `json:"deviation" yaml:"deviation"`
}

// DefaultParams returns a teaching-friendly starting point for s.
func DefaultParams(s Scheme) Params {
	p := Params{
		CarrierFreq: 10,
		CarrierAmp:  1,
	}
	switch s {
	case SchemeAM:
		p.MessageFreq, p.MessageAmp, p.Index = 1, 0.5, 0.5
	case SchemeFM:
		p.MessageFreq, p.MessageAmp, p.Index = 1, 0.5, 5
	case SchemePM:
		p.MessageFreq, p.MessageAmp, p.Index = 1, 0.5, 2
	case SchemeFSK:
		p.Deviation = DefaultFSKDeviation
	}
	return p
}

// FSKDeviation returns Deviation, or DefaultFSKDeviation when unset.
func (p Params) FSKDeviation() float64 {
	if p.Deviation == 0 {
		return DefaultFSKDeviation
	}
	return p.Deviation
}

// FSKTones returns the space (bit 0) and mark (bit 1) frequencies.
func (p Params) FSKTones() (space, mark float64) {
	df := p.FSKDeviation()
	return p.CarrierFreq - df/2, p.CarrierFreq + df/2
}

func (p Params) validateCarrier() error {
	if err := core.RequireNonNegative("carrier frequency", p.CarrierFreq); err != nil {
		return err
	}
	if err := core.RequireFinite("carrier angular frequency", core.TwoPi*p.CarrierFreq); err != nil {
		return err
	}
	return core.RequireFinite("carrier amplitude", p.CarrierAmp)
}

// validateAnalog checks the fields shared by AM, FM and PM. The message
// frequency must be positive since it divides the FM modulation index.
func (p Params) validateAnalog() error {
	if err := p.validateCarrier(); err != nil {
		return err
	}
	if err := core.RequirePositive("message frequency", p.MessageFreq); err != nil {
		return err
	}
	if err := core.RequireFinite("message angular frequency", core.TwoPi*p.MessageFreq); err != nil {
		return err
	}
	if err := core.RequireFinite("message amplitude", p.MessageAmp); err != nil {
		return err
	}
	if err := core.RequireFinite("modulation index", p.Index); err != nil {
		return err
	}
	if err := core.RequireFinite("peak deviation", p.Index*p.MessageAmp); err != nil {
		return err
	}
	return core.RequireFinite("peak envelope", p.CarrierAmp*(1+math.Abs(p.Index)))
}

func (p Params) validateDigital(s Scheme) error {
	if err := p.validateCarrier(); err != nil {
		return err
	}
	if s != SchemeFSK {
		return nil
	}
	if err := core.RequireNonNegative("fsk deviation", p.Deviation); err != nil {
		return err
	}
	_, mark := p.FSKTones()
	return core.RequireFinite("fsk mark angular frequency", core.TwoPi*mark)
}

// Validate checks p against the requirements of scheme s.
func (p Params) Validate(s Scheme) error {
	switch {
	case !s.Valid():
		return fmt.Errorf("unsupported scheme %v: %w", s, core.ErrInvalidParameter)
	case s.IsDigital():
		return p.validateDigital(s)
	default:
		return p.validateAnalog()
	}
}
