package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/signal"
)

// Request describes one generation pass.
type Request struct {
	Scheme Scheme        `json:"scheme" yaml:"scheme"`
	Grid   core.TimeGrid `json:"grid" yaml:"grid"`
	Params Params        `json:"params" yaml:"params"`

	// Message is the text keyed by digital schemes. Every character must
	// fit in 8 bits.
	Message string `json:"message,omitempty" yaml:"message"`
}

// DefaultMessage is the text keyed by digital schemes when none is given.
const DefaultMessage = "Hola"

// NewRequest returns a request for s with default parameters on the
// default grid. Digital schemes get DefaultMessage.
func NewRequest(s Scheme) Request {
	cfg := core.DefaultGridConfig()
	r := Request{
		Scheme: s,
		Grid:   core.TimeGrid{Duration: cfg.Duration, Samples: cfg.Samples},
		Params: DefaultParams(s),
	}
	if s.IsDigital() {
		r.Message = DefaultMessage
	}
	return r
}

// Generate validates r and dispatches to the scheme's modulator.
func Generate(r Request) (Waveform, error) {
	if !r.Scheme.Valid() {
		return Waveform{}, fmt.Errorf("unsupported scheme %v: %w", r.Scheme, core.ErrInvalidParameter)
	}

	g, err := signal.NewGeneratorForGrid(r.Grid)
	if err != nil {
		return Waveform{}, err
	}

	if !r.Scheme.IsDigital() {
		return Modulate(g, r.Scheme, r.Params, nil)
	}

	bits, err := signal.TextToBits(r.Message)
	if err != nil {
		return Waveform{}, err
	}
	return Modulate(g, r.Scheme, r.Params, bits)
}

// Modulate runs the modulator of scheme s on g. bits is only used by digital
// schemes. Parameters that pass validation can still overflow inside the
// phase terms; such output fails with core.ErrNumericEdge.
func Modulate(g *signal.Generator, s Scheme, p Params, bits []uint8) (Waveform, error) {
	w, err := modulate(g, s, p, bits)
	if err != nil {
		return Waveform{}, err
	}
	if err := requireFiniteSamples(s, w.Modulated); err != nil {
		return Waveform{}, err
	}
	return w, nil
}

func modulate(g *signal.Generator, s Scheme, p Params, bits []uint8) (Waveform, error) {
	switch s {
	case SchemeAM:
		return AM(g, p)
	case SchemeFM:
		return FM(g, p)
	case SchemePM:
		return PM(g, p)
	case SchemeASK:
		return ASK(g, p, bits)
	case SchemePSK:
		return PSK(g, p, bits)
	case SchemeFSK:
		return FSK(g, p, bits)
	default:
		return Waveform{}, fmt.Errorf("unsupported scheme %v: %w", s, core.ErrInvalidParameter)
	}
}

func requireFiniteSamples(s Scheme, x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%v sample %d is not finite: %v: %w", s, i, v, core.ErrNumericEdge)
		}
	}
	return nil
}
