package modulation

import "github.com/cwbudde/algo-modulation/dsp/core"

// Waveform is the output of one generation pass. All sample slices have the
// same length as the grid.
type Waveform struct {
	Scheme Scheme        `json:"scheme"`
	Grid   core.TimeGrid `json:"grid"`
	Time   []float64     `json:"time"`

	Modulated []float64 `json:"modulated"`
	Carrier   []float64 `json:"carrier"`

	// Message is the sinusoidal baseband for analog schemes and the 0/1
	// keying signal for digital ones.
	Message []float64 `json:"message"`

	// Bits is the keyed bit sequence, nil for analog schemes.
	Bits      []uint8 `json:"-"`
	BitString string  `json:"bits,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// Len returns the number of samples per sequence.
func (w Waveform) Len() int {
	return len(w.Modulated)
}
