package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Generator creates deterministic signals over a fixed time grid.
type Generator struct {
	grid  core.TimeGrid
	times []float64
}

// NewGenerator creates a generator over the grid described by opts.
func NewGenerator(opts ...core.GridOption) (*Generator, error) {
	grid, err := core.ApplyGridOptions(opts...).Grid()
	if err != nil {
		return nil, err
	}
	return NewGeneratorForGrid(grid)
}

// NewGeneratorForGrid creates a generator over an explicit grid.
func NewGeneratorForGrid(grid core.TimeGrid) (*Generator, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		grid:  grid,
		times: grid.Times(),
	}, nil
}

// Grid returns the generator time grid.
func (g *Generator) Grid() core.TimeGrid {
	return g.grid
}

// Len returns the number of samples produced by every method.
func (g *Generator) Len() int {
	return len(g.times)
}

// Time returns a copy of the grid instants.
func (g *Generator) Time() []float64 {
	return append([]float64(nil), g.times...)
}

// Phase returns 2π·f·t for every grid instant.
func (g *Generator) Phase(freqHz float64) []float64 {
	out := make([]float64, len(g.times))
	w := core.TwoPi * freqHz
	for i, t := range g.times {
		out[i] = w * t
	}
	return out
}

// Sine generates amplitude·sin(2π·f·t).
func (g *Generator) Sine(freqHz, amplitude float64) ([]float64, error) {
	if err := core.RequireFinite("sine frequency", freqHz); err != nil {
		return nil, err
	}
	if err := core.RequireFinite("sine amplitude", amplitude); err != nil {
		return nil, err
	}

	out := g.Phase(freqHz)
	for i, p := range out {
		out[i] = math.Sin(p)
	}
	vecmath.ScaleBlock(out, out, amplitude)
	return out, nil
}

// Carrier generates Ac·sin(2π·fc·t).
func (g *Generator) Carrier(fc, ac float64) ([]float64, error) {
	if err := core.RequireNonNegative("carrier frequency", fc); err != nil {
		return nil, err
	}
	return g.Sine(fc, ac)
}

// Baseband generates the sinusoidal message Am·sin(2π·fm·t).
// Only sinusoidal messages are supported.
func (g *Generator) Baseband(fm, am float64) ([]float64, error) {
	if err := core.RequireNonNegative("message frequency", fm); err != nil {
		return nil, err
	}
	return g.Sine(fm, am)
}

// Digital expands bits into a 0/1 sample sequence aligned to the grid.
func (g *Generator) Digital(bits []uint8) ([]float64, error) {
	return BitsToDigital(bits, len(g.times))
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f: %w", targetPeak, core.ErrInvalidParameter)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty: %w", core.ErrInvalidParameter)
	}

	maxAbs := vecmath.MaxAbs(data)
	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/maxAbs)
	return out, nil
}
