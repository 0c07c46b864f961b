package core

import "fmt"

// TimeGrid is a uniformly spaced set of sample instants over [0, Duration].
//
// Both endpoints are included: t[0] = 0 and t[Samples-1] = Duration, so the
// spacing is Duration/(Samples-1).
type TimeGrid struct {
	Duration float64 `json:"duration" yaml:"duration"`
	Samples  int     `json:"samples" yaml:"samples"`
}

// NewTimeGrid validates and returns a grid.
func NewTimeGrid(duration float64, samples int) (TimeGrid, error) {
	g := TimeGrid{Duration: duration, Samples: samples}
	if err := g.Validate(); err != nil {
		return TimeGrid{}, err
	}
	return g, nil
}

// Validate reports whether the grid can be sampled.
func (g TimeGrid) Validate() error {
	if err := RequirePositive("grid duration", g.Duration); err != nil {
		return err
	}
	if g.Samples < 2 {
		return fmt.Errorf("grid samples must be >= 2: %d: %w", g.Samples, ErrInvalidParameter)
	}
	return nil
}

// Step returns the spacing between adjacent instants.
func (g TimeGrid) Step() float64 {
	if g.Samples < 2 {
		return 0
	}
	return g.Duration / float64(g.Samples-1)
}

// SampleRate returns the number of grid points per second.
func (g TimeGrid) SampleRate() float64 {
	step := g.Step()
	if step == 0 {
		return 0
	}
	return 1 / step
}

// At returns the i-th instant.
func (g TimeGrid) At(i int) float64 {
	if i == g.Samples-1 {
		return g.Duration
	}
	return float64(i) * g.Step()
}

// Times returns all instants of the grid.
func (g TimeGrid) Times() []float64 {
	if g.Samples <= 0 {
		return nil
	}
	out := make([]float64, g.Samples)
	for i := range out {
		out[i] = g.At(i)
	}
	return out
}
