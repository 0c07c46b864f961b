package core

// GridConfig describes the sampling grid shared by all generators.
type GridConfig struct {
	Duration float64
	Samples  int
}

// GridOption mutates a GridConfig.
type GridOption func(*GridConfig)

// DefaultGridConfig returns one second sampled at 5000 points.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Duration: 1,
		Samples:  5000,
	}
}

// WithDuration sets the grid duration in seconds.
// The value is validated when the grid is built.
func WithDuration(seconds float64) GridOption {
	return func(cfg *GridConfig) {
		cfg.Duration = seconds
	}
}

// WithSamples sets the number of grid points.
func WithSamples(samples int) GridOption {
	return func(cfg *GridConfig) {
		cfg.Samples = samples
	}
}

// ApplyGridOptions applies zero or more options to the default config.
func ApplyGridOptions(opts ...GridOption) GridConfig {
	cfg := DefaultGridConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Grid builds and validates the time grid described by cfg.
func (cfg GridConfig) Grid() (TimeGrid, error) {
	return NewTimeGrid(cfg.Duration, cfg.Samples)
}
