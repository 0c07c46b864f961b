package core

import (
	"errors"
	"testing"
)

func TestApplyGridOptions(t *testing.T) {
	cfg := ApplyGridOptions(WithDuration(2.5), WithSamples(1000))
	if cfg.Duration != 2.5 {
		t.Fatalf("duration = %v, want 2.5", cfg.Duration)
	}
	if cfg.Samples != 1000 {
		t.Fatalf("samples = %d, want 1000", cfg.Samples)
	}
}

func TestDefaultGrid(t *testing.T) {
	g, err := ApplyGridOptions().Grid()
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}
	if g.Duration != 1 || g.Samples != 5000 {
		t.Fatalf("grid = %#v, want 1s/5000", g)
	}
}

func TestInvalidOptionsRejectedAtBuild(t *testing.T) {
	tests := []struct {
		name string
		opts []GridOption
	}{
		{name: "zero duration", opts: []GridOption{WithDuration(0)}},
		{name: "negative duration", opts: []GridOption{WithDuration(-1)}},
		{name: "zero samples", opts: []GridOption{WithSamples(0)}},
		{name: "single sample", opts: []GridOption{WithSamples(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyGridOptions(tt.opts...).Grid()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Grid() error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}
