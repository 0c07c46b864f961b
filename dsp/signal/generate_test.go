package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/internal/testutil"
)

func newTestGenerator(t *testing.T, duration float64, samples int) *Generator {
	t.Helper()
	g, err := NewGenerator(core.WithDuration(duration), core.WithSamples(samples))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

func TestNewGeneratorRejectsInvalidGrid(t *testing.T) {
	if _, err := NewGenerator(core.WithDuration(-1)); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("NewGenerator() error = %v, want ErrInvalidParameter", err)
	}
	if _, err := NewGeneratorForGrid(core.TimeGrid{Duration: 1, Samples: 0}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("NewGeneratorForGrid() error = %v, want ErrInvalidParameter", err)
	}
}

func TestCarrierLength(t *testing.T) {
	g := newTestGenerator(t, 1, 5000)
	c, err := g.Carrier(10, 1)
	if err != nil {
		t.Fatalf("Carrier() error = %v", err)
	}
	if len(c) != 5000 || g.Len() != 5000 {
		t.Fatalf("len = %d, want 5000", len(c))
	}
}

func TestCarrierMatchesClosedForm(t *testing.T) {
	g := newTestGenerator(t, 0.5, 257)
	got, err := g.Carrier(12.5, 1.5)
	if err != nil {
		t.Fatalf("Carrier() error = %v", err)
	}

	ts := g.Time()
	want := make([]float64, len(ts))
	for i, tt := range ts {
		want[i] = 1.5 * math.Sin(2*math.Pi*12.5*tt)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestCarrierAndBasebandPeriodic(t *testing.T) {
	// 1 ms spacing: a 10 Hz period is exactly 100 samples, 4 Hz is 250.
	g := newTestGenerator(t, 1, 1001)

	tests := []struct {
		name   string
		gen    func() ([]float64, error)
		period int
	}{
		{name: "carrier", gen: func() ([]float64, error) { return g.Carrier(10, 2) }, period: 100},
		{name: "baseband", gen: func() ([]float64, error) { return g.Baseband(4, 0.5) }, period: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := tt.gen()
			if err != nil {
				t.Fatalf("gen() error = %v", err)
			}
			for k := 1; k*tt.period < len(x); k++ {
				for i := 0; i+k*tt.period < len(x); i++ {
					if d := math.Abs(x[i] - x[i+k*tt.period]); d > 1e-9 {
						t.Fatalf("x[%d] and x[%d] differ by %v", i, i+k*tt.period, d)
					}
				}
			}
		})
	}
}

func TestSineRejectsNonFinite(t *testing.T) {
	g := newTestGenerator(t, 1, 16)
	if _, err := g.Sine(math.NaN(), 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Sine(NaN) error = %v", err)
	}
	if _, err := g.Sine(1, math.Inf(1)); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Sine(amp=Inf) error = %v", err)
	}
	if _, err := g.Carrier(-1, 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Carrier(-1) error = %v", err)
	}
}

func TestPhase(t *testing.T) {
	g := newTestGenerator(t, 1, 3)
	p := g.Phase(1)
	want := []float64{0, math.Pi, 2 * math.Pi}
	testutil.RequireSliceNearlyEqual(t, p, want, 1e-15)
}

func TestTimeIsCopy(t *testing.T) {
	g := newTestGenerator(t, 1, 4)
	ts := g.Time()
	ts[0] = 42
	if g.Time()[0] != 0 {
		t.Fatal("Time() exposed internal storage")
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	g := newTestGenerator(t, 2, 999)
	a, err := g.Baseband(3, 0.7)
	if err != nil {
		t.Fatalf("Baseband() error = %v", err)
	}
	b, err := g.Baseband(3, 0.7)
	if err != nil {
		t.Fatalf("Baseband() error = %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("mismatch at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}
	if _, err := Normalize(nil, 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Normalize(nil) error = %v", err)
	}

	// The negative excursion sets the scale.
	out, err = Normalize([]float64{-4, 2, 1}, 1)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, []float64{-1, 0.5, 0.25}, 1e-15)

	out, err = Normalize([]float64{0, 0}, 1)
	if err != nil {
		t.Fatalf("Normalize(silent) error = %v", err)
	}
	testutil.RequireSliceEqual(t, out, []float64{0, 0})
}
