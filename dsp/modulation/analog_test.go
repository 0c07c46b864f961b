package modulation

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/signal"
	"github.com/cwbudde/algo-modulation/internal/testutil"
)

func newGenerator(t *testing.T, duration float64, samples int) *signal.Generator {
	t.Helper()
	g, err := signal.NewGenerator(core.WithDuration(duration), core.WithSamples(samples))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

func analogParams(index float64) Params {
	return Params{CarrierFreq: 10, CarrierAmp: 1.5, MessageFreq: 1, MessageAmp: 0.5, Index: index}
}

func TestAnalogZeroIndexReducesToCarrier(t *testing.T) {
	g := newGenerator(t, 1, 5000)

	tests := []struct {
		name string
		mod  func(*signal.Generator, Params) (Waveform, error)
	}{
		{name: "AM", mod: AM},
		{name: "FM", mod: FM},
		{name: "PM", mod: PM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.mod(g, analogParams(0))
			if err != nil {
				t.Fatalf("%s() error = %v", tt.name, err)
			}
			testutil.RequireSliceEqual(t, w.Modulated, w.Carrier)
		})
	}
}

func TestAnalogOutputsAlignedToGrid(t *testing.T) {
	g := newGenerator(t, 2, 1234)
	for _, mod := range []func(*signal.Generator, Params) (Waveform, error){AM, FM, PM} {
		w, err := mod(g, analogParams(0.8))
		if err != nil {
			t.Fatalf("modulator error = %v", err)
		}
		if len(w.Modulated) != 1234 || len(w.Carrier) != 1234 || len(w.Message) != 1234 || len(w.Time) != 1234 {
			t.Fatalf("%v: lengths %d/%d/%d/%d, want 1234", w.Scheme,
				len(w.Modulated), len(w.Carrier), len(w.Message), len(w.Time))
		}
		testutil.RequireFinite(t, w.Modulated)
		if w.Bits != nil || w.BitString != "" {
			t.Fatalf("%v: analog waveform carries bits", w.Scheme)
		}
	}
}

func TestAMClosedForm(t *testing.T) {
	g := newGenerator(t, 1, 2001)
	p := Params{CarrierFreq: 20, CarrierAmp: 2, MessageFreq: 2, MessageAmp: 0.25, Index: 0.7}

	w, err := AM(g, p)
	if err != nil {
		t.Fatalf("AM() error = %v", err)
	}

	want := make([]float64, len(w.Time))
	for i, tt := range w.Time {
		want[i] = 2 * (1 + 0.7*math.Sin(2*math.Pi*2*tt)) * math.Sin(2*math.Pi*20*tt)
	}
	testutil.RequireSliceNearlyEqual(t, w.Modulated, want, 1e-12)

	// Envelope is independent of the message amplitude.
	p.MessageAmp = 3
	w2, err := AM(g, p)
	if err != nil {
		t.Fatalf("AM() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, w2.Modulated, want, 1e-12)
}

func TestAMOvermodulationAccepted(t *testing.T) {
	g := newGenerator(t, 1, 1000)
	w, err := AM(g, analogParams(1.3))
	if err != nil {
		t.Fatalf("AM() error = %v", err)
	}
	if !w.Metrics.Overmodulated {
		t.Fatal("expected Overmodulated for μ=1.3")
	}

	w, err = AM(g, analogParams(1))
	if err != nil {
		t.Fatalf("AM() error = %v", err)
	}
	if w.Metrics.Overmodulated {
		t.Fatal("μ=1 must not be flagged")
	}
}

func TestAMZeroMessageAmplitude(t *testing.T) {
	g := newGenerator(t, 1, 100)
	p := analogParams(0.5)
	p.MessageAmp = 0
	if _, err := AM(g, p); !errors.Is(err, core.ErrNumericEdge) {
		t.Fatalf("AM() error = %v, want ErrNumericEdge", err)
	}

	// FM and PM simply see a silent message.
	w, err := PM(g, p)
	if err != nil {
		t.Fatalf("PM() error = %v", err)
	}
	testutil.RequireSliceEqual(t, w.Modulated, w.Carrier)
}

func TestFMRunningSumIntegral(t *testing.T) {
	g := newGenerator(t, 1, 501)
	p := Params{CarrierFreq: 15, CarrierAmp: 1, MessageFreq: 3, MessageAmp: 0.8, Index: 4}

	w, err := FM(g, p)
	if err != nil {
		t.Fatalf("FM() error = %v", err)
	}

	dt := g.Grid().Step()
	want := make([]float64, len(w.Time))
	sum := 0.0
	for i, tt := range w.Time {
		sum += 0.8 * math.Sin(2*math.Pi*3*tt)
		want[i] = math.Sin(2*math.Pi*15*tt + 2*math.Pi*4*sum*dt)
	}
	testutil.RequireSliceNearlyEqual(t, w.Modulated, want, 1e-9)
}

func TestFMInstantaneousFrequencyTracksMessage(t *testing.T) {
	// Near the message peak (t = 0.25 s for fm = 1) the frequency is fc + kf·Am.
	g := newGenerator(t, 1, 100001)
	p := Params{CarrierFreq: 50, CarrierAmp: 1, MessageFreq: 1, MessageAmp: 1, Index: 10}

	w, err := FM(g, p)
	if err != nil {
		t.Fatalf("FM() error = %v", err)
	}

	rate := g.Grid().SampleRate()
	center := 25000
	seg := w.Modulated[center-5000 : center+5000]
	got := zeroCrossingFrequency(seg, rate)
	if math.Abs(got-60) > 0.5 {
		t.Fatalf("instantaneous frequency = %v, want ~60", got)
	}
}

func TestPMClosedForm(t *testing.T) {
	g := newGenerator(t, 1, 1001)
	p := Params{CarrierFreq: 10, CarrierAmp: 1, MessageFreq: 1, MessageAmp: 0.5, Index: 2}

	w, err := PM(g, p)
	if err != nil {
		t.Fatalf("PM() error = %v", err)
	}

	want := make([]float64, len(w.Time))
	for i, tt := range w.Time {
		want[i] = math.Sin(2*math.Pi*10*tt + 2*0.5*math.Sin(2*math.Pi*tt))
	}
	testutil.RequireSliceNearlyEqual(t, w.Modulated, want, 1e-12)
	if w.Metrics.PhaseDeviation != 1 {
		t.Fatalf("PhaseDeviation = %v, want 1", w.Metrics.PhaseDeviation)
	}
}

func TestAnalogValidation(t *testing.T) {
	g := newGenerator(t, 1, 64)

	tests := []struct {
		name string
		p    Params
	}{
		{name: "negative carrier", p: Params{CarrierFreq: -1, CarrierAmp: 1, MessageFreq: 1, MessageAmp: 1}},
		{name: "zero message freq", p: Params{CarrierFreq: 10, CarrierAmp: 1, MessageFreq: 0, MessageAmp: 1}},
		{name: "nan index", p: Params{CarrierFreq: 10, CarrierAmp: 1, MessageFreq: 1, MessageAmp: 1, Index: math.NaN()}},
		{name: "inf amplitude", p: Params{CarrierFreq: 10, CarrierAmp: math.Inf(1), MessageFreq: 1, MessageAmp: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mod := range []func(*signal.Generator, Params) (Waveform, error){AM, FM, PM} {
				if _, err := mod(g, tt.p); !errors.Is(err, core.ErrInvalidParameter) {
					t.Fatalf("error = %v, want ErrInvalidParameter", err)
				}
			}
		})
	}
}
