package spectrum

import (
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Spectrum is a one-sided power spectrum, bins 0 (DC) through Nyquist.
type Spectrum struct {
	SampleRate float64
	FFTSize    int
	Power      []float64

	// Bins holds the complex transform behind Power. Samples and WindowGain
	// describe the analysed block; Amplitude needs all three.
	Bins       []complex128
	Samples    int
	WindowGain float64
}

// Amplitude returns, per bin, the peak amplitude of a sinusoid centred on
// that bin, corrected for the window's coherent gain. Returns nil when the
// spectrum was not produced by Analyze.
func (s Spectrum) Amplitude() []float64 {
	if len(s.Bins) == 0 || s.Samples == 0 || s.WindowGain == 0 {
		return nil
	}

	out := Magnitude(s.Bins)
	vecmath.ScaleBlockInPlace(out, 2/(float64(s.Samples)*s.WindowGain))

	// DC and Nyquist have no mirror image.
	out[0] /= 2
	if s.FFTSize%2 == 0 && len(out) == s.FFTSize/2+1 && len(out) > 1 {
		out[len(out)-1] /= 2
	}
	return out
}

// BinWidth returns the spacing between bins in Hz.
func (s Spectrum) BinWidth() float64 {
	if s.FFTSize == 0 {
		return 0
	}
	return s.SampleRate / float64(s.FFTSize)
}

// Frequency returns the centre frequency of bin k in Hz.
func (s Spectrum) Frequency(k int) float64 {
	return float64(k) * s.BinWidth()
}

// PeakBin returns the index of the strongest non-DC bin, or 0 when the
// spectrum has no other bins.
func (s Spectrum) PeakBin() int {
	peak := 0
	for k := 1; k < len(s.Power); k++ {
		if peak == 0 || s.Power[k] > s.Power[peak] {
			peak = k
		}
	}
	return peak
}

// PowerDB returns the spectrum in dB relative to its strongest bin.
func (s Spectrum) PowerDB() []float64 {
	ref := 0.0
	for _, p := range s.Power {
		if p > ref {
			ref = p
		}
	}

	out := make([]float64, len(s.Power))
	for i, p := range s.Power {
		if ref == 0 {
			out[i] = core.PowerToDB(0)
			continue
		}
		out[i] = core.PowerToDB(p / ref)
	}
	return out
}

// Option configures Analyze.
type Option func(*config)

type config struct {
	window  window.Type
	minSize int
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// WithMinFFTSize zero-pads to at least n points for finer bin spacing.
func WithMinFFTSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minSize = n
		}
	}
}

// Analyze windows samples, transforms them and returns the one-sided power
// spectrum.
func Analyze(samples []float64, sampleRate float64, opts ...Option) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, fmt.Errorf("spectrum input must not be empty: %w", core.ErrInvalidParameter)
	}
	if err := core.RequirePositive("spectrum sample rate", sampleRate); err != nil {
		return Spectrum{}, err
	}

	cfg := config{window: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	fftSize := nextPowerOf2(max(len(samples), cfg.minSize))

	coeffs := window.Generate(cfg.window, len(samples), window.WithPeriodic())
	windowed, err := window.ApplyCoefficients(samples, coeffs)
	if err != nil {
		return Spectrum{}, err
	}
	// Zero for a one-sample Hann block; amplitudes are then unavailable.
	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		gain = 0
	}

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: forward transform: %w", err)
	}

	bins := out[:fftSize/2+1]
	return Spectrum{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Power:      Power(bins),
		Bins:       bins,
		Samples:    len(samples),
		WindowGain: gain,
	}, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
