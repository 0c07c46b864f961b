// Command modinfo generates one modulated waveform and prints its metrics.
//
// Usage:
//
//	modinfo [flags]
//
// Parameters come from a YAML scenario (-config) and are overridden by any
// flag given explicitly. Unset parameters take the scheme's defaults.
//
// Examples:
//
//	modinfo -scheme fm -index 8 -fm 2
//	modinfo -scheme fsk -message "Hi" -deviation 6 -csv fsk.csv
//	modinfo -scheme am -fc 100 -fm 10 -spectrum
//	modinfo -config scenario.yaml
//	modinfo -list
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-modulation/dsp/modulation"
	"github.com/cwbudde/algo-modulation/dsp/signal"
	"github.com/cwbudde/algo-modulation/dsp/window"
	"github.com/cwbudde/algo-modulation/internal/config"
	"github.com/cwbudde/algo-modulation/internal/logging"
	"github.com/cwbudde/algo-modulation/measure/bandwidth"
	"github.com/cwbudde/algo-modulation/stats/waveform"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	scheme     string
	csvPath    string
	normalize  bool
	spectrum   bool
	window     string
	fraction   float64
	list       bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("modinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts      options
		duration  float64
		samples   int
		fc, ac    float64
		fm, am    float64
		index     float64
		deviation float64
		message   string
	)
	fs.StringVar(&opts.configPath, "config", "", "YAML scenario file")
	fs.StringVar(&opts.scheme, "scheme", "am", "modulation scheme: "+strings.Join(schemeNames(), ", "))
	fs.Float64Var(&duration, "duration", 1, "grid duration in seconds")
	fs.IntVar(&samples, "samples", 5000, "grid points, both endpoints included")
	fs.Float64Var(&fc, "fc", 10, "carrier frequency in Hz")
	fs.Float64Var(&ac, "ac", 1, "carrier amplitude")
	fs.Float64Var(&fm, "fm", 1, "message frequency in Hz (analog)")
	fs.Float64Var(&am, "am", 0.5, "message amplitude (analog)")
	fs.Float64Var(&index, "index", 0, "modulation index: μ (AM), kf in Hz (FM), kp in rad (PM)")
	fs.Float64Var(&deviation, "deviation", modulation.DefaultFSKDeviation, "FSK tone spacing in Hz")
	fs.StringVar(&message, "message", modulation.DefaultMessage, "text keyed by ASK, PSK and FSK")
	fs.StringVar(&opts.csvPath, "csv", "", "write t,carrier,message,modulated samples to this file")
	fs.BoolVar(&opts.normalize, "normalize", false, "scale the CSV modulated column to unit peak")
	fs.BoolVar(&opts.spectrum, "spectrum", false, "measure the occupied bandwidth of the modulated signal")
	fs.StringVar(&opts.window, "window", "hann", "analysis window for -spectrum: "+strings.Join(window.Names(), ", "))
	fs.Float64Var(&opts.fraction, "fraction", 0.99, "power fraction for -spectrum")
	fs.BoolVar(&opts.list, "list", false, "list schemes with their default parameters")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: modinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Generates a modulated waveform and prints its metrics.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  modinfo -scheme fm -index 8 -fm 2\n")
		fmt.Fprintf(stderr, "  modinfo -scheme fsk -message Hi -csv fsk.csv\n")
		fmt.Fprintf(stderr, "  modinfo -config scenario.yaml -spectrum\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := logging.NewFromEnv(logging.Config{Level: "warn", Output: stderr})
	ctx := context.Background()

	if opts.list {
		if err := printList(stdout); err != nil {
			log.Error(ctx, "list schemes", logging.Err(err))
			return 1
		}
		return 0
	}

	cfg, err := loadScenario(fs, opts)
	if err != nil {
		log.Error(ctx, "load scenario", logging.Err(err))
		return 1
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Grid.Duration = duration
		case "samples":
			cfg.Grid.Samples = samples
		case "fc":
			cfg.Params.CarrierFreq = fc
		case "ac":
			cfg.Params.CarrierAmp = ac
		case "fm":
			cfg.Params.MessageFreq = fm
		case "am":
			cfg.Params.MessageAmp = am
		case "index":
			cfg.Params.Index = index
		case "deviation":
			cfg.Params.Deviation = deviation
		case "message":
			cfg.Message = message
		}
	})

	w, err := modulation.Generate(cfg.Request())
	if err != nil {
		log.Error(ctx, "generate waveform", logging.String("scheme", cfg.Scheme.String()), logging.Err(err))
		return 1
	}
	log.Debug(ctx, "waveform generated", logging.String("scheme", w.Scheme.String()), logging.Int("samples", w.Len()))

	var measured *bandwidth.Result
	if opts.spectrum {
		wt, err := window.ParseType(opts.window)
		if err != nil {
			log.Error(ctx, "parse window", logging.Err(err))
			return 1
		}
		res, err := bandwidth.Measure(w.Modulated, w.Grid.SampleRate(),
			bandwidth.Config{Fraction: opts.fraction, Window: wt})
		if err != nil {
			log.Error(ctx, "measure bandwidth", logging.Err(err))
			return 1
		}
		measured = &res
	}

	if err := printReport(stdout, w, measured, opts.fraction); err != nil {
		log.Error(ctx, "write report", logging.Err(err))
		return 1
	}

	if opts.csvPath != "" {
		if err := writeCSVFile(opts.csvPath, w, opts.normalize); err != nil {
			log.Error(ctx, "write csv", logging.String("path", opts.csvPath), logging.Err(err))
			return 1
		}
		log.Info(ctx, "samples written", logging.String("path", opts.csvPath), logging.Int("rows", w.Len()))
	}
	return 0
}

// loadScenario returns the scenario file named by -config, or the defaults
// of -scheme. An explicit -scheme overrides the file.
func loadScenario(fs *flag.FlagSet, opts options) (*config.Config, error) {
	schemeSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "scheme" {
			schemeSet = true
		}
	})

	scheme, err := modulation.ParseScheme(opts.scheme)
	if err != nil {
		return nil, err
	}

	if opts.configPath == "" {
		return config.Default(scheme), nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if schemeSet {
		cfg.Scheme = scheme
	}
	if cfg.Scheme.IsDigital() && cfg.Message == "" {
		cfg.Message = modulation.DefaultMessage
	}
	return cfg, nil
}

func schemeNames() []string {
	schemes := modulation.Schemes()
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = strings.ToLower(s.String())
	}
	return names
}

func printList(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Scheme\tKind\tfc [Hz]\tAc\tfm [Hz]\tAm\tIndex\tΔf [Hz]\n")
	fmt.Fprintf(tw, "------\t----\t-------\t--\t-------\t--\t-----\t-------\n")
	for _, s := range modulation.Schemes() {
		p := modulation.DefaultParams(s)
		kind := "analog"
		if s.IsDigital() {
			kind = "digital"
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%g\n",
			s, kind, p.CarrierFreq, p.CarrierAmp, p.MessageFreq, p.MessageAmp, p.Index, p.Deviation)
	}
	return tw.Flush()
}

func printReport(out io.Writer, w modulation.Waveform, measured *bandwidth.Result, fraction float64) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(name, format string, args ...any) {
		fmt.Fprintf(tw, "%s\t"+format+"\n", append([]any{name}, args...)...)
	}

	row("Scheme", "%s", w.Scheme)
	row("Grid", "%d samples over %g s (%.2f Hz)", w.Grid.Samples, w.Grid.Duration, w.Grid.SampleRate())

	m := w.Metrics
	switch w.Scheme {
	case modulation.SchemeAM:
		row("Modulation index μ", "%g", m.ModulationIndex)
		row("Overmodulated", "%t", m.Overmodulated)
		row("Bandwidth 2·fm", "%g Hz", m.Bandwidth)
	case modulation.SchemeFM:
		row("Frequency deviation Δf", "%g Hz", m.FrequencyDeviation)
		row("Modulation index β", "%g", m.ModulationIndex)
		row("Carson bandwidth", "%g Hz", m.Bandwidth)
	case modulation.SchemePM:
		row("Phase deviation", "%g rad", m.PhaseDeviation)
	default:
		row("Bits", "%s", w.BitString)
		row("Bit rate", "%g bit/s", m.BitRate)
		row("Bit duration", "%g s", m.BitDuration)
		if w.Scheme == modulation.SchemeFSK {
			row("Tones f1/f2", "%g / %g Hz", m.SpaceFreq, m.MarkFreq)
		}
	}

	st := waveform.Calculate(w.Modulated)
	row("Peak", "%.4f", st.Peak)
	row("RMS", "%.4f", st.RMS)
	row("Crest factor", "%.4f", st.CrestFactor)
	row("Zero crossings", "%d", st.ZeroCrossings)

	if measured != nil {
		row("Spectral peak", "%.2f Hz (amplitude %.3f)", measured.PeakFrequency, measured.PeakAmplitude)
		row(fmt.Sprintf("Occupied bandwidth %.4g%%", fraction*100), "%.2f Hz (%.2f .. %.2f Hz, bin %.3f Hz)",
			measured.OccupiedBandwidth, measured.LowerEdge, measured.UpperEdge, measured.BinWidth)
		row("Spectral centroid", "%.2f Hz (spread %.2f Hz)", measured.Shape.Centroid, measured.Shape.Spread)
		row("Spectral flatness", "%.4f", measured.Shape.Flatness)
	}
	return tw.Flush()
}

func writeCSVFile(path string, w modulation.Waveform, normalize bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return writeCSV(f, w, normalize)
}

func writeCSV(out io.Writer, w modulation.Waveform, normalize bool) error {
	modulated := w.Modulated
	if normalize {
		var err error
		modulated, err = signal.Normalize(w.Modulated, 1)
		if err != nil {
			return err
		}
	}

	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"t", "carrier", "message", "modulated"}); err != nil {
		return err
	}
	for i := range w.Time {
		if err := cw.Write([]string{
			formatFloat(w.Time[i]),
			formatFloat(w.Carrier[i]),
			formatFloat(w.Message[i]),
			formatFloat(modulated[i]),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
