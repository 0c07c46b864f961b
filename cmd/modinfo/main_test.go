package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cwbudde/algo-modulation/dsp/modulation"
)

func runCmd(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRunFMReport(t *testing.T) {
	out, errOut, code := runCmd(t, "-scheme", "fm", "-index", "8", "-fm", "2", "-am", "1")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	for _, want := range []string{"FM", "Carson bandwidth", "20 Hz", "Modulation index β", "4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestRunDigitalReport(t *testing.T) {
	out, errOut, code := runCmd(t, "-scheme", "FSK", "-message", "A", "-deviation", "4")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	for _, want := range []string{"01000001", "8 bit/s", "8 / 12 Hz"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestRunDigitalDefaultMessage(t *testing.T) {
	out, errOut, code := runCmd(t, "-scheme", "ask")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	// "Hola" keyed MSB first.
	for _, want := range []string{"01001000011011110110110001100001", "32 bit/s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestRunConfigSchemeOverrideKeysDefaultMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("scheme: am\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, errOut, code := runCmd(t, "-config", path, "-scheme", "psk")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "PSK") || !strings.Contains(out, "32 bit/s") {
		t.Fatalf("report does not reflect override:\n%s", out)
	}
}

func TestRunSpectrum(t *testing.T) {
	out, errOut, code := runCmd(t, "-scheme", "am", "-fc", "100", "-fm", "10", "-spectrum")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "Occupied bandwidth 99%") || !strings.Contains(out, "Spectral peak") ||
		!strings.Contains(out, "Spectral centroid") {
		t.Fatalf("report lacks spectrum rows:\n%s", out)
	}
}

func TestRunConfigWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := "scheme: pm\ngrid:\n  duration: 2\n  samples: 400\nparams:\n  index: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, errOut, code := runCmd(t, "-config", path, "-am", "1")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "400 samples over 2 s") || !strings.Contains(out, "3 rad") {
		t.Fatalf("report does not reflect scenario:\n%s", out)
	}
}

func TestRunCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ask.csv")
	_, errOut, code := runCmd(t, "-scheme", "ask", "-message", "Hi", "-samples", "64", "-csv", path, "-normalize")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 65 {
		t.Fatalf("rows = %d, want 65", len(rows))
	}
	if strings.Join(rows[0], ",") != "t,carrier,message,modulated" {
		t.Fatalf("header = %v", rows[0])
	}
	last, err := strconv.ParseFloat(rows[64][0], 64)
	if err != nil || last != 1 {
		t.Fatalf("last t = %v (%v), want 1", rows[64][0], err)
	}

	peak := 0.0
	for _, row := range rows[1:] {
		v, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q) error = %v", row[3], err)
		}
		if v < 0 {
			v = -v
		}
		peak = max(peak, v)
	}
	if peak < 0.999999 || peak > 1.000001 {
		t.Fatalf("normalized peak = %v, want 1", peak)
	}
}

func TestWriteCSVShape(t *testing.T) {
	w, err := modulation.Generate(modulation.Request{
		Scheme: modulation.SchemeAM,
		Grid:   modulation.NewRequest(modulation.SchemeAM).Grid,
		Params: modulation.DefaultParams(modulation.SchemeAM),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, w, false); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != w.Len()+1 {
		t.Fatalf("lines = %d, want %d", lines, w.Len()+1)
	}
}

func TestRunList(t *testing.T) {
	out, _, code := runCmd(t, "-list")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, s := range modulation.Schemes() {
		if !strings.Contains(out, s.String()) {
			t.Fatalf("list lacks %v:\n%s", s, out)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "unknown scheme", args: []string{"-scheme", "qam"}, code: 1},
		{name: "am silent message", args: []string{"-am", "0"}, code: 1},
		{name: "bad window", args: []string{"-spectrum", "-window", "kaiser"}, code: 1},
		{name: "missing config", args: []string{"-config", "/nonexistent/scenario.yaml"}, code: 1},
		{name: "bad flag", args: []string{"-nope"}, code: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := runCmd(t, tt.args...)
			if code != tt.code {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, tt.code, errOut)
			}
			if errOut == "" {
				t.Fatal("expected diagnostics on stderr")
			}
		})
	}
}
