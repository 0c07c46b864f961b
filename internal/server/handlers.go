package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/modulation"
	"github.com/cwbudde/algo-modulation/internal/logging"
	"github.com/cwbudde/algo-modulation/measure/bandwidth"
	"github.com/cwbudde/algo-modulation/stats/waveform"
)

const (
	maxRequestBytes = 1 << 20

	// silentPeakDB stands in for the -Inf peak level of an all-zero
	// waveform, which JSON cannot encode.
	silentPeakDB = -400.0
)

// GenerateResponse is the body of POST /api/generate. Samples are omitted
// when the request asks for a summary only.
type GenerateResponse struct {
	*modulation.Waveform

	Stats    *waveform.Stats   `json:"stats,omitempty"`
	Measured *bandwidth.Result `json:"measured,omitempty"`
}

type summary struct {
	Scheme    modulation.Scheme  `json:"scheme"`
	Grid      core.TimeGrid      `json:"grid"`
	BitString string             `json:"bits,omitempty"`
	Metrics   modulation.Metrics `json:"metrics"`
	Stats     waveform.Stats     `json:"stats"`
	Measured  *bandwidth.Result  `json:"measured,omitempty"`
}

// SchemeInfo describes one entry of GET /api/schemes.
type SchemeInfo struct {
	Name     string            `json:"name"`
	Digital  bool              `json:"digital"`
	Defaults modulation.Params `json:"defaults"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeRequest(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.cfg.MaxSamples > 0 && req.Grid.Samples > s.cfg.MaxSamples {
		writeError(w, http.StatusBadRequest, fmt.Errorf("grid samples %d exceed limit %d: %w",
			req.Grid.Samples, s.cfg.MaxSamples, core.ErrInvalidParameter))
		return
	}

	start := time.Now()
	wf, err := modulation.Generate(req)
	s.metrics.ObserveGeneration(req.Scheme.String(), wf.Len(), time.Since(start), err)
	if err != nil {
		s.log.Warn(ctx, "generation failed", logging.String("scheme", req.Scheme.String()), logging.Err(err))
		writeError(w, statusFor(err), err)
		return
	}

	var measured *bandwidth.Result
	if queryBool(r, "bandwidth") {
		res, err := bandwidth.Measure(wf.Modulated, wf.Grid.SampleRate(), bandwidth.DefaultConfig())
		if err != nil && !errors.Is(err, core.ErrNumericEdge) {
			writeError(w, statusFor(err), err)
			return
		}
		if err == nil {
			measured = &res
		}
	}

	s.log.Info(ctx, "waveform generated",
		logging.String("scheme", wf.Scheme.String()),
		logging.Int("samples", wf.Len()),
		logging.Duration("elapsed", time.Since(start)))

	if queryBool(r, "summary") {
		writeJSON(w, http.StatusOK, summary{
			Scheme:    wf.Scheme,
			Grid:      wf.Grid,
			BitString: wf.BitString,
			Metrics:   wf.Metrics,
			Stats:     levelStats(wf.Modulated),
			Measured:  measured,
		})
		return
	}

	stats := levelStats(wf.Modulated)
	writeJSON(w, http.StatusOK, GenerateResponse{Waveform: &wf, Stats: &stats, Measured: measured})
}

func levelStats(x []float64) waveform.Stats {
	st := waveform.Calculate(x)
	if math.IsInf(st.PeakDB, -1) {
		st.PeakDB = silentPeakDB
	}
	return st
}

// decodeRequest reads a generation request. A missing grid selects the
// default grid, missing params select the scheme's defaults and a digital
// scheme without a message keys modulation.DefaultMessage.
func decodeRequest(body io.Reader) (modulation.Request, error) {
	var req modulation.Request
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return modulation.Request{}, fmt.Errorf("decode request: %w", err)
	}
	if !req.Scheme.Valid() {
		return modulation.Request{}, fmt.Errorf("scheme is required: %w", core.ErrInvalidParameter)
	}

	defaults := modulation.NewRequest(req.Scheme)
	if req.Grid == (core.TimeGrid{}) {
		req.Grid = defaults.Grid
	}
	if req.Params == (modulation.Params{}) {
		req.Params = defaults.Params
	}
	if req.Message == "" {
		req.Message = defaults.Message
	}
	return req, nil
}

func (s *Server) schemesHandler(w http.ResponseWriter, _ *http.Request) {
	schemes := modulation.Schemes()
	out := make([]SchemeInfo, 0, len(schemes))
	for _, sc := range schemes {
		out = append(out, SchemeInfo{
			Name:     sc.String(),
			Digital:  sc.IsDigital(),
			Defaults: modulation.DefaultParams(sc),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps generation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNumericEdge):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// writeJSON encodes v before committing status, so an unencodable value
// becomes a 500 with an error body instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: fmt.Sprintf("encode response: %v", err)})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
