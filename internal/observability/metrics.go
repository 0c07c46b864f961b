// Package observability exposes Prometheus metrics for waveform generation.
package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GenerationCollector bundles the metrics recorded by the HTTP server.
type GenerationCollector struct {
	gatherer prometheus.Gatherer

	HTTPRequests *prometheus.CounterVec
	Generations  *prometheus.CounterVec
	Durations    *prometheus.HistogramVec
	Samples      *prometheus.CounterVec
	LastSamples  prometheus.Gauge
}

// NewGenerationCollector registers the metrics against reg, or the global
// registry when reg is nil. Registering twice returns the existing
// collectors.
func NewGenerationCollector(reg prometheus.Registerer) (*GenerationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	httpRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modserver_http_requests_total",
		Help: "HTTP requests handled, labeled by method and status code.",
	}, []string{"method", "code"}), "modserver_http_requests_total")
	if err != nil {
		return nil, err
	}

	generations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modulation_generations_total",
		Help: "Waveform generations, labeled by scheme and outcome.",
	}, []string{"scheme", "outcome"}), "modulation_generations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "modulation_generation_duration_seconds",
		Help:    "Waveform generation latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	}, []string{"scheme"}), "modulation_generation_duration_seconds")
	if err != nil {
		return nil, err
	}

	samples, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modulation_samples_total",
		Help: "Samples synthesized per scheme.",
	}, []string{"scheme"}), "modulation_samples_total")
	if err != nil {
		return nil, err
	}

	last, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "modulation_last_grid_samples",
		Help: "Grid size of the most recent successful generation.",
	}), "modulation_last_grid_samples")
	if err != nil {
		return nil, err
	}

	return &GenerationCollector{
		gatherer:     gatherer,
		HTTPRequests: httpRequests,
		Generations:  generations,
		Durations:    durations,
		Samples:      samples,
		LastSamples:  last,
	}, nil
}

// ObserveGeneration records one generation of scheme that took elapsed and
// produced samples points. A non-nil err counts as a failure.
func (c *GenerationCollector) ObserveGeneration(scheme string, samples int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Generations.WithLabelValues(scheme, outcome).Inc()
	c.Durations.WithLabelValues(scheme).Observe(elapsed.Seconds())
	if err == nil {
		c.Samples.WithLabelValues(scheme).Add(float64(samples))
		c.LastSamples.Set(float64(samples))
	}
}

// ObserveHTTP counts one handled request.
func (c *GenerationCollector) ObserveHTTP(method string, code int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Handler exposes the collected metrics.
func (c *GenerationCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
