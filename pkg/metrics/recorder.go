package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linecalc/linecalc/pkg/compute"
)

// Recorder records calculator activity. The zero value is not usable; call
// NewRecorder.
type Recorder struct {
	reg      *prometheus.Registry
	calcs    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	system   *prometheus.GaugeVec
	failure  *prometheus.GaugeVec
}

// NewRecorder returns a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		calcs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linecalc_calculations_total",
			Help: "Calculations performed, by kind and outcome (ok or the error kind).",
		}, []string{"kind", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linecalc_calculation_duration_seconds",
			Help:    "Time spent in the calculator, by kind.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
		}, []string{"kind"}),
		system: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "linecalc_system_reliability",
			Help: "Latest computed series-system reliability per line (0-1).",
		}, []string{"line"}),
		failure: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "linecalc_failure_probability",
			Help: "Latest computed failure probability per line (0-1).",
		}, []string{"line"}),
	}
}

// Observe records one calculation of kind that took d. err selects the
// outcome label: "ok" when nil, otherwise compute.Kind(err).
func (r *Recorder) Observe(kind string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = compute.Kind(err)
	}
	r.calcs.WithLabelValues(kind, outcome).Inc()
	r.duration.WithLabelValues(kind).Observe(d.Seconds())
}

// SetLine publishes the latest reliability of line.
func (r *Recorder) SetLine(line string, res compute.ReliabilityResult) {
	r.system.WithLabelValues(line).Set(res.SystemReliability)
	r.failure.WithLabelValues(line).Set(res.FailureProbability)
}

// DeleteLine drops the gauge series of line.
func (r *Recorder) DeleteLine(line string) {
	r.system.DeleteLabelValues(line)
	r.failure.DeleteLabelValues(line)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
