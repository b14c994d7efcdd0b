package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes recorded in the status label.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Recorder holds the calculation metrics on a private registry, so several
// recorders can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry
	handler  http.Handler

	runsTotal  *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	resultBits *prometheus.GaugeVec
	activeRuns prometheus.Gauge
	allocated  *prometheus.GaugeVec
	lastN      prometheus.Gauge
}

// NewRecorder creates a Recorder with the Go runtime collector registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "factcalc_calculations_total",
			Help: "Number of factorial calculations by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "factcalc_calculation_duration_seconds",
			Help:    "Wall time of successful factorial calculations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"algorithm"}),
		resultBits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "factcalc_result_bits",
			Help: "Bit length of the last result per algorithm.",
		}, []string{"algorithm"}),
		activeRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factcalc_active_calculations",
			Help: "Calculations currently running.",
		}),
		allocated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "factcalc_allocated_bytes",
			Help: "Bytes allocated during the last run per algorithm.",
		}, []string{"algorithm"}),
		lastN: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factcalc_last_n",
			Help: "Argument of the most recent calculation.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		r.runsTotal,
		r.duration,
		r.resultBits,
		r.activeRuns,
		r.allocated,
		r.lastN,
	)
	r.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// StartRun marks a calculation of n! as running. The returned function must
// be called once the run ends.
func (r *Recorder) StartRun(n uint64) func() {
	r.lastN.Set(float64(n))
	r.activeRuns.Inc()
	return r.activeRuns.Dec
}

// ObserveRun records the outcome of one calculation.
func (r *Recorder) ObserveRun(algorithm string, d time.Duration, bits int, err error) {
	status := StatusOK
	switch {
	case err == nil:
	case isCanceled(err):
		status = StatusCanceled
	default:
		status = StatusError
	}
	r.runsTotal.WithLabelValues(algorithm, status).Inc()
	if err != nil {
		return
	}
	r.duration.WithLabelValues(algorithm).Observe(d.Seconds())
	r.resultBits.WithLabelValues(algorithm).Set(float64(bits))
}

// ObserveMemory records the allocation delta of one calculation.
func (r *Recorder) ObserveMemory(algorithm string, d MemoryDelta) {
	r.allocated.WithLabelValues(algorithm).Set(float64(d.Allocated))
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (r *Recorder) WritePrometheus(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// WriteTextfile writes the registry to path in the text format read by the
// node exporter textfile collector. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
