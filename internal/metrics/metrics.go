// Package metrics exposes Prometheus instrumentation for long-running
// optimization runs. All observation methods are nil-receiver safe so
// callers can wire metrics optionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	objectiveEvaluations prometheus.Counter
	bestCost             prometheus.Gauge
	collectorRequests    *prometheus.CounterVec
	backtestsTotal       *prometheus.CounterVec
	runDuration          prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		objectiveEvaluations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tristrat_objective_evaluations_total",
				Help: "Total number of optimizer objective evaluations",
			},
		),
		bestCost: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tristrat_best_cost",
				Help: "Lowest objective cost attained so far",
			},
		),
		collectorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tristrat_collector_requests_total",
				Help: "Total number of market data requests",
			},
			[]string{"provider", "status"},
		),
		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tristrat_backtests_total",
				Help: "Total number of backtests run",
			},
			[]string{"strategy"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tristrat_run_duration_seconds",
				Help:    "Optimization run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
	}

	reg.MustRegister(r.objectiveEvaluations)
	reg.MustRegister(r.bestCost)
	reg.MustRegister(r.collectorRequests)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.runDuration)

	return r
}

// ObserveEvaluation records one objective evaluation and the best cost
// attained so far.
func (r *Registry) ObserveEvaluation(bestCost float64) {
	if r == nil {
		return
	}
	r.objectiveEvaluations.Inc()
	r.bestCost.Set(bestCost)
}

// ObserveCollectorRequest records one market data request.
func (r *Registry) ObserveCollectorRequest(provider string, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.collectorRequests.WithLabelValues(provider, status).Inc()
}

// ObserveBacktest records one backtest for the given strategy.
func (r *Registry) ObserveBacktest(strategy string) {
	if r == nil {
		return
	}
	r.backtestsTotal.WithLabelValues(strategy).Inc()
}

// ObserveRunDuration records the wall-clock duration of a full run.
func (r *Registry) ObserveRunDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.runDuration.Observe(d.Seconds())
}

// Handler returns an HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
