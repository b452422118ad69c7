package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
)

const metricsNamespace = "pickem"

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

var (
	RecalcRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "scoring",
		Name:      "runs_total",
		Help:      "Weekly score calculations by trigger and final state",
	}, []string{"trigger", "state"})
	RecalcRunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "scoring",
		Name:      "run_duration_seconds",
		Help:      "Duration of weekly score calculations",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"trigger"})
	RecalcSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "scoring",
		Name:      "skipped_total",
		Help:      "Ensure checks and runs that did not calculate, by reason",
	}, []string{"trigger", "reason"})
	DriftDiscrepanciesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "scoring",
		Name:      "drift_discrepancies_total",
		Help:      "Stored score records found to disagree with a recomputation",
	})
	DriftLastWeek = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "scoring",
		Name:      "drift_discrepancies",
		Help:      "Discrepancies found by the latest check of a week",
	}, []string{"week"})
	CircuitOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "scoring",
		Name:      "circuit_open",
		Help:      "1 while the storage circuit breaker rejects runs",
	})
)

// InitRegistry registers the scoring collectors once and returns the registry.
func InitRegistry() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			RecalcRunsTotal,
			RecalcRunDuration,
			RecalcSkippedTotal,
			DriftDiscrepanciesTotal,
			DriftLastWeek,
			CircuitOpen,
		)
	})
	return registry
}

// MetricsHandler serves the scoring registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

// RecalcMetrics feeds coordinator telemetry into the package collectors.
type RecalcMetrics struct{}

func NewRecalcMetrics() *RecalcMetrics {
	InitRegistry()
	return &RecalcMetrics{}
}

func (*RecalcMetrics) ObserveRun(trigger recalc.Trigger, state recalc.RunState, duration time.Duration) {
	RecalcRunsTotal.WithLabelValues(string(trigger), string(state)).Inc()
	RecalcRunDuration.WithLabelValues(string(trigger)).Observe(duration.Seconds())
}

func (*RecalcMetrics) RunSkipped(trigger recalc.Trigger, reason string) {
	RecalcSkippedTotal.WithLabelValues(string(trigger), reason).Inc()
}

func (*RecalcMetrics) DriftDetected(key game.WeekKey, discrepancies int) {
	DriftDiscrepanciesTotal.Add(float64(discrepancies))
	DriftLastWeek.WithLabelValues(key.String()).Set(float64(discrepancies))
}

func (*RecalcMetrics) CircuitStateChanged(state string) {
	if state == "open" {
		CircuitOpen.Set(1)
		return
	}
	CircuitOpen.Set(0)
}
