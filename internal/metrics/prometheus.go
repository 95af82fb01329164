package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are registered lazily on first use, so creating a collector that
// is never used leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	cycles           *prometheus.CounterVec
	objective        *prometheus.GaugeVec
	pressureMax      *prometheus.GaugeVec
	pressureMean     *prometheus.GaugeVec
	totalPressureMax *prometheus.GaugeVec
	assigned         *prometheus.GaugeVec
	utilization      *prometheus.GaugeVec

	phaseTransitions *prometheus.CounterVec
	phaseDuration    *prometheus.HistogramVec

	exchangeCandidates *prometheus.CounterVec
	exchangeRejections *prometheus.CounterVec
	exchangeSwaps      *prometheus.CounterVec
	exchangeWelfare    *prometheus.CounterVec

	solveDuration prometheus.Histogram
	solveTimeouts prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "mcap" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "mcap"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: p.namespace,
		Subsystem: "cycle",
		Name:      name,
		Help:      help,
	}, []string{"instance", "strategy"})
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.cycles = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cycle",
			Name:      "completed_total",
			Help:      "Total completed cycles by instance and strategy.",
		}, []string{"instance", "strategy"})
		p.objective = p.gauge("objective", "Objective of the last cycle's final assignment.")
		p.pressureMax = p.gauge("pressure_max", "Maximum task pressure after the last cycle.")
		p.pressureMean = p.gauge("pressure_mean", "Mean task pressure after the last cycle.")
		p.totalPressureMax = p.gauge("total_pressure_max", "Maximum task pressure over every task of the instance.")
		p.assigned = p.gauge("assigned_ratio", "Fraction of available tasks assigned in the last cycle.")
		p.utilization = p.gauge("utilization_ratio", "Mean agent utilization in the last cycle.")

		p.phaseTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "simulator",
			Name:      "phase_transitions_total",
			Help:      "Total simulator phase transitions.",
		}, []string{"from", "to"})
		p.phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "simulator",
			Name:      "phase_duration_seconds",
			Help:      "Time spent in a phase before leaving it.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10), // 0.5ms .. ~2min
		}, []string{"phase"})

		p.exchangeCandidates = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "exchange",
			Name:      "candidates_total",
			Help:      "Total swap candidates considered.",
		}, []string{"exchanger"})
		p.exchangeRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "exchange",
			Name:      "rejections_total",
			Help:      "Total rejected candidates by reason (exchanged, capacity, bound).",
		}, []string{"exchanger", "reason"})
		p.exchangeSwaps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "exchange",
			Name:      "swaps_total",
			Help:      "Total applied swaps.",
		}, []string{"exchanger"})
		p.exchangeWelfare = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "exchange",
			Name:      "welfare_gain_total",
			Help:      "Total affinity welfare gained by applied swaps.",
		}, []string{"exchanger"})

		p.solveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "duration_seconds",
			Help:      "Optimizer call duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 3, 10), // 1ms .. ~20s
		})
		p.solveTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "timeouts_total",
			Help:      "Total optimizer calls that hit their deadline.",
		})

		p.reg.MustRegister(p.cycles)
		p.reg.MustRegister(p.objective)
		p.reg.MustRegister(p.pressureMax)
		p.reg.MustRegister(p.pressureMean)
		p.reg.MustRegister(p.totalPressureMax)
		p.reg.MustRegister(p.assigned)
		p.reg.MustRegister(p.utilization)
		p.reg.MustRegister(p.phaseTransitions)
		p.reg.MustRegister(p.phaseDuration)
		p.reg.MustRegister(p.exchangeCandidates)
		p.reg.MustRegister(p.exchangeRejections)
		p.reg.MustRegister(p.exchangeSwaps)
		p.reg.MustRegister(p.exchangeWelfare)
		p.reg.MustRegister(p.solveDuration)
		p.reg.MustRegister(p.solveTimeouts)
	})
}

// SimulatorMetrics implementation

// RecordCycle updates the per-cycle gauges and the cycle counter.
func (p *PrometheusCollector) RecordCycle(rec *types.CycleRecord) {
	if rec == nil {
		return
	}
	p.ensureRegistered()

	labels := []string{rec.Instance, rec.Strategy}
	p.cycles.WithLabelValues(labels...).Inc()
	p.objective.WithLabelValues(labels...).Set(float64(rec.Objective))
	p.pressureMax.WithLabelValues(labels...).Set(rec.PressureMax)
	p.pressureMean.WithLabelValues(labels...).Set(rec.PressureMean)
	p.totalPressureMax.WithLabelValues(labels...).Set(rec.TotalPressureMax)
	p.assigned.WithLabelValues(labels...).Set(rec.Assigned)
	p.utilization.WithLabelValues(labels...).Set(rec.Utilization)
}

// RecordPhaseTransition counts the transition and observes the time spent in from.
func (p *PrometheusCollector) RecordPhaseTransition(from, to types.Phase, duration float64) {
	p.ensureRegistered()
	p.phaseTransitions.WithLabelValues(from.String(), to.String()).Inc()
	p.phaseDuration.WithLabelValues(from.String()).Observe(duration)
}

// ExchangeMetrics implementation

// RecordExchange adds the exchange counters.
func (p *PrometheusCollector) RecordExchange(exchanger string, stats types.ExchangeStats, swaps int) {
	p.ensureRegistered()
	p.exchangeCandidates.WithLabelValues(exchanger).Add(float64(stats.Candidates))
	p.exchangeRejections.WithLabelValues(exchanger, "exchanged").Add(float64(stats.AlreadyExchanged))
	p.exchangeRejections.WithLabelValues(exchanger, "capacity").Add(float64(stats.CapacityRejected))
	p.exchangeRejections.WithLabelValues(exchanger, "bound").Add(float64(stats.BoundRejected))
	p.exchangeSwaps.WithLabelValues(exchanger).Add(float64(swaps))
	p.exchangeWelfare.WithLabelValues(exchanger).Add(float64(stats.WelfareGain))
}

// SolverMetrics implementation

// RecordSolve observes the solve duration and counts timeouts.
func (p *PrometheusCollector) RecordSolve(duration float64, timedOut bool) {
	p.ensureRegistered()
	p.solveDuration.Observe(duration)
	if timedOut {
		p.solveTimeouts.Inc()
	}
}
