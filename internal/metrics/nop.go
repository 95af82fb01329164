package metrics

import "github.com/HelgeS/mcap-rotational-diversity/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	sim, err := mcap.NewSimulator(cfg, inst, strat, mcap.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SimulatorMetrics implementation

// RecordCycle discards the cycle record.
func (n *NopMetrics) RecordCycle(_ *types.CycleRecord) {
	// No-op
}

// RecordPhaseTransition discards the phase transition metric.
func (n *NopMetrics) RecordPhaseTransition(_ /* from */, _ /* to */ types.Phase, _ /* duration */ float64) {
	// No-op
}

// ExchangeMetrics implementation

// RecordExchange discards the exchange metric.
func (n *NopMetrics) RecordExchange(_ /* exchanger */ string, _ types.ExchangeStats, _ /* swaps */ int) {
	// No-op
}

// SolverMetrics implementation

// RecordSolve discards the solver metric.
func (n *NopMetrics) RecordSolve(_ /* duration */ float64, _ /* timedOut */ bool) {
	// No-op
}
