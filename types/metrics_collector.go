package types

// MetricsCollector defines methods for recording simulation metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
//
// This interface composes smaller, domain-focused interfaces.
type MetricsCollector interface {
	SimulatorMetrics
	ExchangeMetrics
	SolverMetrics
}

// SimulatorMetrics defines metrics for cycle-level operations.
type SimulatorMetrics interface {
	// RecordCycle records a completed cycle.
	//
	// Parameters:
	//   - rec: The emitted cycle record
	RecordCycle(rec *CycleRecord)

	// RecordPhaseTransition records a simulator phase change.
	//
	// Parameters:
	//   - from: Previous phase
	//   - to: New phase
	//   - duration: Time spent in the previous phase, in seconds
	RecordPhaseTransition(from, to Phase, duration float64)
}

// ExchangeMetrics defines metrics for the exchange engine.
type ExchangeMetrics interface {
	// RecordExchange records the outcome of one exchange run.
	//
	// Parameters:
	//   - exchanger: Exchanger name ("oneswap60", "exchange80", ...)
	//   - stats: Candidate and rejection counters
	//   - swaps: Number of applied swaps
	RecordExchange(exchanger string, stats ExchangeStats, swaps int)
}

// SolverMetrics defines metrics for optimizer calls.
type SolverMetrics interface {
	// RecordSolve records one optimizer call.
	//
	// Parameters:
	//   - duration: Solve time in seconds
	//   - timedOut: true if the solver hit its deadline
	RecordSolve(duration float64, timedOut bool)
}
