package types

// Phase represents the step of the cycle the simulator is executing.
//
// One cycle walks through every phase in order:
//
//	Idle → Scoring → Optimizing → Negotiating → Updating → Reporting → Idle
//
// The simulator enters Done once the availability schedule is exhausted.
type Phase int

const (
	// PhaseIdle indicates no cycle is in progress.
	PhaseIdle Phase = iota

	// PhaseScoring indicates profits are being refreshed and the strategy is scoring.
	PhaseScoring

	// PhaseOptimizing indicates the optimizer is building the initial assignment.
	PhaseOptimizing

	// PhaseNegotiating indicates the strategy's exchange step is running.
	PhaseNegotiating

	// PhaseUpdating indicates affinity counters are being updated.
	PhaseUpdating

	// PhaseReporting indicates the cycle record is being emitted.
	PhaseReporting

	// PhaseDone indicates every cycle has been simulated.
	PhaseDone
)

// String returns the string representation of the phase.
//
// Returns:
//   - string: Human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseScoring:
		return "Scoring"
	case PhaseOptimizing:
		return "Optimizing"
	case PhaseNegotiating:
		return "Negotiating"
	case PhaseUpdating:
		return "Updating"
	case PhaseReporting:
		return "Reporting"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}
