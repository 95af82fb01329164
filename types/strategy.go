package types

import "context"

// Strategy produces the per-task score vectors handed to the optimizer and
// optionally refines the optimizer's assignment through negotiation.
//
// Score vectors are aligned to Task.CompatibleIn(AgentSetOf(agents)).
// Implementations are used from a single goroutine.
type Strategy interface {
	// Name returns the run identifier of the strategy (e.g. "profit", "switch3").
	Name() string

	// Mode returns the branch or blend taken by the most recent Profits call.
	Mode() string

	// Profits computes one score vector per task.
	//
	// Parameters:
	//   - tasks: Tasks available this cycle
	//   - agents: Agents available this cycle
	//
	// Returns:
	//   - [][]int64: Score vectors, one per task, in task order
	//   - error: Scoring error (e.g. ErrInvalidScore)
	Profits(tasks []*Task, agents []Agent) ([][]int64, error)

	// Exchange refines the optimizer's assignment. Non-negotiating strategies
	// return the input assignment unchanged.
	Exchange(ctx context.Context, in *ExchangeInput) (*ExchangeResult, error)
}

// Exchanger searches for welfare-improving task swaps in a feasible assignment.
type Exchanger interface {
	// Name returns the exchanger identifier including its acceptance ratio.
	Name() string

	// Exchange returns a refined assignment satisfying the same invariants
	// as the input and keeping the profit above the acceptance bound.
	Exchange(ctx context.Context, in *ExchangeInput) (*ExchangeResult, error)
}

// ExchangeInput is the optimizer output handed to the exchange engine.
type ExchangeInput struct {
	// Tasks available this cycle.
	Tasks []*Task
	// Agents available this cycle.
	Agents []Agent
	// Assignment is the optimizer's feasible assignment X⁰.
	Assignment Assignment
	// Objective is the optimizer's objective value.
	Objective int64
}

// Swap is one applied two-task exchange: SourceTask moves from SourceAgent to
// DestAgent and DestTask moves from DestAgent to SourceAgent. Agent Unassigned
// stands for the virtual unassigned agent.
type Swap struct {
	SourceAgent  int   `json:"sourceAgent"`
	SourceTask   int   `json:"sourceTask"`
	DestAgent    int   `json:"destAgent"`
	DestTask     int   `json:"destTask"`
	Welfare      int64 `json:"welfare"`
	ProfitChange int64 `json:"profitChange"`
}

// ExchangeStats summarises one exchange run.
type ExchangeStats struct {
	Candidates       int   `json:"candidates"`
	AlreadyExchanged int   `json:"alreadyExchanged"`
	CapacityRejected int   `json:"capacityRejected"`
	BoundRejected    int   `json:"boundRejected"`
	WelfareGain      int64 `json:"welfareGain"`
	TimedOut         bool  `json:"timedOut"`
}

// ExchangeResult is the refined assignment X* with its profit objective O*.
type ExchangeResult struct {
	Assignment Assignment
	Objective  int64
	// Bound is ⌊O⁰·r⌋, zero for non-negotiating strategies.
	Bound int64
	Swaps []Swap
	Stats ExchangeStats
}
