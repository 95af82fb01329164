package types

import (
	"errors"
)

// Sentinel errors for the mcap library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// Components wrap them with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Entity model, Strategy, Exchange, Simulator, etc.)

// Entity model errors - returned by Task, Agent and Assignment operations.
var (
	// ErrInvalidTask is returned when a task definition is inconsistent
	// (mismatched vector lengths, duplicate or non-positive agent ids).
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidAgent is returned when an agent has a non-positive id or capacity.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrUnknownTask is returned when a task id is not part of the instance.
	ErrUnknownTask = errors.New("unknown task")

	// ErrUnknownAgent is returned when an agent id is not part of the instance.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrIncompatibleAgent is returned when an agent is not in a task's compatible set.
	ErrIncompatibleAgent = errors.New("agent is not compatible with task")

	// ErrLastCompatibleAgent is returned when restricting would leave a task
	// without any compatible agent.
	ErrLastCompatibleAgent = errors.New("cannot restrict last compatible agent")
)

// Invariant errors - fatal internal logic errors. Every violation wraps
// ErrInvariantViolation together with the specific cause.
var (
	// ErrInvariantViolation marks a broken assignment invariant. It is never recoverable.
	ErrInvariantViolation = errors.New("assignment invariant violated")

	// ErrCapacityExceeded is returned when an agent's assigned weight exceeds its capacity.
	ErrCapacityExceeded = errors.New("agent capacity exceeded")

	// ErrDuplicateAssignment is returned when a task appears under more than one agent.
	ErrDuplicateAssignment = errors.New("task assigned to more than one agent")

	// ErrObjectiveBound is returned when an exchange drops the objective below the acceptance bound.
	ErrObjectiveBound = errors.New("objective below acceptance bound")
)

// Fairness and strategy errors.
var (
	// ErrNoCompatibleAgents is returned when a fairness reducer receives a task
	// without any compatible agent in the filter.
	ErrNoCompatibleAgents = errors.New("task has no compatible agents in filter")

	// ErrInvalidScore is returned when a blended score is not strictly positive
	// or a blend weight falls outside [0, 1].
	ErrInvalidScore = errors.New("invalid score")

	// ErrUnknownStrategy is returned when a strategy kind cannot be resolved.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Optimizer and selector errors.
var (
	// ErrOptimizerFailed is returned when the optimizer capability cannot produce an assignment.
	ErrOptimizerFailed = errors.New("optimizer failed")

	// ErrSelectionFailed is returned when the selection capability cannot produce a selection.
	ErrSelectionFailed = errors.New("selection failed")
)

// Simulator errors.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrScheduleRequired is returned when the simulator has no availability schedule.
	ErrScheduleRequired = errors.New("availability schedule is required")

	// ErrStrategyRequired is returned when the simulator has no scoring strategy.
	ErrStrategyRequired = errors.New("scoring strategy is required")

	// ErrScheduleExhausted is returned by Step once every cycle has been simulated.
	ErrScheduleExhausted = errors.New("availability schedule exhausted")

	// ErrInvalidSchedule is returned when availability lists reference unknown
	// ids or task and agent availability disagree in length.
	ErrInvalidSchedule = errors.New("invalid availability schedule")

	// ErrUnreachableTask is returned when an available task has no available compatible agent.
	ErrUnreachableTask = errors.New("task has no available compatible agent")
)

// Instance errors.
var (
	// ErrMalformedInstance is returned when an instance description cannot be parsed.
	ErrMalformedInstance = errors.New("malformed instance")
)
