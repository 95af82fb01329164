package mcap

import "github.com/HelgeS/mcap-rotational-diversity/types"

// Sentinel errors returned by the Simulator and configuration helpers.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrUnknownStrategy is returned for an unknown strategy kind.
	ErrUnknownStrategy = types.ErrUnknownStrategy

	// ErrScheduleRequired is returned when the schedule is nil.
	ErrScheduleRequired = types.ErrScheduleRequired

	// ErrStrategyRequired is returned when the strategy is nil.
	ErrStrategyRequired = types.ErrStrategyRequired

	// ErrScheduleExhausted is returned by Step after the last cycle.
	ErrScheduleExhausted = types.ErrScheduleExhausted

	// ErrUnreachableTask is returned when an available task has no available compatible agent.
	ErrUnreachableTask = types.ErrUnreachableTask

	// ErrInvariantViolation is returned when an assignment breaks capacity,
	// uniqueness or compatibility. The run cannot continue.
	ErrInvariantViolation = types.ErrInvariantViolation

	// ErrOptimizerFailed is returned when the optimizer produced no assignment.
	ErrOptimizerFailed = types.ErrOptimizerFailed

	// ErrMalformedInstance is returned when an instance description cannot be parsed.
	ErrMalformedInstance = types.ErrMalformedInstance
)
