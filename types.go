package mcap

import "github.com/HelgeS/mcap-rotational-diversity/types"

// Re-export types from the types package.
//
// Internal packages depend on types instead of the root package, which keeps
// the import graph acyclic while users can still write mcap.Task, mcap.Logger.
type (
	Task           = types.Task
	Agent          = types.Agent
	AgentSet       = types.AgentSet
	Assignment     = types.Assignment
	CycleRecord    = types.CycleRecord
	Swap           = types.Swap
	ExchangeInput  = types.ExchangeInput
	ExchangeResult = types.ExchangeResult
	ExchangeStats  = types.ExchangeStats
	Problem        = types.Problem
	Solution       = types.Solution
	Phase          = types.Phase
)

// Re-export interfaces from the types package for convenience.
type (
	Strategy         = types.Strategy
	Exchanger        = types.Exchanger
	Optimizer        = types.Optimizer
	Selector         = types.Selector
	Schedule         = types.Schedule
	RecordSink       = types.RecordSink
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export Phase constants from the types package.
const (
	PhaseIdle        = types.PhaseIdle
	PhaseScoring     = types.PhaseScoring
	PhaseOptimizing  = types.PhaseOptimizing
	PhaseNegotiating = types.PhaseNegotiating
	PhaseUpdating    = types.PhaseUpdating
	PhaseReporting   = types.PhaseReporting
	PhaseDone        = types.PhaseDone
)
