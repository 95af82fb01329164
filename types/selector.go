package types

import (
	"context"
	"time"
)

// Selector is the external combinatorial-selection capability used by the
// solver-delegated exchange engine.
type Selector interface {
	Select(ctx context.Context, p *SelectionProblem) (*Selection, error)
}

// Move reassigns one task from one agent to another.
type Move struct {
	Task int
	From int
	To   int
	// Welfare is the affinity delta of the task at To.
	Welfare int64
	// Profit is the profit delta of the task at To.
	Profit int64
	// Release is the weight freed at From.
	Release int64
	// Consume is the weight used at To.
	Consume int64
}

// ExchangePair links two moves that must be selected together.
type ExchangePair struct {
	First  Move
	Second Move
}

// Welfare returns the combined welfare of both moves.
func (p ExchangePair) Welfare() int64 {
	return p.First.Welfare + p.Second.Welfare
}

// ProfitChange returns the combined profit delta of both moves.
func (p ExchangePair) ProfitChange() int64 {
	return p.First.Profit + p.Second.Profit
}

// SelectionProblem asks for a subset of exchange pairs maximizing welfare.
//
// Constraints:
//   - for every agent in Slack, net consumed weight of selected moves <= Slack[agent]
//     (agents missing from Slack are unlimited)
//   - total profit loss of selected moves <= ProfitBudget
//   - every task is moved at most once
type SelectionProblem struct {
	Pairs        []ExchangePair
	Slack        map[int]int64
	ProfitBudget int64
}

// Selection is the selector output.
type Selection struct {
	// Selected holds indices into SelectionProblem.Pairs, ascending.
	Selected []int
	Welfare  int64
	Duration time.Duration
	TimedOut bool
}
