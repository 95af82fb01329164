package types

import (
	"context"
	"fmt"
	"time"
)

// Optimizer is the external capability that produces the initial feasible
// assignment of a cycle.
//
// Implementations must only use compatible pairs listed in the problem and
// must respect every agent capacity. On deadline expiry they return their
// best-known solution with TimedOut set rather than an error.
type Optimizer interface {
	Optimize(ctx context.Context, p *Problem) (*Solution, error)
}

// Item is one task row of an optimization problem. Agents, Weights and Scores
// are aligned.
type Item struct {
	Task    int
	Agents  []int
	Weights []int64
	Scores  []int64
}

// Problem is a generalized assignment problem over the cycle's available
// tasks and agents.
type Problem struct {
	Items  []Item
	Agents []Agent
}

// Solution is the optimizer output.
type Solution struct {
	Assignment Assignment
	Objective  int64
	Duration   time.Duration
	TimedOut   bool
}

// NewProblem builds a problem from tasks, agents and score vectors aligned to
// Task.CompatibleIn(AgentSetOf(agents)).
//
// Parameters:
//   - tasks: Tasks available this cycle
//   - agents: Agents available this cycle
//   - scores: One score vector per task
//
// Returns:
//   - *Problem: The problem
//   - error: ErrInvalidScore if a score vector is misaligned
func NewProblem(tasks []*Task, agents []Agent, scores [][]int64) (*Problem, error) {
	if len(scores) != len(tasks) {
		return nil, fmt.Errorf("%w: %d score vectors for %d tasks", ErrInvalidScore, len(scores), len(tasks))
	}

	filter := AgentSetOf(agents)
	items := make([]Item, len(tasks))
	for i, t := range tasks {
		ids := t.CompatibleIn(filter)
		if len(scores[i]) != len(ids) {
			return nil, fmt.Errorf("%w: task %d has %d scores for %d agents",
				ErrInvalidScore, t.ID(), len(scores[i]), len(ids))
		}
		items[i] = Item{
			Task:    t.ID(),
			Agents:  ids,
			Weights: t.WeightVector(filter),
			Scores:  append([]int64(nil), scores[i]...),
		}
	}

	return &Problem{Items: items, Agents: append([]Agent(nil), agents...)}, nil
}
