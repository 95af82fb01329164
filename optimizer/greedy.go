package optimizer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Greedy assigns (task, agent) pairs in order of score density.
type Greedy struct {
	logger types.Logger
}

var _ types.Optimizer = (*Greedy)(nil)

// NewGreedy creates the native optimizer.
//
// Parameters:
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *Greedy: The optimizer
func NewGreedy(opts ...Option) *Greedy {
	cfg := newSettings(opts)
	return &Greedy{logger: cfg.logger}
}

type pair struct {
	item   int
	task   int
	agent  int
	weight int64
	score  int64
}

// denser orders by score/weight descending without floating point.
func denser(a, b pair) int {
	switch {
	case a.weight == 0 && b.weight == 0:
		return cmp.Compare(b.score, a.score)
	case a.weight == 0:
		return -1
	case b.weight == 0:
		return 1
	}

	return cmp.Compare(b.score*a.weight, a.score*b.weight)
}

// Optimize builds a feasible assignment maximizing the score sum greedily.
//
// Pairs with a positive score are taken in order of density (score/weight),
// then score, task and agent, whenever the task is still free and the agent
// has room. A second pass moves each assigned task to a better-scoring agent
// with room. A deadline on ctx ends the search early and returns the
// assignment built so far with TimedOut set.
//
// Returns:
//   - *types.Solution: Feasible assignment and its score objective
//   - error: ErrOptimizerFailed for malformed problems or cancellation
func (g *Greedy) Optimize(ctx context.Context, p *types.Problem) (*types.Solution, error) {
	start := time.Now()

	capacity := make(map[int]int64, len(p.Agents))
	for _, a := range p.Agents {
		capacity[a.ID] = a.Capacity
	}

	var pairs []pair
	for i, it := range p.Items {
		if len(it.Agents) != len(it.Weights) || len(it.Agents) != len(it.Scores) {
			return nil, fmt.Errorf("%w: task %d has misaligned vectors", types.ErrOptimizerFailed, it.Task)
		}
		for j, a := range it.Agents {
			if _, ok := capacity[a]; !ok {
				return nil, fmt.Errorf("%w: task %d lists unavailable agent %d", types.ErrOptimizerFailed, it.Task, a)
			}
			if it.Weights[j] < 0 {
				return nil, fmt.Errorf("%w: task %d has negative weight", types.ErrOptimizerFailed, it.Task)
			}
			if it.Scores[j] > 0 {
				pairs = append(pairs, pair{item: i, task: it.Task, agent: a, weight: it.Weights[j], score: it.Scores[j]})
			}
		}
	}

	slices.SortFunc(pairs, func(a, b pair) int {
		return cmp.Or(denser(a, b), cmp.Compare(b.score, a.score), cmp.Compare(a.task, b.task), cmp.Compare(a.agent, b.agent))
	})

	load := make(map[int]int64, len(capacity))
	chosen := make(map[int]pair, len(p.Items))
	timedOut := false

	for _, pr := range pairs {
		if err := ctx.Err(); err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", types.ErrOptimizerFailed, err)
			}
			timedOut = true
			break
		}
		if _, done := chosen[pr.item]; done {
			continue
		}
		if load[pr.agent]+pr.weight > capacity[pr.agent] {
			continue
		}
		load[pr.agent] += pr.weight
		chosen[pr.item] = pr
	}

	if !timedOut {
		g.improve(pairs, chosen, load, capacity)
	}

	sol := &types.Solution{Assignment: make(types.Assignment), TimedOut: timedOut}
	for _, pr := range chosen {
		sol.Assignment[pr.agent] = append(sol.Assignment[pr.agent], pr.task)
		sol.Objective += pr.score
	}
	sol.Assignment = sol.Assignment.Normalize()
	sol.Duration = time.Since(start)

	g.logger.Debug("greedy optimization finished",
		"items", len(p.Items),
		"assigned", len(chosen),
		"objective", sol.Objective,
		"timed_out", timedOut,
		"duration", sol.Duration)

	return sol, nil
}

// improve moves assigned tasks to a higher-scoring agent with room.
func (g *Greedy) improve(pairs []pair, chosen map[int]pair, load, capacity map[int]int64) {
	for _, pr := range pairs {
		cur, ok := chosen[pr.item]
		if !ok || cur.agent == pr.agent || pr.score <= cur.score {
			continue
		}
		if load[pr.agent]+pr.weight > capacity[pr.agent] {
			continue
		}
		load[cur.agent] -= cur.weight
		load[pr.agent] += pr.weight
		chosen[pr.item] = pr
	}
}
