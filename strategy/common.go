package strategy

import (
	"context"

	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Option configures a strategy.
type Option func(*settings)

type settings struct {
	logger types.Logger
}

func newSettings(opts []Option) settings {
	s := settings{logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	return s
}

// WithLogger sets the logger used for scoring diagnostics.
func WithLogger(logger types.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Passthrough implements the exchange step of non-negotiating strategies by
// returning the optimizer's assignment unchanged.
type Passthrough struct{}

// Exchange returns a copy of the input assignment and objective.
func (Passthrough) Exchange(_ context.Context, in *types.ExchangeInput) (*types.ExchangeResult, error) {
	return &types.ExchangeResult{
		Assignment: in.Assignment.Clone(),
		Objective:  in.Objective,
	}, nil
}

// vectors builds one vector per task aligned to the available compatible agents.
func vectors(tasks []*types.Task, agents []types.Agent, pick func(*types.Task, types.AgentSet) []int64) [][]int64 {
	filter := types.AgentSetOf(agents)
	out := make([][]int64, len(tasks))
	for i, t := range tasks {
		out[i] = pick(t, filter)
	}

	return out
}

func profitVectors(tasks []*types.Task, agents []types.Agent) [][]int64 {
	return vectors(tasks, agents, (*types.Task).ProfitVector)
}

func affinityVectors(tasks []*types.Task, agents []types.Agent) [][]int64 {
	return vectors(tasks, agents, (*types.Task).AffinityVector)
}
