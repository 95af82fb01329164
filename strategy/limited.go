package strategy

import (
	"context"
	"fmt"
	"math"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// LimitedAssignment decorates another strategy. Before scoring it permanently
// restricts, for every task that was assigned before, the available agents
// whose affinity counter is below the floored mean counter. The agent with
// the largest counter is never removed.
type LimitedAssignment struct {
	inner  types.Strategy
	logger types.Logger
}

var _ types.Strategy = (*LimitedAssignment)(nil)

// NewLimitedAssignment wraps inner with the limited-assignment policy.
//
// Parameters:
//   - inner: Strategy used for scoring after restriction
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *LimitedAssignment: The decorated strategy
//
// Example:
//
//	s := strategy.NewLimitedAssignment(strategy.NewProfit())
//	s.Name() // "profit-limit"
func NewLimitedAssignment(inner types.Strategy, opts ...Option) *LimitedAssignment {
	cfg := newSettings(opts)

	return &LimitedAssignment{inner: inner, logger: cfg.logger}
}

// Name returns the inner name with a "-limit" suffix.
func (s *LimitedAssignment) Name() string {
	return s.inner.Name() + "-limit"
}

// Mode returns the inner strategy's mode.
func (s *LimitedAssignment) Mode() string {
	return s.inner.Mode()
}

// Inner returns the decorated strategy.
func (s *LimitedAssignment) Inner() types.Strategy {
	return s.inner
}

// Profits restricts recently used agents and delegates to the inner strategy.
func (s *LimitedAssignment) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	filter := types.AgentSetOf(agents)

	for _, t := range tasks {
		if t.NumAgents() <= 1 || t.AssignmentCount() == 0 {
			continue
		}

		ids := t.CompatibleIn(filter)
		if len(ids) < 2 {
			continue
		}

		affs := t.AffinityVector(filter)
		var sum int64
		for _, a := range affs {
			sum += a
		}
		mean := int64(math.Floor(float64(sum) / float64(len(affs))))

		for i, agent := range ids {
			if affs[i] >= mean {
				continue
			}
			if err := t.Restrict(agent); err != nil {
				return nil, fmt.Errorf("limit task %d: %w", t.ID(), err)
			}
			s.logger.Debug("restricted agent", "task", t.ID(), "agent", agent, "affinity", affs[i], "mean", mean)
		}
	}

	return s.inner.Profits(tasks, agents)
}

// Exchange delegates to the inner strategy.
func (s *LimitedAssignment) Exchange(ctx context.Context, in *types.ExchangeInput) (*types.ExchangeResult, error) {
	return s.inner.Exchange(ctx, in)
}
