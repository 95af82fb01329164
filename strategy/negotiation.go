package strategy

import (
	"context"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Negotiation scores by profit and refines the optimizer's assignment with an
// exchanger that trades bounded profit for affinity.
type Negotiation struct {
	exchanger types.Exchanger
	logger    types.Logger
}

var _ types.Strategy = (*Negotiation)(nil)

// NewNegotiation creates a negotiating strategy.
//
// Parameters:
//   - exchanger: Exchange engine (greedy or solver-delegated)
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *Negotiation: The strategy
//
// Example:
//
//	ex, _ := exchange.NewGreedy(0.6)
//	s := strategy.NewNegotiation(ex)
//	s.Name() // "oneswap60"
func NewNegotiation(exchanger types.Exchanger, opts ...Option) *Negotiation {
	cfg := newSettings(opts)

	return &Negotiation{exchanger: exchanger, logger: cfg.logger}
}

// Name returns the exchanger's name.
func (s *Negotiation) Name() string {
	return s.exchanger.Name()
}

// Mode returns an empty string.
func (s *Negotiation) Mode() string {
	return ""
}

// Profits returns each task's raw profit vector.
func (s *Negotiation) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	return profitVectors(tasks, agents), nil
}

// Exchange runs the exchanger on the optimizer's assignment.
func (s *Negotiation) Exchange(ctx context.Context, in *types.ExchangeInput) (*types.ExchangeResult, error) {
	res, err := s.exchanger.Exchange(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("negotiation finished",
		"strategy", s.Name(),
		"swaps", len(res.Swaps),
		"objective", res.Objective,
		"bound", res.Bound)

	return res, nil
}

// Negotiates reports whether s runs an exchange engine, looking through
// LimitedAssignment decorators.
func Negotiates(s types.Strategy) bool {
	for {
		switch v := s.(type) {
		case *Negotiation:
			return true
		case *LimitedAssignment:
			s = v.Inner()
		default:
			return false
		}
	}
}
