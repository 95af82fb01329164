package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Solver delegates the choice of swaps to a types.Selector.
//
// Every candidate becomes a pair of linked moves. The selector receives the
// per-agent slack under X⁰ and the profit budget O⁰ − ⌊O⁰·r⌋ and returns the
// subset maximizing welfare. The engine only applies that subset.
type Solver struct {
	ratio    float64
	selector types.Selector
	timeout  time.Duration
	logger   types.Logger
}

var _ types.Exchanger = (*Solver)(nil)

// NewSolver creates a solver-delegated exchanger.
//
// Parameters:
//   - ratio: Acceptance ratio r in (0, 1]
//   - selector: Selection capability
//   - opts: Optional configuration (WithLogger, WithTimeout)
//
// Returns:
//   - *Solver: The exchanger
//   - error: ErrInvalidConfig for an invalid ratio or a nil selector
func NewSolver(ratio float64, selector types.Selector, opts ...Option) (*Solver, error) {
	if err := validateRatio(ratio); err != nil {
		return nil, err
	}
	if selector == nil {
		return nil, fmt.Errorf("%w: selector is required", types.ErrInvalidConfig)
	}
	cfg := newSettings(opts)

	return &Solver{ratio: ratio, selector: selector, timeout: cfg.timeout, logger: cfg.logger}, nil
}

// Name returns "exchange" followed by the acceptance ratio in percent.
func (s *Solver) Name() string {
	return fmt.Sprintf("exchange%d", percent(s.ratio))
}

// Ratio returns the acceptance ratio.
func (s *Solver) Ratio() float64 {
	return s.ratio
}

// Exchange builds the selection model for X⁰ and applies the selected swaps.
//
// Returns:
//   - *types.ExchangeResult: X*, its profit and the applied swaps
//   - error: ErrSelectionFailed if the selector fails, or an invariant violation
func (s *Solver) Exchange(ctx context.Context, in *types.ExchangeInput) (*types.ExchangeResult, error) {
	ix, err := buildIndex(in)
	if err != nil {
		return nil, fmt.Errorf("initial assignment: %w", err)
	}

	objective, initialAffinity := ix.totals()
	bound := Bound(objective, s.ratio)
	cands := ix.candidates()

	res := &types.ExchangeResult{Bound: bound}
	res.Stats.Candidates = len(cands)

	if len(cands) > 0 {
		problem := ix.selectionProblem(cands, objective-bound)

		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		sel, err := s.selector.Select(ctx, problem)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrSelectionFailed, err)
		}
		res.Stats.TimedOut = sel.TimedOut
		if sel.TimedOut {
			s.logger.Warn("selection timed out, applying best known selection",
				"exchanger", s.Name(), "duration", sel.Duration, "selected", len(sel.Selected))
		}

		if err := s.apply(ix, cands, sel, res); err != nil {
			return nil, err
		}
	}

	res.Assignment = ix.assignment()
	res.Objective, _ = ix.totals()

	if err := verify(in, res, initialAffinity); err != nil {
		return nil, err
	}

	s.logger.Info("exchange finished",
		"exchanger", s.Name(),
		"objective", objective,
		"bound", bound,
		"candidates", res.Stats.Candidates,
		"swaps", len(res.Swaps),
		"welfare_gain", res.Stats.WelfareGain,
		"objective_change", res.Objective-objective)

	return res, nil
}

func (ix *index) selectionProblem(cands []candidate, budget int64) *types.SelectionProblem {
	pairs := make([]types.ExchangePair, len(cands))
	for i, c := range cands {
		src := &ix.rows[c.src]
		dst := &ix.rows[c.dst]
		pairs[i] = types.ExchangePair{
			First: types.Move{
				Task:    src.task,
				From:    c.sourceAgent,
				To:      c.destAgent,
				Welfare: src.affinityDelta(c.srcPos),
				Profit:  src.profitDelta(c.srcPos),
				Release: src.cells[src.cur].weight,
				Consume: src.cells[c.srcPos].weight,
			},
			Second: types.Move{
				Task:    dst.task,
				From:    c.destAgent,
				To:      c.sourceAgent,
				Welfare: dst.affinityDelta(c.dstPos),
				Profit:  dst.profitDelta(c.dstPos),
				Release: dst.cells[dst.cur].weight,
				Consume: dst.cells[c.dstPos].weight,
			},
		}
	}

	slack := make(map[int]int64, len(ix.agents))
	for _, a := range ix.agents {
		slack[a] = ix.capacity[a] - ix.load[a]
	}

	return &types.SelectionProblem{Pairs: pairs, Slack: slack, ProfitBudget: budget}
}

func (s *Solver) apply(ix *index, cands []candidate, sel *types.Selection, res *types.ExchangeResult) error {
	moved := make(map[int]struct{})
	for _, i := range sel.Selected {
		if i < 0 || i >= len(cands) {
			return fmt.Errorf("%w: selected pair %d out of range", types.ErrInvariantViolation, i)
		}
		c := cands[i]

		for _, r := range []int{c.src, c.dst} {
			if _, dup := moved[r]; dup {
				return fmt.Errorf("%w: %w: task %d selected twice",
					types.ErrInvariantViolation, types.ErrDuplicateAssignment, ix.rows[r].task)
			}
			moved[r] = struct{}{}
		}

		ix.move(c.src, c.srcPos)
		ix.move(c.dst, c.dstPos)
		res.Swaps = append(res.Swaps, ix.swap(c))
		res.Stats.WelfareGain += c.welfare
	}

	return nil
}
