package exchange

import (
	"context"
	"fmt"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Greedy applies candidate swaps in a single ordered pass.
//
// A candidate is skipped when either task was already swapped this cycle,
// when it would overload either agent given the swaps applied so far, or when
// it would drop the running profit below the acceptance bound. Rejected
// candidates are not revisited.
type Greedy struct {
	ratio  float64
	logger types.Logger
}

var _ types.Exchanger = (*Greedy)(nil)

// NewGreedy creates a single-pass exchanger.
//
// Parameters:
//   - ratio: Acceptance ratio r in (0, 1]
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *Greedy: The exchanger
//   - error: ErrInvalidConfig if ratio is out of range
//
// Example:
//
//	ex, err := exchange.NewGreedy(0.6)
//	s := strategy.NewNegotiation(ex) // "oneswap60"
func NewGreedy(ratio float64, opts ...Option) (*Greedy, error) {
	if err := validateRatio(ratio); err != nil {
		return nil, err
	}
	cfg := newSettings(opts)

	return &Greedy{ratio: ratio, logger: cfg.logger}, nil
}

// Name returns "oneswap" followed by the acceptance ratio in percent.
func (g *Greedy) Name() string {
	return fmt.Sprintf("oneswap%d", percent(g.ratio))
}

// Ratio returns the acceptance ratio.
func (g *Greedy) Ratio() float64 {
	return g.ratio
}

// Exchange runs the greedy pass over X⁰.
//
// Returns:
//   - *types.ExchangeResult: X*, its profit, the applied swaps and diagnostics
//   - error: Invariant violation of the input or the result
func (g *Greedy) Exchange(_ context.Context, in *types.ExchangeInput) (*types.ExchangeResult, error) {
	ix, err := buildIndex(in)
	if err != nil {
		return nil, fmt.Errorf("initial assignment: %w", err)
	}

	objective, initialAffinity := ix.totals()
	bound := Bound(objective, g.ratio)
	cands := ix.candidates()

	res := &types.ExchangeResult{Bound: bound}
	res.Stats.Candidates = len(cands)

	exchanged := make(map[int]struct{})
	running := objective

	for _, c := range cands {
		_, srcDone := exchanged[c.src]
		_, dstDone := exchanged[c.dst]
		if srcDone || dstDone {
			res.Stats.AlreadyExchanged++
			continue
		}

		src := &ix.rows[c.src]
		dst := &ix.rows[c.dst]
		srcOut := src.cells[src.cur].weight
		dstOut := dst.cells[dst.cur].weight
		if !ix.fits(c.sourceAgent, srcOut, dst.cells[c.dstPos].weight) ||
			!ix.fits(c.destAgent, dstOut, src.cells[c.srcPos].weight) {
			res.Stats.CapacityRejected++
			continue
		}

		if running+c.profit < bound {
			res.Stats.BoundRejected++
			continue
		}

		ix.move(c.src, c.srcPos)
		ix.move(c.dst, c.dstPos)
		running += c.profit
		exchanged[c.src] = struct{}{}
		exchanged[c.dst] = struct{}{}
		res.Swaps = append(res.Swaps, ix.swap(c))
		res.Stats.WelfareGain += c.welfare
	}

	res.Assignment = ix.assignment()
	res.Objective, _ = ix.totals()

	if err := verify(in, res, initialAffinity); err != nil {
		return nil, err
	}

	g.logger.Info("exchange finished",
		"exchanger", g.Name(),
		"objective", objective,
		"bound", bound,
		"candidates", res.Stats.Candidates,
		"swaps", len(res.Swaps),
		"already_exchanged", res.Stats.AlreadyExchanged,
		"capacity_rejected", res.Stats.CapacityRejected,
		"bound_rejected", res.Stats.BoundRejected,
		"welfare_gain", res.Stats.WelfareGain,
		"objective_change", res.Objective-objective)

	return res, nil
}
