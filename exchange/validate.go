package exchange

import (
	"fmt"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// verify re-checks the post-conditions of an exchange run.
func verify(in *types.ExchangeInput, res *types.ExchangeResult, initialAffinity int64) error {
	if err := res.Assignment.Validate(in.Tasks, in.Agents); err != nil {
		return fmt.Errorf("exchange result: %w", err)
	}
	if res.Objective < res.Bound {
		return fmt.Errorf("%w: %w: objective %d < bound %d",
			types.ErrInvariantViolation, types.ErrObjectiveBound, res.Objective, res.Bound)
	}

	affinity := res.Assignment.Affinity(in.Tasks)
	if affinity-initialAffinity != res.Stats.WelfareGain {
		return fmt.Errorf("%w: welfare gain %d does not match affinity change %d",
			types.ErrInvariantViolation, res.Stats.WelfareGain, affinity-initialAffinity)
	}
	if len(res.Swaps) > 0 && res.Stats.WelfareGain <= 0 {
		return fmt.Errorf("%w: %d swaps applied without welfare gain",
			types.ErrInvariantViolation, len(res.Swaps))
	}

	return nil
}
