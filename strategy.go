package mcap

import (
	"fmt"

	"github.com/HelgeS/mcap-rotational-diversity/exchange"
	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/optimizer"
	"github.com/HelgeS/mcap-rotational-diversity/strategy"
)

// NewStrategy builds the scoring strategy described by cfg.
//
// oneswap uses the greedy exchange engine, exchange the solver-delegated one
// backed by the branch-and-bound selector. LimitAssignments wraps the result
// with the limited-assignment policy.
//
// Parameters:
//   - cfg: Run configuration (Strategy and Solver sections are used)
//   - logger: Logger handed to the strategy, nil for none
//
// Returns:
//   - Strategy: The configured strategy
//   - error: ErrUnknownStrategy or an invalid acceptance ratio
//
// Example:
//
//	cfg := mcap.DefaultConfig()
//	cfg.Strategy.Kind = mcap.KindSwitch
//	s, _ := mcap.NewStrategy(&cfg, nil)
//	s.Name() // "switch3"
func NewStrategy(cfg *Config, logger Logger) (Strategy, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	opts := []strategy.Option{strategy.WithLogger(logger)}

	var s Strategy
	switch cfg.Strategy.Kind {
	case KindProfit:
		s = strategy.NewProfit()
	case KindAffinity:
		s = strategy.NewAffinity()
	case KindProductComb:
		s = strategy.NewProductCombination()
	case KindSwitch:
		s = strategy.NewSwitch(cfg.Strategy.Threshold, opts...)
	case KindWPP:
		s = strategy.NewWeightedPartialProfits(cfg.Strategy.IndividualWeights, opts...)
	case KindOneSwap, KindNegotiation:
		ex, err := exchange.NewGreedy(cfg.Strategy.AcceptanceRatio, exchange.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		s = strategy.NewNegotiation(ex, opts...)
	case KindExchange:
		sel := optimizer.NewBranchAndBound(
			optimizer.WithLogger(logger),
			optimizer.WithNodeLimit(cfg.Solver.NodeLimit),
		)
		ex, err := exchange.NewSolver(cfg.Strategy.AcceptanceRatio, sel,
			exchange.WithLogger(logger),
			exchange.WithTimeout(cfg.Solver.ExchangeTimeout),
		)
		if err != nil {
			return nil, err
		}
		s = strategy.NewNegotiation(ex, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy.Kind)
	}

	if cfg.Strategy.LimitAssignments {
		s = strategy.NewLimitedAssignment(s, opts...)
	}

	return s, nil
}
