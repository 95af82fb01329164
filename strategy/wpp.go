package strategy

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/HelgeS/mcap-rotational-diversity/fairness"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// scoreScale maps a blended score in (0, 1] to the integer range handed to the optimizer.
const scoreScale = 1000

// WeightedPartialProfits blends normalized profit and affinity:
//
//	score = round((w·profit/profit_max + (1−w)·affinity/affinity_max) · 1000)
//
// The blend weight w is the ratio of the ideal to the actual affinity sum,
// capped at 1. With shared weights one w covers every task of the cycle;
// with individual weights each task gets its own.
type WeightedPartialProfits struct {
	Passthrough

	individual bool
	weights    []float64
	logger     types.Logger
}

var _ types.Strategy = (*WeightedPartialProfits)(nil)

// NewWeightedPartialProfits creates a blended strategy.
//
// Parameters:
//   - individual: true for one blend weight per task, false for one shared weight
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *WeightedPartialProfits: The strategy
func NewWeightedPartialProfits(individual bool, opts ...Option) *WeightedPartialProfits {
	cfg := newSettings(opts)

	return &WeightedPartialProfits{individual: individual, logger: cfg.logger}
}

// Name returns "wppind" or "wppshared".
func (s *WeightedPartialProfits) Name() string {
	if s.individual {
		return "wppind"
	}

	return "wppshared"
}

// Mode returns the mean blend weight of the last Profits call with three decimals.
func (s *WeightedPartialProfits) Mode() string {
	if len(s.weights) == 0 {
		return ""
	}

	var sum float64
	for _, w := range s.weights {
		sum += w
	}
	mean := math.Round(sum/float64(len(s.weights))*1000) / 1000

	return strconv.FormatFloat(mean, 'f', -1, 64)
}

// Weights returns the blend weights of the last Profits call.
func (s *WeightedPartialProfits) Weights() []float64 {
	return slices.Clone(s.weights)
}

// Profits returns blended integer scores.
//
// Returns:
//   - [][]int64: Scores aligned to the available compatible agents
//   - error: ErrInvalidScore if a weight leaves [0, 1] or a score is not strictly positive
func (s *WeightedPartialProfits) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	filter := types.AgentSetOf(agents)
	profits := profitVectors(tasks, agents)
	affinities := affinityVectors(tasks, agents)

	profitMax := maxOf(profits)
	affinityMax := maxOf(affinities)

	s.weights = s.weights[:0]
	shared := 0.0
	if !s.individual {
		var ideal, actual int64
		for _, t := range tasks {
			ideal += fairness.IdealAffinitySum(len(t.CompatibleIn(filter)))
			actual += fairness.AffinitySum(t, filter)
		}
		shared = blendWeight(ideal, actual)
		s.weights = append(s.weights, shared)
	}

	out := make([][]int64, len(tasks))
	for i, t := range tasks {
		w := shared
		if s.individual {
			w = blendWeight(fairness.IdealAffinitySum(len(profits[i])), fairness.AffinitySum(t, filter))
			s.weights = append(s.weights, w)
		}
		if w < 0 || w > 1 || math.IsNaN(w) {
			return nil, fmt.Errorf("%w: task %d blend weight %v", types.ErrInvalidScore, t.ID(), w)
		}

		scores := make([]int64, len(profits[i]))
		for j := range scores {
			v := w*ratio(profits[i][j], profitMax) + (1-w)*ratio(affinities[i][j], affinityMax)
			scores[j] = int64(math.Round(v * scoreScale))
			if scores[j] <= 0 {
				return nil, fmt.Errorf("%w: task %d score %d", types.ErrInvalidScore, t.ID(), scores[j])
			}
		}
		out[i] = scores
	}

	s.logger.Debug("blended scores computed", "strategy", s.Name(), "mode", s.Mode())

	return out, nil
}

func blendWeight(ideal, actual int64) float64 {
	if actual <= 0 {
		return 1
	}

	return math.Min(float64(ideal)/float64(actual), 1)
}

func ratio(v, upper int64) float64 {
	if upper <= 0 {
		return 0
	}

	return float64(v) / float64(upper)
}

func maxOf(vectors [][]int64) int64 {
	var m int64
	for _, v := range vectors {
		for _, x := range v {
			if x > m {
				m = x
			}
		}
	}

	return m
}
