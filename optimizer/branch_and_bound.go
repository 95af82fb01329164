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

// BranchAndBound selects exchange pairs maximizing welfare under the
// per-agent slack and the profit budget.
type BranchAndBound struct {
	nodeLimit int
	logger    types.Logger
}

var _ types.Selector = (*BranchAndBound)(nil)

// NewBranchAndBound creates the native selector.
//
// Parameters:
//   - opts: Optional configuration (WithLogger, WithNodeLimit)
//
// Returns:
//   - *BranchAndBound: The selector
//
// Example:
//
//	ex, err := exchange.NewSolver(0.8, optimizer.NewBranchAndBound(optimizer.WithNodeLimit(50_000)))
func NewBranchAndBound(opts ...Option) *BranchAndBound {
	cfg := newSettings(opts)
	return &BranchAndBound{nodeLimit: cfg.nodeLimit, logger: cfg.logger}
}

// option is one exchange pair prepared for the search.
type option struct {
	index   int
	tasks   [2]int
	welfare int64
	profit  int64
	delta   map[int]int64
}

type search struct {
	opts     []option
	slack    map[int]int64
	budget   int64
	limit    int
	ctx      context.Context
	suffix   []int64
	gainLeft []int64
	relief   []map[int]int64

	nodes   int
	stopped bool

	used     map[int]int64
	loss     int64
	moved    map[int]struct{}
	picked   []int
	best     []int
	bestGain int64
}

// Select runs the depth-first search.
//
// Returns:
//   - *types.Selection: Best selection found; TimedOut is set when the
//     deadline or the node limit ended the search early
//   - error: ErrSelectionFailed on cancellation or malformed input
func (b *BranchAndBound) Select(ctx context.Context, p *types.SelectionProblem) (*types.Selection, error) {
	start := time.Now()

	opts := make([]option, len(p.Pairs))
	for i, pr := range p.Pairs {
		if pr.First.Task == pr.Second.Task {
			return nil, fmt.Errorf("%w: pair %d moves task %d twice", types.ErrSelectionFailed, i, pr.First.Task)
		}
		delta := make(map[int]int64)
		for _, m := range []types.Move{pr.First, pr.Second} {
			if _, ok := p.Slack[m.From]; ok {
				delta[m.From] -= m.Release
			}
			if _, ok := p.Slack[m.To]; ok {
				delta[m.To] += m.Consume
			}
		}
		opts[i] = option{
			index:   i,
			tasks:   [2]int{pr.First.Task, pr.Second.Task},
			welfare: pr.Welfare(),
			profit:  pr.ProfitChange(),
			delta:   delta,
		}
	}
	slices.SortStableFunc(opts, func(a, c option) int {
		return cmp.Compare(c.welfare, a.welfare)
	})

	s := &search{
		opts:   opts,
		slack:  p.Slack,
		budget: p.ProfitBudget,
		limit:  b.nodeLimit,
		ctx:    ctx,
		used:   make(map[int]int64),
		moved:  make(map[int]struct{}),
	}
	s.prepare()
	s.walk(0, 0)

	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", types.ErrSelectionFailed, err)
	}

	selected := make([]int, len(s.best))
	for i, k := range s.best {
		selected[i] = s.opts[k].index
	}
	slices.Sort(selected)

	sel := &types.Selection{
		Selected: selected,
		Welfare:  s.bestGain,
		Duration: time.Since(start),
		TimedOut: s.stopped,
	}

	b.logger.Debug("selection finished",
		"pairs", len(p.Pairs),
		"selected", len(selected),
		"welfare", sel.Welfare,
		"nodes", s.nodes,
		"stopped", s.stopped,
		"duration", sel.Duration)

	return sel, nil
}

// prepare computes the suffix bounds used for pruning: the welfare still
// obtainable, the profit that could still be recovered, and per agent the
// weight that could still be released from position i onwards.
func (s *search) prepare() {
	n := len(s.opts)
	s.suffix = make([]int64, n+1)
	s.gainLeft = make([]int64, n+1)
	s.relief = make([]map[int]int64, n+1)
	s.relief[n] = map[int]int64{}

	for i := n - 1; i >= 0; i-- {
		o := s.opts[i]
		s.suffix[i] = s.suffix[i+1] + max(o.welfare, 0)
		s.gainLeft[i] = s.gainLeft[i+1] + max(o.profit, 0)

		r := make(map[int]int64, len(s.relief[i+1]))
		for a, v := range s.relief[i+1] {
			r[a] = v
		}
		for a, d := range o.delta {
			if d < 0 {
				r[a] += d
			}
		}
		s.relief[i] = r
	}
}

func (s *search) hopeless(i int) bool {
	if s.loss-s.gainLeft[i] > s.budget {
		return true
	}
	for a, net := range s.used {
		if net+s.relief[i][a] > s.slack[a] {
			return true
		}
	}

	return false
}

func (s *search) feasible() bool {
	if s.loss > s.budget {
		return false
	}
	for a, net := range s.used {
		if net > s.slack[a] {
			return false
		}
	}

	return true
}

func (s *search) walk(i int, gain int64) {
	if s.stopped {
		return
	}
	s.nodes++
	if s.nodes > s.limit || s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	if s.hopeless(i) {
		return
	}

	if i == len(s.opts) {
		if gain > s.bestGain && s.feasible() {
			s.bestGain = gain
			s.best = slices.Clone(s.picked)
		}
		return
	}
	if gain+s.suffix[i] <= s.bestGain {
		return
	}

	o := s.opts[i]
	_, busy0 := s.moved[o.tasks[0]]
	_, busy1 := s.moved[o.tasks[1]]
	if !busy0 && !busy1 {
		s.include(o, i)
		s.walk(i+1, gain+o.welfare)
		s.exclude(o)
	}

	s.walk(i+1, gain)
}

func (s *search) include(o option, i int) {
	for a, d := range o.delta {
		s.used[a] += d
	}
	s.loss -= o.profit
	s.moved[o.tasks[0]] = struct{}{}
	s.moved[o.tasks[1]] = struct{}{}
	s.picked = append(s.picked, i)
}

func (s *search) exclude(o option) {
	for a, d := range o.delta {
		s.used[a] -= d
	}
	s.loss += o.profit
	delete(s.moved, o.tasks[0])
	delete(s.moved, o.tasks[1])
	s.picked = s.picked[:len(s.picked)-1]
}
