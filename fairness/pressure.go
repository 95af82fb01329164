package fairness

import (
	"fmt"
	"math"
	"slices"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// AffinitySum returns the sum of the filtered affinity counters.
func AffinitySum(t *types.Task, filter types.AgentSet) int64 {
	var sum int64
	for _, a := range t.AffinityVector(filter) {
		sum += a
	}

	return sum
}

// IdealAffinitySum returns the counter sum of a perfect rotation over c agents.
func IdealAffinitySum(c int) int64 {
	n := int64(c)
	return n * (n + 1) / 2
}

// RelativeAffinities returns every filtered counter divided by the number of
// filtered agents. A task without filtered agents yields an empty slice.
func RelativeAffinities(t *types.Task, filter types.AgentSet) []float64 {
	affs := t.AffinityVector(filter)
	out := make([]float64, len(affs))
	for i, a := range affs {
		out[i] = float64(a) / float64(len(affs))
	}

	return out
}

// MaxRelativeAffinity returns the largest relative affinity of the task.
func MaxRelativeAffinity(t *types.Task, filter types.AgentSet) (float64, error) {
	rel := RelativeAffinities(t, filter)
	if len(rel) == 0 {
		return 0, fmt.Errorf("%w: task %d", types.ErrNoCompatibleAgents, t.ID())
	}

	return slices.Max(rel), nil
}

// Pressure returns the normalized deviation of the task's counters from a
// perfect rotation.
//
// Parameters:
//   - t: Task to evaluate
//   - filter: Agents to consider (nil means every compatible agent)
//
// Returns:
//   - float64: Pressure, 0 for a perfectly rotated task
//   - error: ErrNoCompatibleAgents if no compatible agent passes the filter
func Pressure(t *types.Task, filter types.AgentSet) (float64, error) {
	c := len(t.CompatibleIn(filter))
	if c == 0 {
		return 0, fmt.Errorf("%w: task %d", types.ErrNoCompatibleAgents, t.ID())
	}

	return float64(AffinitySum(t, filter)-IdealAffinitySum(c)) / float64(c), nil
}

// MissedAssignments returns the sum of floor(relative affinity) over the
// filtered agents: the number of agents left unused for at least a full rotation.
func MissedAssignments(t *types.Task, filter types.AgentSet) int {
	missed := 0
	for _, r := range RelativeAffinities(t, filter) {
		missed += int(math.Floor(r))
	}

	return missed
}

// TaskPressures returns the pressure of every task, in task order.
func TaskPressures(tasks []*types.Task, filter types.AgentSet) ([]float64, error) {
	out := make([]float64, len(tasks))
	for i, t := range tasks {
		p, err := Pressure(t, filter)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

// MaxPressure returns the largest task pressure. An empty task list yields 0.
func MaxPressure(tasks []*types.Task, filter types.AgentSet) (float64, error) {
	ps, err := TaskPressures(tasks, filter)
	if err != nil || len(ps) == 0 {
		return 0, err
	}

	return slices.Max(ps), nil
}

// MeanPressure returns the mean task pressure. An empty task list yields 0.
func MeanPressure(tasks []*types.Task, filter types.AgentSet) (float64, error) {
	ps, err := TaskPressures(tasks, filter)
	if err != nil || len(ps) == 0 {
		return 0, err
	}

	var sum float64
	for _, p := range ps {
		sum += p
	}

	return sum / float64(len(ps)), nil
}

// PercentilePressure returns the p-th percentile (0..100) of task pressure,
// interpolating linearly between the closest ranks.
func PercentilePressure(tasks []*types.Task, filter types.AgentSet, p float64) (float64, error) {
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %v out of range [0, 100]", p)
	}

	ps, err := TaskPressures(tasks, filter)
	if err != nil || len(ps) == 0 {
		return 0, err
	}

	return percentile(ps, p), nil
}

func percentile(values []float64, p float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TotalMissedAssignments sums MissedAssignments over tasks.
func TotalMissedAssignments(tasks []*types.Task, filter types.AgentSet) int {
	total := 0
	for _, t := range tasks {
		total += MissedAssignments(t, filter)
	}

	return total
}

// Reachable returns the tasks with at least one compatible agent in the filter.
func Reachable(tasks []*types.Task, filter types.AgentSet) []*types.Task {
	out := make([]*types.Task, 0, len(tasks))
	for _, t := range tasks {
		if len(t.CompatibleIn(filter)) > 0 {
			out = append(out, t)
		}
	}

	return out
}
