package fairness

import (
	"slices"
)

// CycleStats summarises how many cycles pass until a task is given to the
// same agent again.
type CycleStats struct {
	Max  int
	Mean float64
	Min  int
}

// RepeatDistances evaluates one task's assignment row.
//
// The row holds one entry per cycle: an agent id, types.RowUnassigned or
// types.RowUnavailable. For each assigned entry the distance to the next
// entry with the same agent is recorded. If the agent never reappears the
// distance runs to the end of the row; the final entry contributes nothing
// because no cycle follows it.
//
// Returns:
//   - CycleStats: Max, mean and min distance; all equal to len(row) when no
//     distance was recorded
func RepeatDistances(row []int) CycleStats {
	var dists []int
	for i, agent := range row {
		if agent <= 0 {
			continue
		}

		rest := row[i+1:]
		if j := slices.Index(rest, agent); j >= 0 {
			dists = append(dists, j+1)
		} else if len(rest) > 0 {
			dists = append(dists, len(rest))
		}
	}

	if len(dists) == 0 {
		n := len(row)
		return CycleStats{Max: n, Mean: float64(n), Min: n}
	}

	sum := 0
	for _, d := range dists {
		sum += d
	}

	return CycleStats{
		Max:  slices.Max(dists),
		Mean: float64(sum) / float64(len(dists)),
		Min:  slices.Min(dists),
	}
}

// FullRotations returns how many complete rotations over all compatible
// agents a task's assignment row contains: the assignment count of the least
// used agent, or 0 if some compatible agent was never used.
func FullRotations(row []int, compatible int) int {
	counts := make(map[int]int)
	for _, agent := range row {
		if agent > 0 {
			counts[agent]++
		}
	}

	if len(counts) == 0 || len(counts) != compatible {
		return 0
	}

	least := -1
	for _, n := range counts {
		if least < 0 || n < least {
			least = n
		}
	}

	return least
}
