package report

import (
	"slices"

	"github.com/HelgeS/mcap-rotational-diversity/fairness"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// TaskRotation describes how one task moved between agents over a run.
type TaskRotation struct {
	Task          int
	Repeat        fairness.CycleStats
	FullRotations int
}

// RotationSummary aggregates TaskRotation over every task of a run.
type RotationSummary struct {
	Tasks        []TaskRotation
	MeanRepeat   float64
	MinRotations int
	RotatedTasks int
}

// Rotations rebuilds every task's assignment row from the records of a run
// and evaluates it.
//
// Parameters:
//   - records: Cycle records in cycle order
//   - compatible: Number of compatible agents per task id, taken before the run
//
// Returns:
//   - RotationSummary: Per-task results sorted by task id. MeanRepeat is the
//     mean of the per-task mean distances, MinRotations the smallest
//     FullRotations and RotatedTasks the number of tasks with at least one
//     full rotation.
func Rotations(records []*types.CycleRecord, compatible map[int]int) RotationSummary {
	ids := make([]int, 0, len(compatible))
	for id := range compatible {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var sum RotationSummary
	if len(ids) == 0 {
		return sum
	}

	var repeat float64
	for i, id := range ids {
		row := make([]int, len(records))
		for c, rec := range records {
			agent, ok := rec.TaskAgents[id]
			if !ok {
				agent = types.RowUnavailable
			}
			row[c] = agent
		}

		tr := TaskRotation{
			Task:          id,
			Repeat:        fairness.RepeatDistances(row),
			FullRotations: fairness.FullRotations(row, compatible[id]),
		}
		sum.Tasks = append(sum.Tasks, tr)

		repeat += tr.Repeat.Mean
		if i == 0 || tr.FullRotations < sum.MinRotations {
			sum.MinRotations = tr.FullRotations
		}
		if tr.FullRotations > 0 {
			sum.RotatedTasks++
		}
	}
	sum.MeanRepeat = repeat / float64(len(ids))

	return sum
}
