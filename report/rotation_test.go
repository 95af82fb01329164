package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func TestRotations(t *testing.T) {
	t.Run("rows from records", func(t *testing.T) {
		records := []*types.CycleRecord{
			{Cycle: 1, TaskAgents: map[int]int{1: 1}},
			{Cycle: 2, TaskAgents: map[int]int{1: 2, 2: types.RowUnassigned}},
			{Cycle: 3, TaskAgents: map[int]int{1: 1, 2: 1}},
			{Cycle: 4, TaskAgents: map[int]int{1: 2, 2: 1}},
		}

		sum := Rotations(records, map[int]int{2: 2, 1: 2})
		require.Len(t, sum.Tasks, 2)

		first := sum.Tasks[0]
		require.Equal(t, 1, first.Task)
		require.Equal(t, 2, first.Repeat.Max)
		require.Equal(t, 1, first.Repeat.Min)
		require.InDelta(t, 5.0/3, first.Repeat.Mean, 1e-9)
		require.Equal(t, 2, first.FullRotations)

		second := sum.Tasks[1]
		require.Equal(t, 2, second.Task)
		require.InDelta(t, 1.0, second.Repeat.Mean, 1e-9)
		require.Zero(t, second.FullRotations, "agent 2 never used")

		require.InDelta(t, 4.0/3, sum.MeanRepeat, 1e-9)
		require.Zero(t, sum.MinRotations)
		require.Equal(t, 1, sum.RotatedTasks)
	})

	t.Run("no tasks", func(t *testing.T) {
		sum := Rotations(nil, nil)
		require.Empty(t, sum.Tasks)
		require.Zero(t, sum.MeanRepeat)
	})
}
