package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func newTask(t *testing.T, id int) *types.Task {
	t.Helper()

	task, err := types.NewTask(id, []int64{5, 5}, []int64{10, 1}, []int{1, 2})
	require.NoError(t, err)

	return task
}

func TestAssertRecordConsistent_Passes(t *testing.T) {
	tasks := []*types.Task{newTask(t, 1), newTask(t, 2), newTask(t, 3)}
	agents := []types.Agent{{ID: 1, Capacity: 10}, {ID: 2, Capacity: 10}}

	rec := &types.CycleRecord{
		Cycle:       1,
		Profit:      11,
		Affinity:    2,
		Assigned:    2.0 / 3.0,
		Utilization: 0.5,
		Assignment:  types.Assignment{1: {1}, 2: {2}},
		TaskAgents:  map[int]int{1: 1, 2: 2, 3: types.RowUnavailable},
	}
	AssertRecordConsistent(t, rec, tasks, agents)
}

func TestAssertAffinityCounters_Passes(t *testing.T) {
	tasks := []*types.Task{newTask(t, 1), newTask(t, 2)}
	require.NoError(t, tasks[0].Update(2, nil))
	require.NoError(t, tasks[1].Update(types.Unassigned, nil))

	AssertAffinityCounters(t, tasks)
}

func TestGenerateSchedule(t *testing.T) {
	a := GenerateSchedule(t, GenerateConfig{Seed: 3})
	b := GenerateSchedule(t, GenerateConfig{Seed: 3})

	require.Equal(t, 6, a.Cycles())
	require.Len(t, a.Tasks(), 8)
	require.Len(t, a.Agents(), 3)

	for c := 1; c <= a.Cycles(); c++ {
		ta, aa, err := a.Availability(c)
		require.NoError(t, err)
		tb, ab, err := b.Availability(c)
		require.NoError(t, err)

		require.Equal(t, ta, tb)
		require.Equal(t, aa, ab)
		require.Equal(t, []int{1, 2, 3}, aa)
	}

	for i, task := range a.Tasks() {
		require.NotZero(t, task.NumAgents())
		require.Equal(t, task.WeightVector(nil), b.Tasks()[i].WeightVector(nil))
	}
}
