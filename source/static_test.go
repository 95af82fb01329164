package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func newTasks(t *testing.T) []*types.Task {
	t.Helper()
	t1, err := types.NewTask(1, []int64{5, 5}, []int64{10, 1}, []int{1, 2})
	require.NoError(t, err)
	t2, err := types.NewTask(2, []int64{3}, []int64{4}, []int{2})
	require.NoError(t, err)

	return []*types.Task{t1, t2}
}

var agents = []types.Agent{{ID: 1, Capacity: 10}, {ID: 2, Capacity: 10}}

func TestStatic_Availability(t *testing.T) {
	t.Run("returns cycle lists", func(t *testing.T) {
		src, err := NewStatic("demo", newTasks(t), agents,
			[][]int{{1, 2}, {1}}, [][]int{{1, 2}, {2}})
		require.NoError(t, err)

		require.Equal(t, "demo", src.Name())
		require.Equal(t, 2, src.Cycles())

		tasks, ags, err := src.Availability(2)
		require.NoError(t, err)
		require.Equal(t, []int{1}, tasks)
		require.Equal(t, []int{2}, ags)
	})

	t.Run("past last cycle is exhausted", func(t *testing.T) {
		src, err := NewStatic("demo", newTasks(t), agents, [][]int{{1}}, [][]int{{1}})
		require.NoError(t, err)

		_, _, err = src.Availability(2)
		require.ErrorIs(t, err, types.ErrScheduleExhausted)

		_, _, err = src.Availability(0)
		require.ErrorIs(t, err, types.ErrInvalidSchedule)
	})

	t.Run("does not expose internal slices", func(t *testing.T) {
		src, err := NewStatic("demo", newTasks(t), agents, [][]int{{1, 2}}, [][]int{{1, 2}})
		require.NoError(t, err)

		tasks, _, err := src.Availability(1)
		require.NoError(t, err)
		tasks[0] = 99

		again, _, err := src.Availability(1)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2}, again)
	})
}

func TestNewStatic_Validation(t *testing.T) {
	tests := []struct {
		name       string
		agents     []types.Agent
		taskAvail  [][]int
		agentAvail [][]int
		wantErr    error
	}{
		{"mismatched cycles", agents, [][]int{{1}}, nil, types.ErrInvalidSchedule},
		{"unknown task", agents, [][]int{{7}}, [][]int{{1}}, types.ErrInvalidSchedule},
		{"unknown agent", agents, [][]int{{1}}, [][]int{{3}}, types.ErrInvalidSchedule},
		{"duplicate task", agents, [][]int{{1, 1}}, [][]int{{1}}, types.ErrInvalidSchedule},
		{"duplicate agent declaration", []types.Agent{{ID: 1, Capacity: 1}, {ID: 1, Capacity: 2}, {ID: 2, Capacity: 1}},
			nil, nil, types.ErrInvalidAgent},
		{"zero capacity", []types.Agent{{ID: 1, Capacity: 0}, {ID: 2, Capacity: 1}}, nil, nil, types.ErrInvalidAgent},
		{"undeclared compatible agent", []types.Agent{{ID: 1, Capacity: 10}}, nil, nil, types.ErrInvalidTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStatic("demo", newTasks(t), tt.agents, tt.taskAvail, tt.agentAvail)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatic_Append(t *testing.T) {
	src, err := NewStatic("demo", newTasks(t), agents, nil, nil)
	require.NoError(t, err)
	require.Zero(t, src.Cycles())

	require.NoError(t, src.Append([]int{2}, []int{2}))
	require.Equal(t, 1, src.Cycles())
	require.ErrorIs(t, src.Append([]int{3}, []int{2}), types.ErrInvalidSchedule)
	require.Equal(t, 1, src.Cycles())
}

func TestStatic_Clone(t *testing.T) {
	src, err := NewStatic("demo", newTasks(t), agents, [][]int{{1, 2}}, [][]int{{1, 2}})
	require.NoError(t, err)

	clone := src.Clone()
	require.NoError(t, clone.Tasks()[0].Update(1, nil))

	require.Empty(t, src.Tasks()[0].History())
	require.Equal(t, []int{1}, clone.Tasks()[0].History())
}
