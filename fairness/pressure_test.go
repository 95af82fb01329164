package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func newTask(t *testing.T, id int, agents ...int) *types.Task {
	t.Helper()
	weights := make([]int64, len(agents))
	profits := make([]int64, len(agents))
	for i := range agents {
		weights[i] = 1
		profits[i] = 1
	}
	task, err := types.NewTask(id, weights, profits, agents)
	require.NoError(t, err)

	return task
}

func TestPressure(t *testing.T) {
	t.Run("zero after full rotation", func(t *testing.T) {
		for c := 1; c <= 6; c++ {
			agents := make([]int, c)
			for i := range agents {
				agents[i] = i + 1
			}
			task := newTask(t, 1, agents...)
			for _, a := range agents {
				require.NoError(t, task.Update(a, nil))
			}

			p, err := Pressure(task, nil)
			require.NoError(t, err)
			assert.InDelta(t, 0.0, p, 1e-9, "c=%d", c)
		}
	})

	t.Run("grows while agents are skipped", func(t *testing.T) {
		task := newTask(t, 1, 1, 2, 3)
		for i := 0; i < 3; i++ {
			require.NoError(t, task.Update(1, nil))
		}
		// counters: 1, 4, 4 -> (9 - 6) / 3
		p, err := Pressure(task, nil)
		require.NoError(t, err)
		require.InDelta(t, 1.0, p, 1e-9)
	})

	t.Run("respects filter", func(t *testing.T) {
		task := newTask(t, 1, 1, 2, 3)
		require.NoError(t, task.Update(types.Unassigned, types.NewAgentSet(1, 2)))
		// filtered counters: 2, 2 -> (4 - 3) / 2
		p, err := Pressure(task, types.NewAgentSet(1, 2))
		require.NoError(t, err)
		require.InDelta(t, 0.5, p, 1e-9)
	})

	t.Run("no compatible agents", func(t *testing.T) {
		task := newTask(t, 1, 1, 2)
		_, err := Pressure(task, types.NewAgentSet(5))
		require.ErrorIs(t, err, types.ErrNoCompatibleAgents)
	})
}

func TestRelativeAffinitiesAndMissed(t *testing.T) {
	task := newTask(t, 1, 1, 2)
	for i := 0; i < 3; i++ {
		require.NoError(t, task.Update(1, nil))
	}
	// counters: 1, 4
	require.Equal(t, []float64{0.5, 2}, RelativeAffinities(task, nil))
	require.Equal(t, 2, MissedAssignments(task, nil))
	require.Equal(t, int64(5), AffinitySum(task, nil))
	require.Equal(t, int64(3), IdealAffinitySum(2))

	maxRel, err := MaxRelativeAffinity(task, nil)
	require.NoError(t, err)
	require.InDelta(t, 2.0, maxRel, 1e-9)

	_, err = MaxRelativeAffinity(task, types.NewAgentSet())
	require.ErrorIs(t, err, types.ErrNoCompatibleAgents)
}

func TestReducers(t *testing.T) {
	fair := newTask(t, 1, 1, 2)
	require.NoError(t, fair.Update(1, nil))
	require.NoError(t, fair.Update(2, nil))

	skewed := newTask(t, 2, 1, 2)
	for i := 0; i < 4; i++ {
		require.NoError(t, skewed.Update(1, nil))
	}
	tasks := []*types.Task{fair, skewed}

	ps, err := TaskPressures(tasks, nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 1.5}, ps, 1e-9)

	maxP, err := MaxPressure(tasks, nil)
	require.NoError(t, err)
	require.InDelta(t, 1.5, maxP, 1e-9)

	meanP, err := MeanPressure(tasks, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.75, meanP, 1e-9)

	p50, err := PercentilePressure(tasks, nil, 50)
	require.NoError(t, err)
	require.InDelta(t, 0.75, p50, 1e-9)

	p100, err := PercentilePressure(tasks, nil, 100)
	require.NoError(t, err)
	require.InDelta(t, 1.5, p100, 1e-9)

	_, err = PercentilePressure(tasks, nil, 101)
	require.Error(t, err)

	require.Equal(t, 3, TotalMissedAssignments(tasks, nil))

	empty, err := MaxPressure(nil, nil)
	require.NoError(t, err)
	require.Zero(t, empty)

	_, err = MeanPressure(tasks, types.NewAgentSet(9))
	require.ErrorIs(t, err, types.ErrNoCompatibleAgents)

	require.Len(t, Reachable(tasks, types.NewAgentSet(9)), 0)
	require.Len(t, Reachable(tasks, types.NewAgentSet(2)), 2)
}
