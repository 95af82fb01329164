package optimizer

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/internal/logger"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func TestGreedy_Optimize(t *testing.T) {
	t.Run("prefers dense pairs and respects capacity", func(t *testing.T) {
		p := &types.Problem{
			Agents: []types.Agent{{ID: 1, Capacity: 10}, {ID: 2, Capacity: 10}},
			Items: []types.Item{
				{Task: 1, Agents: []int{1, 2}, Weights: []int64{5, 5}, Scores: []int64{10, 1}},
				{Task: 2, Agents: []int{1, 2}, Weights: []int64{5, 5}, Scores: []int64{10, 1}},
				{Task: 3, Agents: []int{1, 2}, Weights: []int64{5, 5}, Scores: []int64{10, 1}},
			},
		}

		sol, err := NewGreedy(WithLogger(logger.NewTest(t))).Optimize(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, types.Assignment{1: {1, 2}, 2: {3}}, sol.Assignment)
		require.Equal(t, int64(21), sol.Objective)
		require.False(t, sol.TimedOut)
	})

	t.Run("skips non-positive scores", func(t *testing.T) {
		p := &types.Problem{
			Agents: []types.Agent{{ID: 1, Capacity: 10}},
			Items:  []types.Item{{Task: 1, Agents: []int{1}, Weights: []int64{1}, Scores: []int64{0}}},
		}

		sol, err := NewGreedy().Optimize(context.Background(), p)
		require.NoError(t, err)
		require.Empty(t, sol.Assignment)
		require.Zero(t, sol.Objective)
	})

	t.Run("moves to better agent when room frees up", func(t *testing.T) {
		p := &types.Problem{
			Agents: []types.Agent{{ID: 1, Capacity: 4}, {ID: 2, Capacity: 10}},
			Items: []types.Item{
				// density 3 at agent 2 beats density 2.5 at agent 1
				{Task: 1, Agents: []int{1, 2}, Weights: []int64{4, 2}, Scores: []int64{10, 6}},
			},
		}

		sol, err := NewGreedy().Optimize(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, types.Assignment{1: {1}}, sol.Assignment)
		require.Equal(t, int64(10), sol.Objective)
	})

	t.Run("deadline returns partial solution", func(t *testing.T) {
		p := &types.Problem{
			Agents: []types.Agent{{ID: 1, Capacity: 10}},
			Items:  []types.Item{{Task: 1, Agents: []int{1}, Weights: []int64{1}, Scores: []int64{5}}},
		}
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		sol, err := NewGreedy().Optimize(ctx, p)
		require.NoError(t, err)
		require.True(t, sol.TimedOut)
		require.Empty(t, sol.Assignment)
	})

	t.Run("cancellation fails", func(t *testing.T) {
		p := &types.Problem{
			Agents: []types.Agent{{ID: 1, Capacity: 10}},
			Items:  []types.Item{{Task: 1, Agents: []int{1}, Weights: []int64{1}, Scores: []int64{5}}},
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewGreedy().Optimize(ctx, p)
		require.ErrorIs(t, err, types.ErrOptimizerFailed)
	})

	t.Run("rejects malformed items", func(t *testing.T) {
		p := &types.Problem{
			Agents: []types.Agent{{ID: 1, Capacity: 10}},
			Items:  []types.Item{{Task: 1, Agents: []int{2}, Weights: []int64{1}, Scores: []int64{5}}},
		}
		_, err := NewGreedy().Optimize(context.Background(), p)
		require.ErrorIs(t, err, types.ErrOptimizerFailed)
	})
}

func TestGreedy_Feasibility(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	opt := NewGreedy()

	for i := 0; i < 100; i++ {
		tasks, agents := randomCycle(t, rng)
		scores := make([][]int64, len(tasks))
		for j, task := range tasks {
			scores[j] = task.ProfitVector(nil)
		}
		p, err := types.NewProblem(tasks, agents, scores)
		require.NoError(t, err)

		sol, err := opt.Optimize(context.Background(), p)
		require.NoError(t, err)
		require.NoError(t, sol.Assignment.Validate(tasks, agents))
		require.Equal(t, sol.Assignment.Profit(tasks), sol.Objective)
	}
}

func randomCycle(t *testing.T, rng *rand.Rand) ([]*types.Task, []types.Agent) {
	t.Helper()
	agents := make([]types.Agent, 2+rng.IntN(4))
	for i := range agents {
		agents[i] = types.Agent{ID: i + 1, Capacity: int64(4 + rng.IntN(12))}
	}

	tasks := make([]*types.Task, 3+rng.IntN(9))
	for i := range tasks {
		ids := []int{agents[rng.IntN(len(agents))].ID}
		for _, a := range agents {
			if a.ID != ids[0] && rng.IntN(2) == 0 {
				ids = append(ids, a.ID)
			}
		}
		weights := make([]int64, len(ids))
		profits := make([]int64, len(ids))
		for j := range ids {
			weights[j] = int64(1 + rng.IntN(5))
			profits[j] = int64(1 + rng.IntN(30))
		}
		task, err := types.NewTask(i+1, weights, profits, ids)
		require.NoError(t, err)
		for c := rng.IntN(5); c > 0; c-- {
			require.NoError(t, task.Update(ids[rng.IntN(len(ids))], nil))
		}
		tasks[i] = task
	}

	return tasks, agents
}
