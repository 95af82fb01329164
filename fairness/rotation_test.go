package fairness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func TestRepeatDistances(t *testing.T) {
	t.Run("strict rotation", func(t *testing.T) {
		stats := RepeatDistances([]int{1, 2, 3, 1, 2, 3})
		require.Equal(t, 3, stats.Max)
		// distances: 3, 3, 3, 2, 1 (last entry has nothing after it)
		require.Equal(t, 1, stats.Min)
		require.InDelta(t, 12.0/5.0, stats.Mean, 1e-9)
	})

	t.Run("skips unassigned and unavailable", func(t *testing.T) {
		stats := RepeatDistances([]int{1, types.RowUnassigned, types.RowUnavailable, 1})
		require.Equal(t, CycleStats{Max: 3, Mean: 3, Min: 3}, stats)
	})

	t.Run("never assigned", func(t *testing.T) {
		stats := RepeatDistances([]int{0, 0, -1})
		require.Equal(t, CycleStats{Max: 3, Mean: 3, Min: 3}, stats)
	})
}

func TestFullRotations(t *testing.T) {
	require.Equal(t, 2, FullRotations([]int{1, 2, 1, 2, 1}, 2))
	require.Equal(t, 0, FullRotations([]int{1, 1, 1}, 2))
	require.Equal(t, 0, FullRotations([]int{0, -1}, 1))
	require.Equal(t, 1, FullRotations([]int{3, 0, 2, -1, 1}, 3))
}
