package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("wrapped errors keep identity", func(t *testing.T) {
		err := fmt.Errorf("%w: %w: agent 1", ErrInvariantViolation, ErrCapacityExceeded)
		require.True(t, errors.Is(err, ErrInvariantViolation))
		require.True(t, errors.Is(err, ErrCapacityExceeded))
		require.False(t, errors.Is(err, ErrDuplicateAssignment))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidTask,
			ErrInvalidAgent,
			ErrUnknownTask,
			ErrUnknownAgent,
			ErrIncompatibleAgent,
			ErrLastCompatibleAgent,
			ErrInvariantViolation,
			ErrCapacityExceeded,
			ErrDuplicateAssignment,
			ErrObjectiveBound,
			ErrNoCompatibleAgents,
			ErrInvalidScore,
			ErrUnknownStrategy,
			ErrOptimizerFailed,
			ErrSelectionFailed,
			ErrInvalidConfig,
			ErrScheduleRequired,
			ErrStrategyRequired,
			ErrScheduleExhausted,
			ErrUnreachableTask,
			ErrMalformedInstance,
		}

		seen := make(map[string]bool)
		for _, err := range allErrors {
			msg := err.Error()
			require.False(t, seen[msg], "duplicate error message: %s", msg)
			seen[msg] = true
		}
	})
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "Idle", PhaseIdle.String())
	require.Equal(t, "Negotiating", PhaseNegotiating.String())
	require.Equal(t, "Done", PhaseDone.String())
	require.Equal(t, "Unknown", Phase(99).String())
	require.Equal(t, "PendingRestore", BackupPendingRestore.String())
}

func TestAgent_Validate(t *testing.T) {
	require.NoError(t, Agent{ID: 1, Capacity: 1}.Validate())
	require.ErrorIs(t, Agent{ID: 0, Capacity: 1}.Validate(), ErrInvalidAgent)
	require.ErrorIs(t, Agent{ID: 1, Capacity: 0}.Validate(), ErrInvalidAgent)
	require.Equal(t, "agent(1,10).", Agent{ID: 1, Capacity: 10}.String())

	set := AgentSetOf([]Agent{{ID: 3}, {ID: 1}})
	require.Equal(t, []int{1, 3}, set.IDs())
	require.True(t, AgentSet(nil).Allows(5))
	require.False(t, set.Allows(5))
}
