package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnCycleCompleted)
	require.NotNil(t, hooks.OnExchangeApplied)
	require.NoError(t, hooks.OnCycleCompleted(context.Background(), &types.CycleRecord{Cycle: 1}))
	require.NoError(t, hooks.OnExchangeApplied(context.Background(), 1, []types.Swap{{SourceTask: 1}}))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		hooks := Fill(nil)
		require.NotNil(t, hooks.OnCycleCompleted)
		require.NotNil(t, hooks.OnExchangeApplied)
	})

	t.Run("keeps custom callbacks", func(t *testing.T) {
		errHook := errors.New("hook")
		hooks := Fill(&types.Hooks{
			OnCycleCompleted: func(context.Context, *types.CycleRecord) error { return errHook },
		})

		require.ErrorIs(t, hooks.OnCycleCompleted(context.Background(), nil), errHook)
		require.NoError(t, hooks.OnExchangeApplied(context.Background(), 1, nil))
	})
}
