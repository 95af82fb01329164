package hooks

import (
	"context"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default used when no custom hooks are provided, so the
// simulator never checks for nil callbacks.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, *types.CycleRecord) error = (*NopHooks)(nil).OnCycleCompleted
	_ func(context.Context, int, []types.Swap) error  = (*NopHooks)(nil).OnExchangeApplied
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - *types.Hooks: Hooks with no-op implementations
func NewNop() *types.Hooks {
	h := &NopHooks{}
	return &types.Hooks{
		OnCycleCompleted:  h.OnCycleCompleted,
		OnExchangeApplied: h.OnExchangeApplied,
	}
}

// Fill returns a copy of hooks with missing callbacks replaced by no-ops.
// A nil argument yields NewNop().
func Fill(hooks *types.Hooks) *types.Hooks {
	out := NewNop()
	if hooks == nil {
		return out
	}
	if hooks.OnCycleCompleted != nil {
		out.OnCycleCompleted = hooks.OnCycleCompleted
	}
	if hooks.OnExchangeApplied != nil {
		out.OnExchangeApplied = hooks.OnExchangeApplied
	}

	return out
}

// OnCycleCompleted is a no-op implementation.
func (h *NopHooks) OnCycleCompleted(_ context.Context, _ *types.CycleRecord) error {
	return nil
}

// OnExchangeApplied is a no-op implementation.
func (h *NopHooks) OnExchangeApplied(_ context.Context, _ int, _ []types.Swap) error {
	return nil
}
