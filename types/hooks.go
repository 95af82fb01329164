package types

import "context"

// Hooks defines callbacks for simulator events.
//
// All hooks are optional and called synchronously on the simulator goroutine
// after the corresponding step completed. Hook errors are logged and never
// fail the run.
//
// Example:
//
//	hooks := &mcap.Hooks{
//	    OnCycleCompleted: func(ctx context.Context, rec *mcap.CycleRecord) error {
//	        fmt.Println(rec.Cycle, rec.PressureMax)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnCycleCompleted is called after a cycle record was emitted.
	OnCycleCompleted func(ctx context.Context, rec *CycleRecord) error

	// OnExchangeApplied is called when the exchange step applied at least one swap.
	OnExchangeApplied func(ctx context.Context, cycle int, swaps []Swap) error
}
